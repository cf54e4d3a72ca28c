package api

import (
	"net/http"
	"runtime"
	"time"
)

const bytesPerMB = 1024 * 1024

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	Registry      RegistryMetrics `json:"registry"`
	Monitor       *MonitorMetrics `json:"monitor,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// RegistryMetrics contains package registry statistics.
type RegistryMetrics struct {
	State     string `json:"state"`
	Entries   int    `json:"entries"`
	Instances int    `json:"instances"`
}

// MonitorMetrics contains polling statistics.
type MonitorMetrics struct {
	Polls               int               `json:"polls"`
	PollIntervalSeconds float64           `json:"poll_interval_seconds"`
	LastPoll            string            `json:"last_poll,omitempty"`
	LastReadings        int               `json:"last_readings"`
	LastFailures        map[string]string `json:"last_failures,omitempty"`
}

// handleMetrics returns runtime, registry and monitor metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	// Collect runtime stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / bytesPerMB,
			MemoryTotalMB: float64(memStats.TotalAlloc) / bytesPerMB,
			NumGC:         memStats.NumGC,
		},
		Registry: RegistryMetrics{
			State:   s.registry.State().String(),
			Entries: len(s.registry.Entries()),
		},
	}

	if in, err := s.registry.Instances(); err == nil {
		metrics.Registry.Instances = in.Len()
	}

	if s.monitor != nil {
		st := s.monitor.Status()
		mm := &MonitorMetrics{
			Polls:               st.Polls,
			PollIntervalSeconds: s.monitor.PollInterval().Seconds(),
			LastReadings:        st.LastReadings,
			LastFailures:        st.LastFailures,
		}
		if !st.LastPoll.IsZero() {
			mm.LastPoll = st.LastPoll.UTC().Format(time.RFC3339)
		}
		metrics.Monitor = mm
	}

	writeJSON(w, http.StatusOK, metrics)
}
