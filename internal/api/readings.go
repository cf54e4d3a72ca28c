package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

const (
	defaultReadingsLimit = 100
	maxReadingsLimit     = 1000
)

// ReadingList is the body of GET /readings.
type ReadingList struct {
	Readings []plant.Reading `json:"readings"`
	Count    int             `json:"count"`
}

// handleListReadings returns stored readings, newest first.
//
// Query parameters: sensor, type, since (a duration such as "2h" or an
// RFC 3339 time) and limit (default 100, at most 1000).
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeUnavailable(w, "no store configured")
		return
	}

	q := r.URL.Query()
	query := plant.Query{
		Sensor: q.Get("sensor"),
		Type:   plant.SensorType(q.Get("type")),
		Limit:  defaultReadingsLimit,
	}
	if query.Type != "" && !query.Type.Valid() {
		writeBadRequest(w, "unknown sensor type "+strconv.Quote(string(query.Type)))
		return
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxReadingsLimit {
			writeBadRequest(w, "limit must be between 1 and "+strconv.Itoa(maxReadingsLimit))
			return
		}
		query.Limit = n
	}
	if raw := q.Get("since"); raw != "" {
		since, err := parseSince(raw, time.Now())
		if err != nil {
			writeBadRequest(w, "since: "+err.Error())
			return
		}
		query.Since = since
	}

	readings, err := s.store.Readings(r.Context(), query)
	if err != nil {
		s.logger.Error("querying readings", "error", err)
		writeInternalError(w, "failed to query readings")
		return
	}
	if readings == nil {
		readings = []plant.Reading{}
	}
	writeJSON(w, http.StatusOK, ReadingList{Readings: readings, Count: len(readings)})
}

// parseSince accepts an RFC 3339 time or a human duration measured back
// from now.
func parseSince(raw string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := component.ParseDuration(raw)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d), nil
}
