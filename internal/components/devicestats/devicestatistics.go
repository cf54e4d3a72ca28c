package devicestats

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/sysfs"
	"golang.org/x/sys/unix"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

const (
	// DefaultThrottleTemperature is where the Raspberry Pi firmware starts
	// soft-throttling the ARM cores.
	DefaultThrottleTemperature = 82.0

	bytesPerMB            = 1024 * 1024
	kilobytesPerMB        = 1024
	millidegreesPerDegree = 1000.0
)

// DeviceStatistics reads host statistics from procfs and sysfs.
//
// Thread Safety: safe for concurrent use. CPU usage is the busy share of
// CPU time since the previous Read (since boot on the first one).
type DeviceStatistics struct {
	name       string
	proc       procfs.FS
	sys        sysfs.FS
	diskPath   string
	throttleAt float64
	now        func() time.Time

	mu      sync.Mutex
	prevCPU *procfs.CPUStat
}

// Name returns the sensor name.
func (d *DeviceStatistics) Name() string { return d.name }

// Type returns plant.SensorTypeDevice.
func (d *DeviceStatistics) Type() plant.SensorType { return plant.SensorTypeDevice }

// Read collects every statistic. Missing thermal zones are skipped; any
// other failure fails the read.
func (d *DeviceStatistics) Read(context.Context) ([]plant.Reading, error) {
	now := d.now()
	var out []plant.Reading
	add := func(quantity, unit string, v float64) {
		out = append(out, plant.Reading{Sensor: d.name, Type: plant.SensorTypeDevice, Quantity: quantity, Value: v, Unit: unit, Time: now})
	}

	if cpuTemp, gpuTemp, err := d.temperatures(); err == nil {
		if cpuTemp != nil {
			add(plant.QuantityCPUTemperature, plant.UnitCelsius, *cpuTemp)
			add(plant.QuantityCPUThrottle, plant.UnitBoolean, plant.BoolValue(*cpuTemp >= d.throttleAt))
		}
		if gpuTemp != nil {
			add(plant.QuantityGPUTemperature, plant.UnitCelsius, *gpuTemp)
		}
	}

	usage, err := d.cpuUsage()
	if err != nil {
		return nil, err
	}
	add(plant.QuantityCPUUsage, plant.UnitPercent, usage)

	load, err := d.proc.LoadAvg()
	if err != nil {
		return nil, fmt.Errorf("%w: loadavg: %w", plant.ErrSensorUnavailable, err)
	}
	add(plant.QuantityLoad1, "", load.Load1)

	mem, err := d.proc.Meminfo()
	if err != nil {
		return nil, fmt.Errorf("%w: meminfo: %w", plant.ErrSensorUnavailable, err)
	}
	if mem.MemTotal != nil && mem.MemAvailable != nil {
		total := float64(*mem.MemTotal) / kilobytesPerMB
		avail := float64(*mem.MemAvailable) / kilobytesPerMB
		add(plant.QuantityMemoryUsage, plant.UnitMegabytes, total-avail)
		add(plant.QuantityMemoryTotal, plant.UnitMegabytes, total)
	}

	var st unix.Statfs_t
	if err := unix.Statfs(d.diskPath, &st); err != nil {
		return nil, fmt.Errorf("%w: statfs %s: %w", plant.ErrSensorUnavailable, d.diskPath, err)
	}
	bsize := uint64(st.Bsize) //nolint:gosec // block size is positive
	total := float64(st.Blocks*bsize) / bytesPerMB
	free := float64(st.Bavail*bsize) / bytesPerMB
	add(plant.QuantityDiskUsage, plant.UnitMegabytes, total-free)
	add(plant.QuantityDiskTotal, plant.UnitMegabytes, total)

	return out, nil
}

// temperatures picks the CPU zone (type containing "cpu", else the first
// zone) and a zone whose type contains "gpu".
func (d *DeviceStatistics) temperatures() (cpu, gpu *float64, err error) {
	zones, err := d.sys.ClassThermalZoneStats()
	if err != nil {
		return nil, nil, err
	}
	for i, z := range zones {
		celsius := float64(z.Temp) / millidegreesPerDegree
		zoneType := strings.ToLower(z.Type)
		switch {
		case strings.Contains(zoneType, "gpu"):
			gpu = &celsius
		case strings.Contains(zoneType, "cpu") || (i == 0 && cpu == nil):
			cpu = &celsius
		}
	}
	return cpu, gpu, nil
}

func (d *DeviceStatistics) cpuUsage() (float64, error) {
	stat, err := d.proc.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat: %w", plant.ErrSensorUnavailable, err)
	}
	cur := stat.CPUTotal

	d.mu.Lock()
	prev := d.prevCPU
	d.prevCPU = &cur
	d.mu.Unlock()

	idle, total := idleAndTotal(cur)
	if prev != nil {
		prevIdle, prevTotal := idleAndTotal(*prev)
		idle -= prevIdle
		total -= prevTotal
	}
	if total <= 0 {
		return 0, nil
	}
	return (total - idle) / total * 100, nil
}

func idleAndTotal(s procfs.CPUStat) (idle, total float64) {
	idle = s.Idle + s.Iowait
	total = idle + s.User + s.Nice + s.System + s.IRQ + s.SoftIRQ + s.Steal
	return idle, total
}

// newDeviceStatistics builds a DeviceStatistics from kwargs:
//
//	name                  sensor name (default "DeviceStatistics")
//	proc_root, sys_root   mount points (default /proc, /sys)
//	disk_path             filesystem to report (default /)
//	throttle_temperature  °C (default 82)
func newDeviceStatistics(_ context.Context, args component.Args) (any, error) {
	name := args.String("name", "DeviceStatistics")
	procRoot := args.String("proc_root", procfs.DefaultMountPoint)
	sysRoot := args.String("sys_root", sysfs.DefaultMountPoint)
	diskPath := args.String("disk_path", "/")
	throttleAt := args.Float("throttle_temperature", DefaultThrottleTemperature)
	poll := args.Duration("poll_interval", 0)
	if err := args.Err(); err != nil {
		return nil, err
	}

	proc, err := procfs.NewFS(procRoot)
	if err != nil {
		return nil, fmt.Errorf("devicestatistics %s: %w", name, err)
	}
	sys, err := sysfs.NewFS(sysRoot)
	if err != nil {
		return nil, fmt.Errorf("devicestatistics %s: %w", name, err)
	}

	d := &DeviceStatistics{
		name:       name,
		proc:       proc,
		sys:        sys,
		diskPath:   diskPath,
		throttleAt: throttleAt,
		now:        time.Now,
	}
	if poll > 0 {
		return plant.NewPolled(d, poll), nil
	}
	return d, nil
}
