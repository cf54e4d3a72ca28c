package devicestats

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// fakeHost lays out the procfs and sysfs files the sensor reads.
func fakeHost(t *testing.T) (procRoot, sysRoot string) {
	t.Helper()
	procRoot = filepath.Join(t.TempDir(), "proc")
	sysRoot = filepath.Join(t.TempDir(), "sys")

	writeStat(t, procRoot, "cpu  100 0 100 800 0 0 0 0 0 0")
	writeFile(t, filepath.Join(procRoot, "meminfo"),
		"MemTotal:        8000000 kB\nMemFree:         1000000 kB\nMemAvailable:    4000000 kB\n")
	writeFile(t, filepath.Join(procRoot, "loadavg"), "0.52 0.58 0.59 1/431 12345\n")

	zone0 := filepath.Join(sysRoot, "class", "thermal", "thermal_zone0")
	writeFile(t, filepath.Join(zone0, "type"), "cpu-thermal\n")
	writeFile(t, filepath.Join(zone0, "temp"), "48312\n")
	writeFile(t, filepath.Join(zone0, "policy"), "step_wise\n")
	zone1 := filepath.Join(sysRoot, "class", "thermal", "thermal_zone1")
	writeFile(t, filepath.Join(zone1, "type"), "gpu-thermal\n")
	writeFile(t, filepath.Join(zone1, "temp"), "45000\n")
	writeFile(t, filepath.Join(zone1, "policy"), "step_wise\n")
	return procRoot, sysRoot
}

func writeStat(t *testing.T, procRoot, cpuLine string) {
	t.Helper()
	writeFile(t, filepath.Join(procRoot, "stat"), cpuLine+"\ncpu0 "+cpuLine[5:]+"\nbtime 1700000000\n")
}

func byQuantity(readings []plant.Reading) map[string]float64 {
	out := make(map[string]float64, len(readings))
	for _, r := range readings {
		out[r.Quantity] = r.Value
	}
	return out
}

func TestDeviceStatistics_Read(t *testing.T) {
	procRoot, sysRoot := fakeHost(t)
	obj, err := newDeviceStatistics(context.Background(), component.ArgsFrom(map[string]any{
		"proc_root":            procRoot,
		"sys_root":             sysRoot,
		"disk_path":            t.TempDir(),
		"throttle_temperature": 45,
	}))
	if err != nil {
		t.Fatalf("newDeviceStatistics() error = %v", err)
	}
	d := obj.(*DeviceStatistics)
	if d.Name() != "DeviceStatistics" || d.Type() != plant.SensorTypeDevice {
		t.Errorf("identity = %s/%s", d.Name(), d.Type())
	}

	readings, err := d.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for _, r := range readings {
		if err := r.Validate(); err != nil {
			t.Errorf("invalid reading: %v", err)
		}
	}
	got := byQuantity(readings)

	checks := map[string]float64{
		plant.QuantityCPUTemperature: 48.312,
		plant.QuantityGPUTemperature: 45,
		plant.QuantityCPUThrottle:    1,
		plant.QuantityCPUUsage:       20,
		plant.QuantityLoad1:          0.52,
		plant.QuantityMemoryTotal:    8000000.0 / 1024,
		plant.QuantityMemoryUsage:    4000000.0 / 1024,
	}
	for q, want := range checks {
		if math.Abs(got[q]-want) > 1e-9 {
			t.Errorf("%s = %v, want %v", q, got[q], want)
		}
	}
	if got[plant.QuantityDiskTotal] <= 0 || got[plant.QuantityDiskUsage] > got[plant.QuantityDiskTotal] {
		t.Errorf("disk = %v / %v", got[plant.QuantityDiskUsage], got[plant.QuantityDiskTotal])
	}

	// The second read reports usage over the interval only.
	writeStat(t, procRoot, "cpu  300 0 100 1000 0 0 0 0 0 0")
	readings, err = d.Read(context.Background())
	if err != nil {
		t.Fatalf("second Read() error = %v", err)
	}
	if usage := byQuantity(readings)[plant.QuantityCPUUsage]; math.Abs(usage-50) > 1e-9 {
		t.Errorf("interval cpu_usage = %v, want 50", usage)
	}
}

func TestDeviceStatistics_NoThermalZones(t *testing.T) {
	procRoot, _ := fakeHost(t)
	obj, err := newDeviceStatistics(context.Background(), component.ArgsFrom(map[string]any{
		"proc_root": procRoot,
		"sys_root":  t.TempDir(),
		"disk_path": t.TempDir(),
	}))
	if err != nil {
		t.Fatal(err)
	}
	readings, err := obj.(plant.Sensor).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	got := byQuantity(readings)
	if _, ok := got[plant.QuantityCPUTemperature]; ok {
		t.Error("cpu_temperature reported without thermal zones")
	}
	if _, ok := got[plant.QuantityCPUUsage]; !ok {
		t.Error("cpu_usage missing")
	}
}

func TestDeviceStatistics_MissingProc(t *testing.T) {
	_, sysRoot := fakeHost(t)
	obj, err := newDeviceStatistics(context.Background(), component.ArgsFrom(map[string]any{
		"proc_root": t.TempDir(),
		"sys_root":  sysRoot,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := obj.(plant.Sensor).Read(context.Background()); err == nil {
		t.Error("Read() expected error with empty proc root")
	}
}

func TestNewDeviceStatistics_PollInterval(t *testing.T) {
	procRoot, sysRoot := fakeHost(t)
	obj, err := newDeviceStatistics(context.Background(), component.ArgsFrom(map[string]any{
		"proc_root":     procRoot,
		"sys_root":      sysRoot,
		"poll_interval": "1m",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := obj.(*plant.Polled); !ok {
		t.Errorf("instance = %T, want *plant.Polled", obj)
	}
}

func TestMock(t *testing.T) {
	obj, err := newMock(context.Background(), component.ArgsFrom(nil))
	if err != nil {
		t.Fatal(err)
	}
	readings, err := obj.(plant.Sensor).Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := byQuantity(readings)
	if got[plant.QuantityMemoryTotal] != mockMemoryTotal || got[plant.QuantityDiskTotal] != mockDiskTotal {
		t.Errorf("totals = %v / %v", got[plant.QuantityMemoryTotal], got[plant.QuantityDiskTotal])
	}
	if got[plant.QuantityMemoryUsage] >= mockMemoryTotal {
		t.Errorf("memory_usage %v not below total", got[plant.QuantityMemoryUsage])
	}
	wantThrottle := plant.BoolValue(got[plant.QuantityCPUTemperature] >= DefaultThrottleTemperature)
	if got[plant.QuantityCPUThrottle] != wantThrottle {
		t.Errorf("cpu_throttle = %v for %v°C", got[plant.QuantityCPUThrottle], got[plant.QuantityCPUTemperature])
	}
}
