// Package devicestats reports the health of the controller itself.
//
// Registered module paths:
//
//	sensor.device.raspberrypi.devicestatistics   procfs/sysfs backed statistics
//	sensor.device.mock                           random statistics
//
// Reported quantities: cpu_temperature and gpu_temperature (°C, when a
// matching thermal zone exists), cpu_throttle (1 at or above
// throttle_temperature), cpu_usage (%), load_1m, memory_usage and
// memory_total (MB), disk_usage and disk_total (MB).
package devicestats
