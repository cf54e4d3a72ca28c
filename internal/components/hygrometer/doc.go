// Package hygrometer provides soil moisture sensors.
//
// Registered module paths:
//
//	sensor.hygrometer.aideepen.capacitivehygrometer   capacitive probe on an MCP3008 ADC (Linux IIO)
//	sensor.hygrometer.mock                            random moisture, for offline runs
//
// Every hygrometer reports two readings per read: moisture as a percentage
// and a dry flag set when moisture is at or below the configured
// dry_value_percentage.
package hygrometer
