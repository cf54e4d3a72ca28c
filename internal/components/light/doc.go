// Package light provides switchable lights and light groups.
//
// Registered module paths:
//
//	light.device.mock                     in-memory bulb
//	light.device_group.mock               group over light.device entries
//	light.device_group.lifx.http_group    LIFX group driven through the LIFX HTTP API
//
// Groups share one behaviour, implemented by Group: member state is cached
// for query_interval, every operation is retried up to max_retries times
// retry_interval apart, and requests that would not change the cached state
// are skipped.
package light
