// Package config handles loading and validating PiPlant Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The app section is kept as a raw value tree. It is the application
// document that receives live package instances once the resolution pass
// has run.
//
// Security Considerations:
//   - Sensitive values (MQTT password, InfluxDB and LIFX tokens) should be set
//     via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.Name)
package config
