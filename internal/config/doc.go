// Package config loads and validates the dashboard configuration.
//
// # Configuration Sources
//
// Values are resolved in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file (config.yaml, configs/config.yaml, or MORT_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables use the MORT_ prefix followed by the section:
//
//	MORT_SERVER_PORT=8050
//	MORT_DATA_DIR=/srv/mortality
//	MORT_ANALYSIS_POPULATION_YEAR=2020
//	MORT_ANALYSIS_MIN_POPULATION=10000
//	MORT_LOGGING_LEVEL=debug
//
// # Paths
//
// Input workbooks are named relative to the data directory:
//
//	paths, err := cfg.GetPaths()
//	err = paths.ValidateRequiredFiles()
//
// The boundary document is optional; a missing file only disables the map.
package config
