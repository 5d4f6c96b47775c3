// Package config defines configuration for the geofetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (GEOFETCH_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    Endpoint    string
//	    Credentials string
//	    Collection  string
//	    Band        string
//	    Regions     string
//	    RegionKey   string
//	    Years       []int
//	    Frequency   string
//	    Scale       int
//	    CRS         string
//	    Output      string
//	    Workers     int
//	    Progress    bool
//	    Retry       RetryConfig
//	}
//
//	type RetryConfig struct {
//	    Attempts int
//	    Backoff  time.Duration
//	}
package config
