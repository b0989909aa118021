package config

import "time"

// Config holds runtime settings for the tasklist CLI.
//
// Fields:
//   - ServerBaseURL: base origin of the REST API; endpoint paths are appended.
//   - RequestTimeout: upper bound for a single API round-trip.
//   - SessionDB: SQLite file holding the stored credential (":memory:" keeps it in-process).
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	SessionDB      string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://tasklist.test/api"
	c.RequestTimeout = 10 * time.Second
	c.SessionDB = "session.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
