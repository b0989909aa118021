// Package config loads runtime configuration for the tasklist CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-t int      request timeout (seconds)
//	-s string   session database path
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or integer
// nanoseconds. Fields missing from the file keep their previous value:
//
//	{
//	  "server_base_url": "http://tasklist.test/api",
//	  "request_timeout": "10s",
//	  "session_db": "session.db",
//	  "log_level": "info"
//	}
package config
