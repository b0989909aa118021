package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/tasklist/internal/flagx"
	"github.com/dmitrijs2005/tasklist/internal/timex"
	"gopkg.in/yaml.v3"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from "empty" so a partial file only overrides what it names.
// Files ending in .yaml or .yml are read as YAML with the same keys.
type JsonConfig struct {
	ServerBaseURL  *string         `json:"server_base_url" yaml:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SessionDB      *string         `json:"session_db" yaml:"session_db"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
}

func decodeConfigFile(name string, data []byte, jc *JsonConfig) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, jc)
	default:
		return json.Unmarshal(data, jc)
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Without such a flag it does nothing. Read or decode errors
// panic; the caller decides whether to recover.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := decodeConfigFile(jsonConfigFile, data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionDB != nil {
		cfg.SessionDB = *jc.SessionDB
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
