// Package utility holds the cached config loader and the host-side tool
// client used to drive the tool server from an agent or the command line.
package utility

import (
	"os"
	"strings"
	"sync"

	"gopkg.in/ini.v1"

	"jira-bridge/internal/config"
)

var (
	configOnce sync.Once
	configData map[string]string
	configErr  error
)

// LoadConfig reads the INI config at config.ConfigFilePath once and
// caches the [default] section keys.
func LoadConfig() (map[string]string, error) {
	configOnce.Do(func() {
		path := os.ExpandEnv(config.ConfigFilePath)
		cfg, err := ini.Load(path)
		if err != nil {
			configErr = err
			return
		}
		defaultSection := cfg.Section("default")
		configData = make(map[string]string)
		for _, key := range defaultSection.Keys() {
			configData[key.Name()] = key.String()
		}
	})
	return configData, configErr
}

// GetToolsAddr returns the tools server address from config or a default.
func GetToolsAddr() string {
	cfg, err := LoadConfig()
	if err != nil {
		return ":8080"
	}
	if v, ok := cfg["TOOLS_ADDR"]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return ":8080"
}
