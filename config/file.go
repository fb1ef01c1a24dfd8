package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadProxyConfig reads path as TOML, writing DefaultProxyConfig to it
// first if the file doesn't exist yet (teacher's "write default config
// file on first run" behavior, noted as a TODO in its own
// ReadUltravioletConfig and implemented properly here).
func LoadProxyConfig(path string) (ProxyConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultProxyConfig()
		if err := writeTOML(path, cfg); err != nil {
			return cfg, fmt.Errorf("config: writing default proxy config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ProxyConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := DefaultProxyConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return ProxyConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LoadServerConfig is LoadProxyConfig's counterpart for server.toml.
func LoadServerConfig(path string) (ServerConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultServerConfig()
		if err := writeTOML(path, cfg); err != nil {
			return cfg, fmt.Errorf("config: writing default server config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := DefaultServerConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

func writeTOML(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
