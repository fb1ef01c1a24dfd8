// Package config loads Bamboo's two TOML configuration files:
// proxy.toml (the client-facing listener, worker pool, and backend
// link settings) and server.toml (bambooserver's own listener).
// Grounded on the teacher's config/file_reader.go default-on-first-run
// pattern, switched from encoding/json to
// github.com/pelletier/go-toml/v2 per spec.md's explicit TOML
// requirement (spec §6).
package config

import "time"

// ProxyConfig is bamboo-proxy's proxy.toml.
type ProxyConfig struct {
	ListenTo   string `toml:"listen_to"`
	OnlineMode bool   `toml:"online_mode"`

	Backend struct {
		Address     string        `toml:"address"`
		DialTimeout time.Duration `toml:"dial_timeout"`
	} `toml:"backend"`

	Workers struct {
		Count          int   `toml:"count"`
		BackpressureHi int64 `toml:"backpressure_high"`
		BackpressureLo int64 `toml:"backpressure_low"`
	} `toml:"workers"`

	RateLimit struct {
		LoginsPerWindow int           `toml:"logins_per_window"`
		Window          time.Duration `toml:"window"`
	} `toml:"rate_limit"`

	// CompressionThreshold is loaded from the file but not applied:
	// conn.Login always sends the fixed conn.CompressionThreshold.
	CompressionThreshold int `toml:"compression_threshold"`

	// StatusCacheCooldown bounds how often the Status JSON response is
	// recomputed; unauthenticated server-list pings are cheap to spam,
	// so this absorbs a burst into one computation per window.
	StatusCacheCooldown time.Duration `toml:"status_cache_cooldown"`

	Prometheus struct {
		Enabled bool   `toml:"enabled"`
		Bind    string `toml:"bind"`
	} `toml:"prometheus"`

	HotSwap struct {
		Enabled bool   `toml:"enabled"`
		PIDFile string `toml:"pid_file"`
	} `toml:"hot_swap"`

	AcceptProxyProtocol bool `toml:"accept_proxy_protocol"`
}

// DefaultProxyConfig matches the teacher's DefaultUltravioletConfig
// shape, translated field-for-field to this build's domain.
func DefaultProxyConfig() ProxyConfig {
	cfg := ProxyConfig{
		ListenTo:             ":25565",
		OnlineMode:           true,
		CompressionThreshold: 256,
		AcceptProxyProtocol:  false,
		StatusCacheCooldown:  time.Second,
	}
	cfg.Backend.Address = "127.0.0.1:8483"
	cfg.Backend.DialTimeout = time.Second
	cfg.Workers.Count = 0 // 0 means "runtime.NumCPU()" at startup
	cfg.Workers.BackpressureHi = 1000
	cfg.Workers.BackpressureLo = 900
	cfg.RateLimit.LoginsPerWindow = 5
	cfg.RateLimit.Window = time.Second
	cfg.Prometheus.Enabled = false
	cfg.Prometheus.Bind = ":9100"
	cfg.HotSwap.Enabled = false
	cfg.HotSwap.PIDFile = "bamboo-proxy.pid"
	return cfg
}

// ServerConfig is bambooserver's server.toml.
type ServerConfig struct {
	ListenTo  string `toml:"listen_to"`
	MOTD      string `toml:"motd"`
	MaxPlayers int    `toml:"max_players"`
}

// DefaultServerConfig matches the teacher's DefaultServerConfig shape.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenTo:   ":8483",
		MOTD:       "A Bamboo reference server",
		MaxPlayers: 100,
	}
}
