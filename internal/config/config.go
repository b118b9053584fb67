// Package config loads pqmsgd settings from an optional TOML file with
// environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the pqmsgd runtime configuration.
type Config struct {
	// SocketPath is the unix domain socket the responder listens on.
	SocketPath string
	// JournalPath is the sqlite journal location; empty disables journaling.
	JournalPath string
	// QUICAddr enables the QUIC listener when non-empty (host:port).
	QUICAddr string
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SocketPath:  "pqmsgd.sock",
		JournalPath: "pqmsgd.db",
		LogLevel:    "info",
	}
}

type fileConfig struct {
	SocketPath  string `toml:"socket_path"`
	JournalPath string `toml:"journal_path"`
	QUICAddr    string `toml:"quic_addr"`
	LogLevel    string `toml:"log_level"`
}

// Load reads path over the defaults. Only keys present in the file override;
// an absent file is an error, an empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if meta.IsDefined("socket_path") {
		cfg.SocketPath = strings.TrimSpace(raw.SocketPath)
	}
	if meta.IsDefined("journal_path") {
		cfg.JournalPath = strings.TrimSpace(raw.JournalPath)
	}
	if meta.IsDefined("quic_addr") {
		cfg.QUICAddr = strings.TrimSpace(raw.QUICAddr)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return cfg, nil
}

// ApplyEnv overlays PQMSG_* environment variables onto cfg. An empty
// variable is treated as unset, except PQMSG_JOURNAL which may be set empty
// to disable journaling.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("PQMSG_SOCKET"); v != "" {
		cfg.SocketPath = v
	}
	if v, ok := os.LookupEnv("PQMSG_JOURNAL"); ok {
		cfg.JournalPath = v
	}
	if v := os.Getenv("PQMSG_QUIC_ADDR"); v != "" {
		cfg.QUICAddr = v
	}
	if v := os.Getenv("PQMSG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}
