// Package config resolves the client's directories and backend address.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName = "taskctl"

	// EnvFile holds optional overrides inside the config directory.
	EnvFile = "taskctl.env"

	// TokenFile is the BoltDB file keeping the session token.
	TokenFile = "session.db"

	DefaultAPIURL  = "http://localhost:5000/api"
	DefaultTimeout = 10 * time.Second
)

type Config struct {
	Dir     string
	APIURL  string
	Timeout time.Duration
	Debug   bool
	Quiet   bool
}

// New builds a Config rooted at configDir, or the XDG default when empty.
// TASKBOX_API_URL and TASKBOX_TIMEOUT come from the process environment
// first and from taskctl.env in the config directory second.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	fileEnv, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileEnv[key]
	}

	cfg := &Config{
		Dir:     dir,
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}
	if v := lookup("TASKBOX_API_URL"); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := lookup("TASKBOX_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg, nil
}

// DefaultConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}
