package web

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvListenAddr = "WEBSERVE_LISTEN"
	EnvRoot       = "WEBSERVE_ROOT"
	EnvDebug      = "WEBSERVE_DEBUG"
)

// ServerConfig contains settings for running the HTTP server.
//
// The defaults differ per binary:
// - webserve:  :8000
// - testlocal: :8080
type ServerConfig struct {
	ListenAddr string
	Root       string
	Debug      bool
}

// LoadDotEnv loads variables from path into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func DefaultServerConfigFromEnv(defaultListenAddr, defaultRoot string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	root := os.Getenv(EnvRoot)
	if root == "" {
		root = defaultRoot
	}

	debug := false
	if raw := os.Getenv(EnvDebug); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDebug, raw, err)
		}
		debug = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, Root: root, Debug: debug}, nil
}
