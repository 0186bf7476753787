package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds the settings a user can fix in a config file instead of
// repeating flags on every invocation.
type Config struct {
	Indentation int    `json:"indentation"` // spaces of JSON indent
	Color       string `json:"color"`       // "auto" | "always" | "never"
	OutputFile  string `json:"output_file"` // default report destination
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Indentation: 2,
		Color:       "auto",
	}
}

// LoadGlobal reads ~/.config/mypy-json-report/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "mypy-json-report", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .mypyjsonreportrc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".mypyjsonreportrc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	apply := func(c *Config) {
		if c == nil {
			return
		}
		if c.Indentation > 0 {
			result.Indentation = c.Indentation
		}
		if c.Color != "" {
			result.Color = c.Color
		}
		if c.OutputFile != "" {
			result.OutputFile = c.OutputFile
		}
	}
	apply(global)
	apply(project)

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
