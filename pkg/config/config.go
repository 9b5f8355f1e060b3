// Package config implements repository-local user preferences: display
// identity and a default commit-signing key. Remote descriptors are not
// part of this file — spec.md §6 places those under remote/<name>,
// owned by pkg/refstore — so this package is deliberately narrower than
// the teacher's pkg/repo/config.go, which folded remotes into the same
// file. Grounded on that file's read/write-atomic shape, translated from
// ad hoc JSON to github.com/BurntSushi/toml per SPEC_FULL.md.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const fileName = "config.toml"

// Config holds the optional, human-editable preferences stored at
// <gitletDir>/config.toml.
type Config struct {
	Name       string `toml:"name"`
	Email      string `toml:"email"`
	SigningKey string `toml:"signing_key"`
}

func path(gitletDir string) string {
	return filepath.Join(gitletDir, fileName)
}

// Read loads the config file, returning a zero-value Config if absent.
func Read(gitletDir string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path(gitletDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: read: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: read: parse: %w", err)
	}
	return &cfg, nil
}

// Write atomically persists cfg to <gitletDir>/config.toml.
func Write(gitletDir string, cfg *Config) error {
	dest := path(gitletDir)
	tmp, err := os.CreateTemp(gitletDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("config: write: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("config: write: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("config: write: close: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("config: write: rename: %w", err)
	}
	return nil
}
