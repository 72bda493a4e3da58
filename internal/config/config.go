// Package config loads workspace-level settings from uvlsem.yml.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WorkspaceConfig holds settings loaded from uvlsem.yml.
type WorkspaceConfig struct {
	// Workers bounds concurrent batch translation; zero means one worker
	// per CPU.
	Workers int `yaml:"workers,omitempty"`
	// StorePath is the KuzuDB directory for exported symbol graphs; empty
	// selects the in-memory store.
	StorePath string `yaml:"storePath,omitempty"`
	// MinDiagnosticWeight drops diagnostics below this weight before they
	// are surfaced to clients.
	MinDiagnosticWeight int `yaml:"minDiagnosticWeight,omitempty"`
}

// Load attempts to read uvlsem.yml or uvlsem.yaml from the given directory.
// Returns a zero-value config (not an error) if no config file exists.
func Load(dir string) (*WorkspaceConfig, error) {
	for _, name := range []string{"uvlsem.yml", "uvlsem.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg WorkspaceConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &WorkspaceConfig{}, nil
}
