package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrRepoConfigNotFound indicates the repository has no .prlocal.yml file.
// Callers that only want overrides can treat it as non-fatal.
var ErrRepoConfigNotFound = errors.New("repo config file not found")

// RepoConfig holds per-repository overrides read from .prlocal.yml at the
// repository root. Pointer fields distinguish "unset" from an explicit value.
type RepoConfig struct {
	BaseBranch string           `yaml:"base_branch"`
	Author     string           `yaml:"author"`
	Merge      *MergeRepoConfig `yaml:"merge"`
}

// MergeRepoConfig controls the default post-merge behaviour.
type MergeRepoConfig struct {
	Push         *bool `yaml:"push"`
	DeleteBranch *bool `yaml:"delete_branch"`
}

// DefaultRepoConfig returns the overrides used when a repository has no
// .prlocal.yml.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{BaseBranch: "main"}
}

// LoadRepoConfig loads and parses the .prlocal.yml file from a repository
// path. A missing file returns the defaults together with
// ErrRepoConfigNotFound.
func LoadRepoConfig(repoPath string) (*RepoConfig, error) {
	configPath := filepath.Join(repoPath, ".prlocal.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRepoConfig(), ErrRepoConfigNotFound
		}
		return nil, fmt.Errorf("failed to read .prlocal.yml: %w", err)
	}

	cfg := DefaultRepoConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse .prlocal.yml: %w", err)
	}
	return cfg, nil
}
