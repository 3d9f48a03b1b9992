// Package config holds the run configuration for the sync pipeline.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults for the sync configuration.
const (
	DefaultMembersDir      = "_members"
	DefaultPublicationsDir = "_publications"
	DefaultCacheFile       = ".openalex_author_cache.db"
	DefaultMaxAuthors      = 12
)

// Config is the full configuration of one sync run. Flags override
// values loaded from an optional JSON config file in the site repo.
type Config struct {
	RepoPath        string `json:"repo_path"`
	MembersDir      string `json:"members_dir"`
	PublicationsDir string `json:"publications_dir"`
	CacheFile       string `json:"cache_file"`

	Mailto          string `json:"mailto"`
	RequiredAuthor  string `json:"required_author"`
	InstitutionHint string `json:"institution_hint"`

	MaxAuthors     int  `json:"max_authors"`
	LimitPerMember int  `json:"limit_per_member"` // 0 = unlimited
	Wipe           bool `json:"-"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		RepoPath:        ".",
		MembersDir:      DefaultMembersDir,
		PublicationsDir: DefaultPublicationsDir,
		CacheFile:       DefaultCacheFile,
		MaxAuthors:      DefaultMaxAuthors,
	}
}

// Load reads a JSON config file into an existing configuration. A
// missing file leaves the configuration unchanged.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Mailto == "" {
		return errors.New("a contact address is required (flag --mailto or OPENALEX_MAILTO)")
	}
	if c.RequiredAuthor == "" {
		return errors.New("a required author name must be configured")
	}
	if c.MaxAuthors <= 0 {
		return errors.New("max authors must be positive")
	}
	if c.LimitPerMember < 0 {
		return errors.New("per-member work limit cannot be negative")
	}
	return nil
}

// MembersPath returns the members directory under the repo root.
func (c Config) MembersPath() string {
	return filepath.Join(c.RepoPath, c.MembersDir)
}

// PublicationsPath returns the publications directory under the repo root.
func (c Config) PublicationsPath() string {
	return filepath.Join(c.RepoPath, c.PublicationsDir)
}

// CachePath returns the author cache path under the repo root.
func (c Config) CachePath() string {
	return filepath.Join(c.RepoPath, c.CacheFile)
}
