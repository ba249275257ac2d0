// Package release provides release automation on top of go-git.
// This file contains the optional per-project configuration file.
package release

import (
	"errors"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the default location of the per-project
// configuration file, relative to the worktree root.
const DefaultConfigPath = ".release.yml"

// FileConfig is the optional per-project configuration. Every field is
// optional; unset fields fall back to the Options defaults, and explicit
// CLI flags override file values.
type FileConfig struct {
	// Manifest is the manifest file path.
	Manifest string `yaml:"manifest"`

	// Changelog is the changelog file path.
	Changelog string `yaml:"changelog"`

	// TagPrefix is prepended to versions when forming tag names.
	TagPrefix string `yaml:"tag_prefix"`

	// ConventionalFallback enables conventional-commit classification for
	// subjects without a bracketed category.
	ConventionalFallback bool `yaml:"conventional_fallback"`
}

// LoadConfig reads the configuration file at path. A missing file is not
// an error; it yields an empty configuration so all defaults apply.
func LoadConfig(fs billy.Filesystem, path string) (*FileConfig, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileConfig{}, nil
		}
		return nil, WrapErrorf(err, "failed to read config %q", path)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, WrapErrorf(err, "failed to parse config %q", path)
	}

	return &cfg, nil
}

// Apply copies the set fields of the configuration onto opts, leaving
// fields already set on opts untouched so flag values win.
func (c *FileConfig) Apply(opts *Options) {
	if opts.ManifestPath == "" && c.Manifest != "" {
		opts.ManifestPath = c.Manifest
	}

	if opts.ChangelogPath == "" && c.Changelog != "" {
		opts.ChangelogPath = c.Changelog
	}

	if opts.TagPrefix == "" && c.TagPrefix != "" {
		opts.TagPrefix = c.TagPrefix
	}

	if c.ConventionalFallback {
		opts.ConventionalFallback = true
	}
}
