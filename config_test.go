package release

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig tests configuration file loading
func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields empty config", func(t *testing.T) {
		cfg, err := LoadConfig(memfs.New(), DefaultConfigPath)
		require.NoError(t, err)
		assert.Equal(t, &FileConfig{}, cfg)
	})

	t.Run("parses yaml fields", func(t *testing.T) {
		fs := memfs.New()
		content := "manifest: package.toml\nchangelog: HISTORY.md\ntag_prefix: rel-\nconventional_fallback: true\n"
		require.NoError(t, util.WriteFile(fs, DefaultConfigPath, []byte(content), 0o644))

		cfg, err := LoadConfig(fs, DefaultConfigPath)
		require.NoError(t, err)
		assert.Equal(t, "package.toml", cfg.Manifest)
		assert.Equal(t, "HISTORY.md", cfg.Changelog)
		assert.Equal(t, "rel-", cfg.TagPrefix)
		assert.True(t, cfg.ConventionalFallback)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		fs := memfs.New()
		require.NoError(t, util.WriteFile(fs, DefaultConfigPath, []byte("manifest: [\n"), 0o644))

		_, err := LoadConfig(fs, DefaultConfigPath)
		require.Error(t, err)
	})
}

// TestFileConfigApply tests flag-over-file precedence
func TestFileConfigApply(t *testing.T) {
	cfg := &FileConfig{
		Manifest:  "package.toml",
		Changelog: "HISTORY.md",
		TagPrefix: "rel-",
	}

	t.Run("fills unset options", func(t *testing.T) {
		opts := &Options{}
		cfg.Apply(opts)
		assert.Equal(t, "package.toml", opts.ManifestPath)
		assert.Equal(t, "HISTORY.md", opts.ChangelogPath)
		assert.Equal(t, "rel-", opts.TagPrefix)
	})

	t.Run("explicit options win", func(t *testing.T) {
		opts := &Options{ManifestPath: "Cargo.toml", TagPrefix: "v"}
		cfg.Apply(opts)
		assert.Equal(t, "Cargo.toml", opts.ManifestPath)
		assert.Equal(t, "v", opts.TagPrefix)
		assert.Equal(t, "HISTORY.md", opts.ChangelogPath)
	})
}
