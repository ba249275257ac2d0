// Package release automates cutting releases: it derives versions from a
// manifest, inspects tag and worktree state, bumps version components, and
// regenerates the changelog. It operates exclusively through a billy
// filesystem so all operations work against on-disk and in-memory
// repositories alike.
package release

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const (
	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// DefaultWorkdir is the default worktree directory name.
	DefaultWorkdir = "."

	// DefaultTagPrefix is prepended to a version to form its tag name.
	DefaultTagPrefix = "v"

	// DefaultManifestPath is the default manifest location within the worktree.
	DefaultManifestPath = "Cargo.toml"

	// DefaultChangelogPath is the default changelog location within the worktree.
	DefaultChangelogPath = "CHANGELOG.md"
)

// Options configures repository discovery and release behavior.
type Options struct {
	// FS is the REQUIRED filesystem root (OS or in-memory).
	// All repository state, the manifest and the changelog live within it.
	FS billy.Filesystem

	// Workdir is the path within FS for the worktree root.
	// Defaults to "." (current directory in FS).
	Workdir string

	// TagPrefix is prepended to versions when forming tag names.
	// Defaults to DefaultTagPrefix.
	TagPrefix string

	// ManifestPath is the manifest file path relative to the worktree root.
	// Defaults to DefaultManifestPath.
	ManifestPath string

	// ChangelogPath is the changelog file path relative to the worktree root.
	// Defaults to DefaultChangelogPath.
	ChangelogPath string

	// StorerCacheSize sets the LRU object cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// ConventionalFallback enables classifying conventional-commit subjects
	// ("feat: ...") into changelog categories when a subject carries no
	// bracketed category prefix.
	ConventionalFallback bool

	// Logger receives debug logging for repository operations.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// Now supplies the current time for changelog section dates.
	// Defaults to time.Now. Exposed for deterministic output in tests.
	Now func() time.Time
}

// Validate checks that the Options are properly configured.
// It returns an error if required fields are missing or invalid.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}

	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidRef, "StorerCacheSize cannot be negative")
	}

	return nil
}

// applyDefaults sets default values for any unset fields in Options.
func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = DefaultWorkdir
	}

	if o.TagPrefix == "" {
		o.TagPrefix = DefaultTagPrefix
	}

	if o.ManifestPath == "" {
		o.ManifestPath = DefaultManifestPath
	}

	if o.ChangelogPath == "" {
		o.ChangelogPath = DefaultChangelogPath
	}

	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}

	if o.Now == nil {
		o.Now = time.Now
	}
}

// Repo represents a project repository and provides release operations.
// It wraps a go-git Repository and Worktree scoped to the worktree root.
//
// Repo assumes a single invocation at a time: the manifest and changelog
// are accessed without locking, and concurrent writers are a precondition
// violation rather than an enforced error.
type Repo struct {
	repo     *gogit.Repository
	worktree *gogit.Worktree
	fs       billy.Filesystem
	options  Options
}

// Open discovers and opens an existing git repository.
// The repository must already exist at the specified workdir within the
// filesystem, with both a .git directory and a worktree present.
//
// Context timeout/cancellation is honored during repository validation.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	return load(ctx, opts, gogit.Open)
}

// Init creates a new git repository at the specified location.
// It is primarily useful for constructing test fixtures.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	return load(ctx, opts, gogit.Init)
}

// load opens or initializes the repository using the provided go-git entry point.
func load(
	ctx context.Context,
	opts *Options,
	open func(storage.Storer, billy.Filesystem) (*gogit.Repository, error),
) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	opts.applyDefaults()

	// Chroot to the workdir to scope the repository location
	scopedFS, err := opts.FS.Chroot(opts.Workdir)
	if err != nil {
		return nil, WrapErrorf(err, "failed to chroot to workdir %q", opts.Workdir)
	}

	// Storage goes in the .git subdirectory, objects behind an LRU cache
	dotGitFS, err := scopedFS.Chroot(".git")
	if err != nil {
		return nil, WrapError(err, "failed to access .git directory")
	}

	store := filesystem.NewStorage(dotGitFS, cache.NewObjectLRU(cache.FileSize(opts.StorerCacheSize)))

	repo, err := open(store, scopedFS)
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(ErrQueryFailed, "failed to get worktree")
	}

	r := &Repo{
		repo:     repo,
		worktree: worktree,
		fs:       scopedFS,
		options:  *opts,
	}

	r.logDebug("repository opened", "workdir", opts.Workdir, "manifest", opts.ManifestPath)

	return r, nil
}

// Manifest returns the version store bound to this repository's manifest file.
func (r *Repo) Manifest() *Manifest {
	return &Manifest{fs: r.fs, path: r.options.ManifestPath}
}

// Changelog returns the changelog bound to this repository.
func (r *Repo) Changelog() *Changelog {
	return &Changelog{repo: r, path: r.options.ChangelogPath}
}

// TagPrefix returns the configured tag prefix.
func (r *Repo) TagPrefix() string {
	return r.options.TagPrefix
}

// logDebug logs at debug level when a logger is configured.
func (r *Repo) logDebug(msg string, args ...any) {
	if r.options.Logger != nil {
		r.options.Logger.Debug(msg, args...)
	}
}
