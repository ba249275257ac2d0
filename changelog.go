// Package release provides release automation on top of go-git.
// This file contains changelog generation: commit categorization, section
// rendering and the atomic prepend onto the changelog file.
package release

import (
	"context"
	"errors"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/util"
	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// changelogHeader is the fixed boilerplate block every changelog file
// begins with. It is reproduced byte-for-byte on each regeneration and
// occupies the first ten lines of the file.
const changelogHeader = "# Changelog\n" +
	"\n" +
	"All notable changes to this project will be documented in this file.\n" +
	"\n" +
	"The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.0.0/),\n" +
	"and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).\n" +
	"\n" +
	"This file is generated automatically by the release procedure, please do not edit.\n" +
	"\n" +
	"\n"

// sectionDateLayout formats the release date in section headings and bullets.
const sectionDateLayout = "2006-01-02"

// subjectPattern matches the commit subject convention
// "[Category] free-text description": an alphabetic category token in
// brackets at the start of the subject.
var subjectPattern = regexp.MustCompile(`^\[([A-Za-z]+)\]\s*(.*)$`)

// ChangelogEntry is one categorized commit within a changelog section.
type ChangelogEntry struct {
	// Category is the grouping token extracted from the subject.
	Category string

	// Description is the subject with the category prefix stripped.
	Description string

	// Commit carries the underlying commit metadata.
	Commit CommitRecord
}

// ChangelogGroup is the ordered sequence of entries for one category.
// Entries preserve their encounter order within the sorted commit range.
type ChangelogGroup struct {
	Category string
	Entries  []ChangelogEntry
}

// ChangelogSection is one dated release section of the changelog document.
type ChangelogSection struct {
	Tag    string
	Date   time.Time
	Groups []ChangelogGroup
}

// GenerateResult reports what a Generate call produced: the new section
// and every commit whose subject matched no known convention. Nothing is
// dropped silently; callers decide whether skipped subjects are a problem.
type GenerateResult struct {
	Section ChangelogSection
	Skipped []CommitRecord
}

// Changelog generates and rewrites the project changelog file.
// It exclusively owns the file during generation; the single-invocation
// precondition of the module applies.
type Changelog struct {
	repo *Repo
	path string
}

// Path returns the changelog path within the repository worktree.
func (c *Changelog) Path() string {
	return c.path
}

// Init creates a header-only changelog file when none exists. An existing
// well-formed file is left untouched; an existing file that does not begin
// with the fixed header yields ErrChangelogMissing rather than being
// overwritten.
func (c *Changelog) Init() error {
	data, err := util.ReadFile(c.repo.fs, c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return writeFileAtomic(c.repo.fs, c.path, []byte(changelogHeader))
		}
		return WrapErrorf(err, "failed to read changelog %q", c.path)
	}

	if !strings.HasPrefix(string(data), changelogHeader) {
		return WrapErrorf(ErrChangelogMissing, "existing %q does not begin with the fixed header", c.path)
	}

	return nil
}

// Generate builds the changelog section for the commit range
// sinceTag..HEAD, prepends it under the fixed header, and atomically
// rewrites the changelog file. newTag names the section being cut; an
// empty sinceTag covers the full history.
//
// The file must already exist and begin with the fixed header, otherwise
// ErrChangelogMissing is returned and nothing is written. Use Init to
// bootstrap a fresh file.
//
// Context timeout/cancellation is honored during the operation.
func (c *Changelog) Generate(ctx context.Context, newTag, sinceTag string) (*GenerateResult, error) {
	if newTag == "" {
		return nil, WrapError(ErrInvalidRef, "new tag cannot be empty")
	}

	existing, err := util.ReadFile(c.repo.fs, c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, WrapErrorf(ErrChangelogMissing, "%q", c.path)
		}
		return nil, WrapErrorf(err, "failed to read changelog %q", c.path)
	}

	if !strings.HasPrefix(string(existing), changelogHeader) {
		return nil, WrapErrorf(ErrChangelogMissing, "%q does not begin with the fixed header", c.path)
	}

	records, err := c.repo.CommitsSince(ctx, sinceTag)
	if err != nil {
		return nil, err
	}

	// Lexicographic order over "subject -- hash" keeps regenerated output
	// diff-stable; it carries no semantic meaning.
	sort.SliceStable(records, func(i, j int) bool {
		return sortKey(records[i]) < sortKey(records[j])
	})

	result := c.categorize(records)
	result.Section.Tag = newTag
	result.Section.Date = c.repo.options.Now()

	tail := string(existing)[len(changelogHeader):]
	content := changelogHeader + renderSection(result.Section) + tail

	if err := writeFileAtomic(c.repo.fs, c.path, []byte(content)); err != nil {
		return nil, err
	}

	c.repo.logDebug("changelog regenerated",
		"tag", newTag,
		"since", sinceTag,
		"groups", len(result.Section.Groups),
		"skipped", len(result.Skipped))

	return result, nil
}

// sortKey combines subject and abbreviated hash for deterministic ordering.
func sortKey(r CommitRecord) string {
	return r.Subject + " -- " + r.ShortHash
}

// categorize splits records into ordered category groups and a skipped list.
// Category order follows first encounter; entries within a category keep
// their order from the sorted range. Duplicate categories merge.
func (c *Changelog) categorize(records []CommitRecord) *GenerateResult {
	result := &GenerateResult{}
	index := make(map[string]int)

	for _, record := range records {
		category, description, ok := c.classify(record.Subject)
		if !ok {
			result.Skipped = append(result.Skipped, record)
			continue
		}

		entry := ChangelogEntry{
			Category:    category,
			Description: description,
			Commit:      record,
		}

		pos, seen := index[category]
		if !seen {
			pos = len(result.Section.Groups)
			index[category] = pos
			result.Section.Groups = append(result.Section.Groups, ChangelogGroup{Category: category})
		}

		result.Section.Groups[pos].Entries = append(result.Section.Groups[pos].Entries, entry)
	}

	return result
}

// classify extracts the category and description from a commit subject.
// The bracketed "[Category] text" convention is tried first; when enabled,
// conventional-commit subjects ("feat: text") are classified as a fallback.
func (c *Changelog) classify(subject string) (category, description string, ok bool) {
	if match := subjectPattern.FindStringSubmatch(subject); match != nil {
		return match[1], match[2], true
	}

	if c.repo.options.ConventionalFallback {
		return classifyConventional(subject)
	}

	return "", "", false
}

// classifyConventional parses a conventional-commit subject into a
// changelog category.
func classifyConventional(subject string) (category, description string, ok bool) {
	machine := parser.NewMachine(conventionalcommits.WithTypes(conventionalcommits.TypesConventional))

	msg, err := machine.Parse([]byte(subject))
	if err != nil {
		return "", "", false
	}

	commit, isConventional := msg.(*conventionalcommits.ConventionalCommit)
	if !isConventional {
		return "", "", false
	}

	return categoryForType(commit.Type), commit.Description, true
}

// categoryForType maps conventional-commit types onto the category names
// used by the bracketed convention.
func categoryForType(typ string) string {
	switch strings.ToLower(typ) {
	case "feat":
		return "Feature"
	case "fix":
		return "Fix"
	case "docs":
		return "Docs"
	case "refactor":
		return "Refactor"
	case "test":
		return "Test"
	case "chore":
		return "Chore"
	case "ci":
		return "CI"
	case "build":
		return "Build"
	case "perf":
		return "Perf"
	case "style":
		return "Style"
	case "revert":
		return "Revert"
	default:
		if typ == "" {
			return typ
		}
		return strings.ToUpper(typ[:1]) + strings.ToLower(typ[1:])
	}
}

// renderSection renders one dated release section as Markdown, ending with
// a blank line so the following section stays separated.
func renderSection(s ChangelogSection) string {
	var b strings.Builder

	b.WriteString("## [")
	b.WriteString(s.Tag)
	b.WriteString("] ")
	b.WriteString(s.Date.Format(sectionDateLayout))
	b.WriteString("\n\n")

	for _, group := range s.Groups {
		b.WriteString("### ")
		b.WriteString(group.Category)
		b.WriteString(":\n\n")

		for _, entry := range group.Entries {
			b.WriteString("- ")
			b.WriteString(entry.Description)
			b.WriteString(", ")
			b.WriteString(entry.Commit.Author)
			b.WriteString(", ")
			b.WriteString(entry.Commit.Date.Format(sectionDateLayout))
			b.WriteString(", ")
			b.WriteString(entry.Commit.ShortHash)
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	return b.String()
}
