// Package walker implements the single-shot directory scan (spec §4.1):
// it honours real gitignore semantics (via go-git's gitignore matcher)
// layered over the built-in ignore set, and emits File Records into a
// File Tree.
package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/coderlm/coderlm/internal/filetree"
	ign "github.com/coderlm/coderlm/internal/ignore"
	"github.com/coderlm/coderlm/internal/model"
)

// Stats summarizes one walk.
type Stats struct {
	Inserted int
	Skipped  int // entries skipped due to ignore rules, size limit, or stat errors
}

// Walk scans root, inserting a File Record for every surviving regular
// file whose size is <= maxFileSize into tree. Entry-level errors
// (permission denied, stat failure) are skipped silently; only an
// inaccessible root itself is a fatal error.
func Walk(root string, tree *filetree.Tree, maxFileSize int64) (Stats, error) {
	var stats Stats

	if _, err := os.Stat(root); err != nil {
		return stats, err
	}

	patterns := collectGitignorePatterns(root)
	matcher := gitignore.NewMatcher(patterns)

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			stats.Skipped++
			if path == root {
				return err
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			stats.Skipped++
			return nil
		}
		rel = filepath.ToSlash(rel)
		base := filepath.Base(rel)

		if strings.HasPrefix(base, ".") && base != "." {
			// Hidden files/dirs are skipped, except the project's own
			// persisted-state directory is already covered by DefaultDirs.
			if d.IsDir() {
				return filepath.SkipDir
			}
			stats.Skipped++
			return nil
		}

		if ign.PathHasIgnoredComponent(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			stats.Skipped++
			return nil
		}

		if matcher.Match(strings.Split(rel, "/"), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			stats.Skipped++
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if ign.ShouldIgnoreExtension(rel) {
			stats.Skipped++
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			stats.Skipped++
			return nil
		}
		if info.Size() > maxFileSize {
			stats.Skipped++
			return nil
		}

		lang := model.LanguageFromExtension(filepath.Ext(rel))
		tree.Insert(model.NewFileRecord(rel, info.Size(), info.ModTime(), lang))
		stats.Inserted++
		return nil
	})

	return stats, err
}

// collectGitignorePatterns reads every .gitignore file under root (plus,
// best-effort, the user's global excludes file) and returns the combined
// pattern set, each scoped to the directory containing it.
func collectGitignorePatterns(root string) []gitignore.Pattern {
	var patterns []gitignore.Pattern

	if home, err := os.UserHomeDir(); err == nil {
		patterns = append(patterns, readGitignoreFile(filepath.Join(home, ".gitignore"), nil)...)
	}

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d == nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() != "." {
				if ign.ShouldIgnoreDir(d.Name()) && path != root {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if d.Name() != ".gitignore" {
			return nil
		}
		dir := filepath.Dir(path)
		rel, relErr := filepath.Rel(root, dir)
		if relErr != nil {
			return nil
		}
		var domain []string
		if rel != "." {
			domain = strings.Split(filepath.ToSlash(rel), "/")
		}
		patterns = append(patterns, readGitignoreFile(path, domain)...)
		return nil
	})

	return patterns
}

func readGitignoreFile(path string, domain []string) []gitignore.Pattern {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	return patterns
}
