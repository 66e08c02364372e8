package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/coderlm/coderlm/internal/config"
	"github.com/coderlm/coderlm/internal/project"
)

// oneShotRegistry builds a Registry sized for a single project, used by
// every read-only CLI command. Its watcher and cache-save-on-evict
// machinery never fire within a one-shot process, matching the scope of
// commands like `search`/`structure`/`peek` that just need one reconciled
// snapshot of the current directory.
func oneShotRegistry(cfg *config.Config) (*project.Registry, error) {
	debounce := time.Duration(cfg.Index.DebounceMs) * time.Millisecond
	return project.NewRegistry(1, cfg.Index.MaxFileSize, debounce)
}

// loadProject resolves the current directory, loads its config (or the
// default config if uninitialized), and indexes it, returning the
// Project ready for a query.* call.
func loadProject() (*project.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	reg, err := oneShotRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	p, err := reg.GetOrCreateProject(cwd)
	if err != nil {
		return nil, fmt.Errorf("index project: %w", err)
	}
	return p, nil
}
