// Package project implements the indexed Project and its bounded
// Registry (spec §4.7): each Project owns a File Tree, a Symbol Table,
// and an optional filesystem Watcher; the Registry evicts the least
// recently active Project once it is at capacity.
package project

import (
	"sync"
	"time"

	"github.com/coderlm/coderlm/internal/annotations"
	"github.com/coderlm/coderlm/internal/cache"
	"github.com/coderlm/coderlm/internal/extractor"
	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/symboltable"
	"github.com/coderlm/coderlm/internal/watcher"
)

// Project is a single indexed directory tree with its own File Tree,
// Symbol Table, and (if started) filesystem Watcher.
type Project struct {
	Root  string
	Tree  *filetree.Tree
	Table *symboltable.Table

	watcher *watcher.Watcher

	mu         sync.Mutex
	lastActive time.Time
}

// Touch records now as the Project's last-active instant.
func (p *Project) Touch() {
	p.mu.Lock()
	p.lastActive = time.Now()
	p.mu.Unlock()
}

// LastActive returns the most recent Touch time.
func (p *Project) LastActive() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastActive
}

// stop tears down the Project's watcher, if any, and persists its cache
// and annotations. Called on eviction.
func (p *Project) stop() {
	if p.watcher != nil {
		_ = p.watcher.Stop()
	}
	_ = cache.Save(p.Root, p.Tree, p.Table)
	_ = annotations.Save(p.Root, p.Tree, p.Table)
}

// index performs the one-shot load: cache reconciliation, extraction for
// changed/new files, annotation restore, and watcher startup. Extraction
// runs inline, file by file, before index returns; it is not handed to a
// background worker, so a large first index delays the caller.
func index(root string, maxFileSize int64, debounce time.Duration) (*Project, error) {
	p := &Project{
		Root:       root,
		Tree:       filetree.New(),
		Table:      symboltable.New(),
		lastActive: time.Now(),
	}

	stats, err := cache.Load(root, p.Tree, p.Table, maxFileSize)
	if err != nil {
		return nil, err
	}

	for _, path := range stats.FilesToExtract {
		rec, ok := p.Tree.Get(path)
		if !ok {
			continue
		}
		if err := extractor.ExtractAndStore(root, rec, p.Table); err != nil {
			continue
		}
	}

	if _, err := annotations.Load(root, p.Tree, p.Table); err != nil {
		return nil, err
	}

	w, err := watcher.New(root, p.Tree, p.Table, maxFileSize, debounce)
	if err == nil {
		if startErr := w.Start(); startErr == nil {
			p.watcher = w
		}
	}

	return p, nil
}
