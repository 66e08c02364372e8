// Package watcher implements the debounced filesystem watcher (spec
// §4.6): it keeps a Project's File Tree and Symbol Table current as
// files are created, written, renamed, or removed underneath its root.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/coderlm/coderlm/internal/extractor"
	"github.com/coderlm/coderlm/internal/filetree"
	ign "github.com/coderlm/coderlm/internal/ignore"
	"github.com/coderlm/coderlm/internal/logx"
	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/symboltable"
)

// Watcher watches one project root and keeps tree/table in sync with the
// filesystem, debouncing rapid-fire events per path.
type Watcher struct {
	root        string
	tree        *filetree.Tree
	table       *symboltable.Table
	maxFileSize int64
	debounce    time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	pendingMu sync.Mutex
	pending   map[string]time.Time
}

// New creates a Watcher for root, but does not start it.
func New(root string, tree *filetree.Tree, table *symboltable.Table, maxFileSize int64, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:        root,
		tree:        tree,
		table:       table,
		maxFileSize: maxFileSize,
		debounce:    debounce,
		fsw:         fsw,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		pending:     make(map[string]time.Time),
	}, nil
}

// Start registers every non-ignored directory under root with the
// underlying fsnotify watcher and launches the event and debounce loops.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addDirectories(); err != nil {
		return err
	}

	go w.processEvents()
	go w.processDebounced()
	return nil
}

// Stop closes the underlying fsnotify watcher and blocks until both
// background loops have exited, satisfying a scoped-resource contract: a
// caller that has returned from Stop can safely drop every reference to
// the Watcher's tree and table.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	err := w.fsw.Close()
	<-w.doneCh
	<-w.doneCh
	return err
}

func (w *Watcher) addDirectories() error {
	return filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && ign.ShouldIgnoreDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logx.Get().Debug().Str("dir", path).Err(err).Msg("cannot watch directory")
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer func() { w.doneCh <- struct{}{} }()
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logx.Get().Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if ign.PathHasIgnoredComponent(rel) || ign.ShouldIgnoreExtension(rel) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				logx.Get().Debug().Str("dir", event.Name).Err(err).Msg("cannot watch new directory")
			}
			return
		}
	}

	if event.Op&fsnotify.Remove != 0 || event.Op&fsnotify.Rename != 0 {
		w.table.RemoveFile(rel)
		w.tree.Remove(rel)
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	w.pendingMu.Lock()
	w.pending[rel] = time.Now()
	w.pendingMu.Unlock()
}

func (w *Watcher) processDebounced() {
	defer func() { w.doneCh <- struct{}{} }()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.drainPending()
		}
	}
}

func (w *Watcher) drainPending() {
	now := time.Now()

	w.pendingMu.Lock()
	ready := make([]string, 0, len(w.pending))
	for rel, ts := range w.pending {
		if now.Sub(ts) >= w.debounce {
			ready = append(ready, rel)
			delete(w.pending, rel)
		}
	}
	w.pendingMu.Unlock()

	for _, rel := range ready {
		w.reindex(rel)
	}
}

func (w *Watcher) reindex(rel string) {
	full := filepath.Join(w.root, rel)
	info, err := os.Stat(full)
	if err != nil {
		// Deleted between debounce and processing; treat as a removal.
		w.table.RemoveFile(rel)
		w.tree.Remove(rel)
		return
	}
	if info.Size() > w.maxFileSize {
		return
	}

	lang := model.LanguageFromExtension(strings.ToLower(filepath.Ext(rel)))
	rec := model.NewFileRecord(rel, info.Size(), info.ModTime(), lang)
	w.tree.Insert(rec)

	if err := extractor.ExtractAndStore(w.root, rec, w.table); err != nil {
		logx.Get().Debug().Str("file", rel).Err(err).Msg("re-extraction failed")
	}
}
