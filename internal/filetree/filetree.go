// Package filetree implements the File Tree: a concurrent mapping from
// relative path to File Record, sharded so that independent keys do not
// contend (spec §5 — "fine-grained sharded concurrent maps").
package filetree

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/coderlm/coderlm/internal/model"
)

const shardCount = 32

type shard struct {
	mu    sync.RWMutex
	files map[string]*model.FileRecord
}

// Tree is the concurrent File Tree for a single Project.
type Tree struct {
	shards [shardCount]*shard
}

// New returns an empty Tree.
func New() *Tree {
	t := &Tree{}
	for i := range t.shards {
		t.shards[i] = &shard{files: make(map[string]*model.FileRecord)}
	}
	return t
}

func (t *Tree) shardFor(path string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return t.shards[h.Sum32()%shardCount]
}

// Insert upserts a record, overwriting any prior record at the same path.
func (t *Tree) Insert(rec *model.FileRecord) {
	s := t.shardFor(rec.Path)
	s.mu.Lock()
	s.files[rec.Path] = rec
	s.mu.Unlock()
}

// Remove deletes the record at path, if any, and reports whether it was
// present.
func (t *Tree) Remove(path string) bool {
	s := t.shardFor(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		return false
	}
	delete(s.files, path)
	return true
}

// Get returns the record at path and whether it exists.
func (t *Tree) Get(path string) (*model.FileRecord, bool) {
	s := t.shardFor(path)
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.files[path]
	return rec, ok
}

// Len returns the total number of tracked files.
func (t *Tree) Len() int {
	n := 0
	for _, s := range t.shards {
		s.mu.RLock()
		n += len(s.files)
		s.mu.RUnlock()
	}
	return n
}

// AllPaths returns every tracked path, unsorted.
func (t *Tree) AllPaths() []string {
	paths := make([]string, 0, t.Len())
	for _, s := range t.shards {
		s.mu.RLock()
		for p := range s.files {
			paths = append(paths, p)
		}
		s.mu.RUnlock()
	}
	return paths
}

// SortedPaths returns every tracked path in lexical order.
func (t *Tree) SortedPaths() []string {
	paths := t.AllPaths()
	sort.Strings(paths)
	return paths
}

// All returns a snapshot of every record, keyed by path.
func (t *Tree) All() map[string]*model.FileRecord {
	out := make(map[string]*model.FileRecord, t.Len())
	for _, s := range t.shards {
		s.mu.RLock()
		for p, rec := range s.files {
			out[p] = rec
		}
		s.mu.RUnlock()
	}
	return out
}

// LanguageCount pairs a language tag with how many tracked files carry it.
type LanguageCount struct {
	Language model.Language
	Count    int
}

// LanguageBreakdown returns per-language file counts, sorted descending by
// count (ties broken by language name for determinism).
func (t *Tree) LanguageBreakdown() []LanguageCount {
	counts := make(map[model.Language]int)
	for _, s := range t.shards {
		s.mu.RLock()
		for _, rec := range s.files {
			counts[rec.Language]++
		}
		s.mu.RUnlock()
	}

	out := make([]LanguageCount, 0, len(counts))
	for lang, n := range counts {
		out = append(out, LanguageCount{Language: lang, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Language < out[j].Language
	})
	return out
}
