// Package symboltable implements the Symbol Table: a concurrent primary
// store keyed by (file, name) with by-name and by-file secondary indices
// maintained under every mutation (spec §4.4).
//
// The three maps are each independently sharded; mutations update the
// secondary indices and then the primary store (never atomically across
// all three), so a reader that walks a secondary index must re-verify
// against the primary store before trusting a hit — the "readers verify"
// discipline spec §9 calls out explicitly.
package symboltable

import (
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"github.com/coderlm/coderlm/internal/model"
)

const shardCount = 32

type setShard struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

type symShard struct {
	mu  sync.RWMutex
	sym map[string]*model.Symbol
}

// Table is the concurrent Symbol Table for a single Project.
type Table struct {
	primary [shardCount]*symShard
	byName  [shardCount]*setShard
	byFile  [shardCount]*setShard
}

// New returns an empty Table.
func New() *Table {
	t := &Table{}
	for i := 0; i < shardCount; i++ {
		t.primary[i] = &symShard{sym: make(map[string]*model.Symbol)}
		t.byName[i] = &setShard{sets: make(map[string]map[string]struct{})}
		t.byFile[i] = &setShard{sets: make(map[string]map[string]struct{})}
	}
	return t
}

func shardIndex(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}

func (t *Table) primaryShard(key string) *symShard { return t.primary[shardIndex(key)] }
func (t *Table) nameShard(name string) *setShard    { return t.byName[shardIndex(name)] }
func (t *Table) fileShard(file string) *setShard    { return t.byFile[shardIndex(file)] }

func setAdd(s *setShard, index, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[index]
	if !ok {
		set = make(map[string]struct{})
		s.sets[index] = set
	}
	set[key] = struct{}{}
}

// setRemove deletes key from index's set, pruning the index entry entirely
// if the set becomes empty (spec §4.4 remove_file behaviour).
func setRemove(s *setShard, index, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[index]
	if !ok {
		return
	}
	delete(set, key)
	if len(set) == 0 {
		delete(s.sets, index)
	}
}

func setMembers(s *setShard, index string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[index]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// Insert upserts sym by primary key and updates both secondary indices.
// Secondary indices are updated before the primary record, per the
// original reference order — a concurrent reader that follows a secondary
// index to a not-yet-inserted primary record simply misses (readers-verify
// discipline), never dangles.
func (t *Table) Insert(sym *model.Symbol) {
	key := sym.Key()
	setAdd(t.nameShard(sym.Name), sym.Name, key)
	setAdd(t.fileShard(sym.File), sym.File, key)

	shard := t.primaryShard(key)
	shard.mu.Lock()
	shard.sym[key] = sym
	shard.mu.Unlock()
}

// RemoveFile removes every Symbol whose File equals file: drops the
// by-file entry, removes each referenced key from the primary store, and
// prunes the corresponding by-name entry (spec §4.4).
func (t *Table) RemoveFile(file string) {
	keys := setMembers(t.fileShard(file), file)

	fs := t.fileShard(file)
	fs.mu.Lock()
	delete(fs.sets, file)
	fs.mu.Unlock()

	for _, key := range keys {
		shard := t.primaryShard(key)
		shard.mu.Lock()
		sym, ok := shard.sym[key]
		if ok {
			delete(shard.sym, key)
		}
		shard.mu.Unlock()

		if ok {
			setRemove(t.nameShard(sym.Name), sym.Name, key)
		}
	}
}

// Get performs a point lookup by (file, name).
func (t *Table) Get(file, name string) (*model.Symbol, bool) {
	key := model.MakeSymbolKey(file, name)
	shard := t.primaryShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	sym, ok := shard.sym[key]
	return sym, ok
}

// GetByKey performs a point lookup by the composite "file::name" key.
func (t *Table) GetByKey(key string) (*model.Symbol, bool) {
	shard := t.primaryShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	sym, ok := shard.sym[key]
	return sym, ok
}

// All returns every live Symbol. Order is unspecified.
func (t *Table) All() []*model.Symbol {
	out := make([]*model.Symbol, 0)
	for i := 0; i < shardCount; i++ {
		shard := t.primary[i]
		shard.mu.RLock()
		for _, sym := range shard.sym {
			out = append(out, sym)
		}
		shard.mu.RUnlock()
	}
	return out
}

// Len returns the number of live Symbols.
func (t *Table) Len() int {
	n := 0
	for i := 0; i < shardCount; i++ {
		shard := t.primary[i]
		shard.mu.RLock()
		n += len(shard.sym)
		shard.mu.RUnlock()
	}
	return n
}

// ListByFile returns every live Symbol in file, verifying each by-file
// index hit against the primary store (a miss is silently filtered, per
// the readers-verify discipline).
func (t *Table) ListByFile(file string) []*model.Symbol {
	keys := setMembers(t.fileShard(file), file)
	out := make([]*model.Symbol, 0, len(keys))
	for _, key := range keys {
		if sym, ok := t.GetByKey(key); ok {
			out = append(out, sym)
		}
	}
	return out
}

// Search does a case-insensitive substring match over every live symbol's
// name, stopping once limit results are found. Order is unspecified but
// stable within one snapshot (the All() scan order at call time).
func (t *Table) Search(query string, limit int) []*model.Symbol {
	q := strings.ToLower(query)
	out := make([]*model.Symbol, 0, limit)
	for _, sym := range t.All() {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(sym.Name), q) {
			out = append(out, sym)
		}
	}
	return out
}

// SortByFileThenLine orders symbols by (File, LineRange.Start), matching
// the list_symbols contract.
func SortByFileThenLine(syms []*model.Symbol) {
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].File != syms[j].File {
			return syms[i].File < syms[j].File
		}
		return syms[i].LineRange.Start < syms[j].LineRange.Start
	})
}
