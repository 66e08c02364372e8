// Package cache implements the versioned on-disk index snapshot and its
// load-time reconciliation against a fresh walk (spec §4.5/§6.1).
package cache

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/coderlm/coderlm/internal/apperr"
	"github.com/coderlm/coderlm/internal/config"
	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/symboltable"
	"github.com/coderlm/coderlm/internal/walker"
)

// CurrentVersion is the cache blob format version. A mismatch is treated
// as no cache at all, never an error.
const CurrentVersion uint32 = 1

// IndexFileName is the cache blob's path relative to a project root.
const IndexFileName = config.DefaultConfigDir + "/index.bin"

// Blob is the versioned snapshot persisted to disk. Binary (gob)
// serialization is chosen for speed and fidelity, the direct analogue of
// the reference implementation's bincode format.
type Blob struct {
	Version       uint32
	FileEntries   map[string]*model.FileRecord
	Symbols       map[string]*model.Symbol
	SymbolsByName map[string]map[string]struct{}
	SymbolsByFile map[string]map[string]struct{}
}

// Save snapshots tree and table into a gob blob at <root>/.coderlm/index.bin,
// using write-to-temp-then-rename so a crash mid-write never leaves a
// half-written blob that deserializes to a corrupt index.
func Save(root string, tree *filetree.Tree, table *symboltable.Table) error {
	blob := Blob{
		Version:       CurrentVersion,
		FileEntries:   tree.All(),
		Symbols:       make(map[string]*model.Symbol),
		SymbolsByName: make(map[string]map[string]struct{}),
		SymbolsByFile: make(map[string]map[string]struct{}),
	}

	for _, sym := range table.All() {
		key := sym.Key()
		blob.Symbols[key] = sym
		addToSet(blob.SymbolsByName, sym.Name, key)
		addToSet(blob.SymbolsByFile, sym.File, key)
	}

	return saveBlob(root, &blob)
}

// saveBlob gob-encodes blob and writes it to root's index file via
// write-to-temp-then-rename.
func saveBlob(root string, blob *Blob) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(blob); err != nil {
		return apperr.Internal(err, "encode index cache")
	}

	indexPath := filepath.Join(root, IndexFileName)
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return apperr.Internal(err, "create cache directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(indexPath), ".index-*.tmp")
	if err != nil {
		return apperr.Internal(err, "create temp cache file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apperr.Internal(err, "write temp cache file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return apperr.Internal(err, "close temp cache file")
	}
	if err := os.Rename(tmpPath, indexPath); err != nil {
		os.Remove(tmpPath)
		return apperr.Internal(err, "rename temp cache file into place")
	}
	return nil
}

func addToSet(sets map[string]map[string]struct{}, index, key string) {
	set, ok := sets[index]
	if !ok {
		set = make(map[string]struct{})
		sets[index] = set
	}
	set[key] = struct{}{}
}

// ReconcileStats reports the classification produced by Load.
type ReconcileStats struct {
	Cached         int
	Changed        int
	New            int
	Deleted        int
	FilesToExtract []string
}

// Load reads the cache blob (if present and version-compatible), runs a
// fresh walk, classifies every path as cached/changed/new/deleted against
// the blob, and populates tree and table per spec §4.5's algorithm.
func Load(root string, tree *filetree.Tree, table *symboltable.Table, maxFileSize int64) (ReconcileStats, error) {
	var stats ReconcileStats

	blob, ok := readBlob(root)

	freshTree := filetree.New()
	if _, err := walker.Walk(root, freshTree, maxFileSize); err != nil {
		return stats, apperr.Internal(err, "walk %s for reconciliation", root)
	}
	freshRecords := freshTree.All()

	if !ok {
		// No usable cache: every fresh path is new.
		for path, rec := range freshRecords {
			tree.Insert(rec)
			stats.New++
			stats.FilesToExtract = append(stats.FilesToExtract, path)
		}
		return stats, nil
	}

	changedOrNew := make(map[string]struct{})

	for path, freshRec := range freshRecords {
		cachedRec, inCache := blob.FileEntries[path]
		switch {
		case inCache && statsMatch(cachedRec, freshRec):
			tree.Insert(cachedRec)
			stats.Cached++
		case inCache:
			tree.Insert(freshRec)
			stats.Changed++
			changedOrNew[path] = struct{}{}
			stats.FilesToExtract = append(stats.FilesToExtract, path)
		default:
			tree.Insert(freshRec)
			stats.New++
			changedOrNew[path] = struct{}{}
			stats.FilesToExtract = append(stats.FilesToExtract, path)
		}
	}

	for path := range blob.FileEntries {
		if _, stillPresent := freshRecords[path]; !stillPresent {
			stats.Deleted++
			changedOrNew[path] = struct{}{} // stale, excluded from symbol repopulation too
		}
	}

	for _, sym := range blob.Symbols {
		if _, stale := changedOrNew[sym.File]; stale {
			continue
		}
		table.Insert(sym)
	}

	return stats, nil
}

func statsMatch(a, b *model.FileRecord) bool {
	return a.Size == b.Size && a.ModTime.Equal(b.ModTime)
}

func readBlob(root string) (*Blob, bool) {
	data, err := os.ReadFile(filepath.Join(root, IndexFileName))
	if err != nil {
		return nil, false
	}

	var blob Blob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&blob); err != nil {
		return nil, false
	}
	if blob.Version != CurrentVersion {
		return nil, false
	}
	return &blob, true
}
