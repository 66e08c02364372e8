package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/symboltable"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// TestSaveLoadUnchangedIsAllCached grounds testable property 2: a
// save-then-load against an unmodified filesystem must classify every
// file as cached, with none changed, new, or deleted.
func TestSaveLoadUnchangedIsAllCached(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.go", "package b\n")

	tree := filetree.New()
	table := symboltable.New()
	_, err := Load(root, tree, table, 1<<20)
	require.NoError(t, err)
	for _, rec := range tree.All() {
		table.Insert(&model.Symbol{Name: "Sym_" + rec.Path, File: rec.Path, Kind: model.KindFunction})
	}

	require.NoError(t, Save(root, tree, table))

	tree2 := filetree.New()
	table2 := symboltable.New()
	stats, err := Load(root, tree2, table2, 1<<20)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Cached)
	assert.Zero(t, stats.Changed)
	assert.Zero(t, stats.New)
	assert.Zero(t, stats.Deleted)
	assert.Empty(t, stats.FilesToExtract)
	assert.Equal(t, 2, table2.Len())
}

// TestReconcileClassifiesDeletedNewChanged grounds scenario S3: one
// deleted, one new, one modified file relative to a prior snapshot.
func TestReconcileClassifiesDeletedNewChanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", "package keep\n")
	writeFile(t, root, "remove.go", "package remove\n")
	writeFile(t, root, "change.go", "package change\n// v1\n")

	tree := filetree.New()
	table := symboltable.New()
	_, err := Load(root, tree, table, 1<<20)
	require.NoError(t, err)
	require.NoError(t, Save(root, tree, table))

	require.NoError(t, os.Remove(filepath.Join(root, "remove.go")))
	writeFile(t, root, "add.go", "package add\n")
	// Ensure the mtime actually advances past filesystem granularity.
	future := time.Now().Add(2 * time.Second)
	writeFile(t, root, "change.go", "package change\n// v2, longer content to change size\n")
	require.NoError(t, os.Chtimes(filepath.Join(root, "change.go"), future, future))

	tree2 := filetree.New()
	table2 := symboltable.New()
	stats, err := Load(root, tree2, table2, 1<<20)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Cached)  // keep.go
	assert.Equal(t, 1, stats.Changed) // change.go
	assert.Equal(t, 1, stats.New)     // add.go
	assert.Equal(t, 1, stats.Deleted) // remove.go
	assert.ElementsMatch(t, []string{"change.go", "add.go"}, stats.FilesToExtract)
}

// TestLoadWithNoCacheTreatsEverythingAsNew grounds the "missing or
// version-mismatched blob behaves as no cache" contract.
func TestLoadWithNoCacheTreatsEverythingAsNew(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "only.go", "package only\n")

	tree := filetree.New()
	table := symboltable.New()
	stats, err := Load(root, tree, table, 1<<20)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.New)
	assert.Zero(t, stats.Cached)
	assert.Equal(t, []string{"only.go"}, stats.FilesToExtract)
}

func TestLoadIgnoresVersionMismatchedBlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x.go", "package x\n")

	tree := filetree.New()
	table := symboltable.New()
	require.NoError(t, Save(root, tree, table))

	blob, ok := readBlob(root)
	require.True(t, ok)
	blob.Version = CurrentVersion + 1
	require.NoError(t, saveBlob(root, blob))

	tree2 := filetree.New()
	table2 := symboltable.New()
	stats, err := Load(root, tree2, table2, 1<<20)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.New)
	assert.Zero(t, stats.Cached)
}
