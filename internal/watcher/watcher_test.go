package watcher

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

func TestWatcherIndexesNewFile(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	table := symboltable.New()

	w, err := New(root, tree, table, 1<<20, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(root, "new.go")
	require.NoError(t, os.WriteFile(path, []byte("package new\n\nfunc Created() {}\n"), 0o644))

	require.Eventually(t, func() bool {
		_, ok := tree.Get("new.go")
		return ok
	}, 2*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := table.Get("new.go", "Created")
		return ok
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcherRemovesDeletedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "gone.go")
	require.NoError(t, os.WriteFile(path, []byte("package gone\n"), 0o644))

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)

	tree := filetree.New()
	tree.Insert(model.NewFileRecord("gone.go", info.Size(), info.ModTime(), model.LangGo))
	table := symboltable.New()
	table.Insert(&model.Symbol{Name: "Whatever", File: "gone.go", Kind: model.KindFunction})

	w, err := New(root, tree, table, 1<<20, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		_, ok := tree.Get("gone.go")
		return !ok
	}, 2*time.Second, 20*time.Millisecond)

	_, ok := table.Get("gone.go", "Whatever")
	assert.False(t, ok)
}

func TestStopIsIdempotentAndSynchronous(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, filetree.New(), symboltable.New(), 1<<20, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
