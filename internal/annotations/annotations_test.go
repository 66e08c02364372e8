package annotations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/symboltable"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	tree := filetree.New()
	rec := model.NewFileRecord("a.go", 10, time.Now(), model.LangGo)
	rec.Definition = "entry point"
	rec.Marks[model.MarkGenerated] = struct{}{}
	tree.Insert(rec)

	table := symboltable.New()
	sym := &model.Symbol{Name: "Foo", File: "a.go", Kind: model.KindFunction}
	sym.Definition = "does the thing"
	table.Insert(sym)

	require.NoError(t, Save(root, tree, table))

	tree2 := filetree.New()
	tree2.Insert(model.NewFileRecord("a.go", 10, time.Now(), model.LangGo))
	table2 := symboltable.New()
	table2.Insert(&model.Symbol{Name: "Foo", File: "a.go", Kind: model.KindFunction})

	data, err := Load(root, tree2, table2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, sortedKeys(data.FileDefinitions))

	rec2, ok := tree2.Get("a.go")
	require.True(t, ok)
	assert.Equal(t, "entry point", rec2.Definition)
	_, marked := rec2.Marks[model.MarkGenerated]
	assert.True(t, marked)

	sym2, ok := table2.Get("a.go", "Foo")
	require.True(t, ok)
	assert.Equal(t, "does the thing", sym2.Definition)
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	data, err := Load(root, filetree.New(), symboltable.New())
	require.NoError(t, err)
	assert.Empty(t, data.FileDefinitions)
	assert.Empty(t, data.FileMarks)
	assert.Empty(t, data.SymbolDefinitions)
}

func TestLoadSkipsAnnotationsForMissingFiles(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	table := symboltable.New()

	seedTree := filetree.New()
	rec := model.NewFileRecord("real.go", 1, time.Now(), model.LangGo)
	rec.Definition = "kept"
	seedTree.Insert(rec)
	require.NoError(t, Save(root, seedTree, symboltable.New()))

	// Load against a tree that lacks real.go entirely: the annotation is
	// skipped, not an error.
	data, err := Load(root, tree, table)
	require.NoError(t, err)
	assert.Equal(t, "kept", data.FileDefinitions["real.go"])
	_, ok := tree.Get("real.go")
	assert.False(t, ok)
}
