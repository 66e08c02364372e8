package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderlm/coderlm/internal/extractor"
	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/symboltable"
)

func seedFile(t *testing.T, root, rel, content string, tree *filetree.Tree, table *symboltable.Table) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))

	info, err := os.Stat(full)
	require.NoError(t, err)
	lang := model.LanguageFromExtension(filepath.Ext(rel))
	rec := model.NewFileRecord(rel, info.Size(), info.ModTime(), lang)
	tree.Insert(rec)

	if table != nil {
		require.NoError(t, extractor.ExtractAndStore(root, rec, table))
	}
}

func TestStructureRendersBoxDrawingTree(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	seedFile(t, root, "a.go", "package a\n", tree, nil)
	seedFile(t, root, "pkg/b.go", "package pkg\n", tree, nil)

	resp := Structure(tree, 0)
	assert.Equal(t, 2, resp.FileCount)
	assert.Contains(t, resp.Tree, "a.go")
	assert.Contains(t, resp.Tree, "pkg/")
	assert.Contains(t, resp.Tree, "b.go")
}

func TestPeekClampsToFileBounds(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	seedFile(t, root, "a.go", "line1\nline2\nline3\n", tree, nil)

	resp, err := Peek(root, tree, "a.go", 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalLines)
	assert.Equal(t, 2, resp.StartLine)
	assert.Equal(t, 3, resp.EndLine)
	assert.Contains(t, resp.Content, "line2")
	assert.Contains(t, resp.Content, "line3")
	assert.NotContains(t, resp.Content, "line1")
}

func TestPeekMissingFileIsNotFound(t *testing.T) {
	_, err := Peek(t.TempDir(), filetree.New(), "missing.go", 0, 10)
	require.Error(t, err)
}

// TestGrepCodeScopeIsSubsetOfAllScope grounds testable property 6 and
// scenario S4: a string literal and a trailing comment both contain the
// search term; scope=code must exclude both matches that scope=all finds.
func TestGrepCodeScopeIsSubsetOfAllScope(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	seedFile(t, root, "m.go", "package m\n\nvar s = \"TODO\" // TODO real\n", tree, nil)

	all, err := Grep(root, tree, "TODO", ScopeAll, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalMatches)

	code, err := Grep(root, tree, "TODO", ScopeCode, 100, 0)
	require.NoError(t, err)
	assert.Zero(t, code.TotalMatches)
}

func TestGrepReportsTruncation(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	seedFile(t, root, "m.go", "match\nmatch\nmatch\n", tree, nil)

	resp, err := Grep(root, tree, "match", ScopeAll, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalMatches)
	assert.Len(t, resp.Matches, 2)
	assert.True(t, resp.Truncated)
}

func TestChunkIndicesCoversFullFileWithOverlap(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	seedFile(t, root, "a.txt", "0123456789", tree, nil)

	resp, err := ChunkIndices(root, tree, "a.txt", 4, 1)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Chunks)
	assert.Equal(t, 10, resp.TotalBytes)
	last := resp.Chunks[len(resp.Chunks)-1]
	assert.Equal(t, 10, last.End)
	for i := 1; i < len(resp.Chunks); i++ {
		assert.True(t, resp.Chunks[i].Start < resp.Chunks[i-1].End, "window %d should overlap window %d", i, i-1)
	}
}

func TestChunkIndicesRejectsInvalidParams(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	seedFile(t, root, "a.txt", "abc", tree, nil)

	_, err := ChunkIndices(root, tree, "a.txt", 0, 0)
	require.Error(t, err)

	_, err = ChunkIndices(root, tree, "a.txt", 4, 4)
	require.Error(t, err)
}

func TestListSymbolsFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	table := symboltable.New()
	seedFile(t, root, "a.go", "package a\n\nfunc B() {}\n\nfunc A() {}\n", tree, table)

	results := ListSymbols(table, model.KindFunction, "", 10)
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].Name)
	assert.Equal(t, "A", results[1].Name)
}

func TestGetImplementationReturnsSourceSlice(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	table := symboltable.New()
	seedFile(t, root, "a.go", "package a\n\nfunc Foo() {\n\treturn\n}\n", tree, table)

	impl, err := GetImplementation(root, table, "Foo", "a.go")
	require.NoError(t, err)
	assert.Contains(t, impl, "func Foo()")
}

func TestDefineThenRedefineSymbol(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	table := symboltable.New()
	seedFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n", tree, table)

	require.NoError(t, DefineSymbol(table, "Foo", "a.go", "first"))
	err := DefineSymbol(table, "Foo", "a.go", "second")
	require.Error(t, err)

	require.NoError(t, RedefineSymbol(table, "Foo", "a.go", "second"))
	sym, ok := table.Get("a.go", "Foo")
	require.True(t, ok)
	assert.Equal(t, "second", sym.Definition)
}

func TestFindCallersSuppressesDefinitionLine(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	table := symboltable.New()
	seedFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n\nfunc Bar() { Foo() }\n", tree, table)

	callers, err := FindCallers(root, tree, table, "Foo", "a.go", 10)
	require.NoError(t, err)
	require.Len(t, callers, 1)
	assert.Equal(t, "func Bar() { Foo() }", callers[0].Text)
}

func TestListVariablesScopedToFunctionBody(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	table := symboltable.New()
	seedFile(t, root, "a.go", "package a\n\nfunc Outer() {\n\tx := 1\n\ty := 2\n\t_ = x\n\t_ = y\n}\n", tree, table)

	vars, err := ListVariables(root, table, "Outer", "a.go")
	require.NoError(t, err)

	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	assert.ElementsMatch(t, []string{"x", "y"}, names)
}

func TestMarkFileRejectsUnknownMark(t *testing.T) {
	root := t.TempDir()
	tree := filetree.New()
	seedFile(t, root, "a.go", "package a\n", tree, nil)

	err := MarkFile(tree, "a.go", "not-a-real-mark")
	require.Error(t, err)
}
