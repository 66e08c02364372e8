package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderlm/coderlm/internal/filetree"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// TestWalkInvariants is testable property 3: every emitted record has a
// relative path, no ignored directory component, an extension outside the
// ignore set, and size <= limit.
func TestWalkInvariants(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "vendor/dep.go", "package dep\n")
	writeFile(t, root, "node_modules/pkg/index.js", "export {}\n")
	writeFile(t, root, "assets/logo.png", "binary")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")

	tree := filetree.New()
	stats, err := Walk(root, tree, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)

	for _, p := range tree.AllPaths() {
		assert.False(t, strings.HasPrefix(p, "/"), "path must be relative")
		assert.NotContains(t, p, "vendor/")
		assert.NotContains(t, p, "node_modules/")
		assert.NotContains(t, p, ".git/")
		assert.False(t, strings.HasSuffix(p, ".png"))
	}
}

func TestWalkRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n*.tmp\n")
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "generated/codegen.go", "package generated\n")
	writeFile(t, root, "scratch.tmp", "x")

	tree := filetree.New()
	_, err := Walk(root, tree, 1_000_000)
	require.NoError(t, err)

	_, ok := tree.Get("main.go")
	assert.True(t, ok)
	_, ok = tree.Get("generated/codegen.go")
	assert.False(t, ok)
	_, ok = tree.Get("scratch.tmp")
	assert.False(t, ok)
}

func TestWalkOmitsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.go", strings.Repeat("x", 100))
	writeFile(t, root, "small.go", "ok")

	tree := filetree.New()
	_, err := Walk(root, tree, 10)
	require.NoError(t, err)

	_, ok := tree.Get("big.go")
	assert.False(t, ok, "oversized files must be omitted entirely")
	_, ok = tree.Get("small.go")
	assert.True(t, ok)
}
