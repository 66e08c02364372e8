package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderlm/coderlm/internal/apperr"
)

func newTestRegistry(t *testing.T, maxProjects int) *Registry {
	t.Helper()
	r, err := NewRegistry(maxProjects, 1<<20, 20*time.Millisecond)
	require.NoError(t, err)
	return r
}

func TestGetOrCreateProjectIndexesAndCaches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\nfunc A() {}\n"), 0o644))

	r := newTestRegistry(t, 4)
	p1, err := r.GetOrCreateProject(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	p2, err := r.GetOrCreateProject(dir)
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	_, ok := p1.Table.Get("a.go", "A")
	assert.True(t, ok)
}

func TestGetOrCreateProjectRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	r := newTestRegistry(t, 4)
	_, err := r.GetOrCreateProject(file)
	require.Error(t, err)
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(err))
}

func TestEvictionPurgesSessions(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	r := newTestRegistry(t, 1)
	pA, err := r.GetOrCreateProject(dirA)
	require.NoError(t, err)
	sess := r.CreateSession(pA.Root)

	_, err = r.GetOrCreateProject(dirB)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	_, err = r.GetProjectForSession(sess.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Gone, apperr.KindOf(err))
}

func TestSessionRecordTruncatesLongPreview(t *testing.T) {
	sess := NewSession("/tmp/project")
	long := make([]byte, historyPreviewLimit+50)
	for i := range long {
		long[i] = 'x'
	}
	sess.Record("GET", "/structure", string(long))

	history := sess.History()
	require.Len(t, history, 1)
	assert.True(t, len(history[0].ResponsePreview) <= historyPreviewLimit+3)
}
