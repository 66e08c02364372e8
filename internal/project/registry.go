package project

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/coderlm/coderlm/internal/apperr"
	"github.com/coderlm/coderlm/internal/logx"
)

// Registry owns every indexed Project and every active Session, bounded
// to maxProjects concurrently-indexed directories via an LRU that evicts
// on insert-at-capacity (spec §4.7).
type Registry struct {
	maxFileSize int64
	debounce    time.Duration

	mu       sync.Mutex
	projects *lru.Cache[string, *Project]

	sessMu   sync.Mutex
	sessions map[string]*Session
}

// NewRegistry builds a Registry bounded to maxProjects projects.
func NewRegistry(maxProjects int, maxFileSize int64, debounce time.Duration) (*Registry, error) {
	r := &Registry{
		maxFileSize: maxFileSize,
		debounce:    debounce,
		sessions:    make(map[string]*Session),
	}

	cache, err := lru.NewWithEvict[string, *Project](maxProjects, r.onEvict)
	if err != nil {
		return nil, apperr.Internal(err, "construct project LRU")
	}
	r.projects = cache
	return r, nil
}

// onEvict stops the evicted Project's watcher, persists its state, and
// purges every Session pointing at it (spec §4.7 step 1).
func (r *Registry) onEvict(path string, p *Project) {
	logx.Get().Info().Str("project", path).Msg("evicting project")
	p.stop()

	r.sessMu.Lock()
	for id, sess := range r.sessions {
		if sess.ProjectPath == path {
			delete(r.sessions, id)
		}
	}
	r.sessMu.Unlock()
}

// GetOrCreateProject returns the Project rooted at the canonicalized cwd,
// indexing it fresh if it is not already tracked. Touches last-active on
// every call, including cache hits.
func (r *Registry) GetOrCreateProject(cwd string) (*Project, error) {
	canonical, err := filepath.Abs(cwd)
	if err != nil {
		return nil, apperr.BadRequestf("path not accessible: %v", err)
	}
	canonical, err = filepath.EvalSymlinks(canonical)
	if err != nil {
		return nil, apperr.BadRequestf("path not accessible: %v", err)
	}

	info, err := os.Stat(canonical)
	if err != nil || !info.IsDir() {
		return nil, apperr.BadRequestf("'%s' is not a directory", canonical)
	}

	r.mu.Lock()
	if p, ok := r.projects.Get(canonical); ok {
		r.mu.Unlock()
		p.Touch()
		return p, nil
	}
	r.mu.Unlock()

	logx.Get().Info().Str("project", canonical).Msg("indexing new project")
	p, err := index(canonical, r.maxFileSize, r.debounce)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.projects.Add(canonical, p)
	r.mu.Unlock()

	return p, nil
}

// GetProjectForSession resolves sessionID to its Project, returning a
// apperr.Gone error if the Project has since been evicted.
func (r *Registry) GetProjectForSession(sessionID string) (*Project, error) {
	r.sessMu.Lock()
	sess, ok := r.sessions[sessionID]
	r.sessMu.Unlock()
	if !ok {
		return nil, apperr.NotFoundf("session '%s' not found", sessionID)
	}

	r.mu.Lock()
	p, ok := r.projects.Get(sess.ProjectPath)
	r.mu.Unlock()
	if !ok {
		return nil, apperr.Gonef(
			"project at '%s' was evicted due to capacity limits; start a new session to re-index, or increase max_projects",
			sess.ProjectPath)
	}
	return p, nil
}

// GetSession resolves sessionID to its Session, independent of whether
// the Session's Project is still tracked. Used by the transport layer
// to report history even after eviction.
func (r *Registry) GetSession(sessionID string) (*Session, error) {
	r.sessMu.Lock()
	sess, ok := r.sessions[sessionID]
	r.sessMu.Unlock()
	if !ok {
		return nil, apperr.NotFoundf("session '%s' not found", sessionID)
	}
	return sess, nil
}

// TouchProject updates the last-active timestamp on the Project rooted
// at path, if it is still tracked.
func (r *Registry) TouchProject(path string) {
	r.mu.Lock()
	p, ok := r.projects.Get(path)
	r.mu.Unlock()
	if ok {
		p.Touch()
	}
}

// Len reports the number of currently tracked Projects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projects.Len()
}
