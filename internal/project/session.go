package project

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// HistoryEntry records one request served within a Session, truncated to
// a short preview so history never grows unbounded in memory.
type HistoryEntry struct {
	Timestamp       time.Time
	Method          string
	Path            string
	ResponsePreview string
}

const historyPreviewLimit = 200

// Session binds a client's conversation to one Project root, accumulating
// a short request history for introspection.
type Session struct {
	ID          string
	ProjectPath string
	CreatedAt   time.Time

	mu         sync.Mutex
	lastActive time.Time
	history    []HistoryEntry
}

// NewSession mints a Session bound to projectPath with a random ID.
func NewSession(projectPath string) *Session {
	now := time.Now()
	return &Session{
		ID:          newSessionID(),
		ProjectPath: projectPath,
		CreatedAt:   now,
		lastActive:  now,
	}
}

func newSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Record appends a history entry and bumps last-active, truncating long
// previews to historyPreviewLimit bytes followed by "...".
func (s *Session) Record(method, path, responsePreview string) {
	if len(responsePreview) > historyPreviewLimit {
		responsePreview = responsePreview[:historyPreviewLimit] + "..."
	}
	s.mu.Lock()
	s.lastActive = time.Now()
	s.history = append(s.history, HistoryEntry{
		Timestamp:       time.Now(),
		Method:          method,
		Path:            path,
		ResponsePreview: responsePreview,
	})
	s.mu.Unlock()
}

// History returns a snapshot of the Session's recorded requests.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// LastActive reports the Session's most recent Record time.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// CreateSession registers a fresh Session bound to projectPath and
// returns it.
func (r *Registry) CreateSession(projectPath string) *Session {
	sess := NewSession(projectPath)
	r.sessMu.Lock()
	r.sessions[sess.ID] = sess
	r.sessMu.Unlock()
	return sess
}
