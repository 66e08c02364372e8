package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/project"
	"github.com/coderlm/coderlm/internal/query"
)

// CreateProjectRequest names the directory to index.
type CreateProjectRequest struct {
	Path string `json:"path"`
}

// CreateProjectResponse is a fresh session bound to the indexed project.
type CreateProjectResponse struct {
	SessionID string `json:"session_id"`
	Root      string `json:"root"`
	FileCount int    `json:"file_count"`
}

// handleGetOrCreateProject indexes (or reuses) the project at the
// requested path and mints a Session bound to it (spec §6.3's
// get_or_create_project, fronted with session creation for the
// transport layer's own bookkeeping).
func (s *Server) handleGetOrCreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	p, err := s.registry.GetOrCreateProject(req.Path)
	if err != nil {
		writeErr(w, err)
		return
	}
	sess := s.registry.CreateSession(p.Root)

	writeJSON(w, http.StatusCreated, CreateProjectResponse{
		SessionID: sess.ID,
		Root:      p.Root,
		FileCount: p.Tree.Len(),
	})
}

// sessionProject resolves the {session} route param to its Project,
// writing a response and returning ok=false on any failure so callers
// can just `return` on failure.
func (s *Server) sessionProject(w http.ResponseWriter, r *http.Request) (*project.Project, bool) {
	id := chi.URLParam(r, "session")
	p, err := s.registry.GetProjectForSession(id)
	if err != nil {
		writeErr(w, err)
		return nil, false
	}
	return p, true
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	depth := queryInt(r, "depth", 0)
	writeJSON(w, http.StatusOK, query.Structure(p.Tree, depth))
}

func (s *Server) handlePeek(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	file := r.URL.Query().Get("file")
	start := queryInt(r, "start", 0)
	end := queryInt(r, "end", 1<<30)

	resp, err := query.Peek(p.Root, p.Tree, file, start, end)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrep(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	scope := query.ScopeAll
	if r.URL.Query().Get("scope") == string(query.ScopeCode) {
		scope = query.ScopeCode
	}
	pattern := r.URL.Query().Get("pattern")
	maxMatches := queryInt(r, "max_matches", 100)
	context := queryInt(r, "context", 0)

	resp, err := query.Grep(p.Root, p.Tree, pattern, scope, maxMatches, context)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChunkIndices(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	file := r.URL.Query().Get("file")
	size := queryInt(r, "size", 2000)
	overlap := queryInt(r, "overlap", 200)

	resp, err := query.ChunkIndices(p.Root, p.Tree, file, size, overlap)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSymbols(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	kind := model.SymbolKind(r.URL.Query().Get("kind"))
	file := r.URL.Query().Get("file")
	limit := queryInt(r, "limit", 100)

	writeJSON(w, http.StatusOK, query.ListSymbols(p.Table, kind, file, limit))
}

func (s *Server) handleSearchSymbols(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 50)

	writeJSON(w, http.StatusOK, query.SearchSymbols(p.Table, q, limit))
}

func (s *Server) handleGetImplementation(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	symbol := r.URL.Query().Get("symbol")
	file := r.URL.Query().Get("file")

	impl, err := query.GetImplementation(p.Root, p.Table, symbol, file)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"implementation": impl})
}

func (s *Server) handleFindCallers(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	symbol := r.URL.Query().Get("symbol")
	file := r.URL.Query().Get("file")
	limit := queryInt(r, "limit", 100)

	callers, err := query.FindCallers(p.Root, p.Tree, p.Table, symbol, file, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, callers)
}

func (s *Server) handleFindTests(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	symbol := r.URL.Query().Get("symbol")
	file := r.URL.Query().Get("file")
	limit := queryInt(r, "limit", 50)

	tests, err := query.FindTests(p.Root, p.Table, symbol, file, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tests)
}

func (s *Server) handleListVariables(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	fn := r.URL.Query().Get("function")
	file := r.URL.Query().Get("file")

	vars, err := query.ListVariables(p.Root, p.Table, fn, file)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vars)
}

// DefinitionRequest carries a file or symbol name plus the definition
// text to attach, shared across the define/redefine/mark mutators.
type DefinitionRequest struct {
	File       string `json:"file"`
	Symbol     string `json:"symbol,omitempty"`
	Definition string `json:"definition,omitempty"`
	Mark       string `json:"mark,omitempty"`
}

func (s *Server) decodeDefinitionRequest(w http.ResponseWriter, r *http.Request) (DefinitionRequest, bool) {
	var req DefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.File == "" {
		writeError(w, http.StatusBadRequest, "file is required")
		return req, false
	}
	return req, true
}

func (s *Server) handleDefineFile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeDefinitionRequest(w, r)
	if !ok {
		return
	}
	if err := query.DefineFile(p.Tree, req.File, req.Definition); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRedefineFile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeDefinitionRequest(w, r)
	if !ok {
		return
	}
	if err := query.RedefineFile(p.Tree, req.File, req.Definition); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMarkFile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeDefinitionRequest(w, r)
	if !ok {
		return
	}
	if err := query.MarkFile(p.Tree, req.File, req.Mark); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDefineSymbol(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeDefinitionRequest(w, r)
	if !ok {
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if err := query.DefineSymbol(p.Table, req.Symbol, req.File, req.Definition); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRedefineSymbol(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sessionProject(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeDefinitionRequest(w, r)
	if !ok {
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if err := query.RedefineSymbol(p.Table, req.Symbol, req.File, req.Definition); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleHistory reports the Session's recorded request history. Unlike
// the operations above it resolves the Session directly rather than via
// sessionProject, since a Session whose Project was evicted should
// still be able to report its own accumulated history up to the point
// of eviction.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	sess, err := s.registry.GetSession(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.History())
}
