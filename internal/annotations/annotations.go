// Package annotations persists the agent-authored layer (file
// definitions, file marks, symbol definitions) separately from the
// derived index cache, at .coderlm/annotations.json (spec §4.8/§6.1).
package annotations

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/coderlm/coderlm/internal/apperr"
	"github.com/coderlm/coderlm/internal/config"
	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/logx"
	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/symboltable"
)

// FileName is the annotations file's path relative to a project root.
const FileName = config.DefaultConfigDir + "/annotations.json"

// Data is the on-disk annotation document.
type Data struct {
	FileDefinitions   map[string]string   `json:"file_definitions"`
	FileMarks         map[string][]string `json:"file_marks"`
	SymbolDefinitions map[string]string   `json:"symbol_definitions"`
}

func empty() *Data {
	return &Data{
		FileDefinitions:   make(map[string]string),
		FileMarks:         make(map[string][]string),
		SymbolDefinitions: make(map[string]string),
	}
}

// Save collects every file definition/mark and symbol definition
// currently held in tree and table and writes them to
// <root>/.coderlm/annotations.json as pretty-printed JSON.
func Save(root string, tree *filetree.Tree, table *symboltable.Table) error {
	data := empty()

	for path, rec := range tree.All() {
		if rec.Definition != "" {
			data.FileDefinitions[path] = rec.Definition
		}
		if marks := rec.MarkList(); len(marks) > 0 {
			strs := make([]string, len(marks))
			for i, m := range marks {
				strs[i] = string(m)
			}
			data.FileMarks[path] = strs
		}
	}

	for _, sym := range table.All() {
		if sym.Definition != "" {
			data.SymbolDefinitions[sym.Key()] = sym.Definition
		}
	}

	path := filepath.Join(root, FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.Internal(err, "create annotations directory")
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return apperr.Internal(err, "encode annotations")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return apperr.Internal(err, "write annotations file")
	}

	logx.Get().Debug().
		Int("file_defs", len(data.FileDefinitions)).
		Int("file_marks", len(data.FileMarks)).
		Int("symbol_defs", len(data.SymbolDefinitions)).
		Msg("saved annotations")
	return nil
}

// Load reads <root>/.coderlm/annotations.json, if present, and applies
// every entry to tree and table. A missing file is not an error — it
// yields an empty Data. An annotation whose target no longer exists is
// logged at debug and otherwise ignored; an unknown mark name is logged
// at warn and skipped, matching spec §4.8's tolerance for stale
// annotations left by a prior session.
func Load(root string, tree *filetree.Tree, table *symboltable.Table) (*Data, error) {
	path := filepath.Join(root, FileName)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return empty(), nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "read annotations file")
	}

	data := empty()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, apperr.Internal(err, "parse annotations file")
	}

	for path, def := range data.FileDefinitions {
		rec, ok := tree.Get(path)
		if !ok {
			logx.Get().Debug().Str("file", path).Msg("annotation for missing file")
			continue
		}
		rec.Definition = def
	}

	for path, marks := range data.FileMarks {
		rec, ok := tree.Get(path)
		if !ok {
			logx.Get().Debug().Str("file", path).Msg("annotation for missing file")
			continue
		}
		for _, raw := range marks {
			mark, ok := model.ParseMark(raw)
			if !ok {
				logx.Get().Warn().Str("file", path).Str("mark", raw).Msg("unknown mark in annotations file")
				continue
			}
			rec.Marks[mark] = struct{}{}
		}
	}

	for key, def := range data.SymbolDefinitions {
		sym, ok := table.GetByKey(key)
		if !ok {
			logx.Get().Debug().Str("symbol", key).Msg("annotation for missing symbol")
			continue
		}
		sym.Definition = def
	}

	logx.Get().Debug().
		Int("file_defs", len(data.FileDefinitions)).
		Int("file_marks", len(data.FileMarks)).
		Int("symbol_defs", len(data.SymbolDefinitions)).
		Msg("loaded annotations")
	return data, nil
}

// sortedKeys is used by tests that need deterministic iteration over a
// Data map.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
