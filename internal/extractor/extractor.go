// Package extractor implements the Parser/Extractor (spec §4.3): it reads
// a file, parses it with its Language Profile's parser, runs the query
// patterns, and produces Symbol Records. The dispatch is entirely
// query-data-driven — there is no per-language switch statement — so
// adding a language means adding a Profile, not adding Go code here.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/coderlm/coderlm/internal/apperr"
	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/lang"
	"github.com/coderlm/coderlm/internal/logx"
	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/symboltable"
)

// kindByCaptureBase maps the bare capture name (before the ".name"/".def"
// suffix) to the Symbol Kind, per the fixed vocabulary in spec §6.2.
var kindByCaptureBase = map[string]model.SymbolKind{
	"function":  model.KindFunction,
	"method":    model.KindMethod,
	"class":     model.KindClass,
	"struct":    model.KindStruct,
	"enum":      model.KindEnum,
	"trait":     model.KindTrait,
	"interface": model.KindInterface,
	"type":      model.KindType,
	"const":     model.KindConstant,
	"static":    model.KindConstant,
	"mod":       model.KindModule,
}

// ExtractFile parses the file at root/relPath with language's Profile and
// returns the Symbol Records its symbol pattern produces. A language with
// no Profile yields an empty list, not an error. An unparseable file
// yields an empty list (logged at debug), per spec §4.3.
func ExtractFile(root, relPath string, language model.Language) ([]*model.Symbol, error) {
	profile := lang.Lookup(language)
	if profile == nil {
		return nil, nil
	}

	content, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		return nil, apperr.Internal(err, "read %s", relPath)
	}

	tree, err := parse(content, profile.Handle)
	if err != nil || tree == nil {
		logx.Get().Debug().Str("file", relPath).Msg("unparseable file, skipping extraction")
		return nil, nil
	}
	defer tree.Close()

	return symbolsFromTree(tree.RootNode(), content, profile, relPath, language)
}

func parse(content []byte, h *sitter.Language) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(h)
	return parser.ParseCtx(context.Background(), nil, content)
}

func symbolsFromTree(root *sitter.Node, content []byte, profile *lang.Profile, relPath string, language model.Language) ([]*model.Symbol, error) {
	query, err := sitter.NewQuery([]byte(profile.SymbolQuery), profile.Handle)
	if err != nil {
		return nil, apperr.Internal(err, "compile symbol query for %s", language)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var symbols []*model.Symbol
	var currentParent string

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		var nameNode, defNode *sitter.Node
		var kind model.SymbolKind

		for _, cap := range match.Captures {
			capName := query.CaptureNameForId(cap.Index)
			base, suffix, found := strings.Cut(capName, ".")
			if !found {
				continue
			}
			switch suffix {
			case "name":
				nameNode = cap.Node
				if k, ok := kindByCaptureBase[base]; ok {
					kind = k
				}
			case "type":
				if base == "impl" {
					currentParent = cap.Node.Content(content)
				}
			case "def":
				defNode = cap.Node
			}
		}

		if nameNode == nil || defNode == nil {
			continue
		}

		sig := firstLine(defNode.Content(content))
		sym := &model.Symbol{
			Name:     nameNode.Content(content),
			Kind:     kind,
			File:     relPath,
			Language: language,
			ByteRange: model.ByteRange{
				Start: int(defNode.StartByte()),
				End:   int(defNode.EndByte()),
			},
			LineRange: model.LineRange{
				Start: int(defNode.StartPoint().Row) + 1,
				End:   int(defNode.EndPoint().Row) + 1,
			},
			Signature: sig,
		}
		if kind == model.KindMethod && currentParent != "" {
			sym.Parent = currentParent
		}
		symbols = append(symbols, sym)
	}

	return symbols, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// ExtractAndStore re-extracts rec's symbols into table: it first removes
// any prior symbols for the file, then, if the language has a profile,
// extracts and inserts the fresh set, finally marking
// SymbolsExtracted = true. Used both for whole-tree initial indexing and
// watcher re-extraction on change (spec §4.3/§4.6).
func ExtractAndStore(root string, rec *model.FileRecord, table *symboltable.Table) error {
	table.RemoveFile(rec.Path)

	if rec.Language.Profiled() {
		symbols, err := ExtractFile(root, rec.Path, rec.Language)
		if err != nil {
			return err
		}
		for _, sym := range symbols {
			table.Insert(sym)
		}
	}
	rec.SymbolsExtracted = true
	return nil
}

// ExtractAllStats summarizes a whole-tree extraction pass.
type ExtractAllStats struct {
	FilesAttempted int
	SymbolsFound   int
}

// ExtractAll iterates every File Record whose language has a profile,
// extracts it, and inserts all produced Symbols, per spec §4.3's
// whole-tree contract. Intended to run on a dedicated worker so it never
// blocks the request path.
func ExtractAll(root string, tree *filetree.Tree, table *symboltable.Table) ExtractAllStats {
	var stats ExtractAllStats
	for _, rec := range tree.All() {
		if !rec.Language.Profiled() {
			continue
		}
		stats.FilesAttempted++
		if err := ExtractAndStore(root, rec, table); err != nil {
			logx.Get().Debug().Err(err).Str("file", rec.Path).Msg("extraction failed")
			continue
		}
		stats.SymbolsFound += len(table.ListByFile(rec.Path))
	}
	return stats
}

// CommentStringRanges returns a sorted slice of byte ranges covering
// comment and string-literal AST nodes, used by grep(scope=code) to skip
// matches that fall inside them. Returns nil (not an error) if the
// language has no profile.
func CommentStringRanges(content []byte, language model.Language) ([]model.ByteRange, error) {
	profile := lang.Lookup(language)
	if profile == nil {
		return nil, nil
	}

	tree, err := parse(content, profile.Handle)
	if err != nil || tree == nil {
		return nil, fmt.Errorf("parse for comment/string ranges: %w", err)
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(profile.SkipQuery), profile.Handle)
	if err != nil {
		return nil, apperr.Internal(err, "compile skip query for %s", language)
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	var ranges []model.ByteRange
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, cap := range match.Captures {
			ranges = append(ranges, model.ByteRange{
				Start: int(cap.Node.StartByte()),
				End:   int(cap.Node.EndByte()),
			})
		}
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	return ranges, nil
}

// InRange reports whether offset falls within any of the sorted ranges,
// via binary search.
func InRange(ranges []model.ByteRange, offset int) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].End > offset })
	return i < len(ranges) && ranges[i].Start <= offset && offset < ranges[i].End
}

// CalleeHit is one match of the callers query: the literal callee-name
// capture at a given line.
type CalleeHit struct {
	Name     string
	Line     int // 1-indexed
	LineText string
}

// FindCallees runs language's callers pattern over content, returning
// every @callee capture.
func FindCallees(content []byte, language model.Language) ([]CalleeHit, error) {
	profile := lang.Lookup(language)
	if profile == nil {
		return nil, nil
	}
	tree, err := parse(content, profile.Handle)
	if err != nil || tree == nil {
		return nil, fmt.Errorf("parse for callers: %w", err)
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(profile.CallersQuery), profile.Handle)
	if err != nil {
		return nil, apperr.Internal(err, "compile callers query for %s", language)
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	lines := strings.Split(string(content), "\n")
	var hits []CalleeHit
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, cap := range match.Captures {
			if query.CaptureNameForId(cap.Index) != "callee" {
				continue
			}
			line := int(cap.Node.StartPoint().Row) + 1
			text := ""
			if line-1 < len(lines) {
				text = strings.TrimSpace(lines[line-1])
			}
			hits = append(hits, CalleeHit{Name: cap.Node.Content(content), Line: line, LineText: text})
		}
	}
	return hits, nil
}

// FindVariables runs language's variables pattern restricted to
// [fnStart, fnEnd), de-duplicating names and skipping "self"/"_".
func FindVariables(content []byte, language model.Language, fnStart, fnEnd uint32) ([]string, error) {
	profile := lang.Lookup(language)
	if profile == nil {
		return nil, nil
	}
	tree, err := parse(content, profile.Handle)
	if err != nil || tree == nil {
		return nil, fmt.Errorf("parse for variables: %w", err)
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(profile.VariablesQuery), profile.Handle)
	if err != nil {
		return nil, apperr.Internal(err, "compile variables query for %s", language)
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetByteRange(fnStart, fnEnd)
	cursor.Exec(query, tree.RootNode())

	seen := make(map[string]struct{})
	var names []string
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, cap := range match.Captures {
			if query.CaptureNameForId(cap.Index) != "var.name" {
				continue
			}
			name := cap.Node.Content(content)
			if name == "" || name == "self" || name == "_" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names, nil
}
