package query

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/coderlm/coderlm/internal/apperr"
	"github.com/coderlm/coderlm/internal/extractor"
	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/lang"
	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/symboltable"
)

// ListSymbols returns every Symbol matching an optional kind and/or file
// filter, sorted by (File, LineRange.Start) and truncated to limit.
func ListSymbols(table *symboltable.Table, kind model.SymbolKind, file string, limit int) []*model.Symbol {
	var results []*model.Symbol
	if file != "" {
		results = table.ListByFile(file)
	} else {
		results = table.All()
	}

	if kind != "" {
		filtered := results[:0:0]
		for _, s := range results {
			if s.Kind == kind {
				filtered = append(filtered, s)
			}
		}
		results = filtered
	}

	symboltable.SortByFileThenLine(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// SearchSymbols does a case-insensitive substring match over every
// symbol's name, capped at limit.
func SearchSymbols(table *symboltable.Table, query string, limit int) []*model.Symbol {
	return table.Search(query, limit)
}

// GetImplementation returns the source text spanning symbolName's byte
// range within file.
func GetImplementation(root string, table *symboltable.Table, symbolName, file string) (string, error) {
	sym, ok := table.Get(file, symbolName)
	if !ok {
		return "", apperr.NotFoundf("symbol '%s' not found in '%s'", symbolName, file)
	}

	content, err := os.ReadFile(filepath.Join(root, sym.File))
	if err != nil {
		return "", apperr.Internal(err, "read '%s'", sym.File)
	}

	end := sym.ByteRange.End
	if end > len(content) {
		end = len(content)
	}
	return string(content[sym.ByteRange.Start:end]), nil
}

// DefineSymbol sets sym's Definition, refusing to overwrite an existing
// one (use RedefineSymbol for that).
func DefineSymbol(table *symboltable.Table, symbolName, file, definition string) error {
	sym, ok := table.Get(file, symbolName)
	if !ok {
		return apperr.NotFoundf("symbol '%s' not found in '%s'", symbolName, file)
	}
	if sym.Definition != "" {
		return apperr.BadRequestf("symbol '%s' in '%s' already has a definition, use redefine to update it", symbolName, file)
	}
	sym.Definition = definition
	return nil
}

// RedefineSymbol overwrites sym's Definition unconditionally.
func RedefineSymbol(table *symboltable.Table, symbolName, file, definition string) error {
	sym, ok := table.Get(file, symbolName)
	if !ok {
		return apperr.NotFoundf("symbol '%s' not found in '%s'", symbolName, file)
	}
	sym.Definition = definition
	return nil
}

// CallerInfo is one located reference to a symbol name.
type CallerInfo struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// FindCallers scans every indexed file for references to symbolName,
// using each file's Language Profile callers query when available and
// falling back to literal regex scanning otherwise. A reference on
// symbolName's own definition line, within its defining file, is
// suppressed so the definition doesn't count as its own caller.
func FindCallers(root string, tree *filetree.Tree, table *symboltable.Table, symbolName, file string, limit int) ([]CallerInfo, error) {
	if _, ok := table.Get(file, symbolName); !ok {
		return nil, apperr.NotFoundf("symbol '%s' not found in '%s'", symbolName, file)
	}

	var callers []CallerInfo
	for _, relPath := range tree.SortedPaths() {
		rec, ok := tree.Get(relPath)
		if !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(root, relPath))
		if err != nil {
			continue
		}

		hits := findCallersInFile(content, rec.Language, relPath, symbolName, file)
		for _, hit := range hits {
			callers = append(callers, hit)
			if len(callers) >= limit {
				return callers, nil
			}
		}
	}
	return callers, nil
}

func findCallersInFile(content []byte, language model.Language, relPath, symbolName, definitionFile string) []CallerInfo {
	profile := lang.Lookup(language)
	if profile == nil {
		return findCallersRegex(content, relPath, symbolName, definitionFile)
	}

	hits, err := extractor.FindCallees(content, language)
	if err != nil {
		return findCallersRegex(content, relPath, symbolName, definitionFile)
	}

	var callers []CallerInfo
	for _, hit := range hits {
		if hit.Name != symbolName {
			continue
		}
		if relPath == definitionFile && profile.DefinitionLine != nil && profile.DefinitionLine(hit.LineText, symbolName) {
			continue
		}
		callers = append(callers, CallerInfo{File: relPath, Line: hit.Line, Text: hit.LineText})
	}
	return callers
}

func findCallersRegex(content []byte, relPath, symbolName, definitionFile string) []CallerInfo {
	re, err := regexp.Compile(regexp.QuoteMeta(symbolName))
	if err != nil {
		return nil
	}

	var callers []CallerInfo
	for i, line := range splitLines(string(content)) {
		if !re.MatchString(line) {
			continue
		}
		if relPath == definitionFile && looksLikeGenericDefinitionLine(line, symbolName) {
			continue
		}
		callers = append(callers, CallerInfo{File: relPath, Line: i + 1, Text: strings.TrimSpace(line)})
	}
	return callers
}

func looksLikeGenericDefinitionLine(line, name string) bool {
	for _, kw := range []string{"fn ", "def ", "function ", "func "} {
		if strings.Contains(line, kw+name) {
			return true
		}
	}
	return false
}

// TestInfo is one test function whose body references a target symbol.
type TestInfo struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Signature string `json:"signature"`
}

// FindTests scans every Symbol the language profile recognizes as a test
// and reports those whose body text contains symbolName, capped at
// limit.
func FindTests(root string, table *symboltable.Table, symbolName, file string, limit int) ([]TestInfo, error) {
	if _, ok := table.Get(file, symbolName); !ok {
		return nil, apperr.NotFoundf("symbol '%s' not found in '%s'", symbolName, file)
	}

	var tests []TestInfo
	for _, sym := range table.All() {
		profile := lang.Lookup(sym.Language)
		if profile == nil || profile.IsTest == nil || !profile.IsTest(sym.Name, sym.File) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(root, sym.File))
		if err != nil {
			continue
		}
		end := sym.ByteRange.End
		if end > len(content) {
			end = len(content)
		}
		body := string(content[sym.ByteRange.Start:end])
		if !strings.Contains(body, symbolName) {
			continue
		}

		tests = append(tests, TestInfo{
			Name:      sym.Name,
			File:      sym.File,
			Line:      sym.LineRange.Start,
			Signature: sym.Signature,
		})
		if len(tests) >= limit {
			break
		}
	}
	return tests, nil
}

// VariableInfo is one local variable name found within a function's body.
type VariableInfo struct {
	Name     string `json:"name"`
	Function string `json:"function"`
}

// ListVariables returns every local variable declared within
// functionName's body, via the Language Profile's variables query. There
// is no regex fallback: when the language has no profile or the file
// cannot be parsed, it returns no variables and no error.
func ListVariables(root string, table *symboltable.Table, functionName, file string) ([]VariableInfo, error) {
	sym, ok := table.Get(file, functionName)
	if !ok {
		return nil, apperr.NotFoundf("symbol '%s' not found in '%s'", functionName, file)
	}

	content, err := os.ReadFile(filepath.Join(root, sym.File))
	if err != nil {
		return nil, apperr.Internal(err, "read '%s'", sym.File)
	}

	names, err := extractor.FindVariables(content, sym.Language, uint32(sym.ByteRange.Start), uint32(sym.ByteRange.End))
	if err != nil || names == nil {
		return nil, nil
	}

	out := make([]VariableInfo, len(names))
	for i, n := range names {
		out[i] = VariableInfo{Name: n, Function: functionName}
	}
	return out, nil
}
