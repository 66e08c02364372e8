// Package lang is the Language Profile Registry (spec §4.2/§6.2): a
// static lookup from a language tag to a profile carrying the parser
// handle and the symbol/callers/variables/comment-skip pattern sources.
package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/coderlm/coderlm/internal/model"
)

// TestClassifier decides whether a Symbol, given its file path, is a test
// per the per-language heuristic from spec §4.8/§6.2.
type TestClassifier func(symbolName, filePath string) bool

// Profile bundles everything the core needs to turn one language's source
// text into Symbol Records: an opaque parser-language handle and four
// pattern sources (symbols, callers, variables, comment/string skip)
// interpreted by the tree-sitter query engine, plus a test-detection
// heuristic.
type Profile struct {
	Language      model.Language
	Handle        *sitter.Language
	SymbolQuery   string // captures the fixed §6.2 vocabulary
	CallersQuery  string // captures @callee
	VariablesQuery string // captures @var.name
	SkipQuery     string // captures @skip over comment/string nodes, for grep(scope=code)
	IsTest        TestClassifier
	// DefinitionLine reports whether line is name's own declaration line,
	// by the literal fragments used to suppress it in callers
	// (spec §4.8: "fn NAME", "def NAME", "function NAME", "func NAME", "NAME =").
	DefinitionLine func(line, name string) bool
}

var registry = map[model.Language]*Profile{}

func register(p *Profile) { registry[p.Language] = p }

// Lookup returns the Profile for lang, or nil if the language is
// unprofiled (a File Record may still exist for it; it just never
// receives Symbols).
func Lookup(l model.Language) *Profile {
	return registry[l]
}

func init() {
	register(goProfile())
	register(pythonProfile())
	register(rustProfile())
	register(typeScriptProfile())
	register(javaScriptProfile())
}

func goHandle() *sitter.Language         { return golang.GetLanguage() }
func pythonHandle() *sitter.Language     { return python.GetLanguage() }
func rustHandle() *sitter.Language       { return rust.GetLanguage() }
func typeScriptHandle() *sitter.Language { return typescript.GetLanguage() }
func javaScriptHandle() *sitter.Language { return javascript.GetLanguage() }
