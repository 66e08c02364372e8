// Package model holds the data types shared across the indexing engine:
// language tags, File Records, and Symbol Records.
package model

import "strings"

// Language is the closed tag enumeration from the language data model.
// Only the five profiled languages ever receive a Language Profile; the
// remaining tags exist so the File Tree can still describe a file's kind.
type Language string

const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangRust       Language = "rust"

	LangJava     Language = "java"
	LangSwift    Language = "swift"
	LangC        Language = "c"
	LangCpp      Language = "cpp"
	LangRuby     Language = "ruby"
	LangShell    Language = "shell"
	LangMarkdown Language = "markdown"
	LangJSON     Language = "json"
	LangYAML     Language = "yaml"
	LangTOML     Language = "toml"
	LangHTML     Language = "html"
	LangCSS      Language = "css"
	LangSQL      Language = "sql"
	LangOther    Language = "other"
)

// Profiled reports whether the language has a Language Profile (and is
// therefore eligible for symbol extraction).
func (l Language) Profiled() bool {
	switch l {
	case LangGo, LangPython, LangTypeScript, LangJavaScript, LangRust:
		return true
	default:
		return false
	}
}

var extensionTable = map[string]Language{
	".go":  LangGo,
	".py":  LangPython,
	".pyw": LangPython,

	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	".tsx": LangTypeScript,

	".js":  LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".jsx": LangJavaScript,

	".rs": LangRust,

	".java":  LangJava,
	".swift": LangSwift,
	".c":     LangC,
	".h":     LangC,
	".cc":    LangCpp,
	".cpp":   LangCpp,
	".hpp":   LangCpp,
	".rb":    LangRuby,
	".sh":    LangShell,
	".bash":  LangShell,
	".md":    LangMarkdown,
	".json":  LangJSON,
	".yaml":  LangYAML,
	".yml":   LangYAML,
	".toml":  LangTOML,
	".html":  LangHTML,
	".css":   LangCSS,
	".sql":   LangSQL,
}

// LanguageFromExtension maps a file extension (including the leading dot,
// as returned by filepath.Ext) to a Language tag, or LangOther if
// unrecognised.
func LanguageFromExtension(ext string) Language {
	if lang, ok := extensionTable[strings.ToLower(ext)]; ok {
		return lang
	}
	return LangOther
}
