// Package ignore holds the built-in ignore sets (directory names and file
// extensions) that the Walker and Watcher apply before gitignore rules are
// even consulted (spec §6.4).
package ignore

import (
	"path/filepath"
	"strings"
)

// DefaultDirs are directory names skipped outright wherever they occur in
// a path, regardless of gitignore content.
var DefaultDirs = map[string]struct{}{
	"node_modules": {}, ".venv": {}, "venv": {}, "env": {}, "vendor": {},
	"Pods": {}, "Carthage": {}, "__pycache__": {}, "dist": {}, "build": {},
	"_build": {}, ".build": {}, ".tox": {},
	".git": {}, ".hg": {}, ".svn": {},
	".vscode": {}, ".idea": {}, ".vim": {}, ".emacs.d": {},
	".gradle": {}, "target": {},
	".pytest_cache": {}, "coverage": {}, "htmlcov": {}, ".mypy_cache": {}, ".ruff_cache": {},
	".next": {}, ".nuxt": {}, ".output": {}, ".cache": {}, ".terraform": {}, ".serverless": {},
	".nyc_output": {},
	"tmp":         {}, ".tmp": {},
	".coderlm": {},
}

// DefaultExtensions are file extensions skipped regardless of gitignore
// content: build artefacts, binaries, media, lockfiles.
var DefaultExtensions = map[string]struct{}{
	".o": {}, ".a": {}, ".so": {}, ".dylib": {}, ".dll": {}, ".exe": {}, ".lib": {},
	".jar": {}, ".war": {}, ".ear": {}, ".class": {}, ".pyc": {}, ".pyo": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {}, ".7z": {}, ".rar": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {}, ".webp": {},
	".mp3": {}, ".mp4": {}, ".mov": {}, ".avi": {}, ".wav": {}, ".flac": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".db": {}, ".sqlite": {}, ".sqlite3": {},
	".min.js": {}, ".min.css": {}, ".lock": {}, ".map": {},
}

// DefaultLockfiles are exact basenames always ignored.
var DefaultLockfiles = map[string]struct{}{
	"package-lock.json": {}, "yarn.lock": {}, "Pipfile.lock": {}, "poetry.lock": {},
	".DS_Store": {},
}

// ShouldIgnoreDir reports whether a directory name matches the built-in
// ignore set.
func ShouldIgnoreDir(name string) bool {
	_, ok := DefaultDirs[name]
	return ok
}

// ShouldIgnoreExtension reports whether path's extension (or, for
// double-barrelled suffixes like ".min.js", its last two dotted segments)
// matches the built-in ignore set.
func ShouldIgnoreExtension(path string) bool {
	lower := strings.ToLower(path)
	if _, ok := DefaultLockfiles[filepath.Base(path)]; ok {
		return true
	}
	for ext := range DefaultExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// PathHasIgnoredComponent reports whether any component of rel (a
// forward-slash relative path) matches the built-in directory ignore set.
func PathHasIgnoredComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if ShouldIgnoreDir(part) {
			return true
		}
	}
	return false
}
