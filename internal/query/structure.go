// Package query implements the stateless query operations (spec §4.8)
// over a Project: structure render, peek, grep, symbol list/search,
// implementation fetch, callers, tests, variables, and the
// define/redefine/mark annotation mutators.
package query

import (
	"sort"
	"strings"

	"github.com/coderlm/coderlm/internal/apperr"
	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/model"
)

// LanguageCount pairs a language tag with its file count, in the
// response's serialization shape.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// StructureResponse is the box-drawing directory render plus per-language
// file counts.
type StructureResponse struct {
	Tree              string          `json:"tree"`
	FileCount         int             `json:"file_count"`
	LanguageBreakdown []LanguageCount `json:"language_breakdown"`
}

// Structure renders tree as indented box-drawing characters, limited to
// depth directory levels (0 = unlimited), matching `tree`'s output shape.
func Structure(tree *filetree.Tree, depth int) StructureResponse {
	root := buildTreeNodes(tree.SortedPaths())

	var sb strings.Builder
	renderNode(root, &sb, "", depth, 0)

	counts := tree.LanguageBreakdown()
	breakdown := make([]LanguageCount, len(counts))
	for i, c := range counts {
		breakdown[i] = LanguageCount{Language: string(c.Language), Count: c.Count}
	}

	return StructureResponse{
		Tree:              sb.String(),
		FileCount:         tree.Len(),
		LanguageBreakdown: breakdown,
	}
}

type treeNode struct {
	name     string
	isFile   bool
	children map[string]*treeNode
	order    []string
}

func newDirNode(name string) *treeNode {
	return &treeNode{name: name, children: make(map[string]*treeNode)}
}

func buildTreeNodes(paths []string) *treeNode {
	root := newDirNode("")
	for _, path := range paths {
		insertPath(root, strings.Split(path, "/"))
	}
	return root
}

func insertPath(node *treeNode, parts []string) {
	name := parts[0]
	if len(parts) == 1 {
		if _, ok := node.children[name]; !ok {
			node.children[name] = &treeNode{name: name, isFile: true}
			node.order = append(node.order, name)
		}
		return
	}
	child, ok := node.children[name]
	if !ok {
		child = newDirNode(name)
		node.children[name] = child
		node.order = append(node.order, name)
	}
	insertPath(child, parts[1:])
}

func renderNode(node *treeNode, sb *strings.Builder, prefix string, maxDepth, depth int) {
	if maxDepth > 0 && depth >= maxDepth {
		return
	}

	names := append([]string(nil), node.order...)
	sort.Strings(names)

	for i, name := range names {
		child := node.children[name]
		isLast := i == len(names)-1
		connector, childPrefix := "├── ", "│   "
		if isLast {
			connector, childPrefix = "└── ", "    "
		}

		if child.isFile {
			sb.WriteString(prefix + connector + name + "\n")
			continue
		}
		sb.WriteString(prefix + connector + name + "/\n")
		renderNode(child, sb, prefix+childPrefix, maxDepth, depth+1)
	}
}

// DefineFile sets rec's Definition, refusing to overwrite an existing one
// (use Redefine for that).
func DefineFile(tree *filetree.Tree, file, definition string) error {
	rec, ok := tree.Get(file)
	if !ok {
		return apperr.NotFoundf("file '%s' not found in index", file)
	}
	if rec.Definition != "" {
		return apperr.BadRequestf("file '%s' already has a definition, use redefine to update it", file)
	}
	rec.Definition = definition
	return nil
}

// RedefineFile overwrites rec's Definition unconditionally.
func RedefineFile(tree *filetree.Tree, file, definition string) error {
	rec, ok := tree.Get(file)
	if !ok {
		return apperr.NotFoundf("file '%s' not found in index", file)
	}
	rec.Definition = definition
	return nil
}

// MarkFile tags file with mark, validated against model.ParseMark.
func MarkFile(tree *filetree.Tree, file, markStr string) error {
	mark, ok := model.ParseMark(markStr)
	if !ok {
		return apperr.BadRequestf("unknown mark type '%s', valid: documentation, ignore, test, config, generated, custom", markStr)
	}
	rec, ok := tree.Get(file)
	if !ok {
		return apperr.NotFoundf("file '%s' not found in index", file)
	}
	rec.Marks[mark] = struct{}{}
	return nil
}
