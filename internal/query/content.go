package query

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/coderlm/coderlm/internal/apperr"
	"github.com/coderlm/coderlm/internal/extractor"
	"github.com/coderlm/coderlm/internal/filetree"
	"github.com/coderlm/coderlm/internal/model"
)

// PeekResponse is a line-numbered slice of a file's content.
type PeekResponse struct {
	File       string `json:"file"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
	TotalLines int    `json:"total_lines"`
	Content    string `json:"content"`
}

// Peek renders lines [start, end) of file (0-indexed on input, 1-indexed
// in the response), prefixed with right-aligned line numbers and a box
// separator, clamped to the file's actual line count.
func Peek(root string, tree *filetree.Tree, file string, start, end int) (PeekResponse, error) {
	if _, ok := tree.Get(file); !ok {
		return PeekResponse{}, apperr.NotFoundf("file '%s' not found in index", file)
	}

	data, err := os.ReadFile(filepath.Join(root, file))
	if err != nil {
		return PeekResponse{}, apperr.Internal(err, "read '%s'", file)
	}

	lines := splitLines(string(data))
	total := len(lines)
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}

	var sb strings.Builder
	for i, line := range lines[start:end] {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%6d │ %s", start+i+1, line)
	}

	return PeekResponse{
		File:       file,
		StartLine:  start + 1,
		EndLine:    end,
		TotalLines: total,
		Content:    sb.String(),
	}, nil
}

// GrepScope selects whether matches inside comments/string literals count.
type GrepScope string

const (
	ScopeAll  GrepScope = "all"
	ScopeCode GrepScope = "code"
)

// GrepMatch is one located regex hit with surrounding context lines.
type GrepMatch struct {
	File          string   `json:"file"`
	Line          int      `json:"line"`
	Text          string   `json:"text"`
	ContextBefore []string `json:"context_before"`
	ContextAfter  []string `json:"context_after"`
}

// GrepResponse is the capped match list plus the uncapped total count.
type GrepResponse struct {
	Pattern      string      `json:"pattern"`
	Matches      []GrepMatch `json:"matches"`
	TotalMatches int         `json:"total_matches"`
	Truncated    bool        `json:"truncated"`
}

// Grep compiles pattern, scans every indexed file in path order, and
// returns matches with contextLines of surrounding context, capped at
// maxMatches. Every occurrence of pattern counts as one match, so a line
// with two occurrences yields two. With scope=code, a match whose byte offset falls inside a
// comment or string-literal AST range (per the file's Language Profile,
// if any) is skipped entirely — it counts toward neither Matches nor
// TotalMatches, keeping grep(scope=code) a true subset of
// grep(scope=all) (spec.md §4.8/§9 property 6).
func Grep(root string, tree *filetree.Tree, pattern string, scope GrepScope, maxMatches, contextLines int) (GrepResponse, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return GrepResponse{}, apperr.BadRequestf("invalid regex: %v", err)
	}

	paths := tree.SortedPaths()
	var matches []GrepMatch
	total := 0

	for _, relPath := range paths {
		rec, ok := tree.Get(relPath)
		if !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(root, relPath))
		if err != nil {
			continue
		}

		var skipRanges []skipRange
		if scope == ScopeCode {
			ranges, err := extractor.CommentStringRanges(content, rec.Language)
			if err == nil {
				skipRanges = toSkipRanges(ranges)
			}
		}

		lines := splitLines(string(content))
		lineOffsets := lineByteOffsets(content)

		for i, line := range lines {
			for _, loc := range re.FindAllStringIndex(line, -1) {
				if scope == ScopeCode && inAnySkipRange(skipRanges, lineOffsets[i]+loc[0]) {
					continue
				}

				total++
				if len(matches) >= maxMatches {
					continue
				}

				ctxStart := max(0, i-contextLines)
				ctxEnd := min(len(lines), i+contextLines+1)

				matches = append(matches, GrepMatch{
					File:          relPath,
					Line:          i + 1,
					Text:          line,
					ContextBefore: append([]string(nil), lines[ctxStart:i]...),
					ContextAfter:  append([]string(nil), lines[i+1:ctxEnd]...),
				})
			}
		}
	}

	return GrepResponse{
		Pattern:      pattern,
		Matches:      matches,
		TotalMatches: total,
		Truncated:    total > maxMatches,
	}, nil
}

type skipRange struct{ start, end int }

func toSkipRanges(ranges []model.ByteRange) []skipRange {
	out := make([]skipRange, len(ranges))
	for i, r := range ranges {
		out[i] = skipRange{start: r.Start, end: r.End}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func inAnySkipRange(ranges []skipRange, offset int) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].end > offset })
	return i < len(ranges) && ranges[i].start <= offset && offset < ranges[i].end
}

func lineByteOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// ChunkInfo is one [Start, End) byte window.
type ChunkInfo struct {
	Index int `json:"index"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// ChunkIndicesResponse is the full set of overlapping byte windows for a
// file, sized for embedding-pipeline consumption.
type ChunkIndicesResponse struct {
	File       string      `json:"file"`
	TotalBytes int         `json:"total_bytes"`
	ChunkSize  int         `json:"chunk_size"`
	Overlap    int         `json:"overlap"`
	Chunks     []ChunkInfo `json:"chunks"`
}

// ChunkIndices computes purely-arithmetic overlapping [start,end) byte
// windows of size size stepping by size-overlap, covering the file's
// full byte length.
func ChunkIndices(root string, tree *filetree.Tree, file string, size, overlap int) (ChunkIndicesResponse, error) {
	if size <= 0 {
		return ChunkIndicesResponse{}, apperr.BadRequestf("chunk size must be > 0")
	}
	if overlap >= size {
		return ChunkIndicesResponse{}, apperr.BadRequestf("overlap must be < chunk size")
	}
	if _, ok := tree.Get(file); !ok {
		return ChunkIndicesResponse{}, apperr.NotFoundf("file '%s' not found in index", file)
	}

	info, err := os.Stat(filepath.Join(root, file))
	if err != nil {
		return ChunkIndicesResponse{}, apperr.Internal(err, "stat '%s'", file)
	}
	total := int(info.Size())

	step := size - overlap
	var chunks []ChunkInfo
	start := 0
	for start < total {
		end := min(start+size, total)
		chunks = append(chunks, ChunkInfo{Index: len(chunks), Start: start, End: end})
		if end >= total {
			break
		}
		start += step
	}

	return ChunkIndicesResponse{
		File:       file,
		TotalBytes: total,
		ChunkSize:  size,
		Overlap:    overlap,
		Chunks:     chunks,
	}, nil
}
