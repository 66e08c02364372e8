package symboltable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coderlm/coderlm/internal/model"
)

func sym(file, name string) *model.Symbol {
	return &model.Symbol{File: file, Name: name, Kind: model.KindFunction}
}

func TestInsertGet(t *testing.T) {
	tbl := New()
	tbl.Insert(sym("a.go", "Foo"))

	got, ok := tbl.Get("a.go", "Foo")
	assert.True(t, ok)
	assert.Equal(t, "Foo", got.Name)
}

// TestInvariantsAfterMutations is property test 1 from the testable
// properties list: after every insert/remove_file, each primary key is
// reachable via both secondary indices and every secondary-index key
// resolves to a live primary record.
func TestInvariantsAfterMutations(t *testing.T) {
	tbl := New()
	for i := 0; i < 50; i++ {
		tbl.Insert(sym(fmt.Sprintf("f%d.go", i%5), fmt.Sprintf("Sym%d", i)))
	}

	assertInvariants(t, tbl)

	tbl.RemoveFile("f2.go")
	assertInvariants(t, tbl)

	tbl.RemoveFile("f0.go")
	assertInvariants(t, tbl)
}

func assertInvariants(t *testing.T, tbl *Table) {
	t.Helper()
	for _, s := range tbl.All() {
		assert.Contains(t, setMembers(tbl.fileShard(s.File), s.File), s.Key())
		assert.Contains(t, setMembers(tbl.nameShard(s.Name), s.Name), s.Key())
	}
	for i := 0; i < shardCount; i++ {
		shard := tbl.byFile[i]
		shard.mu.RLock()
		for _, set := range shard.sets {
			for key := range set {
				_, ok := tbl.GetByKey(key)
				assert.True(t, ok, "by-file index must not dangle: %s", key)
			}
		}
		shard.mu.RUnlock()
	}
}

func TestRemoveFilePrunesByName(t *testing.T) {
	tbl := New()
	tbl.Insert(sym("a.go", "Foo"))
	tbl.RemoveFile("a.go")

	_, ok := tbl.Get("a.go", "Foo")
	assert.False(t, ok)
	assert.Empty(t, setMembers(tbl.nameShard("Foo"), "Foo"), "by-name entry should be pruned once empty")
	assert.Empty(t, setMembers(tbl.fileShard("a.go"), "a.go"))
}

func TestSearchCaseInsensitive(t *testing.T) {
	tbl := New()
	tbl.Insert(sym("a.go", "HandleRequest"))
	tbl.Insert(sym("b.go", "handleResponse"))
	tbl.Insert(sym("c.go", "Other"))

	results := tbl.Search("handle", 10)
	assert.Len(t, results, 2)
}

func TestSearchRespectsLimit(t *testing.T) {
	tbl := New()
	for i := 0; i < 10; i++ {
		tbl.Insert(sym("a.go", fmt.Sprintf("Foo%d", i)))
	}
	assert.Len(t, tbl.Search("foo", 3), 3)
}

func TestListByFile(t *testing.T) {
	tbl := New()
	tbl.Insert(sym("a.go", "Foo"))
	tbl.Insert(sym("a.go", "Bar"))
	tbl.Insert(sym("b.go", "Baz"))

	syms := tbl.ListByFile("a.go")
	assert.Len(t, syms, 2)
}

func TestSortByFileThenLine(t *testing.T) {
	a := &model.Symbol{File: "b.go", LineRange: model.LineRange{Start: 5}}
	b := &model.Symbol{File: "a.go", LineRange: model.LineRange{Start: 10}}
	c := &model.Symbol{File: "a.go", LineRange: model.LineRange{Start: 1}}
	syms := []*model.Symbol{a, b, c}

	SortByFileThenLine(syms)
	assert.Equal(t, []*model.Symbol{c, b, a}, syms)
}
