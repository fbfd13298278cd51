// Package popularity stores the optional usage-frequency signal consumed by
// the classifier. Symbol counts are keyed by a scope (the receiver type for
// member completions, the defining module otherwise) plus the base symbol
// name, and normalized against the highest count seen so lookups land in
// [0, 1].
package popularity

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// keySep joins scope and symbol inside the trie. NUL never appears in
// either part.
const keySep = "\x00"

// Table holds the loaded popularity counts for one toolchain or project.
type Table struct {
	trie     *patricia.Trie
	maxCount uint32
	symbols  int
}

// NewTable creates an empty popularity table.
func NewTable() *Table {
	return &Table{trie: patricia.NewTrie()}
}

// Add records a raw usage count for a symbol within a scope. Re-adding a
// key overwrites the previous count.
func (t *Table) Add(scope, symbol string, count uint32) {
	key := patricia.Prefix(scope + keySep + symbol)
	if t.trie.Get(key) == nil {
		t.symbols++
	}
	t.trie.Set(key, count)
	if count > t.maxCount {
		t.maxCount = count
	}
}

// Lookup returns the normalized popularity of a symbol in a scope.
func (t *Table) Lookup(scope, symbol string) (float64, bool) {
	if t == nil || t.maxCount == 0 {
		return 0, false
	}
	item := t.trie.Get(patricia.Prefix(scope + keySep + symbol))
	if item == nil {
		return 0, false
	}
	count, ok := item.(uint32)
	if !ok {
		log.Errorf("Unknown item type %T for symbol %s.%s", item, scope, symbol)
		return 0, false
	}
	return float64(count) / float64(t.maxCount), true
}

// ScopeSize counts the symbols recorded under one scope.
func (t *Table) ScopeSize(scope string) int {
	n := 0
	err := t.trie.VisitSubtree(patricia.Prefix(scope+keySep), func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting scope %s: %v", scope, err)
	}
	return n
}

func (t *Table) visitEntries(fn func(scope, symbol string, uses uint32) error) error {
	return t.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		key := string(p)
		i := strings.IndexByte(key, 0)
		if i < 0 {
			return nil
		}
		uses, _ := item.(uint32)
		return fn(key[:i], key[i+1:], uses)
	})
}

// Stats returns statistics about the loaded table.
func (t *Table) Stats() map[string]int {
	return map[string]int{
		"symbols":  t.symbols,
		"maxCount": int(t.maxCount),
	}
}
