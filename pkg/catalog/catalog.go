// Package catalog holds the ordered, immutable set of placeholders and functions an editing session can suggest.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

var (
	// ErrEmptyValue is returned when an item has no insertable text.
	ErrEmptyValue = errors.New("catalog item has an empty value")
	// ErrDuplicateValue is returned when two items share the same value.
	ErrDuplicateValue = errors.New("duplicate catalog value")
	// ErrUnknownKind is returned when an item kind is neither variable nor function.
	ErrUnknownKind = errors.New("unknown catalog item kind")
)

// Kind tells whether an item is a plain variable path or a function call.
type Kind string

const (
	KindVariable Kind = "variable"
	KindFunction Kind = "function"
)

// Item is a single suggestible placeholder.
type Item struct {
	Value       string `toml:"value" yaml:"value" msgpack:"v"`
	Kind        Kind   `toml:"type" yaml:"type" msgpack:"k"`
	Category    string `toml:"category" yaml:"category" msgpack:"cat"`
	Description string `toml:"description" yaml:"description" msgpack:"d"`
	Docs        string `toml:"docs,omitempty" yaml:"docs,omitempty" msgpack:"docs,omitempty"`
	Icon        string `toml:"icon,omitempty" yaml:"icon,omitempty" msgpack:"icon,omitempty"`
}

// Catalog is safe for concurrent reads; it is never mutated after New returns.
type Catalog struct {
	items []Item
	lower []string
	// index maps lower-cased values to the positions of the items carrying them.
	index *patricia.Trie
	exact map[string]int
}

// New validates items and builds the prefix index. The slice is copied, so the
// caller may reuse it.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, len(items)),
		lower: make([]string, len(items)),
		index: patricia.NewTrie(),
		exact: make(map[string]int, len(items)),
	}
	copy(c.items, items)

	for i, item := range c.items {
		if item.Value == "" {
			return nil, fmt.Errorf("item %d: %w", i, ErrEmptyValue)
		}
		switch item.Kind {
		case KindVariable, KindFunction:
		case "":
			c.items[i].Kind = KindVariable
		default:
			return nil, fmt.Errorf("item %q: %w: %s", item.Value, ErrUnknownKind, item.Kind)
		}
		if prev, ok := c.exact[item.Value]; ok {
			return nil, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateValue, item.Value, prev, i)
		}
		c.exact[item.Value] = i

		lower := strings.ToLower(item.Value)
		c.lower[i] = lower
		key := patricia.Prefix(lower)
		if existing := c.index.Get(key); existing != nil {
			c.index.Set(key, append(existing.([]int), i))
		} else {
			c.index.Insert(key, []int{i})
		}
	}
	return c, nil
}

// MustNew is New for catalogs known to be valid at compile time.
func MustNew(items []Item) *Catalog {
	c, err := New(items)
	if err != nil {
		panic(err)
	}
	return c
}

// Len reports the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns a copy of the items in catalog order.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// At returns the item at position i.
func (c *Catalog) At(i int) Item {
	return c.items[i]
}

// Lookup finds an item by its exact value.
func (c *Catalog) Lookup(value string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	i, ok := c.exact[value]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// LookupFold finds the first item whose value equals value case-insensitively.
func (c *Catalog) LookupFold(value string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	if item, ok := c.Lookup(value); ok {
		return item, true
	}
	found := c.index.Get(patricia.Prefix(strings.ToLower(value)))
	if found == nil {
		return Item{}, false
	}
	return c.items[found.([]int)[0]], true
}

// Match returns the positions of items whose lower-cased value contains
// lowerQuery, split by whether the value starts with it. Both slices are in
// catalog order.
func (c *Catalog) Match(lowerQuery string) (prefixed, contained []int) {
	if c == nil || len(c.items) == 0 {
		return nil, nil
	}

	isPrefix := make([]bool, len(c.items))
	if lowerQuery == "" {
		for i := range isPrefix {
			isPrefix[i] = true
		}
	} else {
		_ = c.index.VisitSubtree(patricia.Prefix(lowerQuery), func(_ patricia.Prefix, item patricia.Item) error {
			for _, i := range item.([]int) {
				isPrefix[i] = true
			}
			return nil
		})
	}

	for i, lower := range c.lower {
		switch {
		case isPrefix[i]:
			prefixed = append(prefixed, i)
		case strings.Contains(lower, lowerQuery):
			contained = append(contained, i)
		}
	}
	return prefixed, contained
}

// Categories lists distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, item := range c.items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		out = append(out, item.Category)
	}
	return out
}
