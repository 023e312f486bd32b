// Package suggest is the core, detecting an open placeholder at the cursor, ranking catalog items for it and committing the chosen one.
package suggest

import "github.com/bastiangx/stache/pkg/catalog"

// ICompleter defines the interface for placeholder completion engines
type ICompleter interface {
	// Complete returns the ranked suggestions for cursor within text
	Complete(text string, cursor int) (*Result, bool)

	// Commit applies a chosen candidate to text
	Commit(text string, res *Result, chosen catalog.Item) (Edit, error)

	// Catalog returns the catalog suggestions are drawn from
	Catalog() *catalog.Catalog

	// Stats returns statistics about the loaded catalog
	Stats() map[string]int
}

// Completer binds the pure engine functions to one catalog. It holds no
// mutable state and may be shared between sessions.
type Completer struct {
	catalog *catalog.Catalog
}

// NewCompleter returns a Completer over cat. A nil catalog behaves as empty.
func NewCompleter(cat *catalog.Catalog) *Completer {
	if cat == nil {
		cat = catalog.MustNew(nil)
	}
	return &Completer{catalog: cat}
}

func (c *Completer) Complete(text string, cursor int) (*Result, bool) {
	return Compute(text, cursor, c.catalog)
}

func (c *Completer) Commit(text string, res *Result, chosen catalog.Item) (Edit, error) {
	return Commit(text, res, chosen)
}

func (c *Completer) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Completer) Stats() map[string]int {
	stats := map[string]int{
		"totalItems": c.catalog.Len(),
		"categories": len(c.catalog.Categories()),
	}
	for _, item := range c.catalog.Items() {
		stats[string(item.Kind)+"s"]++
	}
	return stats
}
