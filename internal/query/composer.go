// Package query maintains the memo list filter state and maps it to the
// correct storage query: an explicit state-and-subscription manager with one
// active subscription, torn down and rebuilt on every state change.
package query

import (
	"sync"

	"github.com/silenthink/memo-cli/internal/models"
)

// Gateway is the slice of the storage layer the composer consumes.
type Gateway interface {
	ListAll(sort models.SortOption) ([]models.Memo, error)
	ListByCategory(category string, sort models.SortOption) ([]models.Memo, error)
	Search(query string) ([]models.Memo, error)
	SearchByCategory(category, query string) ([]models.Memo, error)
	Categories() ([]string, error)
}

// Listener receives the result of each recomposition. It is invoked from a
// background goroutine and must not call back into the Composer.
type Listener func(memos []models.Memo, err error)

// Composer holds the current {search text, category filter, sort option}
// state and keeps exactly one query subscription active for it. Results
// computed from a superseded filter combination are never delivered.
type Composer struct {
	gateway  Gateway
	listener Listener

	mu         sync.Mutex
	searchText string
	category   string
	sort       models.SortOption
	generation uint64
	closed     bool
}

// New returns a composer with the default state: empty search, category
// "All", modified-date-descending sort. No query runs until the first
// setter or Refresh call.
func New(gateway Gateway, listener Listener) *Composer {
	return &Composer{
		gateway:  gateway,
		listener: listener,
		category: models.CategoryAll,
		sort:     models.SortModifiedDateDesc,
	}
}

// SetSearch updates the search text and recomposes.
func (c *Composer) SetSearch(text string) {
	c.mu.Lock()
	c.searchText = text
	c.recomposeLocked()
	c.mu.Unlock()
}

// ClearSearch resets the search text and recomposes.
func (c *Composer) ClearSearch() {
	c.SetSearch("")
}

// SetCategory updates the category filter and recomposes. The sentinel
// "All" removes the filter.
func (c *Composer) SetCategory(category string) {
	c.mu.Lock()
	c.category = category
	c.recomposeLocked()
	c.mu.Unlock()
}

// SetSort updates the sort option and recomposes.
func (c *Composer) SetSort(sort models.SortOption) {
	c.mu.Lock()
	c.sort = sort
	c.recomposeLocked()
	c.mu.Unlock()
}

// Set updates all filter fields in one step with a single recomposition.
func (c *Composer) Set(searchText, category string, sort models.SortOption) {
	c.mu.Lock()
	c.searchText = searchText
	c.category = category
	c.sort = sort
	c.recomposeLocked()
	c.mu.Unlock()
}

// Refresh re-runs the query for the current state. Callers invoke it after
// any memo insert, update or delete.
func (c *Composer) Refresh() {
	c.mu.Lock()
	c.recomposeLocked()
	c.mu.Unlock()
}

// State returns the current filter state.
func (c *Composer) State() (searchText, category string, sort models.SortOption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchText, c.category, c.sort
}

// Close tears down the active subscription. Pending query results are
// discarded and no further deliveries happen.
func (c *Composer) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.mu.Unlock()
}

// recomposeLocked snapshots the state, invalidates the previous subscription
// and dispatches the selected query to a background goroutine. Callers must
// hold c.mu.
func (c *Composer) recomposeLocked() {
	if c.closed {
		return
	}
	c.generation++
	gen := c.generation
	search, category, sort := c.searchText, c.category, c.sort

	go func() {
		memos, err := c.execute(search, category, sort)
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.generation {
			return
		}
		if c.listener != nil {
			c.listener(memos, err)
		}
	}()
}

// execute picks the storage query for a filter combination. First match
// wins; the search branches keep the storage layer's fixed modified-date
// ordering and ignore the sort option.
func (c *Composer) execute(search, category string, sort models.SortOption) ([]models.Memo, error) {
	switch {
	case search != "" && category != models.CategoryAll:
		return c.gateway.SearchByCategory(category, search)
	case search != "":
		return c.gateway.Search(search)
	case category != models.CategoryAll:
		return c.gateway.ListByCategory(category, sort)
	default:
		return c.gateway.ListAll(sort)
	}
}

// Vocabulary builds the category picker list: "All" first, then the
// distinct categories present in storage (ascending), then any default
// category not already present, deduplicated in that concatenation order.
func (c *Composer) Vocabulary() ([]string, error) {
	stored, err := c.gateway.Categories()
	if err != nil {
		return nil, err
	}
	return BuildVocabulary(stored), nil
}

// BuildVocabulary merges stored categories with the default vocabulary.
// The result is order-stable and idempotent for a given input.
func BuildVocabulary(stored []string) []string {
	out := make([]string, 0, 1+len(stored)+len(models.DefaultCategories))
	seen := make(map[string]bool)

	add := func(category string) {
		if category == "" || seen[category] {
			return
		}
		seen[category] = true
		out = append(out, category)
	}

	add(models.CategoryAll)
	for _, cat := range stored {
		add(cat)
	}
	for _, cat := range models.DefaultCategories {
		add(cat)
	}
	return out
}
