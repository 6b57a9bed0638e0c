package query

import (
	"sync"
	"testing"
	"time"

	"github.com/silenthink/memo-cli/internal/models"
)

// fakeGateway records which query was selected and returns canned results.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	memos      []models.Memo
	categories []string
	block      chan struct{} // when set, queries wait on it before returning
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeGateway) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeGateway) ListAll(sort models.SortOption) ([]models.Memo, error) {
	f.record("ListAll/" + sort.String())
	return f.memos, nil
}

func (f *fakeGateway) ListByCategory(category string, sort models.SortOption) ([]models.Memo, error) {
	f.record("ListByCategory/" + category + "/" + sort.String())
	return f.memos, nil
}

func (f *fakeGateway) Search(query string) ([]models.Memo, error) {
	f.record("Search/" + query)
	if f.memos != nil {
		return f.memos, nil
	}
	// Echo the query so tests can tell which search produced a delivery.
	return []models.Memo{{Title: query}}, nil
}

func (f *fakeGateway) SearchByCategory(category, query string) ([]models.Memo, error) {
	f.record("SearchByCategory/" + category + "/" + query)
	return f.memos, nil
}

func (f *fakeGateway) Categories() ([]string, error) {
	return f.categories, nil
}

// collect builds a composer whose listener feeds a channel.
func collect(gateway Gateway) (*Composer, chan []models.Memo) {
	ch := make(chan []models.Memo, 16)
	c := New(gateway, func(memos []models.Memo, err error) {
		ch <- memos
	})
	return c, ch
}

func waitDelivery(t *testing.T, ch chan []models.Memo) []models.Memo {
	t.Helper()
	select {
	case memos := <-ch:
		return memos
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery")
		return nil
	}
}

func TestQuerySelection(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category string
		sort     models.SortOption
		want     string
	}{
		{
			name:     "search and category filter",
			search:   "milk",
			category: "Shopping",
			sort:     models.SortTitleAsc,
			want:     "SearchByCategory/Shopping/milk",
		},
		{
			name:   "search only ignores sort",
			search: "milk",
			sort:   models.SortTitleAsc,
			want:   "Search/milk",
		},
		{
			name:     "category only keeps sort",
			category: "Work",
			sort:     models.SortPriorityDesc,
			want:     "ListByCategory/Work/priority-desc",
		},
		{
			name: "no filters",
			sort: models.SortCreatedDateAsc,
			want: "ListAll/created-asc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &fakeGateway{memos: []models.Memo{{ID: 1, Title: "x"}}}
			c, ch := collect(gateway)
			defer c.Close()

			category := tt.category
			if category == "" {
				category = models.CategoryAll
			}
			c.Set(tt.search, category, tt.sort)

			memos := waitDelivery(t, ch)
			if len(memos) != 1 {
				t.Errorf("delivered %d memos, want 1", len(memos))
			}
			if got := gateway.lastCall(); got != tt.want {
				t.Errorf("selected query = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSettersRecompose(t *testing.T) {
	gateway := &fakeGateway{}
	c, ch := collect(gateway)
	defer c.Close()

	c.SetCategory("Work")
	waitDelivery(t, ch)
	if got, want := gateway.lastCall(), "ListByCategory/Work/modified-desc"; got != want {
		t.Errorf("after SetCategory: %q, want %q", got, want)
	}

	c.SetSearch("report")
	waitDelivery(t, ch)
	if got, want := gateway.lastCall(), "SearchByCategory/Work/report"; got != want {
		t.Errorf("after SetSearch: %q, want %q", got, want)
	}

	c.ClearSearch()
	waitDelivery(t, ch)
	if got, want := gateway.lastCall(), "ListByCategory/Work/modified-desc"; got != want {
		t.Errorf("after ClearSearch: %q, want %q", got, want)
	}

	c.SetSort(models.SortTitleAsc)
	waitDelivery(t, ch)
	if got, want := gateway.lastCall(), "ListByCategory/Work/title-asc"; got != want {
		t.Errorf("after SetSort: %q, want %q", got, want)
	}
}

func TestStaleResultSuppressed(t *testing.T) {
	gateway := &fakeGateway{block: make(chan struct{})}
	c, ch := collect(gateway)
	defer c.Close()

	// The first query blocks inside the gateway while a second state change
	// supersedes it. Releasing both must deliver only the newer result.
	c.SetSearch("old")
	c.SetSearch("new")
	close(gateway.block)

	memos := waitDelivery(t, ch)
	if len(memos) != 1 || memos[0].Title != "new" {
		t.Errorf("delivered %v, want the result of the newer search", memos)
	}

	select {
	case <-ch:
		t.Error("stale query result was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseStopsDeliveries(t *testing.T) {
	gateway := &fakeGateway{block: make(chan struct{})}
	c, ch := collect(gateway)

	c.SetSearch("pending")
	c.Close()
	close(gateway.block)

	select {
	case <-ch:
		t.Error("delivery after Close")
	case <-time.After(100 * time.Millisecond):
	}

	// Setters after Close are no-ops.
	c.SetCategory("Work")
	select {
	case <-ch:
		t.Error("delivery from setter after Close")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBuildVocabulary(t *testing.T) {
	tests := []struct {
		name   string
		stored []string
		want   []string
	}{
		{
			name:   "empty storage yields defaults",
			stored: nil,
			want: []string{"All", "Default", "Work", "Life", "Study",
				"Health", "Travel", "Shopping", "Important"},
		},
		{
			name:   "stored categories come before missing defaults",
			stored: []string{"Groceries", "Work"},
			want: []string{"All", "Groceries", "Work", "Default", "Life",
				"Study", "Health", "Travel", "Shopping", "Important"},
		},
		{
			name:   "duplicates and empties dropped",
			stored: []string{"", "Work", "Work", "All"},
			want: []string{"All", "Work", "Default", "Life", "Study",
				"Health", "Travel", "Shopping", "Important"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildVocabulary(tt.stored)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestVocabularyIdempotent(t *testing.T) {
	gateway := &fakeGateway{categories: []string{"Life", "Projects", "Work"}}
	c, _ := collect(gateway)
	defer c.Close()

	first, err := c.Vocabulary()
	if err != nil {
		t.Fatalf("Vocabulary: %v", err)
	}
	second, err := c.Vocabulary()
	if err != nil {
		t.Fatalf("Vocabulary: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("not idempotent: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("not idempotent: %v vs %v", first, second)
		}
	}
	if first[0] != models.CategoryAll {
		t.Errorf("first entry = %q, want All", first[0])
	}
}
