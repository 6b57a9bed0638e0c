package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/silenthink/memo-cli/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedMemo(t *testing.T, s *Store, title, category string, priority int, modified time.Time) int64 {
	t.Helper()
	memo := models.Memo{
		Title:        title,
		Content:      "content of " + title,
		Category:     category,
		Priority:     priority,
		CreatedDate:  modified,
		ModifiedDate: modified,
	}
	id, err := s.Memos.Insert(&memo)
	if err != nil {
		t.Fatalf("Insert(%q): %v", title, err)
	}
	return id
}

func titles(memos []models.Memo) []string {
	out := make([]string, len(memos))
	for i, m := range memos {
		out[i] = m.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMemoCRUD(t *testing.T) {
	s := newTestStore(t)

	id := seedMemo(t, s, "first", "Work", models.PriorityNormal, time.Now())

	memo, err := s.Memos.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if memo.Title != "first" {
		t.Errorf("title = %q, want %q", memo.Title, "first")
	}

	memo.Title = "renamed"
	memo.Priority = models.PriorityUrgent
	if err := s.Memos.Update(memo); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := s.Memos.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if updated.Title != "renamed" || updated.Priority != models.PriorityUrgent {
		t.Errorf("update not persisted: %+v", updated)
	}

	if err := s.Memos.DeleteByID(id); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := s.Memos.GetByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}
}

func TestListAllSortOrders(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// alpha: oldest, urgent. beta: middle, normal. gamma: newest, important.
	seedMemo(t, s, "alpha", "Work", models.PriorityUrgent, base)
	seedMemo(t, s, "beta", "Life", models.PriorityNormal, base.Add(time.Hour))
	seedMemo(t, s, "gamma", "Work", models.PriorityImportant, base.Add(2*time.Hour))

	tests := []struct {
		name string
		sort models.SortOption
		want []string
	}{
		{"modified desc", models.SortModifiedDateDesc, []string{"gamma", "beta", "alpha"}},
		{"modified asc", models.SortModifiedDateAsc, []string{"alpha", "beta", "gamma"}},
		{"created desc", models.SortCreatedDateDesc, []string{"gamma", "beta", "alpha"}},
		{"created asc", models.SortCreatedDateAsc, []string{"alpha", "beta", "gamma"}},
		{"title asc", models.SortTitleAsc, []string{"alpha", "beta", "gamma"}},
		{"title desc", models.SortTitleDesc, []string{"gamma", "beta", "alpha"}},
		{"priority desc", models.SortPriorityDesc, []string{"alpha", "gamma", "beta"}},
		{"priority asc", models.SortPriorityAsc, []string{"beta", "gamma", "alpha"}},
		{"category asc", models.SortCategoryAsc, []string{"beta", "gamma", "alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memos, err := s.Memos.ListAll(tt.sort)
			if err != nil {
				t.Fatalf("ListAll: %v", err)
			}
			if got := titles(memos); !equalStrings(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrioritySortBreaksTiesByModifiedDate(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedMemo(t, s, "older", "Work", models.PriorityImportant, base)
	seedMemo(t, s, "newer", "Work", models.PriorityImportant, base.Add(time.Hour))

	memos, err := s.Memos.ListAll(models.SortPriorityDesc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if got, want := titles(memos), []string{"newer", "older"}; !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestListByCategory(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedMemo(t, s, "w1", "Work", models.PriorityNormal, base)
	seedMemo(t, s, "w2", "Work", models.PriorityNormal, base.Add(time.Hour))
	seedMemo(t, s, "l1", "Life", models.PriorityNormal, base.Add(2*time.Hour))

	memos, err := s.Memos.ListByCategory("Work", models.SortModifiedDateDesc)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if got, want := titles(memos), []string{"w2", "w1"}; !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestListByCategoryCategorySortFallsBack(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedMemo(t, s, "older", "Work", models.PriorityNormal, base)
	seedMemo(t, s, "newer", "Work", models.PriorityNormal, base.Add(time.Hour))

	// Sorting one category by category name is meaningless; expect the
	// modified-date-descending fallback.
	memos, err := s.Memos.ListByCategory("Work", models.SortCategoryAsc)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if got, want := titles(memos), []string{"newer", "older"}; !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedMemo(t, s, "grocery run", "Shopping", models.PriorityNormal, base)
	seedMemo(t, s, "meeting notes", "Work", models.PriorityNormal, base.Add(time.Hour))
	m := models.Memo{
		Title: "untitled", Content: "buy groceries for dinner",
		Category: "Life", CreatedDate: base.Add(2 * time.Hour), ModifiedDate: base.Add(2 * time.Hour),
	}
	if _, err := s.Memos.Insert(&m); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	t.Run("matches title and content, newest first", func(t *testing.T) {
		memos, err := s.Memos.Search("grocer")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if got, want := titles(memos), []string{"untitled", "grocery run"}; !equalStrings(got, want) {
			t.Errorf("result = %v, want %v", got, want)
		}
	})

	t.Run("category restriction", func(t *testing.T) {
		memos, err := s.Memos.SearchByCategory("Shopping", "grocer")
		if err != nil {
			t.Fatalf("SearchByCategory: %v", err)
		}
		if got, want := titles(memos), []string{"grocery run"}; !equalStrings(got, want) {
			t.Errorf("result = %v, want %v", got, want)
		}
	})

	t.Run("no match", func(t *testing.T) {
		memos, err := s.Memos.Search("nonexistent")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(memos) != 0 {
			t.Errorf("result = %v, want empty", titles(memos))
		}
	})
}

func TestCategoriesDistinctAscending(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	seedMemo(t, s, "a", "Work", models.PriorityNormal, now)
	seedMemo(t, s, "b", "Life", models.PriorityNormal, now)
	seedMemo(t, s, "c", "Work", models.PriorityNormal, now)

	cats, err := s.Memos.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if want := []string{"Life", "Work"}; !equalStrings(cats, want) {
		t.Errorf("categories = %v, want %v", cats, want)
	}
}

func TestUserStore(t *testing.T) {
	s := newTestStore(t)

	user := models.User{
		Username: "ada", Email: "ada@example.com",
		Password: "salt:hash", CreatedDate: time.Now(),
	}
	if _, err := s.Users.Insert(&user); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	found, err := s.Users.FindByUsername("ada")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if found.Email != "ada@example.com" {
		t.Errorf("email = %q", found.Email)
	}

	if _, err := s.Users.FindByUsername("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByUsername(nobody) = %v, want ErrNotFound", err)
	}

	count, err := s.Users.CountByUsername("ada")
	if err != nil || count != 1 {
		t.Errorf("CountByUsername = %d, %v, want 1, nil", count, err)
	}
	count, err = s.Users.CountByEmail("ada@example.com")
	if err != nil || count != 1 {
		t.Errorf("CountByEmail = %d, %v, want 1, nil", count, err)
	}
	count, err = s.Users.CountByEmail("other@example.com")
	if err != nil || count != 0 {
		t.Errorf("CountByEmail(other) = %d, %v, want 0, nil", count, err)
	}
}
