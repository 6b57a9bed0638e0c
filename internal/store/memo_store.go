package store

import (
	"errors"
	"fmt"

	"github.com/silenthink/memo-cli/internal/models"
	"gorm.io/gorm"
)

// MemoStore provides point and list queries over the memos table.
type MemoStore struct {
	db *gorm.DB
}

// orderClause maps a sort option to its ORDER BY clause. Priority and
// category sorts break ties by modified date descending, matching the
// default list ordering.
func orderClause(sort models.SortOption) string {
	switch sort {
	case models.SortModifiedDateAsc:
		return "modified_date ASC"
	case models.SortCreatedDateDesc:
		return "created_date DESC"
	case models.SortCreatedDateAsc:
		return "created_date ASC"
	case models.SortTitleAsc:
		return "title ASC"
	case models.SortTitleDesc:
		return "title DESC"
	case models.SortPriorityDesc:
		return "priority DESC, modified_date DESC"
	case models.SortPriorityAsc:
		return "priority ASC, modified_date DESC"
	case models.SortCategoryAsc:
		return "category ASC, modified_date DESC"
	default:
		return "modified_date DESC"
	}
}

// Insert persists a new memo and returns its assigned id.
func (m *MemoStore) Insert(memo *models.Memo) (int64, error) {
	if err := m.db.Create(memo).Error; err != nil {
		return 0, fmt.Errorf("failed to insert memo: %w", err)
	}
	return memo.ID, nil
}

// Update saves all fields of an existing memo.
func (m *MemoStore) Update(memo *models.Memo) error {
	if err := m.db.Save(memo).Error; err != nil {
		return fmt.Errorf("failed to update memo: %w", err)
	}
	return nil
}

// Delete removes a memo.
func (m *MemoStore) Delete(memo *models.Memo) error {
	if err := m.db.Delete(memo).Error; err != nil {
		return fmt.Errorf("failed to delete memo: %w", err)
	}
	return nil
}

// DeleteByID removes a memo by id.
func (m *MemoStore) DeleteByID(id int64) error {
	if err := m.db.Delete(&models.Memo{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete memo %d: %w", id, err)
	}
	return nil
}

// GetByID fetches a single memo. Returns ErrNotFound when the id is unknown.
func (m *MemoStore) GetByID(id int64) (*models.Memo, error) {
	var memo models.Memo
	if err := m.db.First(&memo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch memo %d: %w", id, err)
	}
	return &memo, nil
}

// ListAll returns every memo in the requested order.
func (m *MemoStore) ListAll(sort models.SortOption) ([]models.Memo, error) {
	var memos []models.Memo
	if err := m.db.Order(orderClause(sort)).Find(&memos).Error; err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	return memos, nil
}

// ListByCategory returns memos in one category. The category-asc sort is
// meaningless inside a single category and falls back to modified date
// descending.
func (m *MemoStore) ListByCategory(category string, sort models.SortOption) ([]models.Memo, error) {
	if sort == models.SortCategoryAsc {
		sort = models.SortModifiedDateDesc
	}
	var memos []models.Memo
	err := m.db.Where("category = ?", category).Order(orderClause(sort)).Find(&memos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list memos for category %q: %w", category, err)
	}
	return memos, nil
}

// Search returns memos whose title or content contains the query text,
// ordered by modified date descending.
func (m *MemoStore) Search(query string) ([]models.Memo, error) {
	var memos []models.Memo
	pattern := "%" + query + "%"
	err := m.db.Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Order("modified_date DESC").Find(&memos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search memos: %w", err)
	}
	return memos, nil
}

// SearchByCategory restricts Search to one category.
func (m *MemoStore) SearchByCategory(category, query string) ([]models.Memo, error) {
	var memos []models.Memo
	pattern := "%" + query + "%"
	err := m.db.Where("category = ? AND (title LIKE ? OR content LIKE ?)", category, pattern, pattern).
		Order("modified_date DESC").Find(&memos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search memos in category %q: %w", category, err)
	}
	return memos, nil
}

// Categories returns the distinct categories present in storage, ascending.
func (m *MemoStore) Categories() ([]string, error) {
	var categories []string
	err := m.db.Model(&models.Memo{}).Distinct("category").
		Order("category ASC").Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
