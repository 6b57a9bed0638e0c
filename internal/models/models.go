package models

import (
	"time"
)

// DefaultCategory is the category assigned to memos created without one.
const DefaultCategory = "Default"

// CategoryAll is the pseudo-category meaning "no category filter".
const CategoryAll = "All"

// DefaultCategories is the built-in category vocabulary offered by the
// category picker. Order matters: it determines display order when the
// vocabulary is merged with categories found in storage.
var DefaultCategories = []string{
	"Default",
	"Work",
	"Life",
	"Study",
	"Health",
	"Travel",
	"Shopping",
	"Important",
}

// Priority levels for memos. Ordinal-ranked: Normal < Important < Urgent.
const (
	PriorityNormal    = 0
	PriorityImportant = 1
	PriorityUrgent    = 2
)

// PriorityText returns the display name for a priority level.
func PriorityText(priority int) string {
	switch priority {
	case PriorityImportant:
		return "Important"
	case PriorityUrgent:
		return "Urgent"
	default:
		return "Normal"
	}
}

// ParsePriority maps a priority name (case-insensitive) or numeric string to
// its level. Unknown values map to PriorityNormal.
func ParsePriority(s string) int {
	switch s {
	case "Important", "important", "1":
		return PriorityImportant
	case "Urgent", "urgent", "2":
		return PriorityUrgent
	default:
		return PriorityNormal
	}
}

// Memo is a user note. ID 0 means "not yet persisted"; the store assigns an
// id on insert and the id never changes afterwards.
type Memo struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string    `json:"title" gorm:"not null"`
	Content      string    `json:"content"`
	CreatedDate  time.Time `json:"createdDate" gorm:"not null"`
	ModifiedDate time.Time `json:"modifiedDate" gorm:"not null;index"`
	ImagePath    string    `json:"imagePath,omitempty"`
	Category     string    `json:"category" gorm:"not null;default:Default;index"`
	Priority     int       `json:"priority" gorm:"not null;default:0"`
}

// User is an account. Password holds the salt:hash encoded credential, never
// plaintext.
type User struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username    string    `json:"username" gorm:"uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	Password    string    `json:"password" gorm:"not null"`
	CreatedDate time.Time `json:"createdDate" gorm:"not null"`
}

// CategorySuggestion is the post-processed result of an AI categorization
// request. Category always belongs to the fixed suggestion vocabulary and
// Confidence is always within [0,1]. Not persisted.
type CategorySuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// SortOption selects one of the supported memo list orders.
type SortOption int

const (
	SortModifiedDateDesc SortOption = iota
	SortModifiedDateAsc
	SortCreatedDateDesc
	SortCreatedDateAsc
	SortTitleAsc
	SortTitleDesc
	SortPriorityDesc
	SortPriorityAsc
	SortCategoryAsc
)

var sortNames = map[SortOption]string{
	SortModifiedDateDesc: "modified-desc",
	SortModifiedDateAsc:  "modified-asc",
	SortCreatedDateDesc:  "created-desc",
	SortCreatedDateAsc:   "created-asc",
	SortTitleAsc:         "title-asc",
	SortTitleDesc:        "title-desc",
	SortPriorityDesc:     "priority-desc",
	SortPriorityAsc:      "priority-asc",
	SortCategoryAsc:      "category-asc",
}

func (s SortOption) String() string {
	if name, ok := sortNames[s]; ok {
		return name
	}
	return sortNames[SortModifiedDateDesc]
}

// ParseSortOption resolves a sort name as accepted on the CLI. Unknown names
// fall back to the default modified-date-descending order.
func ParseSortOption(name string) SortOption {
	for opt, n := range sortNames {
		if n == name {
			return opt
		}
	}
	return SortModifiedDateDesc
}

// SortOptionNames lists the accepted sort names in option order.
func SortOptionNames() []string {
	names := make([]string, 0, len(sortNames))
	for opt := SortModifiedDateDesc; opt <= SortCategoryAsc; opt++ {
		names = append(names, sortNames[opt])
	}
	return names
}
