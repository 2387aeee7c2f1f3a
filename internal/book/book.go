package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no book has the requested ISBN.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when creating a book whose ISBN is already stored.
	ErrDuplicateISBN = errors.New("isbn already exists")
	// ErrInvalidSortField is returned when sorting by a field other than title or year.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// MinYear is the earliest publication year accepted for a book.
const MinYear = 1900

// Book represents a book document.
type Book struct {
	ISBN      string     `json:"isbn" bson:"isbn"`
	Title     string     `json:"title" bson:"title"`
	Author    string     `json:"author" bson:"author"`
	Year      int        `json:"year" bson:"year"`
	Category  string     `json:"category" bson:"category"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Changes holds the mutable fields replaced together by an update.
type Changes struct {
	Title     string
	Author    string
	Year      int
	Category  string
	UpdatedAt time.Time
}

// SortField names a field books can be ordered by.
type SortField string

const (
	SortByTitle SortField = "title"
	SortByYear  SortField = "year"
)

// ParseSortField returns ErrInvalidSortField for anything but title or year.
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortByTitle, SortByYear:
		return SortField(s), nil
	default:
		return "", ErrInvalidSortField
	}
}

// Sort orders a query by a single field.
type Sort struct {
	Field SortField
	Desc  bool
}

// Query defines filters, ordering and pagination for listing books.
// Zero values omit the corresponding criterion.
type Query struct {
	Category *string
	Author   string
	Year     *int
	Sort     *Sort
	Skip     int64
	Limit    int64
}

// Stats summarizes the publication years of all stored books.
// OldestBook and NewestBook are nil when there are no books.
type Stats struct {
	TotalBooks int64 `json:"totalBooks"`
	OldestBook *int  `json:"oldestBook,omitempty"`
	NewestBook *int  `json:"newestBook,omitempty"`
}
