package book

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source used for createdAt/updatedAt.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// timestamp is truncated to the store's millisecond precision.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// List returns all books, or a single page when both page and limit are at least 1.
func (s *Service) List(ctx context.Context, page, limit int) ([]Book, error) {
	var q Query
	if page >= 1 && limit >= 1 {
		q.Skip = int64(page-1) * int64(limit)
		q.Limit = int64(limit)
	}
	return s.repo.Find(ctx, q)
}

// SearchByCategory returns books whose category equals category, ignoring case.
func (s *Service) SearchByCategory(ctx context.Context, category string) ([]Book, error) {
	return s.repo.Find(ctx, Query{Category: &category})
}

// Sort returns all books ordered by the given field. Any order other than "desc" is ascending.
func (s *Service) Sort(ctx context.Context, by, order string) ([]Book, error) {
	field, err := ParseSortField(by)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, Query{Sort: &Sort{Field: field, Desc: order == "desc"}})
}

// Filter returns books whose author contains author (ignoring case) and, when year is set,
// whose year equals it. Empty criteria are omitted.
func (s *Service) Filter(ctx context.Context, author string, year *int) ([]Book, error) {
	return s.repo.Find(ctx, Query{Author: author, Year: year})
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Create validates and stores a new book.
//
// The lookup before the insert is not atomic with it; a concurrent create of the same
// ISBN is rejected by the store's unique index and surfaces as ErrDuplicateISBN too.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	if err := ValidateCreate(in); err != nil {
		return Book{}, err
	}

	_, err := s.repo.GetByISBN(ctx, in.ISBN)
	switch {
	case err == nil:
		return Book{}, ErrDuplicateISBN
	case !errors.Is(err, ErrNotFound):
		return Book{}, fmt.Errorf("lookup isbn %q: %w", in.ISBN, err)
	}

	b := Book{
		ISBN:      in.ISBN,
		Title:     in.Title,
		Author:    in.Author,
		Year:      in.Year,
		Category:  in.Category,
		CreatedAt: s.timestamp(),
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update validates the payload and replaces all mutable fields of the book.
func (s *Service) Update(ctx context.Context, isbn string, in UpdateInput) (Book, error) {
	if err := ValidateUpdate(in); err != nil {
		return Book{}, err
	}
	return s.repo.Update(ctx, isbn, Changes{
		Title:     in.Title,
		Author:    in.Author,
		Year:      in.Year,
		Category:  in.Category,
		UpdatedAt: s.timestamp(),
	})
}

// Delete removes a book by its ISBN.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	return s.repo.Delete(ctx, isbn)
}

// Stats returns the book count and the oldest and newest publication years.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	if st.TotalBooks == 0 {
		return Stats{}, nil
	}
	return st, nil
}
