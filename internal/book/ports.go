package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book document storage.
type Repository interface {
	// Find returns the books matching q, in q's order.
	Find(ctx context.Context, q Query) ([]Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	// Insert stores b, returning ErrDuplicateISBN if the ISBN is taken.
	Insert(ctx context.Context, b Book) error
	// Update replaces the mutable fields of the book and returns it as stored.
	Update(ctx context.Context, isbn string, c Changes) (Book, error)
	Delete(ctx context.Context, isbn string) error
	Stats(ctx context.Context) (Stats, error)
}
