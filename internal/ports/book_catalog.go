package ports

import (
	"context"

	"library-route-service/internal/domain"
)

type BookCatalog interface {
	// Return the most borrowed books for readers matching profile. An empty
	// slice is a valid answer.
	PopularBooks(ctx context.Context, profile domain.ReaderProfile, limit int) ([]domain.Book, error)
}
