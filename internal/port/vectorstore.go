package port

import (
	"context"

	"cyberrag/internal/domain"
)

// VectorStore persists embedded chunk records and answers similarity queries.
type VectorStore interface {
	// EnsureCollection creates the backing collection if it does not exist.
	EnsureCollection(ctx context.Context, dimension int) error

	// Insert stores one record with its embedding vector.
	Insert(ctx context.Context, rec domain.Record, vector []float32) error

	// Query returns up to topK hits ordered by decreasing similarity.
	Query(ctx context.Context, vector []float32, topK int) ([]domain.Hit, error)

	// Close releases the underlying connection or file handle.
	Close() error
}
