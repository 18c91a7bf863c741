// Package storage provides abstractions for persistent split storage.
package storage

import (
	"context"
	"errors"

	"github.com/snapsplit/snapsplit/internal/models"
)

// ErrNotFound is returned when no record exists for a fingerprint.
var ErrNotFound = errors.New("split record not found")

// Store persists split records keyed by their content fingerprint.
// Records are append-only: writing an existing fingerprint again is a no-op,
// which makes concurrent duplicate computations harmless (both writers carry
// identical content).
type Store interface {
	// CreateSplit persists a record under record.ID. Writing a fingerprint
	// that already exists succeeds without changing the stored record.
	CreateSplit(ctx context.Context, record *models.SplitRecord) error

	// GetSplit retrieves a record by fingerprint.
	// Returns ErrNotFound when the fingerprint is unknown.
	GetSplit(ctx context.Context, id string) (*models.SplitRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
