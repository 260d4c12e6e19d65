// Package repository handles every interaction with the names store.
//
// The store is reached through one of two adapters that share the NameStore
// contract: the Supabase REST gateway (default) or a direct pgx pool. The
// service layer only ever sees NameStore.
package repository

import (
	"context"

	"github.com/deppfellow/names-api/internal/model"
)

// NameStore is the persistence contract for names.
//
// Errors returned by any method are collaborator failures; callers never
// see them as typed domain errors.
type NameStore interface {
	// Count returns the exact number of stored names.
	Count(ctx context.Context) (int64, error)
	// Insert stores one name with its creation timestamp.
	Insert(ctx context.Context, name model.NewName) error
	// List returns every stored name, newest first.
	List(ctx context.Context) ([]model.NameRecord, error)
}
