// Package store persists the launch collection. The whole collection is the
// unit of storage: every write replaces it in one atomic step, which is what
// keeps a launch's derived fields from ever being observed half-updated.
package store

import (
	"context"
	"errors"

	"launchline/internal/domain"
)

var (
	ErrLaunchNotFound = errors.New("launch not found")
	ErrPermitNotFound = errors.New("permit not found")
)

// Store is the abstract launch aggregate store. Implementations must make
// ReplaceAll atomic; the engine assumes a single logical writer per store.
type Store interface {
	LoadAll(ctx context.Context) ([]domain.Launch, error)
	ReplaceAll(ctx context.Context, launches []domain.Launch) error
}
