package catalog

import (
	"context"

	"github.com/google/uuid"
)

// SavedViewRepository persists saved views per shop
type SavedViewRepository interface {
	// ListByShop returns the shop's views ordered by position
	ListByShop(ctx context.Context, shop string) ([]SavedView, error)

	// FindByID returns ErrViewNotFound when the view does not exist
	FindByID(ctx context.Context, shop string, id uuid.UUID) (*SavedView, error)

	// Save inserts or updates a view
	Save(ctx context.Context, view *SavedView) error

	// SaveAll inserts the views in one transaction
	SaveAll(ctx context.Context, views []*SavedView) error

	// Delete removes a view and closes the gap in positions
	Delete(ctx context.Context, shop string, id uuid.UUID) error

	// CountByShop returns the number of views for the shop
	CountByShop(ctx context.Context, shop string) (int64, error)
}
