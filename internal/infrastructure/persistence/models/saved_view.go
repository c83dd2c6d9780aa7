package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

// SavedViewModel is the saved_views row
type SavedViewModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Shop      string               `gorm:"size:255;not null;index:idx_saved_views_shop_position,priority:1"`
	Name      string               `gorm:"size:40;not null"`
	Position  int                  `gorm:"not null;index:idx_saved_views_shop_position,priority:2"`
	Query     catalog.ProductQuery `gorm:"serializer:json;type:jsonb;not null"`
	CreatedAt time.Time            `gorm:"not null"`
	UpdatedAt time.Time            `gorm:"not null"`
}

// TableName returns the table name
func (SavedViewModel) TableName() string {
	return "saved_views"
}

// ToDomain converts the row to a saved view
func (m *SavedViewModel) ToDomain() *catalog.SavedView {
	return &catalog.SavedView{
		ID:        m.ID,
		Shop:      m.Shop,
		Name:      m.Name,
		Position:  m.Position,
		Query:     m.Query,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// SavedViewModelFromDomain converts a saved view to a row
func SavedViewModelFromDomain(v *catalog.SavedView) *SavedViewModel {
	return &SavedViewModel{
		ID:        v.ID,
		Shop:      v.Shop,
		Name:      v.Name,
		Position:  v.Position,
		Query:     v.Query,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
