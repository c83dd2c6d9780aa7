package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/persistence/models"
)

// GormSavedViewRepository implements catalog.SavedViewRepository
type GormSavedViewRepository struct {
	db *gorm.DB
}

// NewGormSavedViewRepository creates the repository
func NewGormSavedViewRepository(db *gorm.DB) *GormSavedViewRepository {
	return &GormSavedViewRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GormSavedViewRepository) WithTx(tx *gorm.DB) *GormSavedViewRepository {
	return &GormSavedViewRepository{db: tx}
}

// ListByShop returns the shop's views ordered by position
func (r *GormSavedViewRepository) ListByShop(ctx context.Context, shop string) ([]catalog.SavedView, error) {
	var rows []models.SavedViewModel
	if err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list saved views: %w", err)
	}
	views := make([]catalog.SavedView, 0, len(rows))
	for i := range rows {
		views = append(views, *rows[i].ToDomain())
	}
	return views, nil
}

// FindByID returns catalog.ErrViewNotFound for a missing view
func (r *GormSavedViewRepository) FindByID(ctx context.Context, shop string, id uuid.UUID) (*catalog.SavedView, error) {
	var row models.SavedViewModel
	err := r.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrViewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find saved view: %w", err)
	}
	return row.ToDomain(), nil
}

// Save upserts a view by id
func (r *GormSavedViewRepository) Save(ctx context.Context, view *catalog.SavedView) error {
	row := models.SavedViewModelFromDomain(view)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "position", "query", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("save saved view: %w", err)
	}
	return nil
}

// SaveAll inserts views in one transaction
func (r *GormSavedViewRepository) SaveAll(ctx context.Context, views []*catalog.SavedView) error {
	if len(views) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := r.WithTx(tx)
		for _, v := range views {
			if err := repo.Save(ctx, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a view and shifts later views up one position
func (r *GormSavedViewRepository) Delete(ctx context.Context, shop string, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.SavedViewModel
		err := tx.Where("shop = ? AND id = ?", shop, id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.ErrViewNotFound
		}
		if err != nil {
			return fmt.Errorf("find saved view: %w", err)
		}
		if err := tx.Delete(&models.SavedViewModel{}, "id = ?", row.ID).Error; err != nil {
			return fmt.Errorf("delete saved view: %w", err)
		}
		if err := tx.Model(&models.SavedViewModel{}).
			Where("shop = ? AND position > ?", shop, row.Position).
			Update("position", gorm.Expr("position - 1")).Error; err != nil {
			return fmt.Errorf("reorder saved views: %w", err)
		}
		return nil
	})
}

// CountByShop counts the shop's views
func (r *GormSavedViewRepository) CountByShop(ctx context.Context, shop string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.SavedViewModel{}).
		Where("shop = ?", shop).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count saved views: %w", err)
	}
	return n, nil
}

var _ catalog.SavedViewRepository = (*GormSavedViewRepository)(nil)
