package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

const copyPrefix = "Copy of "

// ViewService manages the saved view tabs of one shop
type ViewService struct {
	repo   catalog.SavedViewRepository
	shop   string
	logger *zap.Logger

	// mu serializes default seeding and every change to positions
	mu sync.Mutex
}

// NewViewService creates a ViewService
func NewViewService(repo catalog.SavedViewRepository, shop string, logger *zap.Logger) *ViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{repo: repo, shop: shop, logger: logger}
}

// List returns the tabs in order, creating the defaults on first use
func (s *ViewService) List(ctx context.Context) ([]SavedViewResponse, error) {
	if err := s.ensureDefaults(ctx); err != nil {
		return nil, err
	}
	return s.list(ctx)
}

// Create appends a tab and selects it
func (s *ViewService) Create(ctx context.Context, req *CreateViewRequest) (*ViewSelection, error) {
	if err := s.ensureDefaults(ctx); err != nil {
		return nil, err
	}
	query := catalog.NewProductQuery()
	if req.Query != nil {
		if err := req.Query.Validate(); err != nil {
			return nil, err
		}
		query = *req.Query
	}

	view, err := s.appendView(ctx, req.Name, query)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Saved view created", zap.String("view_id", view.ID.String()), zap.String("name", view.Name))
	return s.selection(ctx, view.Position)
}

// Update renames a tab and/or stores its list state. The first tab is
// locked and accepts neither.
func (s *ViewService) Update(ctx context.Context, id uuid.UUID, req *UpdateViewRequest) (*SavedViewResponse, error) {
	view, err := s.repo.FindByID(ctx, s.shop, id)
	if err != nil {
		return nil, err
	}
	if view.Locked() && (req.Name != nil || req.Query != nil) {
		return nil, catalog.ErrViewLocked
	}
	if req.Name != nil {
		if err := view.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Query != nil {
		if err := req.Query.Validate(); err != nil {
			return nil, err
		}
		view.UpdateQuery(*req.Query)
	}
	if err := s.repo.Save(ctx, view); err != nil {
		return nil, err
	}
	resp := ToSavedViewResponse(view)
	return &resp, nil
}

// Rename changes a tab's name
func (s *ViewService) Rename(ctx context.Context, id uuid.UUID, name string) (*SavedViewResponse, error) {
	return s.Update(ctx, id, &UpdateViewRequest{Name: &name})
}

// Delete removes a tab. Selection always moves back to the first tab.
func (s *ViewService) Delete(ctx context.Context, id uuid.UUID) (*ViewSelection, error) {
	view, err := s.repo.FindByID(ctx, s.shop, id)
	if err != nil {
		return nil, err
	}
	if err := view.CanDelete(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	err = s.repo.Delete(ctx, s.shop, id)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.logger.Info("Saved view deleted", zap.String("view_id", id.String()))
	return s.selection(ctx, catalog.SelectionAfterDelete)
}

// Duplicate copies a tab's list state into a new tab at the end
func (s *ViewService) Duplicate(ctx context.Context, id uuid.UUID, req *DuplicateViewRequest) (*ViewSelection, error) {
	src, err := s.repo.FindByID(ctx, s.shop, id)
	if err != nil {
		return nil, err
	}
	name := req.Name
	if name == "" {
		name = copyName(src.Name)
	}
	view, err := s.appendView(ctx, name, src.Query)
	if err != nil {
		return nil, err
	}
	return s.selection(ctx, view.Position)
}

// Find returns one view
func (s *ViewService) Find(ctx context.Context, id uuid.UUID) (*catalog.SavedView, error) {
	return s.repo.FindByID(ctx, s.shop, id)
}

func (s *ViewService) ensureDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.CountByShop(ctx, s.shop)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := s.repo.SaveAll(ctx, catalog.DefaultViews(s.shop)); err != nil {
		return err
	}
	s.logger.Info("Default views created", zap.String("shop", s.shop))
	return nil
}

// appendView saves a new view after the last one. Positions have no gaps,
// so the count is the next position.
func (s *ViewService) appendView(ctx context.Context, name string, query catalog.ProductQuery) (*catalog.SavedView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.CountByShop(ctx, s.shop)
	if err != nil {
		return nil, err
	}
	view, err := catalog.NewSavedView(s.shop, name, int(n), query)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *ViewService) list(ctx context.Context) ([]SavedViewResponse, error) {
	views, err := s.repo.ListByShop(ctx, s.shop)
	if err != nil {
		return nil, err
	}
	out := make([]SavedViewResponse, 0, len(views))
	for i := range views {
		out = append(out, ToSavedViewResponse(&views[i]))
	}
	return out, nil
}

func (s *ViewService) selection(ctx context.Context, selected int) (*ViewSelection, error) {
	views, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return &ViewSelection{Views: views, Selected: selected}, nil
}

// copyName prefixes "Copy of " and trims to the name limit
func copyName(name string) string {
	r := []rune(copyPrefix + name)
	if len(r) > catalog.MaxViewNameLength {
		r = r[:catalog.MaxViewNameLength]
	}
	return string(r)
}
