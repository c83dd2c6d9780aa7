package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
)

// MaxViewNameLength bounds a saved view name
const MaxViewNameLength = 40

var (
	ErrViewLocked       = shared.NewDomainError("VIEW_LOCKED", "The first view cannot be renamed or deleted")
	ErrViewNotFound     = shared.NewDomainError("VIEW_NOT_FOUND", "Saved view not found")
	ErrViewNameRequired = shared.NewDomainError("VIEW_NAME_REQUIRED", "View name cannot be empty")
	ErrViewNameTooLong  = shared.NewDomainError("VIEW_NAME_TOO_LONG", "View name cannot exceed 40 characters")
)

// SavedView is a named product list state shown as a tab
type SavedView struct {
	ID        uuid.UUID    `json:"id"`
	Shop      string       `json:"shop"`
	Name      string       `json:"name"`
	Position  int          `json:"position"`
	Query     ProductQuery `json:"query"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Locked reports whether the view is the pinned first tab
func (v *SavedView) Locked() bool {
	return v.Position == 0
}

// NewSavedView creates a view at the given position
func NewSavedView(shop, name string, position int, query ProductQuery) (*SavedView, error) {
	name, err := normalizeViewName(name)
	if err != nil {
		return nil, err
	}
	query.Page = 1
	now := time.Now()
	return &SavedView{
		ID:        uuid.New(),
		Shop:      shop,
		Name:      name,
		Position:  position,
		Query:     query,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename changes the view's name. The locked view keeps its name.
func (v *SavedView) Rename(name string) error {
	if v.Locked() {
		return ErrViewLocked
	}
	name, err := normalizeViewName(name)
	if err != nil {
		return err
	}
	v.Name = name
	v.UpdatedAt = time.Now()
	return nil
}

// UpdateQuery replaces the stored list state
func (v *SavedView) UpdateQuery(q ProductQuery) {
	q.Page = 1
	v.Query = q
	v.UpdatedAt = time.Now()
}

// CanDelete returns ErrViewLocked for the first view
func (v *SavedView) CanDelete() error {
	if v.Locked() {
		return ErrViewLocked
	}
	return nil
}

// DefaultViews returns the four built-in tabs: All, Active, Draft, Archived
func DefaultViews(shop string) []*SavedView {
	names := []string{"All", "Active", "Draft", "Archived"}
	views := make([]*SavedView, 0, len(names))
	for i, name := range names {
		q := NewProductQuery()
		q.Tab = Tab(i)
		v, _ := NewSavedView(shop, name, i, q)
		views = append(views, v)
	}
	return views
}

// SelectionAfterDelete is the position selected once a view is deleted
const SelectionAfterDelete = 0

func normalizeViewName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrViewNameRequired
	}
	if len([]rune(name)) > MaxViewNameLength {
		return "", ErrViewNameTooLong
	}
	return name, nil
}
