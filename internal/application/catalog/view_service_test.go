package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
)

func newTestViewService(t *testing.T) (*ViewService, []SavedViewResponse) {
	t.Helper()
	svc := NewViewService(newFakeViewRepo(), testShop, nil)
	views, err := svc.List(context.Background())
	require.NoError(t, err)
	return svc, views
}

func names(views []SavedViewResponse) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Name)
	}
	return out
}

func TestViewService_List_SeedsDefaultsOnce(t *testing.T) {
	svc, views := newTestViewService(t)

	assert.Equal(t, []string{"All", "Active", "Draft", "Archived"}, names(views))
	assert.True(t, views[0].Locked)
	assert.False(t, views[1].Locked)
	assert.Equal(t, catalog.TabArchived, views[3].Query.Tab)

	again, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, again, 4)
}

func TestViewService_Create_AppendsAndSelects(t *testing.T) {
	svc, _ := newTestViewService(t)

	q := catalog.NewProductQuery()
	q.TaggedWith = []string{"red"}
	q.Page = 4
	sel, err := svc.Create(context.Background(), &CreateViewRequest{Name: "  Red things ", Query: &q})
	require.NoError(t, err)

	require.Len(t, sel.Views, 5)
	assert.Equal(t, 4, sel.Selected)
	created := sel.Views[4]
	assert.Equal(t, "Red things", created.Name)
	assert.Equal(t, []string{"red"}, created.Query.TaggedWith)
	assert.Equal(t, 1, created.Query.Page)
}

func TestViewService_ConcurrentAppendsGetDistinctPositions(t *testing.T) {
	svc, views := newTestViewService(t)
	ctx := context.Background()
	src := views[1].ID

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = svc.Create(ctx, &CreateViewRequest{Name: fmt.Sprintf("Tab %d", i)})
			} else {
				_, err = svc.Duplicate(ctx, src, &DuplicateViewRequest{})
			}
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(views)+n)
	for i, v := range all {
		assert.Equal(t, i, v.Position, "view %q", v.Name)
	}
}

func TestViewService_Create_RejectsBadName(t *testing.T) {
	svc, _ := newTestViewService(t)

	_, err := svc.Create(context.Background(), &CreateViewRequest{Name: "   "})
	assert.ErrorIs(t, err, catalog.ErrViewNameRequired)

	_, err = svc.Create(context.Background(), &CreateViewRequest{Name: strings.Repeat("x", 41)})
	assert.ErrorIs(t, err, catalog.ErrViewNameTooLong)
}

func TestViewService_Update(t *testing.T) {
	svc, views := newTestViewService(t)
	ctx := context.Background()

	name := "Live"
	q := catalog.NewProductQuery()
	q.Query = "shirt"
	updated, err := svc.Update(ctx, views[1].ID, &UpdateViewRequest{Name: &name, Query: &q})
	require.NoError(t, err)
	assert.Equal(t, "Live", updated.Name)
	assert.Equal(t, "shirt", updated.Query.Query)

	renamed, err := svc.Rename(ctx, views[2].ID, "Drafts")
	require.NoError(t, err)
	assert.Equal(t, "Drafts", renamed.Name)
}

func TestViewService_FirstViewIsLocked(t *testing.T) {
	svc, views := newTestViewService(t)
	ctx := context.Background()
	first := views[0].ID

	_, err := svc.Rename(ctx, first, "Everything")
	assert.ErrorIs(t, err, catalog.ErrViewLocked)

	q := catalog.NewProductQuery()
	_, err = svc.Update(ctx, first, &UpdateViewRequest{Query: &q})
	assert.ErrorIs(t, err, catalog.ErrViewLocked)

	_, err = svc.Delete(ctx, first)
	assert.ErrorIs(t, err, catalog.ErrViewLocked)
}

func TestViewService_Delete_ClosesGapAndSelectsFirst(t *testing.T) {
	svc, views := newTestViewService(t)

	sel, err := svc.Delete(context.Background(), views[1].ID)
	require.NoError(t, err)

	assert.Equal(t, 0, sel.Selected)
	assert.Equal(t, []string{"All", "Draft", "Archived"}, names(sel.Views))
	for i, v := range sel.Views {
		assert.Equal(t, i, v.Position)
	}
}

func TestViewService_Delete_NotFound(t *testing.T) {
	svc, _ := newTestViewService(t)
	_, err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalog.ErrViewNotFound)
}

func TestViewService_Duplicate(t *testing.T) {
	svc, views := newTestViewService(t)
	ctx := context.Background()

	sel, err := svc.Duplicate(ctx, views[2].ID, &DuplicateViewRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, sel.Selected)
	dup := sel.Views[4]
	assert.Equal(t, "Copy of Draft", dup.Name)
	assert.Equal(t, catalog.TabDraft, dup.Query.Tab)
	assert.NotEqual(t, views[2].ID, dup.ID)

	sel, err = svc.Duplicate(ctx, views[0].ID, &DuplicateViewRequest{Name: "Mine"})
	require.NoError(t, err)
	assert.Equal(t, "Mine", sel.Views[5].Name)
	assert.False(t, sel.Views[5].Locked)
}

func TestCopyName_Truncates(t *testing.T) {
	long := strings.Repeat("é", catalog.MaxViewNameLength)
	got := copyName(long)
	assert.Equal(t, catalog.MaxViewNameLength, len([]rune(got)))
	assert.True(t, strings.HasPrefix(got, "Copy of "))
}
