package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/dto"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/middleware"
)

func setupViewRoutes(env *testEnv) *gin.Engine {
	middleware.SetupValidator()
	h := NewViewHandler(env.views)
	engine := newEngine()
	api := engine.Group("/api")
	api.GET("/views", h.List)
	api.POST("/views", h.Create)
	api.PATCH("/views/:id", h.Update)
	api.DELETE("/views/:id", h.Delete)
	api.POST("/views/:id/duplicate", h.Duplicate)
	return engine
}

func listViews(t *testing.T, engine *gin.Engine) []catalogapp.SavedViewResponse {
	t.Helper()
	w := performRequest(engine, http.MethodGet, "/api/views", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var views []catalogapp.SavedViewResponse
	decodeData(t, w, &views)
	return views
}

func TestViewHandler_ListSeedsDefaults(t *testing.T) {
	env := newTestEnv(t)
	engine := setupViewRoutes(env)

	views := listViews(t, engine)
	require.Len(t, views, len(catalog.DefaultViews(testShop)))
	assert.True(t, views[0].Locked)
	for i, v := range views {
		assert.Equal(t, i, v.Position)
	}

	// seeding happens once
	assert.Len(t, listViews(t, engine), len(views))
}

func TestViewHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	engine := setupViewRoutes(env)
	defaults := len(listViews(t, engine))

	t.Run("appends and selects", func(t *testing.T) {
		w := performRequest(engine, http.MethodPost, "/api/views", map[string]any{
			"name":  "Kitchen",
			"query": map[string]any{"taggedWith": []string{"kitchen"}, "sort": map[string]any{"key": "created", "direction": "desc"}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var sel catalogapp.ViewSelection
		decodeData(t, w, &sel)
		assert.Equal(t, defaults, sel.Selected)
		require.Len(t, sel.Views, defaults+1)
		created := sel.Views[sel.Selected]
		assert.Equal(t, "Kitchen", created.Name)
		assert.Equal(t, []string{"kitchen"}, created.Query.TaggedWith)
		assert.Equal(t, catalog.SortByCreated, created.Query.Sort.Key)
	})

	t.Run("name required", func(t *testing.T) {
		w := performRequest(engine, http.MethodPost, "/api/views", map[string]any{"name": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("name too long", func(t *testing.T) {
		w := performRequest(engine, http.MethodPost, "/api/views", map[string]any{"name": strings.Repeat("n", 41)})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank name", func(t *testing.T) {
		w := performRequest(engine, http.MethodPost, "/api/views", map[string]any{"name": "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidationRequired, errorCode(t, w))
	})
}

func TestViewHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	engine := setupViewRoutes(env)
	views := listViews(t, engine)
	require.GreaterOrEqual(t, len(views), 2)
	locked, second := views[0], views[1]

	t.Run("rename", func(t *testing.T) {
		w := performRequest(engine, http.MethodPatch, "/api/views/"+second.ID.String(), map[string]any{"name": "Live"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var view catalogapp.SavedViewResponse
		decodeData(t, w, &view)
		assert.Equal(t, "Live", view.Name)
	})

	t.Run("save query", func(t *testing.T) {
		w := performRequest(engine, http.MethodPatch, "/api/views/"+second.ID.String(), map[string]any{
			"query": map[string]any{"query": "mug", "tab": 1},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var view catalogapp.SavedViewResponse
		decodeData(t, w, &view)
		assert.Equal(t, "mug", view.Query.Query)
		assert.Equal(t, catalog.TabActive, view.Query.Tab)
	})

	t.Run("locked view", func(t *testing.T) {
		w := performRequest(engine, http.MethodPatch, "/api/views/"+locked.ID.String(), map[string]any{"name": "Everything"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeViewLocked, errorCode(t, w))
	})

	t.Run("malformed id", func(t *testing.T) {
		w := performRequest(engine, http.MethodPatch, "/api/views/1", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidationFormat, errorCode(t, w))
	})

	t.Run("unknown id", func(t *testing.T) {
		w := performRequest(engine, http.MethodPatch, "/api/views/6ba7b810-9dad-11d1-80b4-00c04fd430c8", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestViewHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	engine := setupViewRoutes(env)
	views := listViews(t, engine)

	w := performRequest(engine, http.MethodDelete, "/api/views/"+views[len(views)-1].ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sel catalogapp.ViewSelection
	decodeData(t, w, &sel)
	assert.Equal(t, catalog.SelectionAfterDelete, sel.Selected)
	assert.Len(t, sel.Views, len(views)-1)

	w = performRequest(engine, http.MethodDelete, "/api/views/"+views[0].ID.String(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeViewLocked, errorCode(t, w))
}

func TestViewHandler_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	engine := setupViewRoutes(env)
	views := listViews(t, engine)
	src := views[1]

	t.Run("default name", func(t *testing.T) {
		w := performRequest(engine, http.MethodPost, "/api/views/"+src.ID.String()+"/duplicate", nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var sel catalogapp.ViewSelection
		decodeData(t, w, &sel)
		copied := sel.Views[sel.Selected]
		assert.Equal(t, "Copy of "+src.Name, copied.Name)
		assert.Equal(t, src.Query.Statuses, copied.Query.Statuses)
		assert.Equal(t, len(sel.Views)-1, sel.Selected)
	})

	t.Run("explicit name", func(t *testing.T) {
		w := performRequest(engine, http.MethodPost, "/api/views/"+src.ID.String()+"/duplicate", map[string]any{"name": "Mine"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var sel catalogapp.ViewSelection
		decodeData(t, w, &sel)
		assert.Equal(t, "Mine", sel.Views[sel.Selected].Name)
	})
}
