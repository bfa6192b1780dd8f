package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/events"
	"github.com/fekuna/omnipos-stock-service/internal/httpapi"
	invusecase "github.com/fekuna/omnipos-stock-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount/handler"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/memstore"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/pkg/i18n"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var petal = model.ItemRef{Type: model.ItemTypeProductPart, ID: "petal"}

func newServer(t *testing.T) (*gin.Engine, *memstore.Store, *model.Inventory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, httpapi.RegisterValidators())
	i18n.Init()
	require.NoError(t, i18n.LoadEmbedded())

	s := memstore.New()
	s.Catalog().PutColor(model.Color{ID: "red", Name: "Red"})
	s.Catalog().PutItem(model.CatalogItem{Ref: petal, Name: "Petal"})

	log := logger.NewNop()
	invs := invusecase.NewInventoryUseCase(s.Inventories(), s.Ledger(), s.Users(), log)
	central, err := invs.Shared(context.Background(), model.InventoryTypeCentralWarehouse)
	require.NoError(t, err)

	uc := usecase.NewCountUseCase(s.Counts(), invs, s.Ledger(), s.Catalog(), s, events.Nop{}, log)
	router := httpapi.NewRouter(httpapi.RouterConfig{AppEnv: "test"}, log, handler.NewCountHandler(uc, log))
	return router, s, central
}

func do(router *gin.Engine, method, path, lang string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderUserID, "u-keep")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCountLifecycle(t *testing.T) {
	router, s, central := newServer(t)
	red := "red"
	key := model.StockKey{InventoryID: central.ID, Item: petal, ColorID: &red}
	s.Ledger().Seed(key, decimal.NewFromInt(5))

	w := do(router, http.MethodPost, "/api/v1/inventory-counts", "", map[string]any{"inventory_id": central.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var count model.InventoryCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	require.Len(t, count.Items, 1)

	w = do(router, http.MethodPut, "/api/v1/inventory-counts/"+count.ID+"/items", "", map[string]any{
		"item_type":       "product_part",
		"item_id":         "petal",
		"color_id":        "red",
		"actual_quantity": 8,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(router, http.MethodPost, "/api/v1/inventory-counts/"+count.ID+"/finalize", "", map[string]any{"adjust_inventory": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "8", s.Ledger().Quantity(key).String())

	w = do(router, http.MethodPost, "/api/v1/inventory-counts/"+count.ID+"/finalize", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStartTwiceIsLocalized(t *testing.T) {
	router, _, central := newServer(t)

	w := do(router, http.MethodPost, "/api/v1/inventory-counts", "", map[string]any{"inventory_id": central.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodPost, "/api/v1/inventory-counts", "fa", map[string]any{"inventory_id": central.ID})
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error httpapi.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "count_already_open", resp.Error.Code)
	assert.Equal(t, "این انبار یک انبارگردانی باز دارد", resp.Error.Message)
}

func TestStartRequiresInventory(t *testing.T) {
	router, _, _ := newServer(t)

	w := do(router, http.MethodPost, "/api/v1/inventory-counts", "", map[string]any{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
