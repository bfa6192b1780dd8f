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
	"github.com/fekuna/omnipos-stock-service/internal/ledger"
	"github.com/fekuna/omnipos-stock-service/internal/memstore"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/handler"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/usecase"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorResponse struct {
	Error httpapi.ErrorBody `json:"error"`
}

func newServer(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, httpapi.RegisterValidators())

	s := memstore.New()
	wire := model.ItemRef{Type: model.ItemTypeRawMaterial, ID: "wire"}
	s.Catalog().PutItem(model.CatalogItem{Ref: wire, Name: "Wire"})
	s.Users().Put(model.User{ID: "u-asm", FirstName: "Sara", LastName: "Lee", Roles: []model.Role{model.RoleAssembler}})
	s.Users().Put(model.User{ID: "u-keep", FirstName: "Nina", LastName: "Park", Roles: []model.Role{model.RoleWarehouseKeeper}})

	log := logger.NewNop()
	invs := invusecase.NewInventoryUseCase(s.Inventories(), s.Ledger(), s.Users(), log)
	uc := usecase.NewTransferUseCase(
		s.Transfers(),
		invs,
		ledger.NewValidator(s.Ledger(), s.Catalog(), s.Inventories()),
		ledger.NewMover(s.Ledger(), s.Catalog()),
		s.Catalog(),
		s.Users(),
		s,
		events.Nop{},
		log,
	)

	router := httpapi.NewRouter(httpapi.RouterConfig{AppEnv: "test"}, log, handler.NewTransferHandler(uc, log))
	return router, s
}

func do(router *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(auth.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpapi.ErrorBody {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func centralToAssembler(qty int) map[string]any {
	return map[string]any{
		"from_inventory_type": "central_warehouse",
		"from_user_id":        "u-keep",
		"to_inventory_type":   "assembler",
		"to_user_id":          "u-asm",
		"items": []map[string]any{
			{"item_type": "raw_material", "item_id": "wire", "quantity": qty},
		},
	}
}

func TestCreateRequiresUser(t *testing.T) {
	router, _ := newServer(t)

	w := do(router, http.MethodPost, "/api/v1/transfers", "", centralToAssembler(1))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", decodeError(t, w).Code)
}

func TestCreateRejectsUnknownItemType(t *testing.T) {
	router, _ := newServer(t)
	body := centralToAssembler(1)
	body["items"] = []map[string]any{{"item_type": "gadget", "item_id": "wire", "quantity": 1}}

	w := do(router, http.MethodPost, "/api/v1/transfers", "u-keep", body)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "invalid_request", e.Code)
	require.Len(t, e.Errors, 1)
	assert.Equal(t, "itemtype", e.Errors[0].Code)
}

func TestCreateRequiresRecipient(t *testing.T) {
	router, _ := newServer(t)
	body := centralToAssembler(1)
	delete(body, "to_user_id")

	w := do(router, http.MethodPost, "/api/v1/transfers", "u-keep", body)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "to_user_required", e.Code)
	assert.Equal(t, "to_user_id", e.Field)
}

func TestCreateReportsShortage(t *testing.T) {
	router, _ := newServer(t)

	w := do(router, http.MethodPost, "/api/v1/transfers", "u-keep", centralToAssembler(4))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "insufficient_stock", e.Code)
	require.NotNil(t, e.Shortage)
	assert.Equal(t, "wire", e.Shortage.ItemID)
	assert.True(t, e.Shortage.Available.IsZero())
}

func TestCreateApproveFlow(t *testing.T) {
	router, s := newServer(t)

	w := do(router, http.MethodPost, "/api/v1/transfers", "u-keep", centralToAssembler(4))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	central, err := s.Inventories().GetOrCreateShared(context.Background(), model.InventoryTypeCentralWarehouse)
	require.NoError(t, err)
	require.NotNil(t, central)
	wire := model.StockKey{InventoryID: central.ID, Item: model.ItemRef{Type: model.ItemTypeRawMaterial, ID: "wire"}}
	s.Ledger().Seed(wire, decimal.NewFromInt(10))

	w = do(router, http.MethodPost, "/api/v1/transfers", "u-keep", centralToAssembler(4))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Transfer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.TransferStatusPending, created.Status)

	w = do(router, http.MethodPost, "/api/v1/transfers/"+created.ID+"/approve", "u-keep", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(router, http.MethodPost, "/api/v1/transfers/"+created.ID+"/approve", "u-asm", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "6", s.Ledger().Quantity(wire).String())

	w = do(router, http.MethodPost, "/api/v1/transfers/"+created.ID+"/reject", "u-asm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "transfer_not_pending", decodeError(t, w).Code)

	w = do(router, http.MethodGet, "/api/v1/transfers?status=approved", "u-keep", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page httpapi.Paged[model.Transfer]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
}

func TestGetMissingTransfer(t *testing.T) {
	router, _ := newServer(t)

	w := do(router, http.MethodGet, "/api/v1/transfers/missing", "u-keep", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
