//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Scenarios:
//   - Catalog + stock request cycle (create item → submit → approve → ledger)
//   - Insufficient stock leaves the request and the catalog untouched
//   - Cancelled requests never reach the ledger
//   - Supplier delivery intake: known-product creation and invalid code rejection

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockroom/internal/config"
	"stockroom/internal/infra"
	"stockroom/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("stockroom_test"),
		tcPostgres.WithUsername("stockroom"),
		tcPostgres.WithPassword("stockroom"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		AlertEmail:         "alerts@stockroom.test",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed the admin user directly; everything else goes through the API
	hash, err := bcrypt.GenerateFromPassword([]byte("stockroom2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		INSERT INTO users (id, username, name, password_hash, role, active, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin', 'Admin E2E', ?, 'admin', true, NOW(), NOW())
		ON CONFLICT DO NOTHING
	`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "stockroom2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) createItem(t *testing.T, itemType, name string, qty int) (id, code string) {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/items",
		jsonBody(t, map[string]any{
			"type":         itemType,
			"name":         name,
			"quantity":     qty,
			"min_quantity": 2,
			"unit_cost":    3.50,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &item)
	return item.ID, item.Code
}

func (env *testEnv) createShop(t *testing.T, name string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/shops",
		jsonBody(t, map[string]any{"name": name}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var shop struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &shop)
	return shop.ID
}

func (env *testEnv) itemQuantity(t *testing.T, code string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/item-codes/"+code, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var item struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, resp, &item)
	return item.Quantity
}

func (env *testEnv) operationCount(t *testing.T, itemID string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/operations?item_id="+itemID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, resp, &list)
	return int(list.Total)
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_StockRequestApprovalCycle(t *testing.T) {
	env := setupTestEnv(t)

	itemID, code := env.createItem(t, "ice-cream", "Vanilla Tub 5L", 10)
	assert.Equal(t, "IC0001", code)
	shopID := env.createShop(t, "Sucursal Centro")

	// Opening stock is already one ledger entry
	require.Equal(t, 1, env.operationCount(t, itemID))

	submitResp := do(t, env.server, "POST", "/v1/stock-requests",
		jsonBody(t, map[string]any{
			"shop_id": shopID,
			"lines":   []map[string]any{{"item_code": code, "quantity": 4}},
		}), env.token)
	require.Equal(t, http.StatusCreated, submitResp.StatusCode)
	var request struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, submitResp, &request)
	assert.Equal(t, "pending", request.Status)

	approveResp := do(t, env.server, "PATCH", "/v1/stock-requests/"+request.ID+"/approve", nil, env.token)
	require.Equal(t, http.StatusOK, approveResp.StatusCode)
	var approved struct {
		Status      string  `json:"status"`
		ProcessedBy *string `json:"processed_by"`
	}
	decodeJSON(t, approveResp, &approved)
	assert.Equal(t, "completed", approved.Status)
	assert.NotNil(t, approved.ProcessedBy)

	assert.Equal(t, 6, env.itemQuantity(t, code))
	// Exactly one new operation: the out movement for the approval
	assert.Equal(t, 2, env.operationCount(t, itemID))
}

func TestE2E_InsufficientStockRejectsApproval(t *testing.T) {
	env := setupTestEnv(t)

	itemID, code := env.createItem(t, "drink", "Cola 1.5L", 2)
	shopID := env.createShop(t, "Sucursal Norte")
	opsBefore := env.operationCount(t, itemID)

	submitResp := do(t, env.server, "POST", "/v1/stock-requests",
		jsonBody(t, map[string]any{
			"shop_id": shopID,
			"lines":   []map[string]any{{"item_code": code, "quantity": 5}},
		}), env.token)
	require.Equal(t, http.StatusCreated, submitResp.StatusCode)
	var request struct {
		ID string `json:"id"`
	}
	decodeJSON(t, submitResp, &request)

	approveResp := do(t, env.server, "PATCH", "/v1/stock-requests/"+request.ID+"/approve", nil, env.token)
	require.Equal(t, http.StatusConflict, approveResp.StatusCode)
	var shortfall struct {
		Detail string `json:"detail"`
		Lines  []struct {
			ItemCode  string `json:"item_code"`
			Requested int    `json:"requested"`
			Available int    `json:"available"`
		} `json:"lines"`
	}
	decodeJSON(t, approveResp, &shortfall)
	require.Len(t, shortfall.Lines, 1)
	assert.Equal(t, code, shortfall.Lines[0].ItemCode)
	assert.Equal(t, 5, shortfall.Lines[0].Requested)
	assert.Equal(t, 2, shortfall.Lines[0].Available)

	// Nothing moved
	assert.Equal(t, 2, env.itemQuantity(t, code))
	assert.Equal(t, opsBefore, env.operationCount(t, itemID))

	getResp := do(t, env.server, "GET", "/v1/stock-requests/"+request.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var current struct {
		Status string `json:"status"`
	}
	decodeJSON(t, getResp, &current)
	assert.Equal(t, "pending", current.Status)
}

func TestE2E_CancelledRequestNeverReachesLedger(t *testing.T) {
	env := setupTestEnv(t)

	itemID, code := env.createItem(t, "kitchen", "Napkins", 10)
	shopID := env.createShop(t, "Sucursal Sur")
	opsBefore := env.operationCount(t, itemID)

	submitResp := do(t, env.server, "POST", "/v1/stock-requests",
		jsonBody(t, map[string]any{
			"shop_id": shopID,
			"lines":   []map[string]any{{"item_code": code, "quantity": 3}},
		}), env.token)
	require.Equal(t, http.StatusCreated, submitResp.StatusCode)
	var request struct {
		ID string `json:"id"`
	}
	decodeJSON(t, submitResp, &request)

	cancelResp := do(t, env.server, "PATCH", "/v1/stock-requests/"+request.ID+"/cancel", nil, env.token)
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)
	var cancelled struct {
		Status string `json:"status"`
	}
	decodeJSON(t, cancelResp, &cancelled)
	assert.Equal(t, "cancelled", cancelled.Status)

	assert.Equal(t, 10, env.itemQuantity(t, code))
	assert.Equal(t, opsBefore, env.operationCount(t, itemID))

	// Terminal state: a second transition is rejected
	reapprove := do(t, env.server, "PATCH", "/v1/stock-requests/"+request.ID+"/approve", nil, env.token)
	assert.Equal(t, http.StatusConflict, reapprove.StatusCode)
}

func TestE2E_DeliveryIntake(t *testing.T) {
	env := setupTestEnv(t)

	// Supplier + product definition
	supResp := do(t, env.server, "POST", "/v1/suppliers",
		jsonBody(t, map[string]any{"name": "Frosty Distribución"}), env.token)
	require.Equal(t, http.StatusCreated, supResp.StatusCode)
	var supplier struct {
		ID string `json:"id"`
	}
	decodeJSON(t, supResp, &supplier)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"code": "DR0042", "name": "Orange Soda", "type": "drink"}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)

	// Advisory check classifies the defined-but-unstocked code
	checkResp := do(t, env.server, "GET", "/v1/delivery-codes/DR0042", nil, env.token)
	require.Equal(t, http.StatusOK, checkResp.StatusCode)
	var check struct {
		Classification string `json:"classification"`
	}
	decodeJSON(t, checkResp, &check)
	assert.Equal(t, "known-product", check.Classification)

	// Unknown code rejects the whole batch
	badResp := do(t, env.server, "POST", "/v1/deliveries",
		jsonBody(t, map[string]any{
			"supplier_id": supplier.ID,
			"lines": []map[string]any{
				{"code": "DR0042", "quantity": 12},
				{"code": "NK9999", "quantity": 1},
			},
		}), env.token)
	require.Equal(t, http.StatusBadRequest, badResp.StatusCode)
	badResp.Body.Close()

	listResp := do(t, env.server, "GET", "/v1/deliveries", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var empty struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &empty)
	assert.Equal(t, int64(0), empty.Total)

	// Clean delivery creates the catalog item and an in-operation
	goodResp := do(t, env.server, "POST", "/v1/deliveries",
		jsonBody(t, map[string]any{
			"supplier_id": supplier.ID,
			"lines":       []map[string]any{{"code": "DR0042", "quantity": 12, "unit_cost": "1.25"}},
		}), env.token)
	require.Equal(t, http.StatusCreated, goodResp.StatusCode)
	var delivery struct {
		Status string `json:"status"`
	}
	decodeJSON(t, goodResp, &delivery)
	assert.Equal(t, "processed", delivery.Status)

	itemResp := do(t, env.server, "GET", "/v1/item-codes/DR0042", nil, env.token)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	var item struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		Quantity int    `json:"quantity"`
	}
	decodeJSON(t, itemResp, &item)
	assert.Equal(t, "Orange Soda", item.Name)
	assert.Equal(t, "drink", item.Type)
	assert.Equal(t, 12, item.Quantity)
	assert.Equal(t, 1, env.operationCount(t, item.ID))
}

func TestE2E_RBACShopRoleLimits(t *testing.T) {
	env := setupTestEnv(t)

	shopID := env.createShop(t, "Sucursal Centro")
	userResp := do(t, env.server, "POST", "/v1/users",
		jsonBody(t, map[string]any{
			"username": "shop1",
			"name":     "Shop One",
			"password": "shopsecret1",
			"role":     "shop",
			"shop_id":  shopID,
		}), env.token)
	require.Equal(t, http.StatusCreated, userResp.StatusCode)
	userResp.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "shop1", "password": "shopsecret1"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	// Shop users cannot create items or read reports
	createResp := do(t, env.server, "POST", "/v1/items",
		jsonBody(t, map[string]any{"type": "snack", "name": "Chips"}), login.AccessToken)
	assert.Equal(t, http.StatusForbidden, createResp.StatusCode)
	createResp.Body.Close()

	reportResp := do(t, env.server, "GET", "/v1/reports/summary", nil, login.AccessToken)
	assert.Equal(t, http.StatusForbidden, reportResp.StatusCode)
	reportResp.Body.Close()

	// But they can browse the catalog
	listResp := do(t, env.server, "GET", "/v1/items", nil, login.AccessToken)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()
}
