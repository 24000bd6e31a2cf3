//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"minakistock/internal/config"
	"minakistock/internal/infra"
	"minakistock/internal/router"
	"minakistock/internal/worker"

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
		tcPostgres.WithDatabase("minakistock_test"),
		tcPostgres.WithUsername("minaki"),
		tcPostgres.WithPassword("minaki"),
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
		ReportStoragePath:  t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("minaki2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		INSERT INTO users (full_name, username, email, password_hash, role, is_active)
		VALUES ('Admin E2E', 'admin@e2e.test', 'admin@e2e.test', ?, 'admin', true)
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	dispatcher := worker.NewDispatcher(rdb)
	mailCB := infra.NewCircuitBreaker("smtp", 5, time.Minute)

	r := router.New(cfg, db, rdb, dispatcher, mailCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "minaki2026"}),
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

// seedHierarchy creates a location, a storage type, and two boxes via the API.
func seedHierarchy(t *testing.T, env *testEnv) (boxA, boxB string) {
	t.Helper()

	locResp := do(t, env.server, "POST", "/inventory/locations",
		jsonBody(t, map[string]any{"name": "Khan Market Store", "code": "KM-01"}), env.token)
	require.Equal(t, http.StatusCreated, locResp.StatusCode)
	var loc struct {
		ID string `json:"id"`
	}
	decodeJSON(t, locResp, &loc)

	typeResp := do(t, env.server, "POST", "/inventory/storage-types",
		jsonBody(t, map[string]any{"location_id": loc.ID, "name": "Display Shelf", "code": "SHELF"}), env.token)
	require.Equal(t, http.StatusCreated, typeResp.StatusCode)
	var st struct {
		ID string `json:"id"`
	}
	decodeJSON(t, typeResp, &st)

	var ids []string
	for _, code := range []string{"BOX-A", "BOX-B"} {
		objResp := do(t, env.server, "POST", "/inventory/storage-objects",
			jsonBody(t, map[string]any{"storage_type_id": st.ID, "label": code, "code": code}), env.token)
		require.Equal(t, http.StatusCreated, objResp.StatusCode)
		var obj struct {
			ID string `json:"id"`
		}
		decodeJSON(t, objResp, &obj)
		ids = append(ids, obj.ID)
	}
	return ids[0], ids[1]
}

type entryJSON struct {
	ID              string `json:"id"`
	StorageObjectID string `json:"storage_object_id"`
	Quantity        int    `json:"quantity"`
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full ledger lifecycle over HTTP: add → transfer → over-transfer rejected →
// remove → find reflects final state.
func TestE2E_LedgerLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	boxA, boxB := seedHierarchy(t, env)

	addResp := do(t, env.server, "POST", "/inventory/products",
		jsonBody(t, map[string]any{
			"product_type":      "real_jewelry",
			"product_id":        "LAB-001",
			"storage_object_id": boxA,
			"quantity":          5,
			"sku":               "LAB-001",
			"product_name":      "Lab Diamond Ring",
			"metal_weight_g":    "3.2",
			"purity_k":          18,
			"moved_by":          "asha",
		}), env.token)
	require.Equal(t, http.StatusCreated, addResp.StatusCode)
	var added entryJSON
	decodeJSON(t, addResp, &added)
	assert.Equal(t, 5, added.Quantity)

	transferResp := do(t, env.server, "POST", "/inventory/products/transfer",
		jsonBody(t, map[string]any{
			"from_location_id":     added.ID,
			"to_storage_object_id": boxB,
			"quantity":             3,
			"moved_by":             "ravi",
		}), env.token)
	require.Equal(t, http.StatusOK, transferResp.StatusCode)
	var dest entryJSON
	decodeJSON(t, transferResp, &dest)
	assert.Equal(t, 3, dest.Quantity)
	assert.Equal(t, boxB, dest.StorageObjectID)

	// over-transfer from the now-quantity-2 source fails with 409
	overResp := do(t, env.server, "POST", "/inventory/products/transfer",
		jsonBody(t, map[string]any{
			"from_location_id":     added.ID,
			"to_storage_object_id": boxB,
			"quantity":             5,
			"moved_by":             "ravi",
		}), env.token)
	require.Equal(t, http.StatusConflict, overResp.StatusCode)
	overResp.Body.Close()

	// remove the remaining 2 units from the source
	removeResp := do(t, env.server, "DELETE", "/inventory/products/"+added.ID,
		jsonBody(t, map[string]any{"quantity": 2, "removed_by": "ravi"}), env.token)
	require.Equal(t, http.StatusOK, removeResp.StatusCode)
	removeResp.Body.Close()

	findResp := do(t, env.server, "GET", "/inventory/products/find/real_jewelry/LAB-001", nil, env.token)
	require.Equal(t, http.StatusOK, findResp.StatusCode)
	var entries []entryJSON
	decodeJSON(t, findResp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, boxB, entries[0].StorageObjectID)
	assert.Equal(t, 3, entries[0].Quantity)

	// three successful mutations → three movement records
	movResp := do(t, env.server, "GET", "/inventory/products/movements/real_jewelry/LAB-001", nil, env.token)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movements []map[string]any
	decodeJSON(t, movResp, &movements)
	assert.Len(t, movements, 3)
}

// The quantity CHECK constraint plus row locks keep concurrent removals from
// driving an entry negative: with 10 units and 20 parallel removals of 1,
// exactly 10 succeed.
func TestE2E_ConcurrentRemovals(t *testing.T) {
	env := setupTestEnv(t)
	boxA, _ := seedHierarchy(t, env)

	addResp := do(t, env.server, "POST", "/inventory/products",
		jsonBody(t, map[string]any{
			"product_type":      "zakya_product",
			"product_id":        "ZK-9",
			"storage_object_id": boxA,
			"quantity":          10,
			"sku":               "ZK-9",
			"product_name":      "Silver Anklet",
			"moved_by":          "asha",
		}), env.token)
	require.Equal(t, http.StatusCreated, addResp.StatusCode)
	var added entryJSON
	decodeJSON(t, addResp, &added)

	results := make(chan int, 20)
	for i := 0; i < 20; i++ {
		go func() {
			resp := do(t, env.server, "DELETE", "/inventory/products/"+added.ID,
				jsonBody(t, map[string]any{"quantity": 1, "removed_by": "racer"}), env.token)
			resp.Body.Close()
			results <- resp.StatusCode
		}()
	}

	succeeded := 0
	for i := 0; i < 20; i++ {
		if <-results == http.StatusOK {
			succeeded++
		}
	}
	assert.Equal(t, 10, succeeded)

	findResp := do(t, env.server, "GET", "/inventory/products/find/zakya_product/ZK-9", nil, env.token)
	var entries []entryJSON
	decodeJSON(t, findResp, &entries)
	assert.Empty(t, entries)
}

func TestE2E_BulkTransferAndSummary(t *testing.T) {
	env := setupTestEnv(t)
	boxA, boxB := seedHierarchy(t, env)

	var ids []string
	for i, q := range []int{3, 7} {
		addResp := do(t, env.server, "POST", "/inventory/products",
			jsonBody(t, map[string]any{
				"product_type":      "zakya_product",
				"product_id":        "ZK-9",
				"storage_object_id": boxA,
				"quantity":          q,
				"sku":               fmt.Sprintf("ZK-9-%d", i),
				"product_name":      "Silver Anklet",
				"moved_by":          "asha",
			}), env.token)
		require.Equal(t, http.StatusCreated, addResp.StatusCode)
		var added entryJSON
		decodeJSON(t, addResp, &added)
		ids = append(ids, added.ID)
	}

	bulkResp := do(t, env.server, "POST", "/inventory/products/bulk-transfer",
		jsonBody(t, map[string]any{
			"entry_ids":     ids,
			"target_box_id": boxB,
			"moved_by":      "ravi",
		}), env.token)
	require.Equal(t, http.StatusOK, bulkResp.StatusCode)
	var bulk struct {
		Requested int `json:"requested"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	decodeJSON(t, bulkResp, &bulk)
	assert.Equal(t, 2, bulk.Requested)
	assert.Equal(t, 2, bulk.Succeeded)
	assert.Equal(t, 0, bulk.Failed)

	sumResp := do(t, env.server, "GET", "/inventory/products/inventory/summary", nil, env.token)
	require.Equal(t, http.StatusOK, sumResp.StatusCode)
	var summary struct {
		Products []struct {
			ProductID          string   `json:"product_id"`
			TotalQuantity      int      `json:"total_quantity"`
			StorageObjectCodes []string `json:"storage_object_codes"`
		} `json:"products"`
	}
	decodeJSON(t, sumResp, &summary)
	require.Len(t, summary.Products, 1)
	assert.Equal(t, 10, summary.Products[0].TotalQuantity)
	assert.Equal(t, []string{"BOX-B"}, summary.Products[0].StorageObjectCodes)
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	// create a clerk, log in as them
	createResp := do(t, env.server, "POST", "/v1/users",
		jsonBody(t, map[string]any{
			"username":  "clerk@e2e.test",
			"full_name": "Clerk E2E",
			"password":  "clerkpass1",
			"role":      "clerk",
		}), env.token)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	createResp.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "clerk@e2e.test", "password": "clerkpass1"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	// clerks may read registries
	listResp := do(t, env.server, "GET", "/inventory/locations", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()

	// but not create them
	denied := do(t, env.server, "POST", "/inventory/locations",
		jsonBody(t, map[string]any{"name": "Rogue Store", "code": "RG-01"}), login.AccessToken)
	require.Equal(t, http.StatusForbidden, denied.StatusCode)
	denied.Body.Close()

	// and not administer users
	deniedUsers := do(t, env.server, "GET", "/v1/users", nil, login.AccessToken)
	require.Equal(t, http.StatusForbidden, deniedUsers.StatusCode)
	deniedUsers.Body.Close()
}

func TestE2E_UnauthenticatedRejected(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/inventory/products/search", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	health := do(t, env.server, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, health.StatusCode)
	health.Body.Close()
}
