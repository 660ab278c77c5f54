package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/config"
	"github.com/princeprakhar/shopfront-api/internal/database"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Error   string                 `json:"error"`
	Count   *int                   `json:"count"`
	Meta    map[string]interface{} `json:"meta"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.New(store.NewMemoryBackend())
	require.NoError(t, database.Seed(s))

	cfg := &config.Config{
		Environment:        "test",
		StoreDriver:        "memory",
		JWTSecret:          "test-secret",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    24 * time.Hour,
		CORSAllowedOrigins: []string{"*"},
		ImageProvider:      "none",
		AdminEmail:         "admin@example.com",
		AdminPassword:      "admin123",
		LowStockThreshold:  10,
	}

	router := gin.New()
	require.NoError(t, SetupRoutes(router, s, cfg))
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "text/csv; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func login(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	code, env := do(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, code, env.Error)

	var data struct {
		Token struct {
			AccessToken string `json:"access_token"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token.AccessToken)
	return data.Token.AccessToken
}

func TestCheckoutFlow(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, "admin@example.com", "admin123")

	code, env := do(t, router, http.MethodPost, "/api/v1/products", adminToken, gin.H{
		"name": "Desk Lamp", "description": "LED", "price": 24.5, "category": "Electronics", "stock": 5,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var product struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	code, env = do(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "jane@example.com", "password": "secret1", "name": "Jane Doe",
		"phone": "+15550100", "address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	userToken := login(t, router, "jane@example.com", "secret1")

	code, _ = do(t, router, http.MethodPost, "/api/v1/products", userToken, gin.H{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = do(t, router, http.MethodPost, "/api/v1/cart/items", userToken, gin.H{"product_id": product.ID, "quantity": 3})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = do(t, router, http.MethodPost, "/api/v1/orders", userToken, gin.H{"shipping_address": "1 Main St"})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var order struct {
		ID          int     `json:"id"`
		Status      string  `json:"status"`
		TotalAmount float64 `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 73.5, order.TotalAmount)

	statusPath := fmt.Sprintf("/api/v1/orders/%d/status", order.ID)
	code, _ = do(t, router, http.MethodPut, statusPath, adminToken, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = do(t, router, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	var stored struct {
		Stock int `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Equal(t, 2, stored.Stock)

	code, env = do(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", order.ID), userToken, nil)
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = do(t, router, http.MethodGet, "/api/v1/cart", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	var cart struct {
		TotalItems int `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 3, cart.TotalItems)
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t)

	code, _ := do(t, router, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, router, http.MethodGet, "/api/v1/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, router, http.MethodGet, "/api/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ghost@example.com", "password": "nope123"})
	assert.Equal(t, http.StatusUnauthorized, code)

	adminToken := login(t, router, "admin@example.com", "admin123")
	code, env := do(t, router, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "books"})
	assert.Equal(t, http.StatusConflict, code, env.Message)
}

func TestHelpfulVotesAnonymousAndSignedIn(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, "admin@example.com", "admin123")

	code, env := do(t, router, http.MethodPost, "/api/v1/help", adminToken, gin.H{"question": "Where is my order?", "answer": "Check the orders page."})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, _ = do(t, router, http.MethodPost, "/api/v1/help/1/helpful", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, router, http.MethodPost, "/api/v1/help/1/helpful", "", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, true, env.Meta["already_helpful"])

	code, _ = do(t, router, http.MethodPost, "/api/v1/help/1/helpful", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestDocsAndHealth(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodGet, "/api/v1/docs", "", nil)
	require.Equal(t, http.StatusOK, code)
	var docs []struct {
		Method string `json:"method"`
		Path   string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &docs))
	assert.Contains(t, docs, struct {
		Method string `json:"method"`
		Path   string `json:"path"`
	}{Method: http.MethodPost, Path: "/api/v1/orders"})

	code, env = do(t, router, http.MethodGet, "/api/v1/system/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	var health struct {
		Status  string `json:"status"`
		Backend string `json:"backend"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "memory", health.Backend)
}
