package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/whyline-dev/whyline/db"
	"github.com/whyline-dev/whyline/internal/auth"
	"github.com/whyline-dev/whyline/internal/router"
	"gorm.io/gorm"
)

// setupServer wires the full router against a fresh in-memory database, so
// every test runs end to end through the real middleware and handlers.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// An in-memory sqlite database lives per connection; pin the pool to one
	// so every query sees the same database.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func registerUser(t *testing.T, r *gin.Engine, email, username string) string {
	t.Helper()

	w := doJSON(t, r, "POST", "/api/auth/register", "", map[string]any{
		"email":    email,
		"username": username,
		"password": "password123",
	})
	require.Equal(t, 201, w.Code, w.Body.String())

	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok, "register response must carry a token")

	return token
}

func createRca(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()

	w := doJSON(t, r, "POST", "/api/rcas", token, map[string]any{"name": name})
	require.Equal(t, 201, w.Code, w.Body.String())

	body := decodeBody(t, w)
	rca := body["rca"].(map[string]any)

	return uint(rca["id"].(float64))
}

func createNode(t *testing.T, r *gin.Engine, token string, rcaID uint, payload map[string]any) map[string]any {
	t.Helper()

	w := doJSON(t, r, "POST", fmt.Sprintf("/api/rcas/%d/nodes", rcaID), token, payload)
	require.Equal(t, 201, w.Code, w.Body.String())

	body := decodeBody(t, w)

	return body["node"].(map[string]any)
}
