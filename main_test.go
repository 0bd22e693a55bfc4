package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"gin-itemtracker/infra"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	return newTestAppWithLogger(t, zap.NewNop().Sugar()).router
}

func newTestAppWithLogger(t *testing.T, logger *zap.SugaredLogger) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &infra.Config{
		Env:            infra.EnvTest,
		SecretKey:      "test-secret",
		AccessTokenTTL: 30 * time.Minute,
		BcryptCost:     bcrypt.MinCost,
		SQLiteDSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		AutoMigrate:    true,
		SeedAdmin:      true,
		AdminUsername:  "admin",
		AdminEmail:     "admin@example.com",
		AdminPassword:  "admin123",
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a, err := bootstrap(ctx, cfg, logger)
	require.NoError(t, err)
	return a
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

type itemResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OwnerID     uint    `json:"owner_id"`
}

func login(t *testing.T, h http.Handler, username, password string) loginResponse {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestEndToEnd_AliceAndAdmin(t *testing.T) {
	h := newTestApp(t)

	rr := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var alice struct {
		ID          uint   `json:"id"`
		Username    string `json:"username"`
		IsSuperuser bool   `json:"is_superuser"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alice))
	assert.Equal(t, "alice", alice.Username)
	assert.False(t, alice.IsSuperuser)
	assert.NotContains(t, rr.Body.String(), "password")

	aliceLogin := login(t, h, "alice", "pw1")
	assert.Equal(t, "user", aliceLogin.Role)
	assert.Equal(t, "bearer", aliceLogin.TokenType)

	rr = doJSON(t, h, http.MethodPost, "/items", aliceLogin.AccessToken, map[string]string{"name": "book"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var book itemResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &book))
	assert.Equal(t, alice.ID, book.OwnerID)
	assert.Nil(t, book.Description)

	rr = doJSON(t, h, http.MethodGet, "/items/all", aliceLogin.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	adminLogin := login(t, h, "admin", "admin123")
	assert.Equal(t, "admin", adminLogin.Role)

	rr = doJSON(t, h, http.MethodGet, "/items/all", adminLogin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []itemResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	found := false
	for _, it := range all {
		if it.ID == book.ID && it.OwnerID == alice.ID {
			found = true
		}
	}
	assert.True(t, found, "admin listing must include alice's item")
}

func TestRegister_Conflicts(t *testing.T) {
	h := newTestApp(t)

	rr := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{"username": "alice", "email": "a@x.com", "password": "pw1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{"username": "alice", "email": "b@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "already registered")

	rr = doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{"username": "bob", "email": "a@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{"username": "carol", "email": "not-an-email", "password": "pw1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_PasswordLimitCountsBytes(t *testing.T) {
	h := newTestApp(t)

	// 40文字・80バイト
	rr := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "erin", "email": "e@x.com", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid input")

	rr = doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "erin", "email": "e@x.com", "password": strings.Repeat("é", 36),
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestLogin(t *testing.T) {
	h := newTestApp(t)

	t.Run("form encoded", func(t *testing.T) {
		form := url.Values{"username": {"admin"}, "password": {"admin123"}}
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("bad credentials are indistinguishable", func(t *testing.T) {
		wrongPassword := doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
		unknownUser := doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{"username": "ghost", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	})
}

func TestItems_OwnershipRules(t *testing.T) {
	h := newTestApp(t)

	for _, u := range []string{"alice", "bob"} {
		rr := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{"username": u, "email": u + "@x.com", "password": "pw"})
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	aliceToken := login(t, h, "alice", "pw").AccessToken
	bobToken := login(t, h, "bob", "pw").AccessToken
	adminToken := login(t, h, "admin", "admin123").AccessToken

	rr := doJSON(t, h, http.MethodPost, "/items", aliceToken, map[string]any{"name": "book", "description": "paperback", "owner_id": 999})
	require.Equal(t, http.StatusCreated, rr.Code)
	var book itemResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &book))
	path := fmt.Sprintf("/items/%d", book.ID)

	t.Run("unauthenticated", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doJSON(t, h, http.MethodGet, "/items", "", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, doJSON(t, h, http.MethodGet, "/items", "garbage", nil).Code)
	})

	t.Run("own listing", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/items", bobToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())

		rr = doJSON(t, h, http.MethodGet, "/items", aliceToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var items []itemResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.NotEqual(t, uint(999), items[0].OwnerID)
	})

	t.Run("read one", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodGet, path, aliceToken, nil).Code)
		assert.Equal(t, http.StatusForbidden, doJSON(t, h, http.MethodGet, path, bobToken, nil).Code)
		assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodGet, "/items/abc", aliceToken, nil).Code)
	})

	t.Run("foreign update is forbidden", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPut, path, bobToken, map[string]string{"name": "stolen"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("owner update is persisted", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodPut, path, aliceToken, map[string]string{"name": "novel", "description": "hardcover"})
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(t, h, http.MethodGet, path, aliceToken, nil)
		var stored itemResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stored))
		assert.Equal(t, "novel", stored.Name)
		require.NotNil(t, stored.Description)
		assert.Equal(t, "hardcover", *stored.Description)
	})

	t.Run("missing item is not found even for admin", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodPut, "/items/9999", adminToken, map[string]string{"name": "x"}).Code)
		assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodDelete, "/items/9999", adminToken, nil).Code)
		assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodDelete, "/items/9999", bobToken, nil).Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, doJSON(t, h, http.MethodDelete, path, bobToken, nil).Code)
		assert.Equal(t, http.StatusNoContent, doJSON(t, h, http.MethodDelete, path, adminToken, nil).Code)
		assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodGet, path, aliceToken, nil).Code)
	})
}

func TestMe(t *testing.T) {
	h := newTestApp(t)
	token := login(t, h, "admin", "admin123").AccessToken

	rr := doJSON(t, h, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"is_superuser":true`)

	assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodGet, "/health", "", nil).Code)
}

func TestLambdaRouter_LogsEachRequestOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core).Sugar()
	a := newTestAppWithLogger(t, logger)

	ready := make(chan struct{})
	close(ready)
	front := newLambdaRouter(ready, func() *app { return a }, logger)

	rr := httptest.NewRecorder()
	front.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, rr.Header().Get("X-Request-ID"), requests[0].ContextMap()["request_id"])
}

func TestLambdaRouter_UnavailableWhenInitFailed(t *testing.T) {
	ready := make(chan struct{})
	close(ready)
	front := newLambdaRouter(ready, func() *app { return nil }, zap.NewNop().Sugar())

	rr := httptest.NewRecorder()
	front.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
