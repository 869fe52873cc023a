package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhi-2104/Auralis/core/auth"
)

func init() {
	auth.SetSecret("test-secret")
}

func registerTestUser(t *testing.T, h *APIHandler) {
	t.Helper()
	w := httptest.NewRecorder()
	body := `{"username":"alice","email":"alice@example.com","password":"hunter22"}`
	h.RegisterHandler(w, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	h := newTestHandler(newFakeSongRepo(), newFakePlaylistRepo(), newFakeUserRepo())
	registerTestUser(t, h)

	w := httptest.NewRecorder()
	h.LoginHandler(w, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice","password":"hunter22"}`)))

	require.Equal(t, http.StatusOK, w.Code)

	var resp authResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Empty(t, resp.User.PasswordHash)

	claims, err := auth.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginByEmail(t *testing.T) {
	h := newTestHandler(newFakeSongRepo(), newFakePlaylistRepo(), newFakeUserRepo())
	registerTestUser(t, h)

	w := httptest.NewRecorder()
	h.LoginHandler(w, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice@example.com","password":"hunter22"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newTestHandler(newFakeSongRepo(), newFakePlaylistRepo(), newFakeUserRepo())
	registerTestUser(t, h)

	w := httptest.NewRecorder()
	h.LoginHandler(w, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	h := newTestHandler(newFakeSongRepo(), newFakePlaylistRepo(), newFakeUserRepo())
	registerTestUser(t, h)

	w := httptest.NewRecorder()
	body := `{"username":"alice","email":"alice@example.com","password":"hunter22"}`
	h.RegisterHandler(w, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	h := newTestHandler(newFakeSongRepo(), newFakePlaylistRepo(), newFakeUserRepo())

	w := httptest.NewRecorder()
	h.RegisterHandler(w, httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"alice"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestHandler(newFakeSongRepo(), newFakePlaylistRepo(), newFakeUserRepo())

	token, err := auth.GenerateToken(42, "alice")
	require.NoError(t, err)

	var gotUserID int64
	protected := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	r := httptest.NewRequest(http.MethodGet, "/playlists", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(42), gotUserID)
}

// The principal lives under a private typed key; another package storing a
// value under its own "userID" key must not be mistaken for it.
func TestUserIDContextKeyIsPrivate(t *testing.T) {
	type otherKey string
	ctx := context.WithValue(context.Background(), otherKey("userID"), int64(99))

	_, err := GetUserIDFromContext(ctx)
	assert.Error(t, err)

	ctx = context.WithValue(context.Background(), ctxKeyUserID, int64(42))
	userID, err := GetUserIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	h := newTestHandler(newFakeSongRepo(), newFakePlaylistRepo(), newFakeUserRepo())

	protected := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	for name, header := range map[string]string{
		"missing": "",
		"format":  "Token abc",
		"garbage": "Bearer not.a.jwt",
	} {
		r := httptest.NewRequest(http.MethodGet, "/playlists", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		protected(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}
