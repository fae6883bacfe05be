package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)

	signed, err := tokens.Issue("alice", "alice@example.com", time.Now())
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestTokenManager_RejectsBadTokens(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)

	_, err := tokens.Issue("", "", time.Now())
	assert.Error(t, err)

	expired, err := tokens.Issue("alice", "", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, err := NewTokenManager("other-secret", time.Hour).Issue("alice", "", time.Now())
	require.NoError(t, err)
	_, err = tokens.Parse(other)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tokens.Parse(foreign)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func newAuthRouter(tokens *TokenManager, requireAuth bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(Middleware(tokens, requireAuth))
	RegisterRoutes(api, NewHandler(tokens))
	return r
}

func me(t *testing.T, r *gin.Engine, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestMiddleware_Identity(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	r := newAuthRouter(tokens, false)

	code, body := me(t, r, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, GuestUserID, body["user_id"])
	assert.Equal(t, true, body["guest"])

	code, body = me(t, r, map[string]string{"X-User-ID": "bob"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bob", body["user_id"])

	signed, err := tokens.Issue("alice", "alice@example.com", time.Now())
	require.NoError(t, err)
	code, body = me(t, r, map[string]string{
		"Authorization": "Bearer " + signed,
		"X-User-ID":     "bob",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["user_id"])
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestMiddleware_RejectsInvalidCredentials(t *testing.T) {
	r := newAuthRouter(NewTokenManager("secret", time.Hour), false)

	code, _ := me(t, r, map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = me(t, r, map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestMiddleware_RequireAuth(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	r := newAuthRouter(tokens, true)

	code, _ := me(t, r, map[string]string{"X-User-ID": "bob"})
	assert.Equal(t, http.StatusUnauthorized, code)

	signed, err := tokens.Issue("alice", "", time.Now())
	require.NoError(t, err)
	code, body := me(t, r, map[string]string{"Authorization": "Bearer " + signed})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["user_id"])
}

func TestHandler_Refresh(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	r := newAuthRouter(tokens, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	signed, err := tokens.Issue("alice", "", time.Now())
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	claims, err := tokens.Parse(body["token"])
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestHandler_RefreshRejectsHeaderIdentity(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	r := newAuthRouter(tokens, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "eyJ")

	code, body := me(t, r, map[string]string{"X-User-ID": "alice"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["user_id"])
	assert.Equal(t, false, body["verified"])
}
