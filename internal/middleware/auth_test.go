package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func validClaims(userID string, jti string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": userID,
		"jti": jti,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
}

func authTestApp(t *testing.T, handler fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/protected", handler, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: testSecret}, nil)

	t.Run("Valid Token", func(t *testing.T) {
		app := authTestApp(t, AuthRequired)
		token := signTestToken(t, validClaims("42", "jti-1"))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Missing Header", func(t *testing.T) {
		app := authTestApp(t, AuthRequired)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		app := authTestApp(t, AuthRequired)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Wrong Signature", func(t *testing.T) {
		app := authTestApp(t, AuthRequired)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("42", "jti-2"))
		signed, err := token.SignedString([]byte("some-other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Expired Token", func(t *testing.T) {
		app := authTestApp(t, AuthRequired)
		claims := validClaims("42", "jti-3")
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		token := signTestToken(t, claims)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Missing Subject", func(t *testing.T) {
		app := authTestApp(t, AuthRequired)
		token := signTestToken(t, jwt.MapClaims{
			"jti": "jti-4",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthRequired_Blacklist(t *testing.T) {
	rdb := testRedis(t)
	InitMiddleware(&config.Config{JWTSecret: testSecret}, rdb)
	t.Cleanup(func() { InitMiddleware(&config.Config{JWTSecret: testSecret}, nil) })

	app := authTestApp(t, AuthRequired)
	token := signTestToken(t, validClaims("42", "revoked-jti"))

	// Token works before revocation
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, rdb.Set(context.Background(),BlacklistKey("revoked-jti"), "1", time.Hour).Err())

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketAuthRequired(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: testSecret}, nil)

	t.Run("Token In Query", func(t *testing.T) {
		app := authTestApp(t, WebSocketAuthRequired)
		token := signTestToken(t, validClaims("7", "ws-jti-1"))

		req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Falls Back To Header", func(t *testing.T) {
		app := authTestApp(t, WebSocketAuthRequired)
		token := signTestToken(t, validClaims("7", "ws-jti-2"))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("No Token Anywhere", func(t *testing.T) {
		app := authTestApp(t, WebSocketAuthRequired)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestBlacklistKey(t *testing.T) {
	assert.Equal(t, "auth:blacklist:abc", BlacklistKey("abc"))
}
