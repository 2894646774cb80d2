package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
	"github.com/Congmoow/Campus-Market/utils"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	handler := NewAuthHandler(store.NewMemory())
	app := fiber.New()
	app.Post("/api/auth/register", handler.Register)
	app.Post("/api/auth/login", handler.Login)
	app.Post("/api/auth/reset-password", handler.ResetPassword)
	app.Get("/api/auth/me", utils.AuthMiddleware, handler.Me)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) models.APIResponse {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope models.APIResponse
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope
}

func TestRegisterLoginMe(t *testing.T) {
	app := newAuthApp(t)

	resp := postJSON(t, app, "/api/auth/register", RegisterRequest{
		Username: "zhangwei",
		Phone:    "13800000001",
		Password: "secret123",
		Nickname: "Wei",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, 0, envelope.Code)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "zhangwei", data["username"])
	assert.Equal(t, "Wei", data["nickname"])
	assert.Equal(t, models.RoleUser, data["role"])

	// Duplicate username is rejected with 409.
	resp = postJSON(t, app, "/api/auth/register", RegisterRequest{
		Username: "zhangwei",
		Password: "another",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Login by username.
	resp = postJSON(t, app, "/api/auth/login", LoginRequest{Account: "zhangwei", Password: "secret123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	envelope = decodeEnvelope(t, resp)
	data, ok = envelope.Data.(map[string]interface{})
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	// Login by phone works too.
	resp = postJSON(t, app, "/api/auth/login", LoginRequest{Account: "13800000001", Password: "secret123"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Wrong password.
	resp = postJSON(t, app, "/api/auth/login", LoginRequest{Account: "zhangwei", Password: "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Me with the bearer token.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, meResp.StatusCode)
	envelope = decodeEnvelope(t, meResp)
	data, ok = envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Wei", data["nickname"])

	// Me without a token is rejected.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	bareResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, bareResp.StatusCode)
}

func TestResetPassword(t *testing.T) {
	app := newAuthApp(t)

	resp := postJSON(t, app, "/api/auth/register", RegisterRequest{
		Username: "lina",
		Phone:    "13800000002",
		Password: "original",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Mismatched phone fails identity verification.
	resp = postJSON(t, app, "/api/auth/reset-password", ResetPasswordRequest{
		Username:    "lina",
		Phone:       "13899999999",
		NewPassword: "changed",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/reset-password", ResetPasswordRequest{
		Username:    "lina",
		Phone:       "13800000002",
		NewPassword: "changed",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Old password no longer works, new one does.
	resp = postJSON(t, app, "/api/auth/login", LoginRequest{Account: "lina", Password: "original"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp = postJSON(t, app, "/api/auth/login", LoginRequest{Account: "lina", Password: "changed"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
