package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	r := gin.New()
	r.POST("/api/register", Register)
	r.POST("/api/login", Login)
	protected := r.Group("", middleware.JWTAuthMiddleware())
	protected.POST("/api/logout", Logout)
	return r
}

func postJSON(r *gin.Engine, target string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	setupTest(t)
	r := authRouter()

	w := postJSON(r, "/api/register", map[string]string{
		"username":    "alice",
		"password":    "correct-horse",
		"displayName": "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var reg LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	require.NotEmpty(t, reg.Token)
	require.NotEmpty(t, reg.UserID)

	w = postJSON(r, "/api/login", map[string]string{
		"username": "alice",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.Equal(t, reg.UserID, login.UserID)
	require.NotEmpty(t, login.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	setupTest(t)
	r := authRouter()

	w := postJSON(r, "/api/register", map[string]string{
		"username": "alice",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/login", map[string]string{
		"username": "alice",
		"password": "wrong-horse!!",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	setupTest(t)
	r := authRouter()

	w := postJSON(r, "/api/register", map[string]string{
		"username": "alice",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/register", map[string]string{
		"username": "alice",
		"password": "another-pass",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLogout_ClearsSessionStore(t *testing.T) {
	setupTest(t)
	r := authRouter()

	require.NoError(t, SessionStore.Set("data:logs:eq-1", "cached"))

	req := authedRequest(t, http.MethodPost, "/api/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := SessionStore.Get("data:logs:eq-1")
	require.Error(t, err)
}
