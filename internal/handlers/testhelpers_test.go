package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/auth"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/cache"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/database"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/storage"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// setupTest wires fresh per-test instances of every process-wide collaborator.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	SessionStore = cache.NewMemoryStore()
	URLSigner = storage.NewSigner([]byte("test-secret"), "http://test")
	Objects = storage.NewObjectStore(t.TempDir())
}

func testToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	return token
}

func authedRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken(t))
	return req
}

// multipartUpload builds a multipart body with a "file" part and a "kind" field.
func multipartUpload(t *testing.T, fileName, content, kind string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("kind", kind))
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
