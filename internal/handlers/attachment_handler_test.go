package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/cache"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/middleware"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/models"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func attachmentRouter() *gin.Engine {
	r := gin.New()
	r.GET("/objects/*path", ServeObject)
	protected := r.Group("", middleware.JWTAuthMiddleware())
	protected.GET("/api/equipment/:id/attachments", GetAttachments)
	protected.POST("/api/equipment/:id/attachments", UploadAttachment)
	protected.PATCH("/api/equipment/:id/attachments/reorder", ReorderAttachments)
	protected.DELETE("/api/attachments/:id", DeleteAttachment)
	return r
}

type attachmentListResponse struct {
	Attachments []AttachmentResponse `json:"attachments"`
	Count       int                  `json:"count"`
	Cached      bool                 `json:"cached"`
}

func uploadFile(t *testing.T, r *gin.Engine, equipmentID, fileName, content, kind string) models.Attachment {
	t.Helper()
	body, contentType := multipartUpload(t, fileName, content, kind)
	req := authedRequest(t, http.MethodPost, "/api/equipment/"+equipmentID+"/attachments", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Attachment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func listAttachments(t *testing.T, r *gin.Engine, equipmentID, kind string) attachmentListResponse {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/api/equipment/"+equipmentID+"/attachments?kind="+kind, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp attachmentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAttachments_UploadListCacheRoundTrip(t *testing.T) {
	setupTest(t)
	r := attachmentRouter()
	seedEquipment(t, "eq-1", 38.5, -122.8)

	uploadFile(t, r, "eq-1", "north.jpg", "jpeg-bytes", "image")
	uploadFile(t, r, "eq-1", "south.jpg", "more-bytes", "image")

	// First list signs fresh URLs and fills the cache
	first := listAttachments(t, r, "eq-1", "image")
	require.Equal(t, 2, first.Count)
	require.False(t, first.Cached)
	for _, a := range first.Attachments {
		require.NotEmpty(t, a.URL)
	}
	_, err := SessionStore.Get(cache.ImagesURLKey("eq-1"))
	require.NoError(t, err)

	// Second list must come from the cache: swap the signer so any re-sign
	// would produce different URLs, then require identical ones.
	URLSigner = storage.NewSigner([]byte("other-secret"), "http://other")
	second := listAttachments(t, r, "eq-1", "image")
	require.True(t, second.Cached)
	require.Equal(t, first.Attachments, second.Attachments)
}

func TestAttachments_KindsAreCachedSeparately(t *testing.T) {
	setupTest(t)
	r := attachmentRouter()
	seedEquipment(t, "eq-1", 38.5, -122.8)

	uploadFile(t, r, "eq-1", "photo.jpg", "img", "image")
	uploadFile(t, r, "eq-1", "manual.pdf", "pdf", "file")

	listAttachments(t, r, "eq-1", "image")

	_, err := SessionStore.Get(cache.ImagesURLKey("eq-1"))
	require.NoError(t, err)
	_, err = SessionStore.Get(cache.FilesURLKey("eq-1"))
	require.True(t, errors.Is(err, cache.ErrNotFound))
}

func TestAttachments_NewUploadMissesBatch(t *testing.T) {
	setupTest(t)
	r := attachmentRouter()
	seedEquipment(t, "eq-1", 38.5, -122.8)

	uploadFile(t, r, "eq-1", "a.jpg", "a", "image")
	require.False(t, listAttachments(t, r, "eq-1", "image").Cached)
	require.True(t, listAttachments(t, r, "eq-1", "image").Cached)

	// A new path enters the batch; the all-or-nothing read must miss and
	// re-sign everything.
	uploadFile(t, r, "eq-1", "b.jpg", "b", "image")
	resp := listAttachments(t, r, "eq-1", "image")
	require.False(t, resp.Cached)
	require.Equal(t, 2, resp.Count)
}

func TestAttachments_Reorder(t *testing.T) {
	setupTest(t)
	r := attachmentRouter()
	seedEquipment(t, "eq-1", 38.5, -122.8)

	a := uploadFile(t, r, "eq-1", "a.jpg", "a", "image")
	b := uploadFile(t, r, "eq-1", "b.jpg", "b", "image")

	payload, _ := json.Marshal(map[string]any{"ids": []string{b.ID, a.ID}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPatch, "/api/equipment/eq-1/attachments/reorder", strings.NewReader(string(payload))))
	require.Equal(t, http.StatusOK, w.Code)

	resp := listAttachments(t, r, "eq-1", "image")
	require.Equal(t, b.ID, resp.Attachments[0].ID)
	require.Equal(t, a.ID, resp.Attachments[1].ID)
}

func TestDeleteAttachment_ClearsKindCache(t *testing.T) {
	setupTest(t)
	r := attachmentRouter()
	seedEquipment(t, "eq-1", 38.5, -122.8)

	a := uploadFile(t, r, "eq-1", "a.jpg", "a", "image")
	listAttachments(t, r, "eq-1", "image")
	_, err := SessionStore.Get(cache.ImagesURLKey("eq-1"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodDelete, "/api/attachments/"+a.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	_, err = SessionStore.Get(cache.ImagesURLKey("eq-1"))
	require.True(t, errors.Is(err, cache.ErrNotFound))
}

func TestServeObject_SignedURLGrantsAccess(t *testing.T) {
	setupTest(t)
	r := attachmentRouter()
	seedEquipment(t, "eq-1", 38.5, -122.8)

	uploadFile(t, r, "eq-1", "doc.txt", "file-content", "file")
	resp := listAttachments(t, r, "eq-1", "file")
	require.Len(t, resp.Attachments, 1)

	u, err := url.Parse(resp.Attachments[0].URL)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, u.Path+"?"+u.RawQuery, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "file-content", w.Body.String())

	// Tampered signature is rejected
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, u.Path+"?expires="+u.Query().Get("expires")+"&sig=deadbeef", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}
