package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/cache"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/database"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/models"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// errUnknownAttachment marks a reorder request naming an attachment that does
// not belong to the equipment record.
var errUnknownAttachment = errors.New("attachment not found for this equipment")

// AttachmentResponse is an attachment row plus its signed access URL.
type AttachmentResponse struct {
	models.Attachment
	URL string `json:"url"`
}

func attachmentKind(raw string) (models.AttachmentKind, bool) {
	switch models.AttachmentKind(raw) {
	case models.KindImage:
		return models.KindImage, true
	case models.KindFile:
		return models.KindFile, true
	}
	return "", false
}

// urlCacheForKind returns the URL cache covering one equipment record's
// attachment group. Images and files are cached under separate keys so
// re-signing one group never touches the other.
func urlCacheForKind(kind models.AttachmentKind, equipmentID string) *cache.URLCache {
	if kind == models.KindImage {
		return cache.NewURLCache(SessionStore, cache.ImagesURLKey(equipmentID))
	}
	return cache.NewURLCache(SessionStore, cache.FilesURLKey(equipmentID))
}

/*
*
GetAttachments handles GET /api/equipment/:id/attachments?kind=image|file
Returns the attachment rows with signed URLs, served read-through: the whole
batch comes from the URL cache when every path has a live entry, otherwise
the whole batch is re-signed and cached.
*/
func GetAttachments(c *gin.Context) {
	equipmentID := c.Param("id")

	kind, ok := attachmentKind(c.DefaultQuery("kind", "image"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be 'image' or 'file'"})
		return
	}

	var attachments []models.Attachment
	err := database.GetDB().
		Where("equipment_id = ? AND kind = ?", equipmentID, kind).
		Order("position asc, created_at asc").
		Find(&attachments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachments"})
		return
	}

	if len(attachments) == 0 {
		c.JSON(http.StatusOK, gin.H{"attachments": []AttachmentResponse{}, "count": 0})
		return
	}

	paths := make([]string, 0, len(attachments))
	for _, a := range attachments {
		paths = append(paths, a.ObjectPath)
	}

	urlCache := urlCacheForKind(kind, equipmentID)
	urls, hit := urlCache.GetURLs(paths)
	if !hit {
		urls = URLSigner.SignedURLs(paths, storage.SignedURLValidity)
		urlCache.SetURLs(urls)
	}

	resp := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		resp = append(resp, AttachmentResponse{Attachment: a, URL: urls[a.ObjectPath]})
	}

	c.JSON(http.StatusOK, gin.H{
		"attachments": resp,
		"count":       len(resp),
		"cached":      hit,
	})
}

/*
*
UploadAttachment handles POST /api/equipment/:id/attachments
Multipart upload: form fields "file" and "kind".
*/
func UploadAttachment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	equipmentID := c.Param("id")
	var equipment models.Equipment
	if err := database.GetDB().Where("id = ?", equipmentID).First(&equipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment"})
		}
		return
	}

	kind, ok := attachmentKind(c.DefaultPostForm("kind", "image"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be 'image' or 'file'"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	fileName := filepath.Base(fileHeader.Filename)
	objectPath := fmt.Sprintf("equipment/%s/%s/%d-%s", equipmentID, kind, time.Now().UnixNano(), fileName)

	if err := Objects.Save(objectPath, src); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	// New attachments go to the end of the display order
	var maxPosition int
	database.GetDB().Model(&models.Attachment{}).
		Where("equipment_id = ? AND kind = ?", equipmentID, kind).
		Select("COALESCE(MAX(position), -1)").Scan(&maxPosition)

	attachment := models.Attachment{
		ID:          fmt.Sprintf("att-%d", time.Now().UnixNano()),
		EquipmentID: equipmentID,
		Kind:        kind,
		ObjectPath:  objectPath,
		FileName:    fileName,
		Position:    maxPosition + 1,
		UserID:      userID,
	}
	if err := database.GetDB().Create(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attachment"})
		return
	}

	broadcastEquipmentEvent("equipment.attachments.changed", equipmentID)
	c.JSON(http.StatusCreated, attachment)
}

// ReorderAttachmentsRequest carries the new display order: attachment IDs in
// their desired sequence.
type ReorderAttachmentsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

/*
*
ReorderAttachments handles PATCH /api/equipment/:id/attachments/reorder
Rewrites the position column from the given ID order. URLs are untouched, so
no cache interaction.
*/
func ReorderAttachments(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	equipmentID := c.Param("id")

	var req ReorderAttachmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		for position, id := range req.IDs {
			result := tx.Model(&models.Attachment{}).
				Where("id = ? AND equipment_id = ?", id, equipmentID).
				Update("position", position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", errUnknownAttachment, id)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errUnknownAttachment) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder attachments"})
		}
		return
	}

	broadcastEquipmentEvent("equipment.attachments.changed", equipmentID)
	c.JSON(http.StatusOK, gin.H{"message": "Attachments reordered"})
}

/*
*
DeleteAttachment handles DELETE /api/attachments/:id
Removes the row and the stored object, and clears the affected kind's URL
cache so the dead path cannot linger in cached batches.
*/
func DeleteAttachment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	id := c.Param("id")
	db := database.GetDB()

	var attachment models.Attachment
	if err := db.Where("id = ?", id).First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachment"})
		}
		return
	}

	if err := db.Delete(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attachment"})
		return
	}

	message := "Attachment deleted"
	if err := Objects.Remove(attachment.ObjectPath); err != nil {
		// Row is gone; an orphaned file is acceptable
		message = "Attachment deleted (object cleanup incomplete)"
	}

	urlCacheForKind(attachment.Kind, attachment.EquipmentID).Clear()
	broadcastEquipmentEvent("equipment.attachments.changed", attachment.EquipmentID)
	c.JSON(http.StatusOK, gin.H{"message": message, "id": id})
}

/*
*
ServeObject handles GET /objects/*path
Public route: authorization is the signed URL itself.
*/
func ServeObject(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")

	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or missing expiry"})
		return
	}

	if err := URLSigner.Verify(path, expires, c.Query("sig")); err != nil {
		if errors.Is(err, storage.ErrExpiredURL) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Signed URL has expired"})
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid signature"})
		}
		return
	}

	filePath, err := Objects.FilePath(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid object path"})
		return
	}

	c.File(filePath)
}
