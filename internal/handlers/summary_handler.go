package handlers

import (
	"errors"
	"net/http"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/cache"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/database"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateSummaryRequest represents the request payload for replacing a summary
type UpdateSummaryRequest struct {
	Summary *string `json:"summary" binding:"required"`
}

func summaryCache(equipmentID string) *cache.DataCache[string] {
	return cache.NewDataCache[string](SessionStore, cache.SummaryDataKey(equipmentID))
}

/*
*
GetSummary handles GET /api/equipment/:id/summary
Read-through over the data cache.
*/
func GetSummary(c *gin.Context) {
	equipmentID := c.Param("id")

	dataCache := summaryCache(equipmentID)
	if summary, ok := dataCache.Get(); ok {
		c.JSON(http.StatusOK, gin.H{"summary": summary, "cached": true})
		return
	}

	var equipment models.Equipment
	if err := database.GetDB().Where("id = ?", equipmentID).First(&equipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment"})
		}
		return
	}

	dataCache.Set(equipment.Summary)
	c.JSON(http.StatusOK, gin.H{"summary": equipment.Summary, "cached": false})
}

/*
*
UpdateSummary handles PUT /api/equipment/:id/summary
Replaces the summary text and invalidates its cache entry.
*/
func UpdateSummary(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	equipmentID := c.Param("id")

	var req UpdateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "summary is required"})
		return
	}

	result := database.GetDB().Model(&models.Equipment{}).
		Where("id = ?", equipmentID).
		Update("summary", *req.Summary)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update summary"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}

	summaryCache(equipmentID).Clear()

	broadcastEquipmentEvent("equipment.summary.changed", equipmentID)
	c.JSON(http.StatusOK, gin.H{"summary": *req.Summary})
}
