package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/cache"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/database"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateLogRequest represents the request payload for adding a log entry
type CreateLogRequest struct {
	Note string `json:"note" binding:"required"`
}

func logsCache(equipmentID string) *cache.DataCache[[]models.EquipmentLog] {
	return cache.NewDataCache[[]models.EquipmentLog](SessionStore, cache.LogsDataKey(equipmentID))
}

/*
*
GetLogs handles GET /api/equipment/:id/logs
Read-through: cached log lists are served until their short TTL elapses or a
write invalidates them.
*/
func GetLogs(c *gin.Context) {
	equipmentID := c.Param("id")

	dataCache := logsCache(equipmentID)
	if logs, ok := dataCache.Get(); ok {
		c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs), "cached": true})
		return
	}

	var logs []models.EquipmentLog
	err := database.GetDB().
		Where("equipment_id = ?", equipmentID).
		Order("created_at desc").
		Find(&logs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	dataCache.Set(logs)
	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs), "cached": false})
}

/*
*
CreateLog handles POST /api/equipment/:id/logs
Appends a log entry and invalidates the cached list.
*/
func CreateLog(c *gin.Context) {
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

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note is required"})
		return
	}

	entry := models.EquipmentLog{
		ID:          fmt.Sprintf("log-%d", time.Now().UnixNano()),
		EquipmentID: equipmentID,
		Note:        req.Note,
		AuthorID:    userID,
		AuthorName:  c.GetString("username"),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log"})
		return
	}

	// The cached list no longer reflects the table
	logsCache(equipmentID).Clear()

	broadcastEquipmentEvent("equipment.logs.changed", equipmentID)
	c.JSON(http.StatusCreated, entry)
}
