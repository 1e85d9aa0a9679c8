package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/cache"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/database"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateEquipmentRequest represents the request payload for creating equipment
type CreateEquipmentRequest struct {
	Name          string                 `json:"name" binding:"required"`
	EquipmentType models.EquipmentType   `json:"equipmentType" binding:"required"`
	Status        models.EquipmentStatus `json:"status"`
	Latitude      *float64               `json:"latitude" binding:"required"`
	Longitude     *float64               `json:"longitude" binding:"required"`
	Summary       string                 `json:"summary"`
}

// UpdateEquipmentRequest represents the request payload for updating equipment
type UpdateEquipmentRequest struct {
	Name          *string                 `json:"name"`
	EquipmentType *models.EquipmentType   `json:"equipmentType"`
	Status        *models.EquipmentStatus `json:"status"`
	Latitude      *float64                `json:"latitude"`
	Longitude     *float64                `json:"longitude"`
	Summary       *string                 `json:"summary"`
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func validEquipmentType(t models.EquipmentType) bool {
	switch t {
	case models.TypePump, models.TypeTank, models.TypeValve, models.TypeSensor, models.TypeStructure:
		return true
	}
	return false
}

func validEquipmentStatus(s models.EquipmentStatus) bool {
	switch s {
	case models.StatusActive, models.StatusMaintenance, models.StatusRetired:
		return true
	}
	return false
}

/*
*
GetEquipment handles GET /api/equipment
Returns all equipment (team-wide) for authenticated users.
Optional query params: map bounds (minLat, maxLat, minLng, maxLng),
status, type, plus page/limit/sort pagination.
*/
func GetEquipment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "50")
	sortParam := strings.ToLower(c.DefaultQuery("sort", "desc"))

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	offset := (page - 1) * limit

	order := "created_at desc"
	if sortParam == "asc" {
		order = "created_at asc"
	}

	db := database.GetDB()
	query := db.Model(&models.Equipment{})

	// Map viewport bounds: all four must be present to apply
	minLat, errA := strconv.ParseFloat(c.Query("minLat"), 64)
	maxLat, errB := strconv.ParseFloat(c.Query("maxLat"), 64)
	minLng, errC := strconv.ParseFloat(c.Query("minLng"), 64)
	maxLng, errD := strconv.ParseFloat(c.Query("maxLng"), 64)
	if errA == nil && errB == nil && errC == nil && errD == nil {
		query = query.Where("latitude BETWEEN ? AND ?", minLat, maxLat).
			Where("longitude BETWEEN ? AND ?", minLng, maxLng)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if equipmentType := c.Query("type"); equipmentType != "" {
		query = query.Where("equipment_type = ?", equipmentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to count equipment",
		})
		return
	}

	var equipment []models.Equipment
	result := query.Session(&gorm.Session{}).Order(order).Limit(limit).Offset(offset).Find(&equipment)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch equipment",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"equipment": equipment,
		"count":     len(equipment),
		"total":     total,
		"page":      page,
		"limit":     limit,
		"sort":      sortParam,
	})
}

/*
*
GetEquipmentByID handles GET /api/equipment/:id
*/
func GetEquipmentByID(c *gin.Context) {
	id := c.Param("id")

	var equipment models.Equipment
	if err := database.GetDB().Where("id = ?", id).First(&equipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment"})
		}
		return
	}

	c.JSON(http.StatusOK, equipment)
}

/*
*
CreateEquipment handles POST /api/equipment
Creates a new equipment record at a map position
*/
func CreateEquipment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if !validEquipmentType(req.EquipmentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipmentType"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	if !validEquipmentStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if !validCoordinates(*req.Latitude, *req.Longitude) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}

	equipment := models.Equipment{
		ID:            fmt.Sprintf("eq-%d", time.Now().UnixNano()),
		Name:          req.Name,
		EquipmentType: req.EquipmentType,
		Status:        status,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		Summary:       req.Summary,
		UserID:        userID,
	}

	if err := database.GetDB().Create(&equipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create equipment"})
		return
	}

	broadcastEquipmentEvent("equipment.created", equipment.ID)
	c.JSON(http.StatusCreated, equipment)
}

/*
*
UpdateEquipment handles PUT /api/equipment/:id
Partial update: only fields present in the payload change.
*/
func UpdateEquipment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	id := c.Param("id")

	var equipment models.Equipment
	if err := database.GetDB().Where("id = ?", id).First(&equipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment"})
		}
		return
	}

	var req UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		equipment.Name = *req.Name
	}
	if req.EquipmentType != nil {
		if !validEquipmentType(*req.EquipmentType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipmentType"})
			return
		}
		equipment.EquipmentType = *req.EquipmentType
	}
	if req.Status != nil {
		if !validEquipmentStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		equipment.Status = *req.Status
	}
	lat, lng := equipment.Latitude, equipment.Longitude
	if req.Latitude != nil {
		lat = *req.Latitude
	}
	if req.Longitude != nil {
		lng = *req.Longitude
	}
	if !validCoordinates(lat, lng) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}
	equipment.Latitude, equipment.Longitude = lat, lng

	summaryChanged := false
	if req.Summary != nil {
		equipment.Summary = *req.Summary
		summaryChanged = true
	}

	if err := database.GetDB().Save(&equipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update equipment"})
		return
	}

	if summaryChanged {
		cache.NewDataCache[string](SessionStore, cache.SummaryDataKey(id)).Clear()
	}

	broadcastEquipmentEvent("equipment.updated", id)
	c.JSON(http.StatusOK, equipment)
}

/*
*
DeleteEquipment handles DELETE /api/equipment/:id
Removes the record, its sub-resources, its stored objects, and every cache
entry associated with it.
*/
func DeleteEquipment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	id := c.Param("id")
	db := database.GetDB()

	var equipment models.Equipment
	if err := db.Where("id = ?", id).First(&equipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment"})
		}
		return
	}

	// Best-effort removal of stored objects before the rows go away
	var attachments []models.Attachment
	if err := db.Where("equipment_id = ?", id).Find(&attachments).Error; err == nil {
		for _, a := range attachments {
			if err := Objects.Remove(a.ObjectPath); err != nil {
				log.Printf("failed to remove object %s: %v", a.ObjectPath, err)
			}
		}
	}

	if err := db.Where("equipment_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attachments"})
		return
	}
	if err := db.Where("equipment_id = ?", id).Delete(&models.EquipmentLog{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete logs"})
		return
	}
	if err := db.Delete(&equipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete equipment"})
		return
	}

	// All sub-resources are stale together now
	cache.ClearEquipmentCache(SessionStore, id)

	broadcastEquipmentEvent("equipment.deleted", id)
	c.JSON(http.StatusOK, gin.H{"message": "Equipment deleted", "id": id})
}
