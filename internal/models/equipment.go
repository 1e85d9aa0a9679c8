package models

import (
	"gorm.io/gorm"
)

// EquipmentStatus represents the operational status of an equipment record
type EquipmentStatus string

const (
	StatusActive      EquipmentStatus = "active"
	StatusMaintenance EquipmentStatus = "maintenance"
	StatusRetired     EquipmentStatus = "retired"
)

// EquipmentType represents the kind of equipment shown on the map
type EquipmentType string

const (
	TypePump      EquipmentType = "pump"
	TypeTank      EquipmentType = "tank"
	TypeValve     EquipmentType = "valve"
	TypeSensor    EquipmentType = "sensor"
	TypeStructure EquipmentType = "structure"
)

// Equipment represents one equipment record placed on the map
type Equipment struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"not null"`
	EquipmentType EquipmentType   `json:"equipmentType" gorm:"column:equipment_type;not null"`
	Status        EquipmentStatus `json:"status" gorm:"not null;default:'active'"`
	Latitude      float64         `json:"latitude" gorm:"not null"`
	Longitude     float64         `json:"longitude" gorm:"not null"`
	Summary       string          `json:"summary"`
	UserID        string          `json:"-" gorm:"column:user_id;index"`
	gorm.Model
}

// TableName specifies the table name for Equipment Model
func (Equipment) TableName() string {
	return "equipment"
}
