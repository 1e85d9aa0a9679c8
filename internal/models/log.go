package models

import (
	"gorm.io/gorm"
)

// EquipmentLog represents one maintenance/activity note on an equipment record
type EquipmentLog struct {
	ID          string `json:"id" gorm:"primaryKey"`
	EquipmentID string `json:"equipmentId" gorm:"column:equipment_id;index;not null"`
	Note        string `json:"note" gorm:"not null"`
	AuthorID    string `json:"authorId" gorm:"column:author_id"`
	AuthorName  string `json:"authorName" gorm:"column:author_name"`
	gorm.Model
}

// TableName specifies the table name for EquipmentLog Model
func (EquipmentLog) TableName() string {
	return "equipment_logs"
}
