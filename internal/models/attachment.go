package models

import (
	"gorm.io/gorm"
)

// AttachmentKind distinguishes the two binary sub-resource groups of an
// equipment record. Images and files are listed, cached, and reordered
// independently of each other.
type AttachmentKind string

const (
	KindImage AttachmentKind = "image"
	KindFile  AttachmentKind = "file"
)

// Attachment represents one stored object (image or file) belonging to an
// equipment record. ObjectPath is the key inside the object store; signed
// URLs are issued against it on demand.
type Attachment struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	EquipmentID string         `json:"equipmentId" gorm:"column:equipment_id;index;not null"`
	Kind        AttachmentKind `json:"kind" gorm:"not null"`
	ObjectPath  string         `json:"objectPath" gorm:"column:object_path;not null"`
	FileName    string         `json:"fileName" gorm:"column:file_name;not null"`
	Position    int            `json:"position" gorm:"default:0"`
	UserID      string         `json:"-" gorm:"column:user_id"`
	gorm.Model
}

// TableName specifies the table name for Attachment Model
func (Attachment) TableName() string {
	return "attachments"
}
