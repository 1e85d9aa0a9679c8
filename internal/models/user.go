package models

import (
	"gorm.io/gorm"
)

// User represents a user in the system. Password holds a bcrypt hash,
// never the plaintext credential.
type User struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"unique;not null"`
	Password    string `json:"-" gorm:"not null"`
	DisplayName string `json:"displayName" gorm:"column:display_name"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
