package models

import "time"

// User represents an account holder. Every other entity is owned by one user.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Username    string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password    string    `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName    string    `gorm:"size:255;not null" json:"fullName"`
	CompanyName string    `gorm:"size:255" json:"companyName,omitempty"`
	Phone       string    `gorm:"size:50" json:"phone,omitempty"`
}
