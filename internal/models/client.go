package models

import (
	"strings"
	"time"
)

// Client represents a customer of the account holder.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID uint `gorm:"index;not null" json:"userId"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Email       string `gorm:"size:255;not null" json:"email"`
	Phone       string `gorm:"size:50" json:"phone,omitempty"`
	CompanyName string `gorm:"size:255" json:"companyName,omitempty"`

	// Address
	Address string `gorm:"size:500" json:"address,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`
	State   string `gorm:"size:100" json:"state,omitempty"`
	ZipCode string `gorm:"size:20" json:"zipCode,omitempty"`
	Country string `gorm:"size:100" json:"country,omitempty"`

	Notes  string       `gorm:"type:text" json:"notes,omitempty"`
	Status ClientStatus `gorm:"size:20;not null;default:'active'" json:"status"`
}

// GetUserID implements the Ownable interface.
func (c *Client) GetUserID() uint {
	return c.UserID
}

// FullAddress returns the formatted full address.
func (c *Client) FullAddress() string {
	var lines []string
	if c.Address != "" {
		lines = append(lines, c.Address)
	}
	locality := c.City
	if c.State != "" {
		if locality != "" {
			locality += ", "
		}
		locality += c.State
	}
	if c.ZipCode != "" {
		if locality != "" {
			locality += " "
		}
		locality += c.ZipCode
	}
	if locality != "" {
		lines = append(lines, locality)
	}
	if c.Country != "" {
		lines = append(lines, c.Country)
	}
	return strings.Join(lines, "\n")
}
