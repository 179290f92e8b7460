package models

import "time"

// Contract is an agreement sent to a client for signature.
type Contract struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID   uint `gorm:"index;not null" json:"userId"`
	ClientID uint `gorm:"index;not null" json:"clientId"`

	Title   string         `gorm:"size:255;not null" json:"title"`
	Content string         `gorm:"type:text;not null" json:"content"`
	Status  ContractStatus `gorm:"size:20;not null;default:'draft'" json:"status"`

	SentDate   *time.Time `json:"sentDate"`
	SignedDate *time.Time `json:"signedDate"`
	ExpiryDate *time.Time `json:"expiryDate"`
}

// GetUserID implements the Ownable interface.
func (c *Contract) GetUserID() uint {
	return c.UserID
}
