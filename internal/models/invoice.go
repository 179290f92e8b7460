package models

import (
	"time"

	"gorm.io/datatypes"
)

// LineItem is one billed line. Items are stored as a single JSON column on
// the invoice rather than as child rows.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Amount returns quantity times unit price.
func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}

// Invoice represents a billing invoice.
type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID   uint `gorm:"index;not null" json:"userId"`
	ClientID uint `gorm:"index;not null" json:"clientId"`

	InvoiceNumber string        `gorm:"size:50;uniqueIndex;not null" json:"invoiceNumber"`
	IssueDate     time.Time     `gorm:"not null" json:"issueDate"`
	DueDate       time.Time     `gorm:"not null" json:"dueDate"`
	Status        InvoiceStatus `gorm:"size:20;not null;default:'draft'" json:"status"`

	Subtotal float64 `gorm:"not null" json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `gorm:"not null" json:"total"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`
	Terms string `gorm:"type:text" json:"terms,omitempty"`

	Items datatypes.JSONSlice[LineItem] `json:"items"`
}

// GetUserID implements the Ownable interface.
func (i *Invoice) GetUserID() uint {
	return i.UserID
}

// IsPaid returns true once a payment has been recorded against the invoice.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsOutstanding returns true if the invoice is awaiting payment.
func (i *Invoice) IsOutstanding() bool {
	return i.Status == InvoiceStatusPending || i.Status == InvoiceStatusSent
}

// ItemsSubtotal sums the line item amounts.
func (i *Invoice) ItemsSubtotal() float64 {
	var total float64
	for _, item := range i.Items {
		total += item.Amount()
	}
	return total
}

// ProjectName is the description of the first line item, if any.
func (i *Invoice) ProjectName() string {
	if len(i.Items) == 0 {
		return ""
	}
	return i.Items[0].Description
}
