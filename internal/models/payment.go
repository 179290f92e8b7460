package models

import "time"

// Payment records money received against an invoice. Payments carry no
// owner column; they belong to whoever owns the invoice.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	InvoiceID     uint      `gorm:"index;not null" json:"invoiceId"`
	Amount        float64   `gorm:"not null" json:"amount"`
	PaymentDate   time.Time `gorm:"not null" json:"paymentDate"`
	PaymentMethod string    `gorm:"size:50;not null" json:"paymentMethod"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
}

// Manual payment defaults used when an invoice is marked paid by hand.
const (
	PaymentMethodManual = "manual"
	ManualPaymentNotes  = "Manually marked as paid"
)
