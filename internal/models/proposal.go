package models

import "time"

// Proposal is a pitch to a client, optionally bundling an invoice and a
// contract.
type Proposal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID   uint `gorm:"index;not null" json:"userId"`
	ClientID uint `gorm:"index;not null" json:"clientId"`

	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	InvoiceID  *uint `gorm:"index" json:"invoiceId"`
	ContractID *uint `gorm:"index" json:"contractId"`

	Status       ProposalStatus `gorm:"size:20;not null;default:'draft'" json:"status"`
	SentDate     *time.Time     `json:"sentDate"`
	ExpiryDate   *time.Time     `json:"expiryDate"`
	AcceptedDate *time.Time     `json:"acceptedDate"`
	DeclinedDate *time.Time     `json:"declinedDate"`
}

// GetUserID implements the Ownable interface.
func (p *Proposal) GetUserID() uint {
	return p.UserID
}

func (p *Proposal) HasInvoice() bool  { return p.InvoiceID != nil }
func (p *Proposal) HasContract() bool { return p.ContractID != nil }
