package models

import "time"

// ActivityType names the kind of change an Activity records.
type ActivityType string

const (
	ActivityClientAdded ActivityType = "client_added"

	ActivityInvoiceCreated ActivityType = "invoice_created"
	ActivityInvoiceDraft   ActivityType = "invoice_draft"
	ActivityInvoicePending ActivityType = "invoice_pending"
	ActivityInvoiceSent    ActivityType = "invoice_sent"
	ActivityInvoicePaid    ActivityType = "invoice_paid"
	ActivityInvoiceOverdue ActivityType = "invoice_overdue"

	ActivityPaymentReceived ActivityType = "payment_received"

	ActivityContractCreated ActivityType = "contract_created"
	ActivityContractDraft   ActivityType = "contract_draft"
	ActivityContractSent    ActivityType = "contract_sent"
	ActivityContractSigned  ActivityType = "contract_signed"
	ActivityContractExpired ActivityType = "contract_expired"

	ActivityProposalCreated  ActivityType = "proposal_created"
	ActivityProposalSent     ActivityType = "proposal_sent"
	ActivityProposalAccepted ActivityType = "proposal_accepted"
	ActivityProposalDeclined ActivityType = "proposal_declined"
	ActivityProposalExpired  ActivityType = "proposal_expired"

	ActivityMeetingScheduled ActivityType = "meeting_scheduled"
	ActivityMeetingCompleted ActivityType = "meeting_completed"
	ActivityMeetingCancelled ActivityType = "meeting_cancelled"
)

// Entity types referenced by activities.
const (
	EntityClient   = "client"
	EntityInvoice  = "invoice"
	EntityPayment  = "payment"
	EntityContract = "contract"
	EntityProposal = "proposal"
	EntityMeeting  = "meeting"
)

// Activity is an append-only audit record.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	UserID      uint         `gorm:"index;not null" json:"userId"`
	Type        ActivityType `gorm:"size:50;not null" json:"type"`
	EntityType  string       `gorm:"size:30;not null" json:"entityType"`
	EntityID    uint         `gorm:"not null" json:"entityId"`
	Description string       `gorm:"type:text;not null" json:"description"`
}

// GetUserID implements the Ownable interface.
func (a *Activity) GetUserID() uint {
	return a.UserID
}
