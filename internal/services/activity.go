package services

import "github.com/diewo77/clientpath/internal/models"

// ActivityDetails returns the secondary line shown under an activity in the
// recent feed. Unknown kinds have none.
func ActivityDetails(t models.ActivityType) string {
	switch t {
	case models.ActivityInvoicePaid, models.ActivityPaymentReceived:
		return "Payment received"
	case models.ActivityInvoiceSent:
		return "Invoice sent to client"
	case models.ActivityContractSigned:
		return "Contract has been signed"
	case models.ActivityProposalSent:
		return "Proposal sent to client"
	case models.ActivityMeetingScheduled:
		return "New meeting has been scheduled"
	}
	return ""
}

// RecentActivity is an activity prepared for the dashboard feed.
type RecentActivity struct {
	ID          uint                `json:"id"`
	Type        models.ActivityType `json:"type"`
	Description string              `json:"description"`
	Details     string              `json:"details"`
	Timestamp   string              `json:"timestamp"`
}

// RecentView formats a for the feed. Timestamps are RFC 3339 in UTC.
func RecentView(a models.Activity) RecentActivity {
	return RecentActivity{
		ID:          a.ID,
		Type:        a.Type,
		Description: a.Description,
		Details:     ActivityDetails(a.Type),
		Timestamp:   a.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
