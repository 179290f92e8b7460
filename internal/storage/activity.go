package storage

import (
	"fmt"

	"github.com/diewo77/clientpath/internal/models"
)

// Activity builders shared by the backends. The caller stamps ID and CreatedAt.

func ClientAdded(c *models.Client) models.Activity {
	return models.Activity{
		UserID:      c.UserID,
		Type:        models.ActivityClientAdded,
		EntityType:  models.EntityClient,
		EntityID:    c.ID,
		Description: fmt.Sprintf("Client %q added", c.Name),
	}
}

func InvoiceCreated(inv *models.Invoice) models.Activity {
	return models.Activity{
		UserID:      inv.UserID,
		Type:        models.ActivityInvoiceCreated,
		EntityType:  models.EntityInvoice,
		EntityID:    inv.ID,
		Description: fmt.Sprintf("Invoice %s created", inv.InvoiceNumber),
	}
}

func InvoiceStatusChanged(inv *models.Invoice) models.Activity {
	return models.Activity{
		UserID:      inv.UserID,
		Type:        inv.Status.ActivityType(),
		EntityType:  models.EntityInvoice,
		EntityID:    inv.ID,
		Description: fmt.Sprintf("Invoice %s marked as %s", inv.InvoiceNumber, inv.Status),
	}
}

func PaymentReceived(inv *models.Invoice, p *models.Payment) models.Activity {
	return models.Activity{
		UserID:      inv.UserID,
		Type:        models.ActivityPaymentReceived,
		EntityType:  models.EntityPayment,
		EntityID:    p.ID,
		Description: fmt.Sprintf("Payment received for invoice %s", inv.InvoiceNumber),
	}
}

func ContractCreated(c *models.Contract) models.Activity {
	return models.Activity{
		UserID:      c.UserID,
		Type:        models.ActivityContractCreated,
		EntityType:  models.EntityContract,
		EntityID:    c.ID,
		Description: fmt.Sprintf("Contract %q created", c.Title),
	}
}

func ContractStatusChanged(c *models.Contract) models.Activity {
	return models.Activity{
		UserID:      c.UserID,
		Type:        c.Status.ActivityType(),
		EntityType:  models.EntityContract,
		EntityID:    c.ID,
		Description: fmt.Sprintf("Contract %q %s", c.Title, c.Status),
	}
}

func ProposalCreated(p *models.Proposal) models.Activity {
	return models.Activity{
		UserID:      p.UserID,
		Type:        models.ActivityProposalCreated,
		EntityType:  models.EntityProposal,
		EntityID:    p.ID,
		Description: fmt.Sprintf("Proposal %q created", p.Title),
	}
}

func ProposalStatusChanged(p *models.Proposal) models.Activity {
	return models.Activity{
		UserID:      p.UserID,
		Type:        p.Status.ActivityType(),
		EntityType:  models.EntityProposal,
		EntityID:    p.ID,
		Description: fmt.Sprintf("Proposal %q %s", p.Title, p.Status),
	}
}

func MeetingScheduled(m *models.Meeting) models.Activity {
	return models.Activity{
		UserID:      m.UserID,
		Type:        models.ActivityMeetingScheduled,
		EntityType:  models.EntityMeeting,
		EntityID:    m.ID,
		Description: fmt.Sprintf("Meeting %q scheduled", m.Title),
	}
}

func MeetingStatusChanged(m *models.Meeting) models.Activity {
	return models.Activity{
		UserID:      m.UserID,
		Type:        m.Status.ActivityType(),
		EntityType:  models.EntityMeeting,
		EntityID:    m.ID,
		Description: fmt.Sprintf("Meeting %q %s", m.Title, m.Status),
	}
}
