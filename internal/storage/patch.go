package storage

import (
	"time"

	"github.com/diewo77/clientpath/internal/models"
)

// Patches carry the fields of a partial update. A nil field is left untouched.
// Apply validates the status change before touching the row, so a rejected
// patch leaves it unchanged, and reports whether the status moved.

type transitioner[S any] interface {
	~string
	CanTransitionTo(S) bool
}

func checkStatus[S transitioner[S]](entity string, cur S, next *S) (bool, error) {
	if next == nil || *next == cur {
		return false, nil
	}
	if !cur.CanTransitionTo(*next) {
		return false, &models.TransitionError{Entity: entity, From: string(cur), To: string(*next)}
	}
	return true, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPtr[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

type ClientPatch struct {
	Name        *string
	Email       *string
	Phone       *string
	CompanyName *string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Country     *string
	Notes       *string
	Status      *models.ClientStatus
}

// Apply merges p into c. Client statuses move freely and are not logged.
func (p ClientPatch) Apply(c *models.Client) {
	set(&c.Name, p.Name)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.CompanyName, p.CompanyName)
	set(&c.Address, p.Address)
	set(&c.City, p.City)
	set(&c.State, p.State)
	set(&c.ZipCode, p.ZipCode)
	set(&c.Country, p.Country)
	set(&c.Notes, p.Notes)
	set(&c.Status, p.Status)
}

type InvoicePatch struct {
	ClientID      *uint
	InvoiceNumber *string
	IssueDate     *time.Time
	DueDate       *time.Time
	Status        *models.InvoiceStatus
	Subtotal      *float64
	Tax           *float64
	Discount      *float64
	Total         *float64
	Notes         *string
	Terms         *string
	Items         *[]models.LineItem
}

// PrepareInvoice defaults a new invoice to draft. Only a payment marks an
// invoice paid, so a new one may not start there.
func PrepareInvoice(inv *models.Invoice) error {
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusDraft
	}
	if inv.IsPaid() {
		return &models.TransitionError{Entity: models.EntityInvoice, To: string(models.InvoiceStatusPaid)}
	}
	return nil
}

// Apply refuses a move to paid; CreatePayment is the only way in.
func (p InvoicePatch) Apply(inv *models.Invoice) (bool, error) {
	if p.Status != nil && *p.Status == models.InvoiceStatusPaid && !inv.IsPaid() {
		return false, &models.TransitionError{Entity: models.EntityInvoice, From: string(inv.Status), To: string(*p.Status)}
	}
	changed, err := checkStatus(models.EntityInvoice, inv.Status, p.Status)
	if err != nil {
		return false, err
	}
	set(&inv.ClientID, p.ClientID)
	set(&inv.InvoiceNumber, p.InvoiceNumber)
	set(&inv.IssueDate, p.IssueDate)
	set(&inv.DueDate, p.DueDate)
	set(&inv.Status, p.Status)
	set(&inv.Subtotal, p.Subtotal)
	set(&inv.Tax, p.Tax)
	set(&inv.Discount, p.Discount)
	set(&inv.Total, p.Total)
	set(&inv.Notes, p.Notes)
	set(&inv.Terms, p.Terms)
	if p.Items != nil {
		inv.Items = append([]models.LineItem(nil), (*p.Items)...)
	}
	return changed, nil
}

type ContractPatch struct {
	ClientID   *uint
	Title      *string
	Content    *string
	Status     *models.ContractStatus
	SentDate   *time.Time
	SignedDate *time.Time
	ExpiryDate *time.Time
}

func (p ContractPatch) Apply(c *models.Contract) (bool, error) {
	changed, err := checkStatus(models.EntityContract, c.Status, p.Status)
	if err != nil {
		return false, err
	}
	set(&c.ClientID, p.ClientID)
	set(&c.Title, p.Title)
	set(&c.Content, p.Content)
	set(&c.Status, p.Status)
	setPtr(&c.SentDate, p.SentDate)
	setPtr(&c.SignedDate, p.SignedDate)
	setPtr(&c.ExpiryDate, p.ExpiryDate)
	return changed, nil
}

// ProposalPatch detaches the linked invoice or contract when the matching
// Clear flag is set; a Clear flag wins over an id.
type ProposalPatch struct {
	ClientID      *uint
	Title         *string
	Content       *string
	InvoiceID     *uint
	ContractID    *uint
	ClearInvoice  bool
	ClearContract bool
	Status        *models.ProposalStatus
	SentDate      *time.Time
	ExpiryDate    *time.Time
	AcceptedDate  *time.Time
	DeclinedDate  *time.Time
}

func (p ProposalPatch) Apply(pr *models.Proposal) (bool, error) {
	changed, err := checkStatus(models.EntityProposal, pr.Status, p.Status)
	if err != nil {
		return false, err
	}
	set(&pr.ClientID, p.ClientID)
	set(&pr.Title, p.Title)
	set(&pr.Content, p.Content)
	setPtr(&pr.InvoiceID, p.InvoiceID)
	setPtr(&pr.ContractID, p.ContractID)
	if p.ClearInvoice {
		pr.InvoiceID = nil
	}
	if p.ClearContract {
		pr.ContractID = nil
	}
	set(&pr.Status, p.Status)
	setPtr(&pr.SentDate, p.SentDate)
	setPtr(&pr.ExpiryDate, p.ExpiryDate)
	setPtr(&pr.AcceptedDate, p.AcceptedDate)
	setPtr(&pr.DeclinedDate, p.DeclinedDate)
	return changed, nil
}

type MeetingPatch struct {
	ClientID      *uint
	Title         *string
	Description   *string
	StartDateTime *time.Time
	EndDateTime   *time.Time
	Location      *string
	MeetingType   *models.MeetingType
	MeetingLink   *string
	Status        *models.MeetingStatus
}

func (p MeetingPatch) Apply(m *models.Meeting) (bool, error) {
	changed, err := checkStatus(models.EntityMeeting, m.Status, p.Status)
	if err != nil {
		return false, err
	}
	start, end := m.StartDateTime, m.EndDateTime
	set(&start, p.StartDateTime)
	set(&end, p.EndDateTime)
	if !end.After(start) {
		return false, ErrInvalidSchedule
	}
	m.StartDateTime, m.EndDateTime = start, end
	setPtr(&m.ClientID, p.ClientID)
	set(&m.Title, p.Title)
	set(&m.Description, p.Description)
	setPtr(&m.Location, p.Location)
	set(&m.MeetingType, p.MeetingType)
	setPtr(&m.MeetingLink, p.MeetingLink)
	set(&m.Status, p.Status)
	return changed, nil
}
