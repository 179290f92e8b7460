// Package storage defines the persistence contract shared by the in-memory
// and GORM backends. Every call is scoped to the owning user: rows that belong
// to someone else are reported as ErrNotFound.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/clientpath/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = models.ErrInvalidTransition
	// ErrInvalidSchedule is returned when a meeting would end before it starts.
	ErrInvalidSchedule = errors.New("meeting must end after it starts")
)

// Default limits for the derived queries.
const (
	DefaultLatestInvoices   = 3
	DefaultUpcomingMeetings = 3
	DefaultRecentActivities = 4
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id uint, hash string) error
}

type ClientStore interface {
	ListClients(ctx context.Context, userID uint) ([]models.Client, error)
	GetClient(ctx context.Context, userID, id uint) (*models.Client, error)
	CreateClient(ctx context.Context, userID uint, c *models.Client) error
	UpdateClient(ctx context.Context, userID, id uint, patch ClientPatch) (*models.Client, error)
	DeleteClient(ctx context.Context, userID, id uint) error
}

type InvoiceStore interface {
	ListInvoices(ctx context.Context, userID uint) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, userID, id uint) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, userID uint, inv *models.Invoice) error
	UpdateInvoice(ctx context.Context, userID, id uint, patch InvoicePatch) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, userID, id uint) error
	// LatestInvoices returns at most limit invoices, newest first.
	LatestInvoices(ctx context.Context, userID uint, limit int) ([]models.Invoice, error)
	// AvailableInvoices returns invoices that are not paid yet.
	AvailableInvoices(ctx context.Context, userID uint) ([]models.Invoice, error)
}

type PaymentStore interface {
	ListPayments(ctx context.Context, userID uint) ([]models.Payment, error)
	ListPaymentsByInvoice(ctx context.Context, userID, invoiceID uint) ([]models.Payment, error)
	// CreatePayment records the payment, marks the invoice paid and logs the
	// activity as one unit. Nothing is written if any step fails.
	CreatePayment(ctx context.Context, userID uint, p *models.Payment) (*models.Invoice, error)
}

type ContractStore interface {
	ListContracts(ctx context.Context, userID uint) ([]models.Contract, error)
	GetContract(ctx context.Context, userID, id uint) (*models.Contract, error)
	CreateContract(ctx context.Context, userID uint, c *models.Contract) error
	UpdateContract(ctx context.Context, userID, id uint, patch ContractPatch) (*models.Contract, error)
	DeleteContract(ctx context.Context, userID, id uint) error
	// AvailableContracts returns draft contracts that may be attached to a proposal.
	AvailableContracts(ctx context.Context, userID uint) ([]models.Contract, error)
}

type ProposalStore interface {
	ListProposals(ctx context.Context, userID uint) ([]models.Proposal, error)
	GetProposal(ctx context.Context, userID, id uint) (*models.Proposal, error)
	CreateProposal(ctx context.Context, userID uint, p *models.Proposal) error
	UpdateProposal(ctx context.Context, userID, id uint, patch ProposalPatch) (*models.Proposal, error)
	DeleteProposal(ctx context.Context, userID, id uint) error
}

type MeetingStore interface {
	ListMeetings(ctx context.Context, userID uint) ([]models.Meeting, error)
	GetMeeting(ctx context.Context, userID, id uint) (*models.Meeting, error)
	CreateMeeting(ctx context.Context, userID uint, m *models.Meeting) error
	UpdateMeeting(ctx context.Context, userID, id uint, patch MeetingPatch) (*models.Meeting, error)
	DeleteMeeting(ctx context.Context, userID, id uint) error
	// UpcomingMeetings returns at most limit non-cancelled meetings starting
	// after now, soonest first.
	UpcomingMeetings(ctx context.Context, userID uint, now time.Time, limit int) ([]models.Meeting, error)
}

type ActivityStore interface {
	// RecentActivities returns at most limit activities, newest first.
	RecentActivities(ctx context.Context, userID uint, limit int) ([]models.Activity, error)
}

type DashboardStore interface {
	DashboardStats(ctx context.Context, userID uint, now time.Time) (DashboardStats, error)
}

// Store is the full persistence contract.
type Store interface {
	UserStore
	ClientStore
	InvoiceStore
	PaymentStore
	ContractStore
	ProposalStore
	MeetingStore
	ActivityStore
	DashboardStore

	// Ping reports whether the backend can serve requests.
	Ping(ctx context.Context) error
}

// DashboardStats is the per-user aggregate shown on the dashboard.
type DashboardStats struct {
	ClientCount          int     `json:"clientCount"`
	TotalRevenue         float64 `json:"totalRevenue"`
	PendingInvoiceCount  int     `json:"pendingInvoiceCount"`
	OutstandingAmount    float64 `json:"outstandingAmount"`
	UpcomingMeetingCount int     `json:"upcomingMeetingCount"`
	MeetingsToday        int     `json:"meetingsToday"`
}

// DayBounds returns the start of now's day and the start of the next day, in
// now's location.
func DayBounds(now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

func limitOr(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

// LatestLimit, UpcomingLimit and RecentLimit apply the defaults to a
// caller-supplied limit.
func LatestLimit(limit int) int   { return limitOr(limit, DefaultLatestInvoices) }
func UpcomingLimit(limit int) int { return limitOr(limit, DefaultUpcomingMeetings) }
func RecentLimit(limit int) int   { return limitOr(limit, DefaultRecentActivities) }
