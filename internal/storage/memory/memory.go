// Package memory provides a map-backed storage.Store for development and
// tests. A single RWMutex guards all maps, so multi-step mutations such as
// CreatePayment are atomic.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
)

// Store keeps one map per entity keyed by id, with per-entity counters
// seeded at 1.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users      map[uint]models.User
	clients    map[uint]models.Client
	invoices   map[uint]models.Invoice
	payments   map[uint]models.Payment
	contracts  map[uint]models.Contract
	proposals  map[uint]models.Proposal
	meetings   map[uint]models.Meeting
	activities map[uint]models.Activity

	nextUserID     uint
	nextClientID   uint
	nextInvoiceID  uint
	nextPaymentID  uint
	nextContractID uint
	nextProposalID uint
	nextMeetingID  uint
	nextActivityID uint
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		now:            time.Now,
		users:          make(map[uint]models.User),
		clients:        make(map[uint]models.Client),
		invoices:       make(map[uint]models.Invoice),
		payments:       make(map[uint]models.Payment),
		contracts:      make(map[uint]models.Contract),
		proposals:      make(map[uint]models.Proposal),
		meetings:       make(map[uint]models.Meeting),
		activities:     make(map[uint]models.Activity),
		nextUserID:     1,
		nextClientID:   1,
		nextInvoiceID:  1,
		nextPaymentID:  1,
		nextContractID: 1,
		nextProposalID: 1,
		nextMeetingID:  1,
		nextActivityID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// collect returns the values of m accepted by keep, in id order.
func collect[T any](m map[uint]T, keep func(*T) bool) []T {
	out := make([]T, 0, len(m))
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		v := m[id]
		if keep(&v) {
			out = append(out, v)
		}
	}
	return out
}

func ownedBy(userID uint) func(o models.Ownable) bool {
	return func(o models.Ownable) bool { return o.GetUserID() == userID }
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneInvoice(inv models.Invoice) models.Invoice {
	inv.Items = append(inv.Items[:0:0], inv.Items...)
	return inv
}

func cloneContract(c models.Contract) models.Contract {
	c.SentDate = clonePtr(c.SentDate)
	c.SignedDate = clonePtr(c.SignedDate)
	c.ExpiryDate = clonePtr(c.ExpiryDate)
	return c
}

func cloneProposal(p models.Proposal) models.Proposal {
	p.InvoiceID = clonePtr(p.InvoiceID)
	p.ContractID = clonePtr(p.ContractID)
	p.SentDate = clonePtr(p.SentDate)
	p.ExpiryDate = clonePtr(p.ExpiryDate)
	p.AcceptedDate = clonePtr(p.AcceptedDate)
	p.DeclinedDate = clonePtr(p.DeclinedDate)
	return p
}

func cloneMeeting(m models.Meeting) models.Meeting {
	m.ClientID = clonePtr(m.ClientID)
	m.Location = clonePtr(m.Location)
	m.MeetingLink = clonePtr(m.MeetingLink)
	return m
}

// appendActivity must be called with the write lock held.
func (s *Store) appendActivity(a models.Activity) {
	a.ID = s.nextActivityID
	s.nextActivityID++
	a.CreatedAt = s.now()
	s.activities[a.ID] = a
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return fmt.Errorf("create user %q: %w", u.Username, storage.ErrConflict)
		}
	}
	u.ID = s.nextUserID
	s.nextUserID++
	u.CreatedAt = s.now()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) UpdateUserPassword(ctx context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Password = hash
	s.users[id] = u
	return nil
}

// Clients

func (s *Store) ListClients(ctx context.Context, userID uint) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owned := ownedBy(userID)
	return collect(s.clients, func(c *models.Client) bool { return owned(c) }), nil
}

func (s *Store) GetClient(ctx context.Context, userID, id uint) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok || c.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, userID uint, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextClientID
	s.nextClientID++
	c.UserID = userID
	c.CreatedAt = s.now()
	if c.Status == "" {
		c.Status = models.ClientStatusActive
	}
	s.clients[c.ID] = *c
	s.appendActivity(storage.ClientAdded(c))
	return nil
}

func (s *Store) UpdateClient(ctx context.Context, userID, id uint, patch storage.ClientPatch) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok || c.UserID != userID {
		return nil, storage.ErrNotFound
	}
	patch.Apply(&c)
	s.clients[id] = c
	return &c, nil
}

func (s *Store) DeleteClient(ctx context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok || c.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.clients, id)
	return nil
}

// Invoices

func (s *Store) ListInvoices(ctx context.Context, userID uint) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invoicesWhere(func(inv *models.Invoice) bool { return inv.UserID == userID }), nil
}

func (s *Store) invoicesWhere(keep func(*models.Invoice) bool) []models.Invoice {
	out := collect(s.invoices, keep)
	for i := range out {
		out[i] = cloneInvoice(out[i])
	}
	return out
}

func (s *Store) GetInvoice(ctx context.Context, userID, id uint) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, storage.ErrNotFound
	}
	inv = cloneInvoice(inv)
	return &inv, nil
}

func (s *Store) numberTaken(number string, except uint) bool {
	for id, inv := range s.invoices {
		if id != except && inv.InvoiceNumber == number {
			return true
		}
	}
	return false
}

func (s *Store) CreateInvoice(ctx context.Context, userID uint, inv *models.Invoice) error {
	if err := storage.PrepareInvoice(inv); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numberTaken(inv.InvoiceNumber, 0) {
		return fmt.Errorf("invoice number %q: %w", inv.InvoiceNumber, storage.ErrConflict)
	}
	inv.ID = s.nextInvoiceID
	s.nextInvoiceID++
	inv.UserID = userID
	inv.CreatedAt = s.now()
	s.invoices[inv.ID] = cloneInvoice(*inv)
	s.appendActivity(storage.InvoiceCreated(inv))
	return nil
}

func (s *Store) UpdateInvoice(ctx context.Context, userID, id uint, patch storage.InvoicePatch) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, storage.ErrNotFound
	}
	inv = cloneInvoice(inv)
	changed, err := patch.Apply(&inv)
	if err != nil {
		return nil, err
	}
	if s.numberTaken(inv.InvoiceNumber, id) {
		return nil, fmt.Errorf("invoice number %q: %w", inv.InvoiceNumber, storage.ErrConflict)
	}
	s.invoices[id] = inv
	if changed {
		s.appendActivity(storage.InvoiceStatusChanged(&inv))
	}
	out := cloneInvoice(inv)
	return &out, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.invoices, id)
	return nil
}

func (s *Store) LatestInvoices(ctx context.Context, userID uint, limit int) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.invoicesWhere(func(inv *models.Invoice) bool { return inv.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return truncate(out, storage.LatestLimit(limit)), nil
}

func (s *Store) AvailableInvoices(ctx context.Context, userID uint) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invoicesWhere(func(inv *models.Invoice) bool {
		return inv.UserID == userID && !inv.IsPaid()
	}), nil
}

func truncate[T any](rows []T, limit int) []T {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// Payments

func (s *Store) ListPayments(ctx context.Context, userID uint) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.payments, func(p *models.Payment) bool {
		inv, ok := s.invoices[p.InvoiceID]
		return ok && inv.UserID == userID
	}), nil
}

func (s *Store) ListPaymentsByInvoice(ctx context.Context, userID, invoiceID uint) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[invoiceID]
	if !ok || inv.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return collect(s.payments, func(p *models.Payment) bool { return p.InvoiceID == invoiceID }), nil
}

func (s *Store) CreatePayment(ctx context.Context, userID uint, p *models.Payment) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[p.InvoiceID]
	if !ok || inv.UserID != userID {
		return nil, fmt.Errorf("invoice %d: %w", p.InvoiceID, storage.ErrNotFound)
	}
	if !inv.IsPaid() {
		if !inv.Status.CanTransitionTo(models.InvoiceStatusPaid) {
			return nil, &models.TransitionError{Entity: models.EntityInvoice, From: string(inv.Status), To: string(models.InvoiceStatusPaid)}
		}
		inv.Status = models.InvoiceStatusPaid
	}
	p.ID = s.nextPaymentID
	s.nextPaymentID++
	p.CreatedAt = s.now()
	s.payments[p.ID] = *p
	s.invoices[inv.ID] = inv
	s.appendActivity(storage.PaymentReceived(&inv, p))
	out := cloneInvoice(inv)
	return &out, nil
}

// Contracts

func (s *Store) contractsWhere(keep func(*models.Contract) bool) []models.Contract {
	out := collect(s.contracts, keep)
	for i := range out {
		out[i] = cloneContract(out[i])
	}
	return out
}

func (s *Store) ListContracts(ctx context.Context, userID uint) ([]models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contractsWhere(func(c *models.Contract) bool { return c.UserID == userID }), nil
}

func (s *Store) GetContract(ctx context.Context, userID, id uint) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok || c.UserID != userID {
		return nil, storage.ErrNotFound
	}
	c = cloneContract(c)
	return &c, nil
}

func (s *Store) CreateContract(ctx context.Context, userID uint, c *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextContractID
	s.nextContractID++
	c.UserID = userID
	c.CreatedAt = s.now()
	if c.Status == "" {
		c.Status = models.ContractStatusDraft
	}
	s.contracts[c.ID] = cloneContract(*c)
	s.appendActivity(storage.ContractCreated(c))
	return nil
}

func (s *Store) UpdateContract(ctx context.Context, userID, id uint, patch storage.ContractPatch) (*models.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok || c.UserID != userID {
		return nil, storage.ErrNotFound
	}
	c = cloneContract(c)
	changed, err := patch.Apply(&c)
	if err != nil {
		return nil, err
	}
	s.contracts[id] = c
	if changed {
		s.appendActivity(storage.ContractStatusChanged(&c))
	}
	out := cloneContract(c)
	return &out, nil
}

func (s *Store) DeleteContract(ctx context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok || c.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.contracts, id)
	return nil
}

func (s *Store) AvailableContracts(ctx context.Context, userID uint) ([]models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contractsWhere(func(c *models.Contract) bool {
		return c.UserID == userID && c.Status == models.ContractStatusDraft
	}), nil
}

// Proposals

func (s *Store) ListProposals(ctx context.Context, userID uint) ([]models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := collect(s.proposals, func(p *models.Proposal) bool { return p.UserID == userID })
	for i := range out {
		out[i] = cloneProposal(out[i])
	}
	return out, nil
}

func (s *Store) GetProposal(ctx context.Context, userID, id uint) (*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok || p.UserID != userID {
		return nil, storage.ErrNotFound
	}
	p = cloneProposal(p)
	return &p, nil
}

func (s *Store) CreateProposal(ctx context.Context, userID uint, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextProposalID
	s.nextProposalID++
	p.UserID = userID
	p.CreatedAt = s.now()
	if p.Status == "" {
		p.Status = models.ProposalStatusDraft
	}
	s.proposals[p.ID] = cloneProposal(*p)
	s.appendActivity(storage.ProposalCreated(p))
	return nil
}

func (s *Store) UpdateProposal(ctx context.Context, userID, id uint, patch storage.ProposalPatch) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok || p.UserID != userID {
		return nil, storage.ErrNotFound
	}
	p = cloneProposal(p)
	changed, err := patch.Apply(&p)
	if err != nil {
		return nil, err
	}
	s.proposals[id] = p
	if changed {
		s.appendActivity(storage.ProposalStatusChanged(&p))
	}
	out := cloneProposal(p)
	return &out, nil
}

func (s *Store) DeleteProposal(ctx context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok || p.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.proposals, id)
	return nil
}

// Meetings

func (s *Store) meetingsWhere(keep func(*models.Meeting) bool) []models.Meeting {
	out := collect(s.meetings, keep)
	for i := range out {
		out[i] = cloneMeeting(out[i])
	}
	return out
}

func (s *Store) ListMeetings(ctx context.Context, userID uint) ([]models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meetingsWhere(func(m *models.Meeting) bool { return m.UserID == userID }), nil
}

func (s *Store) GetMeeting(ctx context.Context, userID, id uint) (*models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[id]
	if !ok || m.UserID != userID {
		return nil, storage.ErrNotFound
	}
	m = cloneMeeting(m)
	return &m, nil
}

func (s *Store) CreateMeeting(ctx context.Context, userID uint, m *models.Meeting) error {
	if !m.EndDateTime.After(m.StartDateTime) {
		return storage.ErrInvalidSchedule
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextMeetingID
	s.nextMeetingID++
	m.UserID = userID
	m.CreatedAt = s.now()
	if m.Status == "" {
		m.Status = models.MeetingStatusScheduled
	}
	s.meetings[m.ID] = cloneMeeting(*m)
	s.appendActivity(storage.MeetingScheduled(m))
	return nil
}

func (s *Store) UpdateMeeting(ctx context.Context, userID, id uint, patch storage.MeetingPatch) (*models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[id]
	if !ok || m.UserID != userID {
		return nil, storage.ErrNotFound
	}
	m = cloneMeeting(m)
	changed, err := patch.Apply(&m)
	if err != nil {
		return nil, err
	}
	s.meetings[id] = m
	if changed {
		s.appendActivity(storage.MeetingStatusChanged(&m))
	}
	out := cloneMeeting(m)
	return &out, nil
}

func (s *Store) DeleteMeeting(ctx context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[id]
	if !ok || m.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.meetings, id)
	return nil
}

func (s *Store) upcoming(userID uint, now time.Time) []models.Meeting {
	out := s.meetingsWhere(func(m *models.Meeting) bool {
		return m.UserID == userID && m.IsUpcoming(now)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDateTime.Before(out[j].StartDateTime)
	})
	return out
}

func (s *Store) UpcomingMeetings(ctx context.Context, userID uint, now time.Time, limit int) ([]models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return truncate(s.upcoming(userID, now), storage.UpcomingLimit(limit)), nil
}

// Activities

func (s *Store) RecentActivities(ctx context.Context, userID uint, limit int) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := collect(s.activities, func(a *models.Activity) bool { return a.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return truncate(out, storage.RecentLimit(limit)), nil
}

// Dashboard

func (s *Store) DashboardStats(ctx context.Context, userID uint, now time.Time) (storage.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats storage.DashboardStats
	for _, c := range s.clients {
		if c.UserID == userID {
			stats.ClientCount++
		}
	}
	for _, inv := range s.invoices {
		if inv.UserID != userID {
			continue
		}
		switch {
		case inv.IsPaid():
			stats.TotalRevenue += inv.Total
		case inv.IsOutstanding():
			stats.PendingInvoiceCount++
			stats.OutstandingAmount += inv.Total
		}
	}
	_, tomorrow := storage.DayBounds(now)
	for _, m := range s.upcoming(userID, now) {
		stats.UpcomingMeetingCount++
		if m.StartDateTime.Before(tomorrow) {
			stats.MeetingsToday++
		}
	}
	return stats, nil
}
