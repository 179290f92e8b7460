// Package gormstore implements storage.Store on top of GORM. It runs against
// PostgreSQL in production and SQLite in development and tests.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

var _ storage.Store = (*Store)(nil)

// New wraps an open connection. The connection should be opened with
// gorm.Config{TranslateError: true} so unique violations surface as
// storage.ErrConflict.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for health checks and seeding.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

// translate maps GORM errors onto the storage sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	}
	return err
}

func record(tx *gorm.DB, a models.Activity) error {
	if err := tx.Create(&a).Error; err != nil {
		return fmt.Errorf("append activity %s: %w", a.Type, err)
	}
	return nil
}

// first loads the row with the given id owned by userID into dst.
func first(tx *gorm.DB, dst any, userID, id uint) error {
	return translate(tx.Where("id = ? AND user_id = ?", id, userID).First(dst).Error)
}

// remove deletes the row owned by userID, reporting ErrNotFound when nothing
// matched.
func remove(ctx context.Context, db *gorm.DB, model any, userID, id uint) error {
	res := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user %q: %w", u.Username, translate(err))
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, id uint, hash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Clients

func (s *Store) ListClients(ctx context.Context, userID uint) ([]models.Client, error) {
	var out []models.Client
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (s *Store) GetClient(ctx context.Context, userID, id uint) (*models.Client, error) {
	var c models.Client
	if err := first(s.db.WithContext(ctx), &c, userID, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, userID uint, c *models.Client) error {
	c.UserID = userID
	if c.Status == "" {
		c.Status = models.ClientStatusActive
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create client: %w", translate(err))
		}
		return record(tx, storage.ClientAdded(c))
	})
}

func (s *Store) UpdateClient(ctx context.Context, userID, id uint, patch storage.ClientPatch) (*models.Client, error) {
	var c models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &c, userID, id); err != nil {
			return err
		}
		patch.Apply(&c)
		return tx.Save(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) DeleteClient(ctx context.Context, userID, id uint) error {
	return remove(ctx, s.db, &models.Client{}, userID, id)
}

// Invoices

func (s *Store) ListInvoices(ctx context.Context, userID uint) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (s *Store) GetInvoice(ctx context.Context, userID, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := first(s.db.WithContext(ctx), &inv, userID, id); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, userID uint, inv *models.Invoice) error {
	inv.UserID = userID
	if err := storage.PrepareInvoice(inv); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("create invoice %q: %w", inv.InvoiceNumber, translate(err))
		}
		return record(tx, storage.InvoiceCreated(inv))
	})
}

func (s *Store) UpdateInvoice(ctx context.Context, userID, id uint, patch storage.InvoicePatch) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &inv, userID, id); err != nil {
			return err
		}
		changed, err := patch.Apply(&inv)
		if err != nil {
			return err
		}
		if err := tx.Save(&inv).Error; err != nil {
			return fmt.Errorf("update invoice %d: %w", id, translate(err))
		}
		if changed {
			return record(tx, storage.InvoiceStatusChanged(&inv))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, userID, id uint) error {
	return remove(ctx, s.db, &models.Invoice{}, userID, id)
}

func (s *Store) LatestInvoices(ctx context.Context, userID uint, limit int) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Limit(storage.LatestLimit(limit)).
		Find(&out).Error
	return out, err
}

func (s *Store) AvailableInvoices(ctx context.Context, userID uint) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, models.InvoiceStatusPaid).
		Order("id").
		Find(&out).Error
	return out, err
}

// Payments

func (s *Store) ListPayments(ctx context.Context, userID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := s.db.WithContext(ctx).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.user_id = ?", userID).
		Order("payments.id").
		Find(&out).Error
	return out, err
}

func (s *Store) ListPaymentsByInvoice(ctx context.Context, userID, invoiceID uint) ([]models.Payment, error) {
	if _, err := s.GetInvoice(ctx, userID, invoiceID); err != nil {
		return nil, err
	}
	var out []models.Payment
	err := s.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("id").Find(&out).Error
	return out, err
}

func (s *Store) CreatePayment(ctx context.Context, userID uint, p *models.Payment) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &inv, userID, p.InvoiceID); err != nil {
			return fmt.Errorf("invoice %d: %w", p.InvoiceID, err)
		}
		if !inv.IsPaid() {
			if !inv.Status.CanTransitionTo(models.InvoiceStatusPaid) {
				return &models.TransitionError{Entity: models.EntityInvoice, From: string(inv.Status), To: string(models.InvoiceStatusPaid)}
			}
			inv.Status = models.InvoiceStatusPaid
			if err := tx.Model(&inv).Update("status", inv.Status).Error; err != nil {
				return fmt.Errorf("mark invoice %d paid: %w", inv.ID, err)
			}
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return record(tx, storage.PaymentReceived(&inv, p))
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Contracts

func (s *Store) ListContracts(ctx context.Context, userID uint) ([]models.Contract, error) {
	var out []models.Contract
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (s *Store) GetContract(ctx context.Context, userID, id uint) (*models.Contract, error) {
	var c models.Contract
	if err := first(s.db.WithContext(ctx), &c, userID, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateContract(ctx context.Context, userID uint, c *models.Contract) error {
	c.UserID = userID
	if c.Status == "" {
		c.Status = models.ContractStatusDraft
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create contract: %w", translate(err))
		}
		return record(tx, storage.ContractCreated(c))
	})
}

func (s *Store) UpdateContract(ctx context.Context, userID, id uint, patch storage.ContractPatch) (*models.Contract, error) {
	var c models.Contract
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &c, userID, id); err != nil {
			return err
		}
		changed, err := patch.Apply(&c)
		if err != nil {
			return err
		}
		if err := tx.Save(&c).Error; err != nil {
			return fmt.Errorf("update contract %d: %w", id, err)
		}
		if changed {
			return record(tx, storage.ContractStatusChanged(&c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) DeleteContract(ctx context.Context, userID, id uint) error {
	return remove(ctx, s.db, &models.Contract{}, userID, id)
}

func (s *Store) AvailableContracts(ctx context.Context, userID uint) ([]models.Contract, error) {
	var out []models.Contract
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.ContractStatusDraft).
		Order("id").
		Find(&out).Error
	return out, err
}

// Proposals

func (s *Store) ListProposals(ctx context.Context, userID uint) ([]models.Proposal, error) {
	var out []models.Proposal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (s *Store) GetProposal(ctx context.Context, userID, id uint) (*models.Proposal, error) {
	var p models.Proposal
	if err := first(s.db.WithContext(ctx), &p, userID, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProposal(ctx context.Context, userID uint, p *models.Proposal) error {
	p.UserID = userID
	if p.Status == "" {
		p.Status = models.ProposalStatusDraft
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("create proposal: %w", translate(err))
		}
		return record(tx, storage.ProposalCreated(p))
	})
}

func (s *Store) UpdateProposal(ctx context.Context, userID, id uint, patch storage.ProposalPatch) (*models.Proposal, error) {
	var p models.Proposal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &p, userID, id); err != nil {
			return err
		}
		changed, err := patch.Apply(&p)
		if err != nil {
			return err
		}
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("update proposal %d: %w", id, err)
		}
		if changed {
			return record(tx, storage.ProposalStatusChanged(&p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteProposal(ctx context.Context, userID, id uint) error {
	return remove(ctx, s.db, &models.Proposal{}, userID, id)
}

// Meetings

func (s *Store) ListMeetings(ctx context.Context, userID uint) ([]models.Meeting, error) {
	var out []models.Meeting
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (s *Store) GetMeeting(ctx context.Context, userID, id uint) (*models.Meeting, error) {
	var m models.Meeting
	if err := first(s.db.WithContext(ctx), &m, userID, id); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) CreateMeeting(ctx context.Context, userID uint, m *models.Meeting) error {
	if !m.EndDateTime.After(m.StartDateTime) {
		return storage.ErrInvalidSchedule
	}
	m.UserID = userID
	if m.Status == "" {
		m.Status = models.MeetingStatusScheduled
	}
	utcSchedule(m)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("create meeting: %w", translate(err))
		}
		return record(tx, storage.MeetingScheduled(m))
	})
}

func (s *Store) UpdateMeeting(ctx context.Context, userID, id uint, patch storage.MeetingPatch) (*models.Meeting, error) {
	var m models.Meeting
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &m, userID, id); err != nil {
			return err
		}
		changed, err := patch.Apply(&m)
		if err != nil {
			return err
		}
		utcSchedule(&m)
		if err := tx.Save(&m).Error; err != nil {
			return fmt.Errorf("update meeting %d: %w", id, err)
		}
		if changed {
			return record(tx, storage.MeetingStatusChanged(&m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) DeleteMeeting(ctx context.Context, userID, id uint) error {
	return remove(ctx, s.db, &models.Meeting{}, userID, id)
}

// utcSchedule stores meeting times in UTC. SQLite compares them as text, so
// every stored time and every bound must share one zone.
func utcSchedule(m *models.Meeting) {
	m.StartDateTime = m.StartDateTime.UTC()
	m.EndDateTime = m.EndDateTime.UTC()
}

func (s *Store) upcoming(ctx context.Context, userID uint, now time.Time) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Meeting{}).
		Where("user_id = ? AND start_date_time > ? AND status <> ?", userID, now.UTC(), models.MeetingStatusCancelled)
}

func (s *Store) UpcomingMeetings(ctx context.Context, userID uint, now time.Time, limit int) ([]models.Meeting, error) {
	var out []models.Meeting
	err := s.upcoming(ctx, userID, now).
		Order("start_date_time").
		Limit(storage.UpcomingLimit(limit)).
		Find(&out).Error
	return out, err
}

// Activities

func (s *Store) RecentActivities(ctx context.Context, userID uint, limit int) ([]models.Activity, error) {
	var out []models.Activity
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Limit(storage.RecentLimit(limit)).
		Find(&out).Error
	return out, err
}

// Dashboard

type invoiceAggregate struct {
	Count int64
	Sum   float64
}

func (s *Store) sumInvoices(ctx context.Context, userID uint, statuses ...models.InvoiceStatus) (invoiceAggregate, error) {
	var agg invoiceAggregate
	err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS sum").
		Where("user_id = ? AND status IN ?", userID, statuses).
		Scan(&agg).Error
	return agg, err
}

func (s *Store) DashboardStats(ctx context.Context, userID uint, now time.Time) (storage.DashboardStats, error) {
	var stats storage.DashboardStats

	var clients int64
	if err := s.db.WithContext(ctx).Model(&models.Client{}).Where("user_id = ?", userID).Count(&clients).Error; err != nil {
		return stats, fmt.Errorf("count clients: %w", err)
	}
	stats.ClientCount = int(clients)

	paid, err := s.sumInvoices(ctx, userID, models.InvoiceStatusPaid)
	if err != nil {
		return stats, fmt.Errorf("sum revenue: %w", err)
	}
	stats.TotalRevenue = paid.Sum

	pending, err := s.sumInvoices(ctx, userID, models.InvoiceStatusPending, models.InvoiceStatusSent)
	if err != nil {
		return stats, fmt.Errorf("sum outstanding: %w", err)
	}
	stats.PendingInvoiceCount = int(pending.Count)
	stats.OutstandingAmount = pending.Sum

	var upcoming, today int64
	if err := s.upcoming(ctx, userID, now).Count(&upcoming).Error; err != nil {
		return stats, fmt.Errorf("count meetings: %w", err)
	}
	_, tomorrow := storage.DayBounds(now)
	if err := s.upcoming(ctx, userID, now).Where("start_date_time < ?", tomorrow.UTC()).Count(&today).Error; err != nil {
		return stats, fmt.Errorf("count meetings today: %w", err)
	}
	stats.UpcomingMeetingCount = int(upcoming)
	stats.MeetingsToday = int(today)
	return stats, nil
}
