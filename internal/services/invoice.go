// Package services holds the domain logic that sits between the handlers and
// storage: invoice numbering and totals, dashboard cards and display
// formatting.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
)

// maxNumberAttempts bounds the retries when a generated invoice number is
// already taken by another account.
const maxNumberAttempts = 20

type InvoiceService struct {
	store storage.InvoiceStore
}

func NewInvoiceService(store storage.InvoiceStore) *InvoiceService {
	return &InvoiceService{store: store}
}

// ComputeTotals returns the items subtotal and the total after tax and
// discount.
func (s *InvoiceService) ComputeTotals(items []models.LineItem, tax, discount float64) (subtotal, total float64) {
	for _, item := range items {
		subtotal += item.Amount()
	}
	total = subtotal + tax - discount
	return
}

// NextNumber returns the first INV-<year>-NNNN number above every number of
// that year in existing.
func (s *InvoiceService) NextNumber(existing []models.Invoice, year int) string {
	return formatNumber(year, nextSeq(existing, year))
}

func nextSeq(existing []models.Invoice, year int) int {
	prefix := fmt.Sprintf("INV-%d-", year)
	highest := 0
	for _, inv := range existing {
		rest, ok := strings.CutPrefix(inv.InvoiceNumber, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

func formatNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// Supplied records which totals the caller sent. A supplied zero is kept.
type Supplied struct {
	Subtotal bool
	Total    bool
}

// Create stores inv for userID. Totals not supplied are computed from the
// items. When inv has no number one is generated from the user's invoices
// for the issue year, skipping numbers taken by other accounts.
func (s *InvoiceService) Create(ctx context.Context, userID uint, inv *models.Invoice, supplied Supplied) error {
	if !supplied.Subtotal || !supplied.Total {
		subtotal, total := s.ComputeTotals(inv.Items, inv.Tax, inv.Discount)
		if !supplied.Subtotal {
			inv.Subtotal = subtotal
		}
		if !supplied.Total {
			inv.Total = total
		}
	}

	if inv.InvoiceNumber != "" {
		return s.store.CreateInvoice(ctx, userID, inv)
	}

	existing, err := s.store.ListInvoices(ctx, userID)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}
	year := inv.IssueDate.Year()
	seq := nextSeq(existing, year)
	for i := 0; i < maxNumberAttempts; i++ {
		inv.InvoiceNumber = formatNumber(year, seq+i)
		err = s.store.CreateInvoice(ctx, userID, inv)
		if !errors.Is(err, storage.ErrConflict) {
			return err
		}
	}
	inv.InvoiceNumber = ""
	return err
}
