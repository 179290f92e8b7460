package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/internal/storage/storagetest"
)

func TestStoreConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return New() })
}

func TestCountersStartAtOne(t *testing.T) {
	s := New()
	ctx := context.Background()
	c := models.Client{Name: "acme", Email: "a@b.c"}
	if err := s.CreateClient(ctx, 1, &c); err != nil {
		t.Fatalf("create client: %v", err)
	}
	if c.ID != 1 {
		t.Fatalf("expected first client id 1 got %d", c.ID)
	}
	m := models.Meeting{Title: "x", StartDateTime: time.Now(), EndDateTime: time.Now().Add(time.Hour), MeetingType: models.MeetingTypeZoom}
	if err := s.CreateMeeting(ctx, 1, &m); err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	if m.ID != 1 {
		t.Fatalf("expected first meeting id 1 got %d", m.ID)
	}
}

func TestReturnedRowsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	inv := models.Invoice{InvoiceNumber: "INV-1", Items: []models.LineItem{{Description: "a", Quantity: 1, UnitPrice: 1}}}
	if err := s.CreateInvoice(ctx, 1, &inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	inv.Items[0].Description = "mutated"
	got, err := s.GetInvoice(ctx, 1, inv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Items[0].Description != "a" {
		t.Fatalf("store shares item slice with caller: %q", got.Items[0].Description)
	}
	got.Items[0].Description = "again"
	again, _ := s.GetInvoice(ctx, 1, inv.ID)
	if again.Items[0].Description != "a" {
		t.Fatalf("store shares item slice with reader: %q", again.Items[0].Description)
	}
}

// Concurrent mark-paid calls each record a payment; none are lost.
func TestConcurrentPayments(t *testing.T) {
	s := New()
	ctx := context.Background()
	inv := models.Invoice{InvoiceNumber: "INV-1", Status: models.InvoiceStatusSent, Total: 10}
	if err := s.CreateInvoice(ctx, 1, &inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := models.Payment{InvoiceID: inv.ID, Amount: 10, PaymentDate: time.Now(), PaymentMethod: models.PaymentMethodManual}
			if _, err := s.CreatePayment(ctx, 1, &p); err != nil {
				t.Errorf("payment: %v", err)
			}
		}()
	}
	wg.Wait()
	payments, _ := s.ListPayments(ctx, 1)
	if len(payments) != 20 {
		t.Fatalf("expected 20 payments got %d", len(payments))
	}
	seen := map[uint]bool{}
	for _, p := range payments {
		if seen[p.ID] {
			t.Fatalf("duplicate payment id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return fixed }))
	c := models.Client{Name: "acme", Email: "a@b.c"}
	if err := s.CreateClient(context.Background(), 1, &c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !c.CreatedAt.Equal(fixed) {
		t.Fatalf("expected CreatedAt %v got %v", fixed, c.CreatedAt)
	}
}
