package services

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/internal/storage/memory"
)

func TestComputeTotals(t *testing.T) {
	svc := NewInvoiceService(nil)
	items := []models.LineItem{
		{Description: "Design", Quantity: 2, UnitPrice: 500},
		{Description: "Hosting", Quantity: 1, UnitPrice: 120.5},
	}
	subtotal, total := svc.ComputeTotals(items, 50, 20.5)
	if subtotal != 1120.5 {
		t.Fatalf("subtotal = %v, want 1120.5", subtotal)
	}
	if total != 1150 {
		t.Fatalf("total = %v, want 1150", total)
	}
}

func TestNextNumber(t *testing.T) {
	svc := NewInvoiceService(nil)
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "INV-2030-0001"},
		{"continues", []string{"INV-2030-0001", "INV-2030-0007", "INV-2030-0003"}, "INV-2030-0008"},
		{"other years ignored", []string{"INV-2029-0050"}, "INV-2030-0001"},
		{"free-form numbers ignored", []string{"#42", "INV-2030-abc"}, "INV-2030-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invoices []models.Invoice
			for _, n := range tt.existing {
				invoices = append(invoices, models.Invoice{InvoiceNumber: n})
			}
			if got := svc.NextNumber(invoices, 2030); got != tt.want {
				t.Fatalf("NextNumber = %s, want %s", got, tt.want)
			}
		})
	}
}

func newInvoice(clientID uint) *models.Invoice {
	return &models.Invoice{
		ClientID:  clientID,
		IssueDate: time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2030, 2, 10, 0, 0, 0, 0, time.UTC),
		Items:     []models.LineItem{{Description: "Work", Quantity: 3, UnitPrice: 100}},
	}
}

func TestCreate_FillsNumberAndTotals(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewInvoiceService(store)

	inv := newInvoice(1)
	inv.Tax = 30
	if err := svc.Create(ctx, 1, inv, Supplied{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.InvoiceNumber != "INV-2030-0001" {
		t.Fatalf("unexpected number %s", inv.InvoiceNumber)
	}
	if inv.Subtotal != 300 || inv.Total != 330 {
		t.Fatalf("unexpected totals subtotal=%v total=%v", inv.Subtotal, inv.Total)
	}

	// Supplied totals are kept as sent.
	kept := newInvoice(1)
	kept.Subtotal, kept.Total = 999, 1000
	if err := svc.Create(ctx, 1, kept, Supplied{Subtotal: true, Total: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if kept.Subtotal != 999 || kept.Total != 1000 {
		t.Fatalf("totals overwritten: %v %v", kept.Subtotal, kept.Total)
	}
	if kept.InvoiceNumber != "INV-2030-0002" {
		t.Fatalf("unexpected number %s", kept.InvoiceNumber)
	}
}

func TestCreate_SuppliedZeroSubtotalIsKept(t *testing.T) {
	svc := NewInvoiceService(memory.New())

	inv := newInvoice(1)
	inv.Total = 100
	if err := svc.Create(context.Background(), 1, inv, Supplied{Subtotal: true, Total: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Subtotal != 0 || inv.Total != 100 {
		t.Fatalf("expected subtotal 0 total 100 got %v %v", inv.Subtotal, inv.Total)
	}

	// Only the absent total is computed.
	partial := newInvoice(1)
	if err := svc.Create(context.Background(), 1, partial, Supplied{Subtotal: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if partial.Subtotal != 0 || partial.Total != 300 {
		t.Fatalf("expected subtotal 0 total 300 got %v %v", partial.Subtotal, partial.Total)
	}
}

func TestCreate_SkipsNumbersTakenByOtherUsers(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewInvoiceService(store)

	if err := svc.Create(ctx, 1, newInvoice(1), Supplied{}); err != nil {
		t.Fatalf("create user 1: %v", err)
	}
	other := newInvoice(2)
	if err := svc.Create(ctx, 2, other, Supplied{}); err != nil {
		t.Fatalf("create user 2: %v", err)
	}
	if other.InvoiceNumber != "INV-2030-0002" {
		t.Fatalf("expected INV-2030-0002 got %s", other.InvoiceNumber)
	}
}

func TestCreate_ExplicitNumberConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewInvoiceService(memory.New())
	a := newInvoice(1)
	a.InvoiceNumber = "X-1"
	if err := svc.Create(ctx, 1, a, Supplied{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	b := newInvoice(1)
	b.InvoiceNumber = "X-1"
	if err := svc.Create(ctx, 1, b, Supplied{}); err == nil {
		t.Fatal("expected conflict")
	}
}

func TestDashboardCards(t *testing.T) {
	cards := NewDashboardService().Cards(storage.DashboardStats{
		ClientCount:          3,
		TotalRevenue:         2400,
		PendingInvoiceCount:  2,
		OutstandingAmount:    1250.5,
		UpcomingMeetingCount: 4,
		MeetingsToday:        1,
	})
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards got %d", len(cards))
	}
	want := []struct {
		title    string
		value    float64
		icon     string
		subtitle string
	}{
		{"Total Clients", 3, "ri-user-line", ""},
		{"Total Revenue", 2400, "ri-money-dollar-circle-line", ""},
		{"Pending Invoices", 2, "ri-file-list-line", "$1250.5 outstanding"},
		{"Scheduled Meetings", 4, "ri-calendar-2-line", "1 upcoming today"},
	}
	for i, w := range want {
		c := cards[i]
		if c.Title != w.title || c.Value != w.value || c.Icon != w.icon || c.Subtitle != w.subtitle {
			t.Fatalf("card %d = %+v, want %+v", i, c, w)
		}
		if c.IconColor != "text-black" || c.IconBg != "" {
			t.Fatalf("card %d has unexpected colors %+v", i, c)
		}
	}
}

func TestUpcomingView(t *testing.T) {
	link := "https://zoom.us/j/1"
	m := models.Meeting{
		ID:            7,
		Title:         "Kickoff",
		StartDateTime: time.Date(2030, 1, 16, 14, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2030, 1, 16, 15, 30, 0, 0, time.UTC),
		MeetingType:   models.MeetingTypeZoom,
		MeetingLink:   &link,
		Status:        models.MeetingStatusScheduled,
	}
	v := MeetingFormatter{}.UpcomingView(m, "")
	if v.ClientName != NoClient {
		t.Fatalf("expected fallback client name got %q", v.ClientName)
	}
	if v.Date != "Wed Jan 16, 2030" {
		t.Fatalf("unexpected date %q", v.Date)
	}
	if v.StartTime != "2:00 PM" || v.EndTime != "3:30 PM" {
		t.Fatalf("unexpected times %q - %q", v.StartTime, v.EndTime)
	}
	if v.MeetingType != "Zoom Meeting" {
		t.Fatalf("unexpected type label %q", v.MeetingType)
	}
	if v.MeetingLink == nil || *v.MeetingLink != link {
		t.Fatal("meeting link not carried over")
	}
}

func TestActivityDetails(t *testing.T) {
	tests := map[models.ActivityType]string{
		models.ActivityInvoicePaid:      "Payment received",
		models.ActivityPaymentReceived:  "Payment received",
		models.ActivityInvoiceSent:      "Invoice sent to client",
		models.ActivityContractSigned:   "Contract has been signed",
		models.ActivityProposalSent:     "Proposal sent to client",
		models.ActivityMeetingScheduled: "New meeting has been scheduled",
		models.ActivityClientAdded:      "",
	}
	for typ, want := range tests {
		if got := ActivityDetails(typ); got != want {
			t.Fatalf("ActivityDetails(%s) = %q, want %q", typ, got, want)
		}
	}
}

func TestRecentView(t *testing.T) {
	a := models.Activity{
		ID:          3,
		Type:        models.ActivityInvoiceSent,
		Description: "Invoice INV-2030-0001 marked as sent",
		CreatedAt:   time.Date(2030, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	v := RecentView(a)
	if v.Details != "Invoice sent to client" {
		t.Fatalf("unexpected details %q", v.Details)
	}
	if v.Timestamp != "2030-01-15T10:00:00.000Z" {
		t.Fatalf("unexpected timestamp %q", v.Timestamp)
	}
}
