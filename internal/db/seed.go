package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/clientpath/auth"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
)

// Demo account credentials.
const (
	DemoUsername = "demo"
	DemoPassword = "password"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func ptr[T any](v T) *T { return &v }

// Seed creates the demo account and its sample data. It does nothing when the
// demo user already exists and returns that user either way.
func Seed(ctx context.Context, store storage.Store, now time.Time) (*models.User, error) {
	existing, err := store.GetUserByUsername(ctx, DemoUsername)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup demo user: %w", err)
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	user := &models.User{
		Username:    DemoUsername,
		Password:    hash,
		Email:       "john@example.com",
		FullName:    "John Smith",
		CompanyName: "Smith Consulting",
		Phone:       "555-123-4567",
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create demo user: %w", err)
	}
	uid := user.ID

	clients := []*models.Client{
		{Name: "Sarah Johnson", Email: "sarah@example.com", Phone: "555-111-2222", CompanyName: "Johnson Design Studio",
			Address: "123 Main St", City: "New York", State: "NY", ZipCode: "10001", Country: "USA", Notes: "Website redesign project"},
		{Name: "Michael Chen", Email: "michael@example.com", Phone: "555-222-3333", CompanyName: "Chen Media",
			Address: "456 Park Ave", City: "San Francisco", State: "CA", ZipCode: "94107", Country: "USA", Notes: "Logo design project"},
		{Name: "Emily Rodriguez", Email: "emily@example.com", Phone: "555-333-4444", CompanyName: "Rodriguez Marketing",
			Address: "789 Market St", City: "Chicago", State: "IL", ZipCode: "60601", Country: "USA", Notes: "Social media campaign"},
	}
	for _, c := range clients {
		if err := store.CreateClient(ctx, uid, c); err != nil {
			return nil, fmt.Errorf("seed client %q: %w", c.Name, err)
		}
	}

	const notes = "Thank you for your business!"
	const terms = "Payment due within 14 days of issue date."
	invoice := func(client *models.Client, number, issue, due string, status models.InvoiceStatus, project string, amount float64) *models.Invoice {
		return &models.Invoice{
			ClientID:      client.ID,
			InvoiceNumber: number,
			IssueDate:     date(issue),
			DueDate:       date(due),
			Status:        status,
			Subtotal:      amount,
			Total:         amount,
			Notes:         notes,
			Terms:         terms,
			Items:         []models.LineItem{{Description: project, Quantity: 1, UnitPrice: amount}},
		}
	}
	invoices := []*models.Invoice{
		invoice(clients[0], "INV-2023-0042", "2023-05-01", "2023-05-12", models.InvoiceStatusSent, "Website Design", 2400),
		invoice(clients[1], "INV-2023-0041", "2023-05-03", "2023-05-18", models.InvoiceStatusPending, "Logo Design", 850),
		invoice(clients[2], "INV-2023-0040", "2023-04-20", "2023-05-05", models.InvoiceStatusOverdue, "Social Media Campaign", 1250),
	}
	for _, inv := range invoices {
		if err := store.CreateInvoice(ctx, uid, inv); err != nil {
			return nil, fmt.Errorf("seed invoice %s: %w", inv.InvoiceNumber, err)
		}
	}

	// The first invoice is settled through a payment, which marks it paid.
	if _, err := store.CreatePayment(ctx, uid, &models.Payment{
		InvoiceID:     invoices[0].ID,
		Amount:        2400,
		PaymentDate:   date("2023-05-10"),
		PaymentMethod: "credit_card",
		Notes:         "Payment received via credit card",
	}); err != nil {
		return nil, fmt.Errorf("seed payment: %w", err)
	}

	contracts := []*models.Contract{
		{ClientID: clients[0].ID, Title: "Website Development Agreement", Status: models.ContractStatusSigned,
			Content:  "This agreement is made between Smith Consulting and Johnson Design Studio for website development services...",
			SentDate: datePtr("2023-04-15"), SignedDate: datePtr("2023-04-20"), ExpiryDate: datePtr("2023-12-31")},
		{ClientID: clients[1].ID, Title: "Logo Design Services Agreement", Status: models.ContractStatusSent,
			Content:  "This agreement is made between Smith Consulting and Chen Media for logo design services...",
			SentDate: datePtr("2023-05-01"), ExpiryDate: datePtr("2023-06-01")},
		{ClientID: clients[2].ID, Title: "Marketing Services Agreement", Status: models.ContractStatusDraft,
			Content:    "This agreement is made between Smith Consulting and Rodriguez Marketing for social media marketing services...",
			ExpiryDate: datePtr("2023-06-15")},
	}
	for _, c := range contracts {
		if err := store.CreateContract(ctx, uid, c); err != nil {
			return nil, fmt.Errorf("seed contract %q: %w", c.Title, err)
		}
	}

	proposals := []*models.Proposal{
		{ClientID: clients[0].ID, Title: "Website Redesign Proposal", Status: models.ProposalStatusAccepted,
			Content:   "We propose a complete redesign of your company website to improve user experience and conversion rates...",
			InvoiceID: ptr(invoices[0].ID), ContractID: ptr(contracts[0].ID),
			SentDate: datePtr("2023-04-10"), ExpiryDate: datePtr("2023-05-10"), AcceptedDate: datePtr("2023-04-15")},
		{ClientID: clients[1].ID, Title: "Logo Design Proposal", Status: models.ProposalStatusSent,
			Content:   "We propose a modern logo design that reflects your brand identity and values...",
			InvoiceID: ptr(invoices[1].ID), ContractID: ptr(contracts[1].ID),
			SentDate: datePtr("2023-05-01"), ExpiryDate: datePtr("2023-06-01")},
		{ClientID: clients[2].ID, Title: "Social Media Marketing Proposal", Status: models.ProposalStatusDraft,
			Content:    "We propose a comprehensive social media marketing strategy to increase your online presence...",
			InvoiceID:  ptr(invoices[2].ID),
			ExpiryDate: datePtr("2023-06-15")},
	}
	for _, p := range proposals {
		if err := store.CreateProposal(ctx, uid, p); err != nil {
			return nil, fmt.Errorf("seed proposal %q: %w", p.Title, err)
		}
	}

	// Meetings are placed relative to now so the dashboard always has some.
	at := func(days, hour, minute int) time.Time {
		y, m, d := now.Date()
		return time.Date(y, m, d+days, hour, minute, 0, 0, now.Location())
	}
	meetings := []*models.Meeting{
		{ClientID: ptr(clients[0].ID), Title: "Discovery Call with Alex Thompson",
			Description:   "Initial meeting to discuss project requirements",
			StartDateTime: at(1, 14, 0), EndDateTime: at(1, 15, 0),
			MeetingType: models.MeetingTypeZoom, MeetingLink: ptr("https://zoom.us/j/123456789")},
		{ClientID: ptr(clients[1].ID), Title: "Project Review with Sarah's Team",
			Description:   "Review progress on the logo design project",
			StartDateTime: at(2, 10, 0), EndDateTime: at(2, 11, 30),
			MeetingType: models.MeetingTypeGoogleMeet, MeetingLink: ptr("https://meet.google.com/abc-defg-hij")},
		{ClientID: ptr(clients[2].ID), Title: "Proposal Discussion with David Co.",
			Description:   "Discuss the proposal for social media marketing services",
			StartDateTime: at(3, 13, 0), EndDateTime: at(3, 14, 0),
			Location:    ptr("123 Business St, Suite 101"),
			MeetingType: models.MeetingTypeInPerson},
	}
	for _, m := range meetings {
		m.Status = models.MeetingStatusScheduled
		if err := store.CreateMeeting(ctx, uid, m); err != nil {
			return nil, fmt.Errorf("seed meeting %q: %w", m.Title, err)
		}
	}

	return user, nil
}
