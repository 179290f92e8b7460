// Package storagetest holds the behavioural suite every storage.Store
// implementation must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) storage.Store

const (
	owner    uint = 1
	stranger uint = 2
)

// Now is the reference clock used by time-sensitive cases.
var Now = time.Date(2030, time.January, 15, 10, 0, 0, 0, time.UTC)

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"Users", testUsers},
		{"ClientCRUD", testClientCRUD},
		{"Scoping", testScoping},
		{"InvoiceRoundTrip", testInvoiceRoundTrip},
		{"InvoiceNumberConflict", testInvoiceNumberConflict},
		{"InvoiceTransitions", testInvoiceTransitions},
		{"InvoicePaidOnlyByPayment", testInvoicePaidOnlyByPayment},
		{"Payments", testPayments},
		{"PaymentRejectedForStranger", testPaymentRejectedForStranger},
		{"LatestInvoices", testLatestInvoices},
		{"AvailableInvoices", testAvailableInvoices},
		{"Contracts", testContracts},
		{"Proposals", testProposals},
		{"ProposalDetach", testProposalDetach},
		{"Meetings", testMeetings},
		{"UpcomingMeetings", testUpcomingMeetings},
		{"UpcomingMeetingsAcrossZones", testUpcomingMeetingsAcrossZones},
		{"RecentActivities", testRecentActivities},
		{"DashboardStats", testDashboardStats},
		{"DeleteMissing", testDeleteMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func ptr[T any](v T) *T { return &v }

func newClient(t *testing.T, s storage.Store, userID uint, name string) models.Client {
	t.Helper()
	c := models.Client{Name: name, Email: name + "@example.com"}
	require.NoError(t, s.CreateClient(context.Background(), userID, &c))
	return c
}

func newInvoice(t *testing.T, s storage.Store, userID, clientID uint, number string, total float64, status models.InvoiceStatus) models.Invoice {
	t.Helper()
	inv := models.Invoice{
		ClientID:      clientID,
		InvoiceNumber: number,
		IssueDate:     Now,
		DueDate:       Now.AddDate(0, 0, 30),
		Status:        status,
		Subtotal:      total,
		Total:         total,
		Items:         []models.LineItem{{Description: "Work", Quantity: 1, UnitPrice: total}},
	}
	require.NoError(t, s.CreateInvoice(context.Background(), userID, &inv))
	return inv
}

func newMeeting(t *testing.T, s storage.Store, userID uint, title string, start time.Time, status models.MeetingStatus) models.Meeting {
	t.Helper()
	m := models.Meeting{
		Title:         title,
		StartDateTime: start,
		EndDateTime:   start.Add(time.Hour),
		MeetingType:   models.MeetingTypeZoom,
		Status:        status,
	}
	require.NoError(t, s.CreateMeeting(context.Background(), userID, &m))
	return m
}

func activityTypes(acts []models.Activity) []models.ActivityType {
	out := make([]models.ActivityType, len(acts))
	for i, a := range acts {
		out[i] = a.Type
	}
	return out
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()
	u := models.User{Username: "jane", Password: "hash", Email: "jane@example.com", FullName: "Jane Doe"}
	require.NoError(t, s.CreateUser(ctx, &u))
	assert.NotZero(t, u.ID)

	dup := models.User{Username: "jane", Password: "x", Email: "other@example.com", FullName: "Other"}
	assert.ErrorIs(t, s.CreateUser(ctx, &dup), storage.ErrConflict)

	got, err := s.GetUserByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, s.UpdateUserPassword(ctx, u.ID, "newhash"))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.Password)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.UpdateUserPassword(ctx, 999, "x"), storage.ErrNotFound)
}

func testClientCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := newClient(t, s, owner, "acme")
	b := newClient(t, s, owner, "globex")
	assert.Greater(t, b.ID, a.ID)
	assert.Equal(t, models.ClientStatusActive, a.Status)
	assert.False(t, a.CreatedAt.IsZero())

	list, err := s.ListClients(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acme", list[0].Name)
	assert.Equal(t, "acme@example.com", list[0].Email)

	updated, err := s.UpdateClient(ctx, owner, a.ID, storage.ClientPatch{
		Phone:  ptr("555-0100"),
		Status: ptr(models.ClientStatusLead),
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "acme", updated.Name)
	assert.Equal(t, models.ClientStatusLead, updated.Status)

	require.NoError(t, s.DeleteClient(ctx, owner, a.ID))
	_, err = s.GetClient(ctx, owner, a.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	acts, err := s.RecentActivities(ctx, owner, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.ActivityType{models.ActivityClientAdded, models.ActivityClientAdded}, activityTypes(acts))
	assert.Equal(t, `Client "globex" added`, acts[0].Description)
}

func testScoping(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	inv := newInvoice(t, s, owner, c.ID, "INV-1", 100, models.InvoiceStatusDraft)

	_, err := s.GetClient(ctx, stranger, c.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.UpdateClient(ctx, stranger, c.ID, storage.ClientPatch{Name: ptr("pwned")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteClient(ctx, stranger, c.ID), storage.ErrNotFound)
	_, err = s.GetInvoice(ctx, stranger, inv.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.ListPaymentsByInvoice(ctx, stranger, inv.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err := s.ListClients(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := s.GetClient(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Name)

	acts, err := s.RecentActivities(ctx, stranger, 10)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func testInvoiceRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	inv := models.Invoice{
		ClientID:      c.ID,
		InvoiceNumber: "INV-2030-0001",
		IssueDate:     Now,
		DueDate:       Now.AddDate(0, 0, 14),
		Subtotal:      200,
		Tax:           20,
		Discount:      5,
		Total:         215,
		Items:         []models.LineItem{{Description: "Design", Quantity: 2, UnitPrice: 100}},
	}
	require.NoError(t, s.CreateInvoice(ctx, owner, &inv))
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)

	got, err := s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 215.0, got.Total)
	assert.Equal(t, 200.0, got.Subtotal)
	require.Len(t, got.Items, 1)
	assert.Equal(t, models.LineItem{Description: "Design", Quantity: 2, UnitPrice: 100}, got.Items[0])
	assert.True(t, got.DueDate.Equal(Now.AddDate(0, 0, 14)))

	items := []models.LineItem{{Description: "Hosting", Quantity: 12, UnitPrice: 10}}
	updated, err := s.UpdateInvoice(ctx, owner, inv.ID, storage.InvoicePatch{Items: &items, Notes: ptr("annual")})
	require.NoError(t, err)
	assert.Equal(t, "annual", updated.Notes)
	assert.Equal(t, "Hosting", updated.ProjectName())

	acts, err := s.RecentActivities(ctx, owner, 10)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityInvoiceCreated, acts[0].Type)
	assert.Equal(t, "Invoice INV-2030-0001 created", acts[0].Description)
}

func testInvoiceNumberConflict(t *testing.T, s storage.Store) {
	c := newClient(t, s, owner, "acme")
	newInvoice(t, s, owner, c.ID, "INV-7", 10, models.InvoiceStatusDraft)
	dup := models.Invoice{ClientID: c.ID, InvoiceNumber: "INV-7", IssueDate: Now, DueDate: Now, Total: 1}
	assert.ErrorIs(t, s.CreateInvoice(context.Background(), owner, &dup), storage.ErrConflict)
}

func testInvoiceTransitions(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	inv := newInvoice(t, s, owner, c.ID, "INV-1", 100, models.InvoiceStatusDraft)

	sent, err := s.UpdateInvoice(ctx, owner, inv.ID, storage.InvoicePatch{Status: ptr(models.InvoiceStatusSent)})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, sent.Status)

	_, err = s.UpdateInvoice(ctx, owner, inv.ID, storage.InvoicePatch{
		Status: ptr(models.InvoiceStatusDraft),
		Notes:  ptr("should not stick"),
	})
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	got, err := s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, got.Status)
	assert.Empty(t, got.Notes)

	// Same status is not a transition.
	_, err = s.UpdateInvoice(ctx, owner, inv.ID, storage.InvoicePatch{Status: ptr(models.InvoiceStatusSent)})
	require.NoError(t, err)

	acts, err := s.RecentActivities(ctx, owner, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.ActivityType{
		models.ActivityInvoiceSent,
		models.ActivityInvoiceCreated,
		models.ActivityClientAdded,
	}, activityTypes(acts))
	assert.Equal(t, "Invoice INV-1 marked as sent", acts[0].Description)
}

func testInvoicePaidOnlyByPayment(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	inv := newInvoice(t, s, owner, c.ID, "INV-1", 100, models.InvoiceStatusSent)

	_, err := s.UpdateInvoice(ctx, owner, inv.ID, storage.InvoicePatch{Status: ptr(models.InvoiceStatusPaid)})
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	got, err := s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, got.Status)
	payments, err := s.ListPaymentsByInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	born := models.Invoice{
		ClientID:      c.ID,
		InvoiceNumber: "INV-2",
		IssueDate:     Now,
		DueDate:       Now,
		Status:        models.InvoiceStatusPaid,
		Total:         50,
		Items:         []models.LineItem{{Description: "Work", Quantity: 1, UnitPrice: 50}},
	}
	assert.ErrorIs(t, s.CreateInvoice(ctx, owner, &born), storage.ErrInvalidTransition)
	list, err := s.ListInvoices(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Once a payment marks it paid, sending paid again is a no-op.
	_, err = s.CreatePayment(ctx, owner, &models.Payment{InvoiceID: inv.ID, Amount: 100, PaymentDate: Now, PaymentMethod: models.PaymentMethodManual})
	require.NoError(t, err)
	same, err := s.UpdateInvoice(ctx, owner, inv.ID, storage.InvoicePatch{Status: ptr(models.InvoiceStatusPaid)})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, same.Status)
}

func testPayments(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	inv := newInvoice(t, s, owner, c.ID, "INV-1", 200, models.InvoiceStatusSent)

	pay := models.Payment{InvoiceID: inv.ID, Amount: 200, PaymentDate: Now, PaymentMethod: models.PaymentMethodManual}
	paid, err := s.CreatePayment(ctx, owner, &pay)
	require.NoError(t, err)
	assert.NotZero(t, pay.ID)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)

	got, err := s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status)

	// A second payment on a paid invoice is recorded as well.
	again := models.Payment{InvoiceID: inv.ID, Amount: 200, PaymentDate: Now, PaymentMethod: models.PaymentMethodManual}
	_, err = s.CreatePayment(ctx, owner, &again)
	require.NoError(t, err)

	payments, err := s.ListPayments(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	byInvoice, err := s.ListPaymentsByInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Len(t, byInvoice, 2)

	others, err := s.ListPayments(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, others)

	acts, err := s.RecentActivities(ctx, owner, 1)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, models.ActivityPaymentReceived, acts[0].Type)
	assert.Equal(t, models.EntityPayment, acts[0].EntityType)
	assert.Equal(t, again.ID, acts[0].EntityID)
	assert.Equal(t, "Payment received for invoice INV-1", acts[0].Description)
}

func testPaymentRejectedForStranger(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	inv := newInvoice(t, s, owner, c.ID, "INV-1", 50, models.InvoiceStatusSent)

	pay := models.Payment{InvoiceID: inv.ID, Amount: 50, PaymentDate: Now, PaymentMethod: "card"}
	_, err := s.CreatePayment(ctx, stranger, &pay)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	missing := models.Payment{InvoiceID: 999, Amount: 50, PaymentDate: Now, PaymentMethod: "card"}
	_, err = s.CreatePayment(ctx, owner, &missing)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	payments, err := s.ListPayments(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, payments)
	got, err := s.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, got.Status)
}

func testLatestInvoices(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	newInvoice(t, s, owner, c.ID, "INV-1", 10, models.InvoiceStatusDraft)
	newInvoice(t, s, owner, c.ID, "INV-2", 20, models.InvoiceStatusDraft)

	few, err := s.LatestInvoices(ctx, owner, 0)
	require.NoError(t, err)
	assert.Len(t, few, 2)

	newInvoice(t, s, owner, c.ID, "INV-3", 30, models.InvoiceStatusDraft)
	newInvoice(t, s, owner, c.ID, "INV-4", 40, models.InvoiceStatusDraft)

	latest, err := s.LatestInvoices(ctx, owner, 0)
	require.NoError(t, err)
	require.Len(t, latest, storage.DefaultLatestInvoices)
	assert.Equal(t, "INV-4", latest[0].InvoiceNumber)
	assert.Equal(t, "INV-3", latest[1].InvoiceNumber)
	assert.Equal(t, "INV-2", latest[2].InvoiceNumber)

	one, err := s.LatestInvoices(ctx, owner, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func testAvailableInvoices(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	newInvoice(t, s, owner, c.ID, "INV-1", 10, models.InvoiceStatusDraft)
	paid := newInvoice(t, s, owner, c.ID, "INV-2", 20, models.InvoiceStatusSent)
	_, err := s.CreatePayment(ctx, owner, &models.Payment{InvoiceID: paid.ID, Amount: 20, PaymentDate: Now, PaymentMethod: "bank"})
	require.NoError(t, err)

	avail, err := s.AvailableInvoices(ctx, owner)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "INV-1", avail[0].InvoiceNumber)
}

func testContracts(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	draft := models.Contract{ClientID: c.ID, Title: "Retainer", Content: "Terms"}
	require.NoError(t, s.CreateContract(ctx, owner, &draft))
	assert.Equal(t, models.ContractStatusDraft, draft.Status)
	other := models.Contract{ClientID: c.ID, Title: "Build", Content: "Terms"}
	require.NoError(t, s.CreateContract(ctx, owner, &other))

	_, err := s.UpdateContract(ctx, owner, draft.ID, storage.ContractPatch{Status: ptr(models.ContractStatusSigned)})
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	sentAt := Now
	sent, err := s.UpdateContract(ctx, owner, draft.ID, storage.ContractPatch{Status: ptr(models.ContractStatusSent), SentDate: &sentAt})
	require.NoError(t, err)
	require.NotNil(t, sent.SentDate)
	assert.True(t, sent.SentDate.Equal(Now))

	signed, err := s.UpdateContract(ctx, owner, draft.ID, storage.ContractPatch{Status: ptr(models.ContractStatusSigned), SignedDate: &sentAt})
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusSigned, signed.Status)

	avail, err := s.AvailableContracts(ctx, owner)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "Build", avail[0].Title)

	acts, err := s.RecentActivities(ctx, owner, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityContractSigned, acts[0].Type)
	assert.Equal(t, `Contract "Retainer" signed`, acts[0].Description)
}

func testProposals(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	inv := newInvoice(t, s, owner, c.ID, "INV-1", 10, models.InvoiceStatusDraft)
	p := models.Proposal{ClientID: c.ID, Title: "Redesign", Content: "Scope", InvoiceID: &inv.ID}
	require.NoError(t, s.CreateProposal(ctx, owner, &p))
	assert.Equal(t, models.ProposalStatusDraft, p.Status)

	got, err := s.GetProposal(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.True(t, got.HasInvoice())
	assert.False(t, got.HasContract())

	_, err = s.UpdateProposal(ctx, owner, p.ID, storage.ProposalPatch{Status: ptr(models.ProposalStatusAccepted)})
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	_, err = s.UpdateProposal(ctx, owner, p.ID, storage.ProposalPatch{Status: ptr(models.ProposalStatusSent), SentDate: ptr(Now)})
	require.NoError(t, err)
	accepted, err := s.UpdateProposal(ctx, owner, p.ID, storage.ProposalPatch{Status: ptr(models.ProposalStatusAccepted), AcceptedDate: ptr(Now)})
	require.NoError(t, err)
	require.NotNil(t, accepted.AcceptedDate)

	list, err := s.ListProposals(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ProposalStatusAccepted, list[0].Status)

	acts, err := s.RecentActivities(ctx, owner, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.ActivityType{models.ActivityProposalAccepted, models.ActivityProposalSent}, activityTypes(acts))

	require.NoError(t, s.DeleteProposal(ctx, owner, p.ID))
	assert.ErrorIs(t, s.DeleteProposal(ctx, owner, p.ID), storage.ErrNotFound)
}

func testProposalDetach(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := newClient(t, s, owner, "acme")
	inv := newInvoice(t, s, owner, c.ID, "INV-1", 10, models.InvoiceStatusDraft)
	con := models.Contract{ClientID: c.ID, Title: "MSA", Content: "Terms"}
	require.NoError(t, s.CreateContract(ctx, owner, &con))
	p := models.Proposal{ClientID: c.ID, Title: "Redesign", Content: "Scope", InvoiceID: &inv.ID, ContractID: &con.ID}
	require.NoError(t, s.CreateProposal(ctx, owner, &p))

	_, err := s.UpdateProposal(ctx, owner, p.ID, storage.ProposalPatch{ClearInvoice: true})
	require.NoError(t, err)
	got, err := s.GetProposal(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.False(t, got.HasInvoice())
	assert.True(t, got.HasContract())

	_, err = s.UpdateProposal(ctx, owner, p.ID, storage.ProposalPatch{ClearContract: true, Title: ptr("Redesign v2")})
	require.NoError(t, err)
	got, err = s.GetProposal(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.False(t, got.HasContract())
	assert.Equal(t, "Redesign v2", got.Title)

	// A later id attaches again.
	_, err = s.UpdateProposal(ctx, owner, p.ID, storage.ProposalPatch{InvoiceID: &inv.ID})
	require.NoError(t, err)
	got, err = s.GetProposal(ctx, owner, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.InvoiceID)
	assert.Equal(t, inv.ID, *got.InvoiceID)
}

func testMeetings(t *testing.T, s storage.Store) {
	ctx := context.Background()
	m := newMeeting(t, s, owner, "Kickoff", Now.Add(2*time.Hour), "")
	assert.Equal(t, models.MeetingStatusScheduled, m.Status)

	bad := models.Meeting{Title: "Backwards", StartDateTime: Now, EndDateTime: Now.Add(-time.Minute), MeetingType: models.MeetingTypePhoneCall}
	assert.ErrorIs(t, s.CreateMeeting(ctx, owner, &bad), storage.ErrInvalidSchedule)

	_, err := s.UpdateMeeting(ctx, owner, m.ID, storage.MeetingPatch{EndDateTime: ptr(Now)})
	assert.ErrorIs(t, err, storage.ErrInvalidSchedule)

	loc := "Cafe"
	moved, err := s.UpdateMeeting(ctx, owner, m.ID, storage.MeetingPatch{
		Location:    &loc,
		MeetingType: ptr(models.MeetingTypeInPerson),
		Status:      ptr(models.MeetingStatusCancelled),
	})
	require.NoError(t, err)
	require.NotNil(t, moved.Location)
	assert.Equal(t, "Cafe", *moved.Location)
	assert.Equal(t, models.MeetingStatusCancelled, moved.Status)

	acts, err := s.RecentActivities(ctx, owner, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.ActivityType{models.ActivityMeetingCancelled, models.ActivityMeetingScheduled}, activityTypes(acts))
	assert.Equal(t, `Meeting "Kickoff" cancelled`, acts[0].Description)
}

func testUpcomingMeetings(t *testing.T, s storage.Store) {
	ctx := context.Background()
	newMeeting(t, s, owner, "past", Now.Add(-time.Hour), models.MeetingStatusScheduled)
	newMeeting(t, s, owner, "cancelled", Now.Add(time.Hour), models.MeetingStatusCancelled)
	newMeeting(t, s, owner, "third", Now.Add(72*time.Hour), models.MeetingStatusScheduled)
	newMeeting(t, s, owner, "first", Now.Add(time.Hour), models.MeetingStatusScheduled)
	newMeeting(t, s, owner, "second", Now.Add(24*time.Hour), models.MeetingStatusScheduled)
	newMeeting(t, s, owner, "fourth", Now.Add(96*time.Hour), models.MeetingStatusScheduled)
	newMeeting(t, s, stranger, "foreign", Now.Add(30*time.Minute), models.MeetingStatusScheduled)

	up, err := s.UpcomingMeetings(ctx, owner, Now, 0)
	require.NoError(t, err)
	require.Len(t, up, storage.DefaultUpcomingMeetings)
	assert.Equal(t, "first", up[0].Title)
	assert.Equal(t, "second", up[1].Title)
	assert.Equal(t, "third", up[2].Title)
	for _, m := range up {
		assert.True(t, m.StartDateTime.After(Now))
		assert.NotEqual(t, models.MeetingStatusCancelled, m.Status)
	}
}

// Bounds and stored times may carry different zones; comparisons are by
// instant.
func testUpcomingMeetingsAcrossZones(t *testing.T, s storage.Store) {
	ctx := context.Background()
	pkt := time.FixedZone("PKT", 5*60*60)
	newMeeting(t, s, owner, "noon", Now.Add(2*time.Hour), models.MeetingStatusScheduled)
	newMeeting(t, s, owner, "earlier", Now.Add(-30*time.Minute).In(pkt), models.MeetingStatusScheduled)

	// 11:00Z written as 16:00 +05:00.
	now := Now.Add(time.Hour).In(pkt)
	up, err := s.UpcomingMeetings(ctx, owner, now, 0)
	require.NoError(t, err)
	require.Len(t, up, 1)
	assert.Equal(t, "noon", up[0].Title)
	assert.True(t, up[0].StartDateTime.Equal(Now.Add(2*time.Hour)))

	stats, err := s.DashboardStats(ctx, owner, now)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.UpcomingMeetingCount)
	assert.Equal(t, 1, stats.MeetingsToday)
}

func testRecentActivities(t *testing.T, s storage.Store) {
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		newClient(t, s, owner, name)
	}
	acts, err := s.RecentActivities(ctx, owner, 0)
	require.NoError(t, err)
	require.Len(t, acts, storage.DefaultRecentActivities)
	assert.Equal(t, `Client "e" added`, acts[0].Description)
	assert.Equal(t, `Client "b" added`, acts[3].Description)
}

func testDashboardStats(t *testing.T, s storage.Store) {
	ctx := context.Background()
	acme := newClient(t, s, owner, "acme")
	newClient(t, s, owner, "globex")
	newClient(t, s, stranger, "initech")

	paid := newInvoice(t, s, owner, acme.ID, "INV-1", 200, models.InvoiceStatusSent)
	_, err := s.CreatePayment(ctx, owner, &models.Payment{InvoiceID: paid.ID, Amount: 200, PaymentDate: Now, PaymentMethod: "bank"})
	require.NoError(t, err)
	newInvoice(t, s, owner, acme.ID, "INV-2", 150, models.InvoiceStatusSent)
	newInvoice(t, s, owner, acme.ID, "INV-3", 50, models.InvoiceStatusPending)
	newInvoice(t, s, owner, acme.ID, "INV-4", 999, models.InvoiceStatusDraft)
	newInvoice(t, s, stranger, acme.ID, "INV-5", 1000, models.InvoiceStatusSent)

	newMeeting(t, s, owner, "later today", Now.Add(5*time.Hour), models.MeetingStatusScheduled)
	newMeeting(t, s, owner, "tomorrow", Now.Add(24*time.Hour), models.MeetingStatusScheduled)
	newMeeting(t, s, owner, "cancelled", Now.Add(6*time.Hour), models.MeetingStatusCancelled)
	newMeeting(t, s, owner, "this morning", Now.Add(-2*time.Hour), models.MeetingStatusScheduled)

	stats, err := s.DashboardStats(ctx, owner, Now)
	require.NoError(t, err)
	assert.Equal(t, storage.DashboardStats{
		ClientCount:          2,
		TotalRevenue:         200,
		PendingInvoiceCount:  2,
		OutstandingAmount:    200,
		UpcomingMeetingCount: 2,
		MeetingsToday:        1,
	}, stats)

	empty, err := s.DashboardStats(ctx, 42, Now)
	require.NoError(t, err)
	assert.Equal(t, storage.DashboardStats{}, empty)
}

func testDeleteMissing(t *testing.T, s storage.Store) {
	ctx := context.Background()
	assert.ErrorIs(t, s.DeleteClient(ctx, owner, 404), storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteInvoice(ctx, owner, 404), storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteContract(ctx, owner, 404), storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProposal(ctx, owner, 404), storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteMeeting(ctx, owner, 404), storage.ErrNotFound)
	_, err := s.UpdateInvoice(ctx, owner, 404, storage.InvoicePatch{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
