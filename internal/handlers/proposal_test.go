package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/diewo77/clientpath/internal/models"
)

func proposalPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/proposals/%d%s", id, suffix)
}

func TestProposalHandler_CreateWithAttachments(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	inv := e.createInvoice(e.alice, client.ID, 1200)
	c := e.createContract(e.alice, client.ID, "Retainer")

	var p models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, "/api/proposals", map[string]any{
		"clientId":   client.ID,
		"title":      "Brand refresh",
		"content":    "Logo and style guide",
		"invoiceId":  fmt.Sprint(inv.ID),
		"contractId": c.ID,
		"status":     "accepted",
	}), http.StatusCreated, &p)
	if p.Status != models.ProposalStatusDraft {
		t.Fatalf("expected draft got %s", p.Status)
	}
	if p.InvoiceID == nil || *p.InvoiceID != inv.ID || p.ContractID == nil || *p.ContractID != c.ID {
		t.Fatalf("unexpected attachments %+v", p)
	}

	var got proposalDetail
	e.expect(e.do(e.alice, http.MethodGet, proposalPath(p.ID, ""), nil), http.StatusOK, &got)
	if got.ClientName != "Acme" || got.ClientEmail != "contact@example.com" {
		t.Fatalf("unexpected client fields %+v", got)
	}
	if !got.HasInvoice || !got.HasContract {
		t.Fatalf("expected both attachments flagged %+v", got)
	}
	if got.InvoiceNumber != inv.InvoiceNumber || got.ContractTitle != "Retainer" {
		t.Fatalf("expected %s/Retainer got %s/%s", inv.InvoiceNumber, got.InvoiceNumber, got.ContractTitle)
	}
}

func TestProposalHandler_ZeroAttachmentIsNone(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")

	var p models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, "/api/proposals", map[string]any{
		"clientId":  client.ID,
		"title":     "Audit",
		"content":   "SEO audit",
		"invoiceId": 0,
	}), http.StatusCreated, &p)
	if p.InvoiceID != nil || p.ContractID != nil {
		t.Fatalf("expected no attachments got %+v", p)
	}

	var list []proposalView
	e.expect(e.do(e.alice, http.MethodGet, "/api/proposals", nil), http.StatusOK, &list)
	if len(list) != 1 || list[0].HasInvoice || list[0].HasContract {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestProposalHandler_ForeignAttachments(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	bobClient := e.createClient(e.bob, "Globex")
	bobInvoice := e.createInvoice(e.bob, bobClient.ID, 300)
	bobContract := e.createContract(e.bob, bobClient.ID, "Theirs")

	body := e.expectError(e.do(e.alice, http.MethodPost, "/api/proposals", map[string]any{
		"clientId":   client.ID,
		"title":      "Brand refresh",
		"content":    "Logo",
		"invoiceId":  bobInvoice.ID,
		"contractId": bobContract.ID,
	}), http.StatusBadRequest, "validation_failed")
	if body.Details["invoiceId"] != "not_found" || body.Details["contractId"] != "not_found" {
		t.Fatalf("unexpected details %v", body.Details)
	}
}

func TestProposalHandler_Transitions(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	var p models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, "/api/proposals", map[string]any{
		"clientId": client.ID,
		"title":    "Brand refresh",
		"content":  "Logo",
	}), http.StatusCreated, &p)

	e.expectError(e.do(e.alice, http.MethodPost, proposalPath(p.ID, "/accept"), nil), http.StatusConflict, "invalid_status_transition")

	var sent models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, proposalPath(p.ID, "/send"), nil), http.StatusOK, &sent)
	if sent.Status != models.ProposalStatusSent || sent.SentDate == nil {
		t.Fatalf("unexpected sent proposal %+v", sent)
	}

	var accepted models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, proposalPath(p.ID, "/accept"), nil), http.StatusOK, &accepted)
	if accepted.Status != models.ProposalStatusAccepted || accepted.AcceptedDate == nil || !accepted.AcceptedDate.Equal(testNow) {
		t.Fatalf("unexpected accepted proposal %+v", accepted)
	}

	body := e.expectError(e.do(e.alice, http.MethodPost, proposalPath(p.ID, "/decline"), nil), http.StatusConflict, "invalid_status_transition")
	if body.Details["from"] != "accepted" || body.Details["to"] != "declined" {
		t.Fatalf("unexpected details %v", body.Details)
	}
}

func TestProposalHandler_Decline(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	var p models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, "/api/proposals", map[string]any{
		"clientId": client.ID,
		"title":    "Maintenance",
		"content":  "Monthly",
	}), http.StatusCreated, &p)
	e.expect(e.do(e.alice, http.MethodPost, proposalPath(p.ID, "/send"), nil), http.StatusOK, nil)

	var declined models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, proposalPath(p.ID, "/decline"), nil), http.StatusOK, &declined)
	if declined.Status != models.ProposalStatusDeclined || declined.DeclinedDate == nil || declined.AcceptedDate != nil {
		t.Fatalf("unexpected declined proposal %+v", declined)
	}

	e.expect(e.do(e.alice, http.MethodDelete, proposalPath(p.ID, ""), nil), http.StatusNoContent, nil)
	e.expectError(e.do(e.alice, http.MethodDelete, proposalPath(p.ID, ""), nil), http.StatusNotFound, "not_found")
}

func TestProposalHandler_ZeroDetachesOnUpdate(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	inv := e.createInvoice(e.alice, client.ID, 300)
	c := e.createContract(e.alice, client.ID, "Retainer")

	var p models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, "/api/proposals", map[string]any{
		"clientId":   client.ID,
		"title":      "Brand refresh",
		"content":    "Scope",
		"invoiceId":  inv.ID,
		"contractId": c.ID,
	}), http.StatusCreated, &p)

	var updated models.Proposal
	e.expect(e.do(e.alice, http.MethodPut, proposalPath(p.ID, ""), map[string]any{"invoiceId": 0}), http.StatusOK, &updated)
	if updated.InvoiceID != nil || updated.ContractID == nil {
		t.Fatalf("expected only the invoice detached got %+v", updated)
	}

	// An absent field leaves the attachment alone; "0" as a string detaches.
	e.expect(e.do(e.alice, http.MethodPut, proposalPath(p.ID, ""), map[string]any{"title": "Renamed"}), http.StatusOK, &updated)
	if updated.ContractID == nil {
		t.Fatalf("contract detached by an unrelated update %+v", updated)
	}
	e.expect(e.do(e.alice, http.MethodPut, proposalPath(p.ID, ""), map[string]any{"contractId": "0"}), http.StatusOK, &updated)

	var got proposalDetail
	e.expect(e.do(e.alice, http.MethodGet, proposalPath(p.ID, ""), nil), http.StatusOK, &got)
	if got.HasInvoice || got.HasContract || got.Title != "Renamed" {
		t.Fatalf("expected no attachments got %+v", got)
	}
}

func TestProposalHandler_StatusIgnoresCase(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")

	var p models.Proposal
	e.expect(e.do(e.alice, http.MethodPost, "/api/proposals", map[string]any{
		"clientId": client.ID, "title": "Audit", "content": "SEO",
	}), http.StatusCreated, &p)
	var sent models.Proposal
	e.expect(e.do(e.alice, http.MethodPut, proposalPath(p.ID, ""), map[string]any{"status": "SENT"}), http.StatusOK, &sent)
	if sent.Status != models.ProposalStatusSent {
		t.Fatalf("expected sent got %s", sent.Status)
	}
}
