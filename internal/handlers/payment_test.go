package handlers

import (
	"net/http"
	"testing"

	"github.com/diewo77/clientpath/internal/models"
)

func TestPaymentHandler_CreateMarksInvoicePaid(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	inv := e.createInvoice(e.alice, client.ID, 850)

	var p models.Payment
	e.expect(e.do(e.alice, http.MethodPost, "/api/payments", map[string]any{
		"invoiceId":   inv.ID,
		"amount":      850,
		"paymentDate": "2030-01-15",
		"notes":       "Wire transfer",
	}), http.StatusCreated, &p)
	if p.ID == 0 || p.InvoiceID != inv.ID || p.Amount != 850 {
		t.Fatalf("unexpected payment %+v", p)
	}
	if p.PaymentMethod != models.PaymentMethodManual {
		t.Fatalf("expected default method %q got %q", models.PaymentMethodManual, p.PaymentMethod)
	}

	var got invoiceDetail
	e.expect(e.do(e.alice, http.MethodGet, invoicePath(inv.ID, ""), nil), http.StatusOK, &got)
	if got.Status != models.InvoiceStatusPaid {
		t.Fatalf("expected paid got %s", got.Status)
	}
	if len(got.Payments) != 1 || got.Payments[0].ID != p.ID {
		t.Fatalf("expected the payment on the invoice got %+v", got.Payments)
	}
}

func TestPaymentHandler_ListEnriched(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	inv := e.createInvoice(e.alice, client.ID, 400)
	e.expect(e.do(e.alice, http.MethodPost, "/api/payments", map[string]any{
		"invoiceId":     inv.ID,
		"amount":        400,
		"paymentDate":   "2030-01-15",
		"paymentMethod": "credit_card",
	}), http.StatusCreated, nil)

	var list []paymentView
	e.expect(e.do(e.alice, http.MethodGet, "/api/payments", nil), http.StatusOK, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 payment got %d", len(list))
	}
	if list[0].InvoiceNumber != inv.InvoiceNumber || list[0].ClientName != "Acme" || list[0].PaymentMethod != "credit_card" {
		t.Fatalf("unexpected payment view %+v", list[0])
	}

	var bobs []paymentView
	e.expect(e.do(e.bob, http.MethodGet, "/api/payments", nil), http.StatusOK, &bobs)
	if len(bobs) != 0 {
		t.Fatalf("expected no payments for bob got %d", len(bobs))
	}
}

func TestPaymentHandler_Validation(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	inv := e.createInvoice(e.alice, client.ID, 400)

	body := e.expectError(e.do(e.alice, http.MethodPost, "/api/payments", map[string]any{
		"invoiceId":   inv.ID,
		"amount":      0,
		"paymentDate": "2030-01-15",
	}), http.StatusBadRequest, "validation_failed")
	if body.Details["amount"] != "must_be_positive" {
		t.Fatalf("expected amount must_be_positive got %v", body.Details)
	}

	body = e.expectError(e.do(e.alice, http.MethodPost, "/api/payments", map[string]any{"amount": 10}), http.StatusBadRequest, "validation_failed")
	if body.Details["invoiceId"] != "required" || body.Details["paymentDate"] != "required" {
		t.Fatalf("unexpected details %v", body.Details)
	}
}

func TestPaymentHandler_ForeignInvoice(t *testing.T) {
	e := newEnv(t)
	client := e.createClient(e.alice, "Acme")
	inv := e.createInvoice(e.alice, client.ID, 400)

	e.expectError(e.do(e.bob, http.MethodPost, "/api/payments", map[string]any{
		"invoiceId":   inv.ID,
		"amount":      400,
		"paymentDate": "2030-01-15",
	}), http.StatusNotFound, "not_found")

	var got models.Invoice
	e.expect(e.do(e.alice, http.MethodGet, invoicePath(inv.ID, ""), nil), http.StatusOK, &got)
	if got.Status != models.InvoiceStatusPending {
		t.Fatalf("expected invoice to stay pending got %s", got.Status)
	}
}
