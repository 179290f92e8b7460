package handlers

import (
	"net/http"

	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/metrics"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	base
}

func NewPaymentHandler(store storage.Store, lg *zap.SugaredLogger) *PaymentHandler {
	return &PaymentHandler{base: newBase(store, lg)}
}

type paymentRequest struct {
	InvoiceID     ID      `json:"invoiceId" validate:"required"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	PaymentDate   Date    `json:"paymentDate" validate:"required"`
	PaymentMethod string  `json:"paymentMethod" validate:"max=50"`
	Notes         string  `json:"notes"`
}

type paymentView struct {
	models.Payment
	InvoiceNumber string `json:"invoiceNumber"`
	ClientName    string `json:"clientName"`
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	payments, err := h.store.ListPayments(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_payments")
		return
	}
	names := h.clientNames(r.Context(), uid)
	invoices := make(map[uint]*models.Invoice)
	out := make([]paymentView, len(payments))
	for i, p := range payments {
		out[i] = paymentView{Payment: p, ClientName: UnknownClient}
		inv, seen := invoices[p.InvoiceID]
		if !seen {
			inv, _ = h.store.GetInvoice(r.Context(), uid, p.InvoiceID)
			invoices[p.InvoiceID] = inv
		}
		if inv != nil {
			out[i].InvoiceNumber = inv.InvoiceNumber
			out[i].ClientName = names.name(inv.ClientID, UnknownClient)
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create records a payment and marks its invoice paid in one step.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if !decode(w, r, &req) {
		return
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodManual
	}
	p := models.Payment{
		InvoiceID:     uint(req.InvoiceID),
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate.Time,
		PaymentMethod: method,
		Notes:         req.Notes,
	}
	before, err := h.store.GetInvoice(r.Context(), uid, p.InvoiceID)
	if err != nil {
		h.fail(w, r, err, "failed_to_create_payment")
		return
	}
	if _, err := h.store.CreatePayment(r.Context(), uid, &p); err != nil {
		h.fail(w, r, err, "failed_to_create_payment")
		return
	}
	metrics.RecordPayment()
	if !before.IsPaid() {
		metrics.RecordTransition(models.EntityInvoice, string(models.InvoiceStatusPaid))
	}
	httpx.JSON(w, http.StatusCreated, p)
}
