package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/metrics"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/services"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/validation"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	base
	invoices *services.InvoiceService
	now      func() time.Time
}

func NewInvoiceHandler(store storage.Store, lg *zap.SugaredLogger) *InvoiceHandler {
	return &InvoiceHandler{
		base:     newBase(store, lg),
		invoices: services.NewInvoiceService(store),
		now:      time.Now,
	}
}

type invoiceRequest struct {
	ClientID      ID       `json:"clientId" validate:"required"`
	InvoiceNumber string   `json:"invoiceNumber" validate:"max=50"`
	IssueDate     Date     `json:"issueDate" validate:"required"`
	DueDate       Date     `json:"dueDate" validate:"required"`
	Status        string   `json:"status"`
	Subtotal      *float64 `json:"subtotal" validate:"omitnil,gte=0"`
	Tax           float64  `json:"tax" validate:"gte=0"`
	Discount      float64  `json:"discount" validate:"gte=0"`
	Total         *float64 `json:"total" validate:"omitnil,gte=0"`
	Notes         string   `json:"notes"`
	Terms         string   `json:"terms"`
	Items         Items    `json:"items" validate:"required,min=1,dive"`
}

type invoicePatchRequest struct {
	ClientID      *ID      `json:"clientId" validate:"omitnil,gt=0"`
	InvoiceNumber *string  `json:"invoiceNumber" validate:"omitnil,min=1,max=50"`
	IssueDate     *Date    `json:"issueDate"`
	DueDate       *Date    `json:"dueDate"`
	Status        *string  `json:"status"`
	Subtotal      *float64 `json:"subtotal" validate:"omitnil,gte=0"`
	Tax           *float64 `json:"tax" validate:"omitnil,gte=0"`
	Discount      *float64 `json:"discount" validate:"omitnil,gte=0"`
	Total         *float64 `json:"total" validate:"omitnil,gte=0"`
	Notes         *string  `json:"notes"`
	Terms         *string  `json:"terms"`
	Items         *Items   `json:"items" validate:"omitnil,min=1,dive"`
}

type invoiceView struct {
	models.Invoice
	ClientName string `json:"clientName"`
}

type invoiceDetail struct {
	models.Invoice
	ClientName        string           `json:"clientName"`
	ClientEmail       string           `json:"clientEmail"`
	ClientCompanyName string           `json:"clientCompanyName"`
	ClientAddress     string           `json:"clientAddress"`
	Payments          []models.Payment `json:"payments"`
}

type latestInvoice struct {
	ID            uint                 `json:"id"`
	InvoiceNumber string               `json:"invoiceNumber"`
	ClientName    string               `json:"clientName"`
	ProjectName   string               `json:"projectName"`
	Amount        float64              `json:"amount"`
	Status        models.InvoiceStatus `json:"status"`
	DueDate       time.Time            `json:"dueDate"`
}

type invoiceOption struct {
	ID            uint   `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
}

type markPaidResponse struct {
	Invoice *models.Invoice `json:"invoice"`
	Payment *models.Payment `json:"payment"`
}

// ownClient checks that clientID names one of the caller's clients.
func (b base) ownClient(r *http.Request, uid uint, clientID *uint) func(validation.Violations) {
	return func(v validation.Violations) {
		if clientID == nil || *clientID == 0 {
			return
		}
		if _, err := b.store.GetClient(r.Context(), uid, *clientID); err != nil {
			if _, seen := v["clientId"]; !seen {
				v["clientId"] = "not_found"
			}
		}
	}
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	invoices, err := h.store.ListInvoices(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_invoices")
		return
	}
	names := h.clientNames(r.Context(), uid)
	out := make([]invoiceView, len(invoices))
	for i, inv := range invoices {
		out[i] = invoiceView{Invoice: inv, ClientName: names.name(inv.ClientID, UnknownClient)}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *InvoiceHandler) Latest(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	invoices, err := h.store.LatestInvoices(r.Context(), uid, storage.DefaultLatestInvoices)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_latest_invoices")
		return
	}
	names := h.clientNames(r.Context(), uid)
	out := make([]latestInvoice, len(invoices))
	for i, inv := range invoices {
		project := inv.ProjectName()
		if project == "" {
			project = UnknownProject
		}
		out[i] = latestInvoice{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			ClientName:    names.name(inv.ClientID, UnknownClient),
			ProjectName:   project,
			Amount:        inv.Total,
			Status:        inv.Status,
			DueDate:       inv.DueDate,
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *InvoiceHandler) Available(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	invoices, err := h.store.AvailableInvoices(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_available_invoices")
		return
	}
	out := make([]invoiceOption, len(invoices))
	for i, inv := range invoices {
		out[i] = invoiceOption{ID: inv.ID, InvoiceNumber: inv.InvoiceNumber}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, err := h.store.GetInvoice(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_invoice")
		return
	}
	payments, err := h.store.ListPaymentsByInvoice(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_invoice")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	out := invoiceDetail{Invoice: *inv, ClientName: UnknownClient, Payments: payments}
	if c := h.clientNames(r.Context(), uid).get(inv.ClientID); c != nil {
		out.ClientName = c.Name
		out.ClientEmail = c.Email
		out.ClientCompanyName = c.CompanyName
		out.ClientAddress = c.FullAddress()
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req invoiceRequest
	var status *models.InvoiceStatus
	if !decode(w, r, &req, func(v validation.Violations) {
		h.ownClient(r, uid, req.ClientID.ptr())(v)
		status = parseEnum(v, "status", optional(req.Status), models.ParseInvoiceStatus)
		// Paid is reached by recording a payment.
		if status != nil && *status == models.InvoiceStatusPaid {
			v["status"] = "invalid_value"
		}
	}) {
		return
	}
	inv := models.Invoice{
		ClientID:      uint(req.ClientID),
		InvoiceNumber: req.InvoiceNumber,
		IssueDate:     req.IssueDate.Time,
		DueDate:       req.DueDate.Time,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Notes:         req.Notes,
		Terms:         req.Terms,
		Items:         req.Items.models(),
	}
	if status != nil {
		inv.Status = *status
	}
	supplied := services.Supplied{Subtotal: req.Subtotal != nil, Total: req.Total != nil}
	if supplied.Subtotal {
		inv.Subtotal = *req.Subtotal
	}
	if supplied.Total {
		inv.Total = *req.Total
	}
	if err := h.invoices.Create(r.Context(), uid, &inv, supplied); err != nil {
		h.fail(w, r, err, "failed_to_create_invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req invoicePatchRequest
	var status *models.InvoiceStatus
	if !decode(w, r, &req, func(v validation.Violations) {
		h.ownClient(r, uid, req.ClientID.ptr())(v)
		status = parseEnum(v, "status", req.Status, models.ParseInvoiceStatus)
	}) {
		return
	}
	patch := storage.InvoicePatch{
		ClientID:      req.ClientID.ptr(),
		InvoiceNumber: req.InvoiceNumber,
		IssueDate:     req.IssueDate.ptr(),
		DueDate:       req.DueDate.ptr(),
		Status:        status,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Total:         req.Total,
		Notes:         req.Notes,
		Terms:         req.Terms,
	}
	if req.Items != nil {
		items := req.Items.models()
		patch.Items = &items
	}
	h.update(w, r, uid, id, patch, "failed_to_update_invoice")
}

func (h *InvoiceHandler) update(w http.ResponseWriter, r *http.Request, uid, id uint, patch storage.InvoicePatch, failCode string) {
	before, err := h.store.GetInvoice(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, failCode)
		return
	}
	inv, err := h.store.UpdateInvoice(r.Context(), uid, id, patch)
	if err != nil {
		h.fail(w, r, err, failCode)
		return
	}
	if inv.Status != before.Status {
		metrics.RecordTransition(models.EntityInvoice, string(inv.Status))
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteInvoice(r.Context(), uid, id); err != nil {
		h.fail(w, r, err, "failed_to_delete_invoice")
		return
	}
	httpx.NoContent(w)
}

// Send moves the invoice to sent.
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sent := models.InvoiceStatusSent
	h.update(w, r, uid, id, storage.InvoicePatch{Status: &sent}, "failed_to_send_invoice")
}

// MarkPaid records a manual payment for the invoice total. Calling it again
// on a paid invoice records another payment.
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	before, err := h.store.GetInvoice(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, "failed_to_mark_invoice_paid")
		return
	}
	p := models.Payment{
		InvoiceID:     id,
		Amount:        before.Total,
		PaymentDate:   h.now(),
		PaymentMethod: models.PaymentMethodManual,
		Notes:         models.ManualPaymentNotes,
	}
	inv, err := h.store.CreatePayment(r.Context(), uid, &p)
	if err != nil {
		h.fail(w, r, err, "failed_to_mark_invoice_paid")
		return
	}
	metrics.RecordPayment()
	if !before.IsPaid() {
		metrics.RecordTransition(models.EntityInvoice, string(models.InvoiceStatusPaid))
	}
	httpx.JSON(w, http.StatusOK, markPaidResponse{Invoice: inv, Payment: &p})
}
