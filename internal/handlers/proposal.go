package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/metrics"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/validation"
	"go.uber.org/zap"
)

type ProposalHandler struct {
	base
	now func() time.Time
}

func NewProposalHandler(store storage.Store, lg *zap.SugaredLogger) *ProposalHandler {
	return &ProposalHandler{base: newBase(store, lg), now: time.Now}
}

type proposalRequest struct {
	ClientID   ID     `json:"clientId" validate:"required"`
	Title      string `json:"title" validate:"required,max=255"`
	Content    string `json:"content" validate:"required"`
	InvoiceID  *ID    `json:"invoiceId"`
	ContractID *ID    `json:"contractId"`
	ExpiryDate *Date  `json:"expiryDate"`
}

type proposalPatchRequest struct {
	ClientID     *ID     `json:"clientId" validate:"omitnil,gt=0"`
	Title        *string `json:"title" validate:"omitnil,min=1,max=255"`
	Content      *string `json:"content" validate:"omitnil,min=1"`
	InvoiceID    *ID     `json:"invoiceId"`
	ContractID   *ID     `json:"contractId"`
	Status       *string `json:"status"`
	SentDate     *Date   `json:"sentDate"`
	ExpiryDate   *Date   `json:"expiryDate"`
	AcceptedDate *Date   `json:"acceptedDate"`
	DeclinedDate *Date   `json:"declinedDate"`
}

type proposalView struct {
	models.Proposal
	ClientName  string `json:"clientName"`
	HasInvoice  bool   `json:"hasInvoice"`
	HasContract bool   `json:"hasContract"`
}

type proposalDetail struct {
	proposalView
	ClientEmail   string `json:"clientEmail"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	ContractTitle string `json:"contractTitle,omitempty"`
}

// nonZero treats an explicit 0 id as absent.
func nonZero(id *ID) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id.ptr()
}

// explicitZero reports whether the request sent 0 for id, which detaches
// the attachment on update.
func explicitZero(id *ID) bool {
	return id != nil && *id == 0
}

// ownAttachments checks that the linked invoice and contract belong to the
// caller.
func (h *ProposalHandler) ownAttachments(r *http.Request, uid uint, invoiceID, contractID *uint) func(validation.Violations) {
	return func(v validation.Violations) {
		if invoiceID != nil {
			if _, err := h.store.GetInvoice(r.Context(), uid, *invoiceID); err != nil {
				v["invoiceId"] = "not_found"
			}
		}
		if contractID != nil {
			if _, err := h.store.GetContract(r.Context(), uid, *contractID); err != nil {
				v["contractId"] = "not_found"
			}
		}
	}
}

func (h *ProposalHandler) view(names *clientNames, p models.Proposal) proposalView {
	return proposalView{
		Proposal:    p,
		ClientName:  names.name(p.ClientID, UnknownClient),
		HasInvoice:  p.HasInvoice(),
		HasContract: p.HasContract(),
	}
}

func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	proposals, err := h.store.ListProposals(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_proposals")
		return
	}
	names := h.clientNames(r.Context(), uid)
	out := make([]proposalView, len(proposals))
	for i, p := range proposals {
		out[i] = h.view(names, p)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.store.GetProposal(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_proposal")
		return
	}
	names := h.clientNames(r.Context(), uid)
	out := proposalDetail{proposalView: h.view(names, *p)}
	if c := names.get(p.ClientID); c != nil {
		out.ClientEmail = c.Email
	}
	if p.InvoiceID != nil {
		if inv, err := h.store.GetInvoice(r.Context(), uid, *p.InvoiceID); err == nil {
			out.InvoiceNumber = inv.InvoiceNumber
		}
	}
	if p.ContractID != nil {
		if c, err := h.store.GetContract(r.Context(), uid, *p.ContractID); err == nil {
			out.ContractTitle = c.Title
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create stores a new draft. Transition dates are set by the transition
// endpoints only.
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req proposalRequest
	if !decode(w, r, &req, func(v validation.Violations) {
		h.ownClient(r, uid, req.ClientID.ptr())(v)
		h.ownAttachments(r, uid, nonZero(req.InvoiceID), nonZero(req.ContractID))(v)
	}) {
		return
	}
	p := models.Proposal{
		ClientID:   uint(req.ClientID),
		Title:      req.Title,
		Content:    req.Content,
		InvoiceID:  nonZero(req.InvoiceID),
		ContractID: nonZero(req.ContractID),
		Status:     models.ProposalStatusDraft,
		ExpiryDate: req.ExpiryDate.ptr(),
	}
	if err := h.store.CreateProposal(r.Context(), uid, &p); err != nil {
		h.fail(w, r, err, "failed_to_create_proposal")
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProposalHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req proposalPatchRequest
	var status *models.ProposalStatus
	if !decode(w, r, &req, func(v validation.Violations) {
		h.ownClient(r, uid, req.ClientID.ptr())(v)
		h.ownAttachments(r, uid, nonZero(req.InvoiceID), nonZero(req.ContractID))(v)
		status = parseEnum(v, "status", req.Status, models.ParseProposalStatus)
	}) {
		return
	}
	h.update(w, r, uid, id, storage.ProposalPatch{
		ClientID:      req.ClientID.ptr(),
		Title:         req.Title,
		Content:       req.Content,
		InvoiceID:     nonZero(req.InvoiceID),
		ContractID:    nonZero(req.ContractID),
		ClearInvoice:  explicitZero(req.InvoiceID),
		ClearContract: explicitZero(req.ContractID),
		Status:        status,
		SentDate:      req.SentDate.ptr(),
		ExpiryDate:    req.ExpiryDate.ptr(),
		AcceptedDate:  req.AcceptedDate.ptr(),
		DeclinedDate:  req.DeclinedDate.ptr(),
	}, "failed_to_update_proposal")
}

func (h *ProposalHandler) update(w http.ResponseWriter, r *http.Request, uid, id uint, patch storage.ProposalPatch, failCode string) {
	before, err := h.store.GetProposal(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, failCode)
		return
	}
	p, err := h.store.UpdateProposal(r.Context(), uid, id, patch)
	if err != nil {
		h.fail(w, r, err, failCode)
		return
	}
	if p.Status != before.Status {
		metrics.RecordTransition(models.EntityProposal, string(p.Status))
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteProposal(r.Context(), uid, id); err != nil {
		h.fail(w, r, err, "failed_to_delete_proposal")
		return
	}
	httpx.NoContent(w)
}

// transition returns a handler that moves the proposal to status and stamps
// the matching date.
func (h *ProposalHandler) transition(status models.ProposalStatus, stamp func(*storage.ProposalPatch, *time.Time), failCode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		s, now := status, h.now()
		patch := storage.ProposalPatch{Status: &s}
		stamp(&patch, &now)
		h.update(w, r, uid, id, patch, failCode)
	}
}

func (h *ProposalHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.transition(models.ProposalStatusSent, func(p *storage.ProposalPatch, t *time.Time) { p.SentDate = t },
		"failed_to_send_proposal")(w, r)
}

func (h *ProposalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(models.ProposalStatusAccepted, func(p *storage.ProposalPatch, t *time.Time) { p.AcceptedDate = t },
		"failed_to_accept_proposal")(w, r)
}

func (h *ProposalHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(models.ProposalStatusDeclined, func(p *storage.ProposalPatch, t *time.Time) { p.DeclinedDate = t },
		"failed_to_decline_proposal")(w, r)
}
