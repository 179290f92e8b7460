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

type ContractHandler struct {
	base
	now func() time.Time
}

func NewContractHandler(store storage.Store, lg *zap.SugaredLogger) *ContractHandler {
	return &ContractHandler{base: newBase(store, lg), now: time.Now}
}

type contractRequest struct {
	ClientID   ID     `json:"clientId" validate:"required"`
	Title      string `json:"title" validate:"required,max=255"`
	Content    string `json:"content" validate:"required"`
	ExpiryDate *Date  `json:"expiryDate"`
}

type contractPatchRequest struct {
	ClientID   *ID     `json:"clientId" validate:"omitnil,gt=0"`
	Title      *string `json:"title" validate:"omitnil,min=1,max=255"`
	Content    *string `json:"content" validate:"omitnil,min=1"`
	Status     *string `json:"status"`
	SentDate   *Date   `json:"sentDate"`
	SignedDate *Date   `json:"signedDate"`
	ExpiryDate *Date   `json:"expiryDate"`
}

type contractView struct {
	models.Contract
	ClientName string `json:"clientName"`
}

type contractOption struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	contracts, err := h.store.ListContracts(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_contracts")
		return
	}
	names := h.clientNames(r.Context(), uid)
	out := make([]contractView, len(contracts))
	for i, c := range contracts {
		out[i] = contractView{Contract: c, ClientName: names.name(c.ClientID, UnknownClient)}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ContractHandler) Available(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	contracts, err := h.store.AvailableContracts(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_available_contracts")
		return
	}
	out := make([]contractOption, len(contracts))
	for i, c := range contracts {
		out[i] = contractOption{ID: c.ID, Title: c.Title}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.store.GetContract(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_contract")
		return
	}
	name := h.clientNames(r.Context(), uid).name(c.ClientID, UnknownClient)
	httpx.JSON(w, http.StatusOK, contractView{Contract: *c, ClientName: name})
}

// Create stores a new draft. Sent and signed dates are set by the
// transition endpoints only.
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req contractRequest
	if !decode(w, r, &req, func(v validation.Violations) {
		h.ownClient(r, uid, req.ClientID.ptr())(v)
	}) {
		return
	}
	c := models.Contract{
		ClientID:   uint(req.ClientID),
		Title:      req.Title,
		Content:    req.Content,
		Status:     models.ContractStatusDraft,
		ExpiryDate: req.ExpiryDate.ptr(),
	}
	if err := h.store.CreateContract(r.Context(), uid, &c); err != nil {
		h.fail(w, r, err, "failed_to_create_contract")
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req contractPatchRequest
	var status *models.ContractStatus
	if !decode(w, r, &req, func(v validation.Violations) {
		h.ownClient(r, uid, req.ClientID.ptr())(v)
		status = parseEnum(v, "status", req.Status, models.ParseContractStatus)
	}) {
		return
	}
	h.update(w, r, uid, id, storage.ContractPatch{
		ClientID:   req.ClientID.ptr(),
		Title:      req.Title,
		Content:    req.Content,
		Status:     status,
		SentDate:   req.SentDate.ptr(),
		SignedDate: req.SignedDate.ptr(),
		ExpiryDate: req.ExpiryDate.ptr(),
	}, "failed_to_update_contract")
}

func (h *ContractHandler) update(w http.ResponseWriter, r *http.Request, uid, id uint, patch storage.ContractPatch, failCode string) {
	before, err := h.store.GetContract(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, failCode)
		return
	}
	c, err := h.store.UpdateContract(r.Context(), uid, id, patch)
	if err != nil {
		h.fail(w, r, err, failCode)
		return
	}
	if c.Status != before.Status {
		metrics.RecordTransition(models.EntityContract, string(c.Status))
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteContract(r.Context(), uid, id); err != nil {
		h.fail(w, r, err, "failed_to_delete_contract")
		return
	}
	httpx.NoContent(w)
}

// Send moves the contract to sent and stamps the sent date.
func (h *ContractHandler) Send(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	status, now := models.ContractStatusSent, h.now()
	h.update(w, r, uid, id, storage.ContractPatch{Status: &status, SentDate: &now}, "failed_to_send_contract")
}

// MarkSigned moves the contract to signed and stamps the signed date.
func (h *ContractHandler) MarkSigned(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	status, now := models.ContractStatusSigned, h.now()
	h.update(w, r, uid, id, storage.ContractPatch{Status: &status, SignedDate: &now}, "failed_to_mark_contract_signed")
}
