package handlers

import (
	"net/http"

	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/validation"
	"go.uber.org/zap"
)

type ClientHandler struct {
	base
}

func NewClientHandler(store storage.Store, lg *zap.SugaredLogger) *ClientHandler {
	return &ClientHandler{base: newBase(store, lg)}
}

type clientRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	Country     string `json:"country"`
	Notes       string `json:"notes"`
	Status      string `json:"status"`
}

type clientPatchRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Email       *string `json:"email" validate:"omitnil,email"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"companyName"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zipCode"`
	Country     *string `json:"country"`
	Notes       *string `json:"notes"`
	Status      *string `json:"status"`
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	clients, err := h.store.ListClients(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_clients")
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	httpx.JSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.store.GetClient(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_client")
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req clientRequest
	var status *models.ClientStatus
	if !decode(w, r, &req, func(v validation.Violations) {
		status = parseEnum(v, "status", optional(req.Status), models.ParseClientStatus)
	}) {
		return
	}
	c := models.Client{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Country:     req.Country,
		Notes:       req.Notes,
	}
	if status != nil {
		c.Status = *status
	}
	if err := h.store.CreateClient(r.Context(), uid, &c); err != nil {
		h.fail(w, r, err, "failed_to_create_client")
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req clientPatchRequest
	var status *models.ClientStatus
	if !decode(w, r, &req, func(v validation.Violations) {
		status = parseEnum(v, "status", req.Status, models.ParseClientStatus)
	}) {
		return
	}
	c, err := h.store.UpdateClient(r.Context(), uid, id, storage.ClientPatch{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Country:     req.Country,
		Notes:       req.Notes,
		Status:      status,
	})
	if err != nil {
		h.fail(w, r, err, "failed_to_update_client")
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteClient(r.Context(), uid, id); err != nil {
		h.fail(w, r, err, "failed_to_delete_client")
		return
	}
	httpx.NoContent(w)
}
