package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/clientpath/auth"
	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"go.uber.org/zap"
)

type AuthHandler struct {
	base
}

func NewAuthHandler(store storage.Store, lg *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{base: newBase(store, lg)}
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=6"`
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"fullName" validate:"required"`
	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// startSession issues a bearer token and the session cookie for u.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, u *models.User) {
	token, err := auth.Sign(u.ID)
	if err != nil {
		h.fail(w, r, err, "failed_to_sign_token")
		return
	}
	auth.CreateSession(w, u.ID)
	httpx.JSON(w, status, sessionResponse{User: u, Token: token})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(w, r, err, "failed_to_create_user")
		return
	}
	u := models.User{
		Username:    req.Username,
		Password:    hash,
		Email:       req.Email,
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
	}
	if err := h.store.CreateUser(r.Context(), &u); err != nil {
		h.fail(w, r, err, "failed_to_create_user")
		return
	}
	h.log.Infow("user registered", "user_id", u.ID)
	h.startSession(w, r, http.StatusCreated, &u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.fail(w, r, err, "failed_to_login")
		return
	}
	if u == nil || !auth.CheckPassword(u.Password, req.Password) {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	h.startSession(w, r, http.StatusOK, u)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	u, err := h.store.GetUser(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_user")
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
