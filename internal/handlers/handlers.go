// Package handlers implements the JSON API. There is one handler type per
// resource; each reads the caller from the request context and goes through
// storage.Store, which scopes every row to that caller.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/clientpath/auth"
	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Fallback names used when an enriched row points at a missing client.
const (
	UnknownClient  = "Unknown Client"
	UnknownProject = "Unknown Project"
)

// base carries what every resource handler needs.
type base struct {
	store storage.Store
	log   *zap.SugaredLogger
}

func newBase(store storage.Store, lg *zap.SugaredLogger) base {
	if lg == nil {
		lg = zap.NewNop().Sugar()
	}
	return base{store: store, log: lg}
}

// currentUser returns the caller or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return 0, false
	}
	return uid, true
}

// pathID parses the {id} route parameter or writes a 400.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}

// decode reads the JSON body into dst and runs its validate tags. extra may
// add rules the tags cannot express. It writes the 400 itself.
func decode(w http.ResponseWriter, r *http.Request, dst any, extra ...func(validation.Violations)) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	v := make(validation.Violations)
	validation.Struct(dst, v)
	for _, fn := range extra {
		fn(v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return false
	}
	return true
}

// fail maps a storage error onto the response envelope. Unknown errors are
// logged and reported as failCode.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, failCode string) {
	var te *models.TransitionError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.As(err, &te):
		httpx.JSONError(w, http.StatusConflict, "invalid_status_transition", map[string]string{
			"from": te.From,
			"to":   te.To,
		})
	case errors.Is(err, storage.ErrInvalidTransition):
		httpx.JSONError(w, http.StatusConflict, "invalid_status_transition", nil)
	case errors.Is(err, storage.ErrConflict):
		httpx.JSONError(w, http.StatusConflict, "conflict", nil)
	case errors.Is(err, storage.ErrInvalidSchedule):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{
			"endDateTime": "must_be_after_start",
		})
	default:
		b.log.Errorw(failCode, "method", r.Method, "path", r.URL.Path, "err", err)
		httpx.JSONError(w, http.StatusInternalServerError, failCode, nil)
	}
}

// clientNames resolves client ids to names for list enrichment, one lookup
// per distinct client.
type clientNames struct {
	ctx    context.Context
	store  storage.ClientStore
	userID uint
	seen   map[uint]*models.Client
}

func (b base) clientNames(ctx context.Context, userID uint) *clientNames {
	return &clientNames{ctx: ctx, store: b.store, userID: userID, seen: make(map[uint]*models.Client)}
}

// get returns the client or nil when it does not exist.
func (c *clientNames) get(id uint) *models.Client {
	if cl, ok := c.seen[id]; ok {
		return cl
	}
	cl, err := c.store.GetClient(c.ctx, c.userID, id)
	if err != nil {
		cl = nil
	}
	c.seen[id] = cl
	return cl
}

// name returns the client's name or fallback.
func (c *clientNames) name(id uint, fallback string) string {
	if cl := c.get(id); cl != nil {
		return cl.Name
	}
	return fallback
}
