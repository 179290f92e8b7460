package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/clientpath/httpx"
	"go.uber.org/zap"
)

// Pinger reports whether a backend can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
	log   *zap.SugaredLogger
}

func NewHealthHandler(store Pinger, lg *zap.SugaredLogger) *HealthHandler {
	if lg == nil {
		lg = zap.NewNop().Sugar()
	}
	return &HealthHandler{store: store, log: lg}
}

// Live always answers ok while the process is up.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready pings the store.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warnw("readiness check failed", "err", err)
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
