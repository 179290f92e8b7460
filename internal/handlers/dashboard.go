package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/services"
	"github.com/diewo77/clientpath/internal/storage"
	"go.uber.org/zap"
)

// DashboardHandler serves the dashboard cards and the recent activity feed.
type DashboardHandler struct {
	base
	cards *services.DashboardService
	now   func() time.Time
}

func NewDashboardHandler(store storage.Store, lg *zap.SugaredLogger) *DashboardHandler {
	return &DashboardHandler{base: newBase(store, lg), cards: services.NewDashboardService(), now: time.Now}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	stats, err := h.store.DashboardStats(r.Context(), uid, h.now())
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_dashboard_stats")
		return
	}
	httpx.JSON(w, http.StatusOK, h.cards.Cards(stats))
}

func (h *DashboardHandler) RecentActivities(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	activities, err := h.store.RecentActivities(r.Context(), uid, storage.DefaultRecentActivities)
	if err != nil {
		h.fail(w, r, err, "failed_to_fetch_recent_activities")
		return
	}
	out := make([]services.RecentActivity, len(activities))
	for i, a := range activities {
		out[i] = services.RecentView(a)
	}
	httpx.JSON(w, http.StatusOK, out)
}
