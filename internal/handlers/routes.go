package handlers

import (
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// API bundles the resource handlers.
type API struct {
	Auth      *AuthHandler
	Clients   *ClientHandler
	Invoices  *InvoiceHandler
	Contracts *ContractHandler
	Proposals *ProposalHandler
	Meetings  *MeetingHandler
	Payments  *PaymentHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

func NewAPI(store storage.Store, lg *zap.SugaredLogger) *API {
	return &API{
		Auth:      NewAuthHandler(store, lg),
		Clients:   NewClientHandler(store, lg),
		Invoices:  NewInvoiceHandler(store, lg),
		Contracts: NewContractHandler(store, lg),
		Proposals: NewProposalHandler(store, lg),
		Meetings:  NewMeetingHandler(store, lg),
		Payments:  NewPaymentHandler(store, lg),
		Dashboard: NewDashboardHandler(store, lg),
		Health:    NewHealthHandler(store, lg),
	}
}

// PublicRoutes mounts the endpoints that work without a user.
func (a *API) PublicRoutes(r chi.Router) {
	r.Post("/auth/register", a.Auth.Register)
	r.Post("/auth/login", a.Auth.Login)
	r.Post("/auth/logout", a.Auth.Logout)
}

// Routes mounts the endpoints that act on behalf of the current user. The
// caller is expected to put them behind auth.RequireAuth.
func (a *API) Routes(r chi.Router) {
	r.Get("/auth/me", a.Auth.Me)

	r.Get("/dashboard/stats", a.Dashboard.Stats)
	r.Get("/activities/recent", a.Dashboard.RecentActivities)

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", a.Clients.List)
		r.Post("/", a.Clients.Create)
		r.Get("/{id}", a.Clients.Get)
		r.Put("/{id}", a.Clients.Update)
		r.Delete("/{id}", a.Clients.Delete)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", a.Invoices.List)
		r.Post("/", a.Invoices.Create)
		r.Get("/latest", a.Invoices.Latest)
		r.Get("/available", a.Invoices.Available)
		r.Get("/{id}", a.Invoices.Get)
		r.Put("/{id}", a.Invoices.Update)
		r.Delete("/{id}", a.Invoices.Delete)
		r.Post("/{id}/send", a.Invoices.Send)
		r.Post("/{id}/mark-paid", a.Invoices.MarkPaid)
	})

	r.Route("/contracts", func(r chi.Router) {
		r.Get("/", a.Contracts.List)
		r.Post("/", a.Contracts.Create)
		r.Get("/available", a.Contracts.Available)
		r.Get("/{id}", a.Contracts.Get)
		r.Put("/{id}", a.Contracts.Update)
		r.Delete("/{id}", a.Contracts.Delete)
		r.Post("/{id}/send", a.Contracts.Send)
		r.Post("/{id}/mark-signed", a.Contracts.MarkSigned)
	})

	r.Route("/proposals", func(r chi.Router) {
		r.Get("/", a.Proposals.List)
		r.Post("/", a.Proposals.Create)
		r.Get("/{id}", a.Proposals.Get)
		r.Put("/{id}", a.Proposals.Update)
		r.Delete("/{id}", a.Proposals.Delete)
		r.Post("/{id}/send", a.Proposals.Send)
		r.Post("/{id}/accept", a.Proposals.Accept)
		r.Post("/{id}/decline", a.Proposals.Decline)
	})

	r.Route("/meetings", func(r chi.Router) {
		r.Get("/", a.Meetings.List)
		r.Post("/", a.Meetings.Create)
		r.Get("/upcoming", a.Meetings.Upcoming)
		r.Get("/{id}", a.Meetings.Get)
		r.Put("/{id}", a.Meetings.Update)
		r.Delete("/{id}", a.Meetings.Delete)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Get("/", a.Payments.List)
		r.Post("/", a.Payments.Create)
	})
}
