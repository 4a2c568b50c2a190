package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/campaign-console/internal/auth"
)

// SetupRoutes builds the router: open health and auth endpoints, then the
// authenticated /api tree.
func SetupRoutes(h *Handlers, authManager *auth.Manager) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// CORS allows credentials so the session cookie travels with API calls.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Get("/auth/login", authManager.HandleLogin)
	r.Get("/auth/callback", authManager.HandleCallback)
	r.Get("/auth/logout", authManager.HandleLogout)
	r.Get("/auth/user", authManager.HandleUserInfo)

	r.Route("/api", func(r chi.Router) {
		r.Use(authManager.RequireAuth)

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/report", h.GetReport)
			r.Post("/export", h.ExportReport)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", h.ListCampaigns)
			r.Post("/", h.CreateCampaign)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetCampaign)
				r.Put("/", h.UpdateCampaign)
				r.Delete("/", h.DeleteCampaign)
				r.Post("/schedule", h.ScheduleCampaign)
				r.Post("/send", h.SendCampaign)
				r.Post("/cancel", h.CancelCampaign)
				r.Post("/test-send", h.TestSendCampaign)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.ListContacts)
			r.Post("/", h.CreateContact)
			r.Post("/import", h.ImportContacts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetContact)
				r.Put("/", h.UpdateContact)
				r.Delete("/", h.DeleteContact)
				r.Post("/unsubscribe", h.UnsubscribeContact)
				r.Post("/resubscribe", h.ResubscribeContact)
			})
		})
	})

	return r
}
