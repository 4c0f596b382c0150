package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/feedsieve/internal/api"
	apiMiddleware "github.com/phrazzld/feedsieve/internal/api/middleware"
)

// setupRouter builds the application router. The webhook path embeds
// the configured secret; everything else under /api answers with an
// empty 404, so probing the server reveals no route structure.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Unknown paths and wrong methods both get bodyless 404s.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.RespondNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		api.RespondNotFound(w)
	})

	webhookHandler := api.NewWebhookHandler(app.queue, app.config.Queue.MaxRetries, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhook/"+app.config.Server.WebhookSecret, webhookHandler.HandleNotification)

		// The records API is only mounted when an admin account is
		// configured.
		if app.config.Admin.Username != "" {
			recordsHandler := api.NewRecordsHandler(app.outcomes, app.logger)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.BasicAuth(
					app.config.Admin.Username,
					app.config.Admin.PasswordHash,
					app.logger,
				))
				r.Get("/records", recordsHandler.List)
				r.Get("/records/stats", recordsHandler.Stats)
			})
		}
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
