package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/stocktag-api/internal/api"
	apiMiddleware "github.com/phrazzld/stocktag-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	uploadHandler := api.NewUploadHandler(app.storage, app.logger)
	jobHandler := api.NewJobHandler(app.jobService, app.logger)
	exportHandler := api.NewExportHandler(app.exportService, app.config.Export.FTPHost, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", uploadHandler.CreateSession)
		r.Post("/jobs", jobHandler.SubmitJob)
		r.Get("/jobs/{id}", jobHandler.GetJob)
		r.Post("/export", exportHandler.Export)
	})

	// Session images are served statically so the frontend can preview them.
	fileServer := http.StripPrefix("/temp/", http.FileServer(http.Dir(app.storage.Root())))
	r.Get("/temp/*", fileServer.ServeHTTP)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
