package httpapi

import (
	stdhttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ainaphakhruddin/airchives/internal/http/handlers"
	"github.com/ainaphakhruddin/airchives/internal/middleware"
)

// NewRouter assembles the public API surface around the pipeline.
func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(app.Config.FrontendURL))

	r.Get("/health", app.Health)

	r.Route("/api/garments", func(r chi.Router) {
		r.Post("/", app.CreateGarment)
		r.Get("/", app.ListGarments)
		r.Get("/{id}", app.GetGarment)
		r.Delete("/{id}", app.DeleteGarment)
	})

	r.Route("/api/generate", func(r chi.Router) {
		r.Post("/", app.CreateGeneration)
		r.Get("/", app.ListGenerations)
		r.Get("/{id}", app.GetGeneration)
		r.Get("/{id}/download", app.DownloadGeneration)
		r.Post("/{id}/images/{imageID}/favorite", app.FavoriteImage)
	})

	r.Get("/api/models", app.ListModels)

	// Locally stored artifacts (uploads, masks, generated outputs).
	if app.Store != nil {
		fileServer := stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(app.Store.BasePath())))
		r.Get("/static/*", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			if strings.Contains(req.URL.Path, "..") {
				stdhttp.NotFound(w, req)
				return
			}
			fileServer.ServeHTTP(w, req)
		})
	}

	return r
}
