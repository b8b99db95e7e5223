package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tubelens-backend/internal/handlers"
	"tubelens-backend/internal/middleware"
)

func New(
	keywordHandler *handlers.KeywordHandler,
	titleHandler *handlers.TitleHandler,
	ideaHandler *handlers.IdeaHandler,
	videoHandler *handlers.VideoHandler,
	creditHandler *handlers.CreditHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))
	r.Use(middleware.UserContext)

	// Analysis and generation hit external quotas (30 req/min per IP)
	analysisLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Keyword Routes ────
		r.Route("/keywords", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(analysisLimiter.Middleware)
				r.Post("/analyze", keywordHandler.Analyze)
			})
			r.Get("/health", keywordHandler.Health)
			r.Get("/trending", keywordHandler.Trending)
			r.Get("/{id}", keywordHandler.Details)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/history", keywordHandler.History)
			})
		})

		// ──── Title Routes ────
		r.Route("/titles", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(analysisLimiter.Middleware)
				r.Post("/generate", titleHandler.Generate)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/favorites", titleHandler.Favorites)
				r.Put("/{id}/favorite", titleHandler.ToggleFavorite)
			})
		})

		// ──── Idea Routes ────
		r.Route("/ideas", func(r chi.Router) {
			r.Get("/", ideaHandler.List)
			r.Post("/refresh", ideaHandler.Refresh)
		})

		// ──── Video Routes ────
		r.Route("/videos", func(r chi.Router) {
			r.Get("/trending", videoHandler.Trending)
		})

		// ──── Credit Routes ────
		r.Route("/credits", func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/", creditHandler.Balance)
		})
	})

	return r
}
