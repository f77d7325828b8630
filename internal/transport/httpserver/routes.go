package httpserver

import (
	"net/http"
	"time"

	"fitness-league-go/internal/config"
	"fitness-league-go/internal/transport/httpserver/handler"
	authmw "fitness-league-go/internal/transport/httpserver/middleware"
	"fitness-league-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		// The backfill bounds each of its own steps and walks every league,
		// so it stays outside the request timeout.
		r.With(authmw.CronSecret(cfg.RestDay.CronSecret)).Post("/cron/rest-days", handlers.RunRestDays)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second))
			r.Get("/health", handlers.Health)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)

				r.Get("/auth/me", handlers.AuthMe)

				r.Route("/leagues/{league_id}", func(r chi.Router) {
					r.Get("/membership", handlers.GetMembership)
					r.Get("/leaderboard", handlers.GetLeaderboard)

					r.Post("/entries", handlers.SubmitEntry)
					r.Post("/entries/{entry_id}/reupload", handlers.ReuploadEntry)
					r.Post("/entries/{entry_id}/validate", handlers.ValidateEntry)

					r.Post("/proofs/upload-url", handlers.CreateProofUploadURL)

					r.Get("/challenges/{challenge_id}/leaderboard", handlers.GetChallengeLeaderboard)
					r.Post("/challenges/{challenge_id}/submissions", handlers.SubmitChallenge)
					r.Post("/challenges/{challenge_id}/submissions/{submission_id}/validate", handlers.ValidateChallengeSubmission)
				})
			})
		})
	})

	return r
}
