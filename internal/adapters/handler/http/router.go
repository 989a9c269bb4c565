package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, authHandler *AuthHandler, userHandler *UserHandler, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(SessionMiddleware(jwtSecret))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/polls", func(r chi.Router) {
			r.Post("/", pollHandler.CreatePoll)
			r.Get("/{id}", pollHandler.GetPoll)
			r.Get("/{id}/results", pollHandler.GetResults)
			r.Put("/{id}", pollHandler.UpdatePoll)
			r.Delete("/{id}", pollHandler.DeletePoll)
			r.Post("/{id}/votes", voteHandler.SubmitVote)
		})

		if authHandler != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/google/callback", authHandler.GoogleCallback)
				r.Post("/refresh", authHandler.Refresh)
				r.Post("/logout", authHandler.Logout)
			})
		}

		if userHandler != nil {
			r.Get("/me", userHandler.GetMe)
		}
	})

	return r
}
