package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/mauv0809/squad-roster/internal/http/handlers"
	"github.com/mauv0809/squad-roster/internal/roster"
)

// NewServer wires the routes onto a fresh router. Every field of s except Router must be set.
func NewServer(s Server) *Server {
	server := &s
	server.Router = chi.NewRouter()
	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(cors.Handler(corsOptions(s.Cfg.AllowedOrigins)))
	r.Use(paramsMiddleware)

	r.Handle("/metrics", s.MetricsHandler)
	r.Get("/health", handlers.HealthCheckHandler())
	r.Post("/login", handlers.LoginHandler(s.Roster, s.Issuer, s.Activity, s.Metrics))
	r.Get("/public/roster", handlers.PublicRosterHandler(s.Leaderboard))

	r.Post("/pubsub/match-events", handlers.MatchEventHandler(s.Leaderboard, s.Notifier, s.PubSub))

	r.Group(func(r chi.Router) {
		r.Use(slackVerifyMiddleware(s.Cfg.Slack.SigningSecret))
		r.Post("/slack/command/leaderboard", handlers.LeaderboardCommandHandler(s.Leaderboard, s.Notifier))
		r.Post("/slack/command/player-stats", handlers.PlayerStatsCommandHandler(s.Leaderboard, s.Notifier))
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(s.Issuer, s.Roster))

		r.Post("/logout", handlers.LogoutHandler(s.Activity))
		r.Get("/dashboard", handlers.DashboardHandler(s.Roster, s.Leaderboard, s.Announcements, s.Counters))
		r.Put("/profile", handlers.UpdateProfileHandler(s.Roster))
		r.Post("/password", handlers.ChangePasswordHandler(s.Roster, s.Activity))

		r.Post("/matches", handlers.SubmitMatchHandler(s.Recorder, s.Cfg.MaxUploadBytes))
		r.Put("/matches/{id}", handlers.EditMatchHandler(s.Recorder, s.Cfg.MaxUploadBytes))
		r.Delete("/matches/{id}", handlers.DeleteMatchHandler(s.Recorder))
		r.Get("/matches/mine", handlers.MyMatchesHandler(s.Stats))

		r.Get("/leaderboard", handlers.LeaderboardHandler(s.Leaderboard))
		r.Get("/report", handlers.ReportHandler(s.Leaderboard))
		r.Get("/report/csv", handlers.ReportCSVHandler(s.Leaderboard))
		r.Get("/players/{player}/profile", handlers.ProfileHandler(s.Leaderboard))
		r.Get("/players/{player}/graph", handlers.GraphHandler(s.Leaderboard))

		r.Get("/announcements", handlers.ListAnnouncementsHandler(s.Announcements))
		r.Get("/notifications", handlers.ListNotificationsHandler(s.Announcements))
		r.With(requireRole(roster.RoleAdmin, roster.RolePlayer)).Post("/notifications", handlers.AddNotificationHandler(s.Announcements))
		r.With(requireRole(roster.RoleAdmin, roster.RolePlayer)).Post("/attendance", handlers.MarkAttendanceHandler(s.Attendance, s.Activity, s.Counters))

		r.Group(func(r chi.Router) {
			r.Use(requireRole(roster.RoleAdmin))

			r.Get("/players", handlers.ListPlayersHandler(s.Roster))
			r.Post("/players", handlers.CreatePlayerHandler(s.Roster))
			r.Post("/players/{player}/deactivate", handlers.PlayerTransitionHandler(s.Roster.Deactivate))
			r.Post("/players/{player}/restore", handlers.PlayerTransitionHandler(s.Roster.Restore))
			r.Post("/players/{player}/toggle-role", handlers.PlayerTransitionHandler(s.Roster.ToggleRole))

			r.Get("/proofs", handlers.ProofsHandler(s.Stats))
			r.Get("/uploads/{name}", handlers.UploadHandler(s.Files))
			r.Post("/announcements", handlers.PostAnnouncementHandler(s.Announcements, s.Notifier, s.PubSub))
			r.Delete("/notifications/{id}", handlers.DeleteNotificationHandler(s.Announcements))
			r.Get("/attendance", handlers.ListAttendanceHandler(s.Attendance))
			r.Get("/activity", handlers.ActivityHandler(s.Activity))
		})
	})
}

func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
		opts.AllowCredentials = true
	} else {
		opts.AllowedOrigins = []string{"*"}
	}
	return opts
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
