package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/activity"
	"github.com/mauv0809/squad-roster/internal/announcement"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/leaderboard"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/roster"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      roster.Player `json:"user"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// LoginHandler checks credentials and issues a session token, both in the body and as a cookie.
// Deactivated members cannot log in.
func LoginHandler(members roster.RosterStore, issuer *auth.Issuer, activityStore activity.ActivityStore, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			RespondError(w, err)
			return
		}

		p, err := members.GetByUsername(r.Context(), req.Username)
		if err != nil && !apperr.IsNotFound(err) {
			RespondError(w, err)
			return
		}
		if err != nil || !p.Active || !auth.CheckPassword(req.Password, p.PasswordHash) {
			m.IncFailedLogins()
			log.Warn("Failed login", "username", req.Username)
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
			return
		}

		actor := auth.ActorOf(p)
		token, exp, err := issuer.Issue(actor)
		if err != nil {
			RespondError(w, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			Expires:  exp,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		if err := activityStore.Record(r.Context(), activity.Entry{UserID: p.ID, Username: p.Username, Action: activity.ActionLogin}); err != nil {
			log.Error("Failed to record login", "error", err)
		}
		respondJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: exp, User: p})
	}
}

// LogoutHandler clears the session cookie. Bearer tokens simply expire.
func LogoutHandler(activityStore activity.ActivityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorFrom(r)
		if err := activityStore.Record(r.Context(), activity.Entry{UserID: actor.ID, Username: actor.Username, Action: activity.ActionLogout}); err != nil {
			log.Error("Failed to record logout", "error", err)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}

func ChangePasswordHandler(members roster.RosterStore, activityStore activity.ActivityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			RespondError(w, err)
			return
		}
		actor := actorFrom(r)
		p, err := members.Get(r.Context(), actor.ID)
		if err != nil {
			RespondError(w, err)
			return
		}
		if !auth.CheckPassword(req.OldPassword, p.PasswordHash) {
			RespondError(w, apperr.Invalid("old_password", "is incorrect"))
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			RespondError(w, err)
			return
		}
		if err := members.SetPassword(r.Context(), p.ID, hash); err != nil {
			RespondError(w, err)
			return
		}
		if err := activityStore.Record(r.Context(), activity.Entry{UserID: p.ID, Username: p.Username, Action: activity.ActionPasswordChange}); err != nil {
			log.Error("Failed to record password change", "error", err)
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "Password changed successfully!"})
	}
}

type dashboardResponse struct {
	User          roster.Player               `json:"user"`
	Announcement  *announcement.Announcement  `json:"announcement"`
	Stats         *leaderboard.Summary        `json:"stats,omitempty"`
	Notifications []announcement.Notification `json:"notifications"`
	Counters      map[string]int              `json:"counters,omitempty"`
}

// DashboardHandler returns what the landing page shows: the member, the latest announcement and quick stats.
func DashboardHandler(members roster.RosterStore, lb *leaderboard.Service, notes announcement.AnnouncementStore, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actor := actorFrom(r)

		p, err := members.Get(ctx, actor.ID)
		if err != nil {
			RespondError(w, err)
			return
		}
		resp := dashboardResponse{User: p}
		if resp.Announcement, err = notes.Latest(ctx); err != nil {
			RespondError(w, err)
			return
		}
		if resp.Notifications, err = notes.ListNotifications(ctx); err != nil {
			RespondError(w, err)
			return
		}
		if p.Role == roster.RolePlayer {
			summary, err := lb.PlayerSummary(ctx, p.ID)
			if err != nil {
				RespondError(w, err)
				return
			}
			resp.Stats = &summary
		}
		if p.Role == roster.RoleAdmin {
			if resp.Counters, err = counters.GetAll(); err != nil {
				log.Error("Failed to load counters", "error", err)
			}
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
