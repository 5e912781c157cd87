package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/leaderboard"
	"github.com/mauv0809/squad-roster/internal/roster"
)

type createPlayerRequest struct {
	Username  string `json:"username" validate:"required,max=50"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=player viewer"`
	GameUID   string `json:"ff_uid" validate:"max=20"`
	RoleLabel string `json:"player_role" validate:"max=20"`
}

type profileRequest struct {
	GameUID   string `json:"ff_uid" validate:"max=20"`
	RoleLabel string `json:"player_role" validate:"max=20"`
}

// ListPlayersHandler lists roster members including inactive ones. ?role= narrows by role, "all" lists everyone.
func ListPlayersHandler(members roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := roster.ListFilter{Role: roster.RolePlayer}
		switch role := r.URL.Query().Get("role"); role {
		case "":
		case "all":
			filter.Role = ""
		default:
			filter.Role = roster.Role(role)
			if !filter.Role.Valid() {
				RespondError(w, apperr.Invalid("role", "%q is not one of admin, player, viewer", role))
				return
			}
		}
		players, err := members.List(r.Context(), filter)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func CreatePlayerHandler(members roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPlayerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			RespondError(w, err)
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			RespondError(w, err)
			return
		}
		p, err := members.Create(r.Context(), roster.NewPlayer{
			Username:     req.Username,
			PasswordHash: hash,
			Role:         roster.Role(req.Role),
			GameUID:      req.GameUID,
			RoleLabel:    req.RoleLabel,
		})
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, p)
	}
}

// PlayerTransitionHandler applies one of the roster state changes (deactivate, restore, toggle role) to {player}.
func PlayerTransitionHandler(transition func(ctx context.Context, id int64) (roster.Player, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "player")
		if err != nil {
			RespondError(w, err)
			return
		}
		p, err := transition(r.Context(), id)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// UpdateProfileHandler lets members set their own game UID and role label.
func UpdateProfileHandler(members roster.RosterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			RespondError(w, err)
			return
		}
		p, err := members.UpdateProfile(r.Context(), actorFrom(r).ID, req.GameUID, req.RoleLabel)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

func ProfileHandler(lb *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := lb.Profile(r.Context(), chi.URLParam(r, "player"))
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

func GraphHandler(lb *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		graph, err := lb.Graph(r.Context(), chi.URLParam(r, "player"))
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, graph)
	}
}
