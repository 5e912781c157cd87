package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/leaderboard"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/scoring"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondWithSlackText replies with a plain message only the caller sees.
func respondWithSlackText(w http.ResponseWriter, text string) {
	respondWithSlackMsg(w, slack.Message{Msg: slack.Msg{ResponseType: "ephemeral", Text: text}})
}

// respondWithFormatted writes a notifier-formatted response, which must be a slack.Message.
func respondWithFormatted(w http.ResponseWriter, msg any, err error) {
	if err != nil {
		http.Error(w, "Failed to format response", http.StatusInternalServerError)
		log.Error("Failed to format slack response", "error", err)
		return
	}
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	respondWithSlackMsg(w, slackMsg)
}

// LeaderboardCommandHandler answers /leaderboard [match type].
func LeaderboardCommandHandler(lb *leaderboard.Service, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		matchType, err := match.ParseType(r.FormValue("text"))
		if err != nil {
			respondWithSlackText(w, fmt.Sprintf("Unknown match type. Try one of: %s", typeList()))
			return
		}
		log.Info("Received leaderboard command", "match_type", matchType, "user", r.FormValue("user_name"))

		board, err := lb.Board(r.Context(), scoring.Filter{Type: matchType})
		if err != nil {
			http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "error", err)
			return
		}
		msg, err := n.FormatLeaderboardResponse(leaderboardTitle(matchType), board)
		respondWithFormatted(w, msg, err)
	}
}

// PlayerStatsCommandHandler answers /player-stats <username>.
func PlayerStatsCommandHandler(lb *leaderboard.Service, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.FormValue("text"))
		if name == "" {
			respondWithSlackText(w, "Player name is required.")
			return
		}

		log.Info("Received player stats command", "player", name)
		profile, err := lb.Profile(r.Context(), name)
		var msg any
		switch {
		case apperr.IsNotFound(err):
			msg, err = n.FormatPlayerNotFoundResponse(name)
		case err != nil:
			http.Error(w, "Failed to load player", http.StatusInternalServerError)
			log.Error("Failed to load player profile", "error", err, "player", name)
			return
		default:
			msg, err = n.FormatPlayerResponse(profile.Aggregate)
		}
		respondWithFormatted(w, msg, err)
	}
}

func leaderboardTitle(t match.Type) string {
	if t == "" {
		return ""
	}
	return fmt.Sprintf("%s Leaderboard", t)
}

func typeList() string {
	names := make([]string, 0, len(match.Types))
	for _, t := range match.Types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
