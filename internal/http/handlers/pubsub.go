package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/leaderboard"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/pubsub"
	"github.com/mauv0809/squad-roster/internal/scoring"
)

// pushEnvelope is the body of a Pub/Sub push delivery.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
}

// MatchEventHandler receives pushed match events and posts the refreshed leaderboard for the event's match type.
func MatchEventHandler(lb *leaderboard.Service, n notifier.Notifier, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match event", "body", string(bodyBytes))

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event pubsub.MatchEvent
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			log.Error("Failed to decode match event", "error", err)
			http.Error(w, "Invalid match event", http.StatusBadRequest)
			return
		}
		log.Info("Processing match event", "record_id", event.RecordID, "player", event.Username)

		ctx := r.Context()
		matchType := match.Type(event.MatchType)
		board, err := lb.Board(ctx, scoring.Filter{Type: matchType})
		if err != nil {
			log.Error("Failed to build leaderboard", "error", err)
			http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
			return
		}
		if err := n.SendLeaderboard(ctx, leaderboardTitle(matchType), board, notifier.DryRun(ctx)); err != nil {
			log.Error("Failed to post leaderboard", "error", err)
			http.Error(w, "Failed to post leaderboard", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
