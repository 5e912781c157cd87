package notifier

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/scoring"
)

// Noop logs notifications instead of delivering them. It is used when Slack is not configured.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) SendMatchSubmitted(ctx context.Context, notice MatchNotice, dryRun bool) error {
	log.Debug("Notifications disabled, skipping match notice", "username", notice.Username)
	return nil
}

func (Noop) SendAnnouncement(ctx context.Context, notice AnnouncementNotice, dryRun bool) error {
	log.Debug("Notifications disabled, skipping announcement")
	return nil
}

func (Noop) SendLeaderboard(ctx context.Context, title string, entries []scoring.LeaderboardEntry, dryRun bool) error {
	log.Debug("Notifications disabled, skipping leaderboard", "entries", len(entries))
	return nil
}

func (Noop) FormatLeaderboardResponse(title string, entries []scoring.LeaderboardEntry) (any, error) {
	return entries, nil
}

func (Noop) FormatPlayerResponse(agg scoring.Aggregate) (any, error) {
	return agg, nil
}

func (Noop) FormatPlayerNotFoundResponse(query string) (any, error) {
	return map[string]string{"text": "player not found: " + query}, nil
}
