package notifier

import (
	"context"

	"github.com/mauv0809/squad-roster/internal/scoring"
)

// Notifier defines a high-level interface for sending notifications about roster events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For match submissions
	SendMatchSubmitted(ctx context.Context, notice MatchNotice, dryRun bool) error
	// For admin announcements
	SendAnnouncement(ctx context.Context, notice AnnouncementNotice, dryRun bool) error
	// For leaderboard refreshes
	SendLeaderboard(ctx context.Context, title string, entries []scoring.LeaderboardEntry, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(title string, entries []scoring.LeaderboardEntry) (any, error)
	FormatPlayerResponse(agg scoring.Aggregate) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}

// MatchNotice describes a submitted match record.
type MatchNotice struct {
	Username  string
	Date      string
	Kills     int
	Position  int
	Damage    int
	Survival  int
	MatchType string
}

// AnnouncementNotice is an announcement as shown to the team.
type AnnouncementNotice struct {
	Message string
	Date    string
	Time    string
}

type dryRunKey struct{}

// WithDryRun marks ctx so that notifications are logged instead of sent.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey{}, dryRun)
}

// DryRun reports whether ctx was marked with WithDryRun.
func DryRun(ctx context.Context) bool {
	dryRun, ok := ctx.Value(dryRunKey{}).(bool)
	return ok && dryRun
}
