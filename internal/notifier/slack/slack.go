package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/scoring"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// maxLeaderboardRows caps the rows posted to a channel. Slack rejects messages with more than 50 blocks.
const maxLeaderboardRows = 25

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchSubmitted(ctx context.Context, notice notifier.MatchNotice, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatMatchSubmitted(notice), dryRun)
	return err
}

func (s *Notifier) SendAnnouncement(ctx context.Context, notice notifier.AnnouncementNotice, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatAnnouncement(notice), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(ctx context.Context, title string, entries []scoring.LeaderboardEntry, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatLeaderboard(title, entries), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(title string, entries []scoring.LeaderboardEntry) (any, error) {
	return s.formatLeaderboard(title, entries), nil
}

// FormatPlayerResponse formats a single player's aggregate for a slash command response.
func (s *Notifier) FormatPlayerResponse(agg scoring.Aggregate) (any, error) {
	return s.formatPlayer(agg), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// formatMatchSubmitted creates the Slack message for a newly reported match using Block Kit.
func (s *Notifier) formatMatchSubmitted(n notifier.MatchNotice) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎮 New match reported! 🎮", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := fmt.Sprintf("*%s* finished *#%d* on %s", n.Username, n.Position, n.Date)
	if n.MatchType != "" {
		details += fmt.Sprintf(" (%s)", n.MatchType)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", details, false, false), nil, nil))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Kills*\n%d", n.Kills), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Damage*\n%d", n.Damage), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Survival*\n%d", n.Survival), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	if n.Position == 1 {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "🔥 Booyah! 🔥", true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatAnnouncement creates the Slack message for an admin announcement.
func (s *Notifier) formatAnnouncement(n notifier.AnnouncementNotice) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📣 Team announcement", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", n.Message, true, false), nil, nil))

	if when := whenText(n.Date, n.Time); when != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", when, true, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the ranked leaderboard.
func (s *Notifier) formatLeaderboard(title string, entries []scoring.LeaderboardEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	if title == "" {
		title = "Squad Leaderboard"
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s 🏆", title), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, e := range entries {
		if i == maxLeaderboardRows {
			break
		}
		var medal string
		switch e.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> *Score*: %.2f | *Kills*: %d | *Booyahs*: %d | *Damage*: %d",
			e.Rank,
			medal,
			e.Name,
			e.Score,
			e.Kills,
			e.Wins,
			e.Damage,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayer creates a Slack message to display a single player's aggregate.
func (s *Notifier) formatPlayer(agg scoring.Aggregate) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏆 Stats for %s 🏆", agg.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	playerText := fmt.Sprintf("> *Matches*: %d\n> *Kills*: %d (avg %.2f)\n> *Win rate*: %.2f%%\n> *Damage*: %d\n> *Score*: %.2f",
		agg.Matches,
		agg.Kills,
		agg.AvgKills,
		agg.WinRate,
		agg.Damage,
		agg.Score,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player cannot be found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player named *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func whenText(date, clock string) string {
	switch {
	case date != "" && clock != "":
		return fmt.Sprintf("🗓 %s at %s", date, clock)
	case date != "":
		return "🗓 " + date
	default:
		return ""
	}
}
