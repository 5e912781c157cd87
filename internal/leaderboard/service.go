// Package leaderboard answers the ranking, report and profile queries over the roster.
package leaderboard

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/scoring"
)

// New creates a new leaderboard Service.
func New(members Members, records Records, metrics metrics.Metrics) *Service {
	return &Service{
		members: members,
		records: records,
		metrics: metrics,
	}
}

// Board returns the ranked leaderboard without the public profile fields.
func (s *Service) Board(ctx context.Context, f scoring.Filter) ([]scoring.LeaderboardEntry, error) {
	board, err := s.build(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range board {
		board[i].GameUID = ""
		board[i].RoleLabel = ""
	}
	return board, nil
}

// PublicRoster returns the ranked leaderboard with each player's game UID and role label.
func (s *Service) PublicRoster(ctx context.Context, f scoring.Filter) ([]scoring.LeaderboardEntry, error) {
	return s.build(ctx, f)
}

// Report aggregates every active player, in roster order.
func (s *Service) Report(ctx context.Context, f scoring.Filter) ([]scoring.Aggregate, error) {
	players, grouped, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	report := make([]scoring.Aggregate, 0, len(players))
	for _, p := range players {
		report = append(report, scoring.ComputeAggregate(p.Username, grouped[p.ID], f))
	}
	return report, nil
}

// Profile returns a competing player's unfiltered aggregate together with the member record.
func (s *Service) Profile(ctx context.Context, username string) (Profile, error) {
	p, err := s.competitor(ctx, username)
	if err != nil {
		return Profile{}, err
	}
	grouped, err := s.records.ListByPlayers(ctx, []int64{p.ID})
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Player:    p,
		Aggregate: scoring.ComputeAggregate(p.Username, grouped[p.ID], scoring.Filter{}),
	}, nil
}

// Graph returns kills per match, oldest first. Unknown names and non-players yield an empty graph.
func (s *Service) Graph(ctx context.Context, username string) (Graph, error) {
	g := Graph{Dates: []string{}, Kills: []int{}}
	p, err := s.competitor(ctx, username)
	if apperr.IsNotFound(err) {
		return g, nil
	}
	if err != nil {
		return Graph{}, err
	}

	grouped, err := s.records.ListByPlayers(ctx, []int64{p.ID})
	if err != nil {
		return Graph{}, err
	}
	for _, r := range grouped[p.ID] {
		g.Dates = append(g.Dates, r.DateString())
		g.Kills = append(g.Kills, r.Kills)
	}
	return g, nil
}

// PlayerSummary returns total kills and matches for the given member.
func (s *Service) PlayerSummary(ctx context.Context, playerID int64) (Summary, error) {
	grouped, err := s.records.ListByPlayers(ctx, []int64{playerID})
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, r := range grouped[playerID] {
		sum.Kills += r.Kills
		sum.Matches++
	}
	return sum, nil
}

func (s *Service) build(ctx context.Context, f scoring.Filter) ([]scoring.LeaderboardEntry, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLeaderboardDuration(float64(time.Since(start).Milliseconds()))
	}()

	players, grouped, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	competitors := make([]scoring.Competitor, 0, len(players))
	for _, p := range players {
		competitors = append(competitors, scoring.Competitor{
			Name:      p.Username,
			Role:      string(p.Role),
			Active:    p.Active,
			GameUID:   p.GameUID,
			RoleLabel: p.RoleLabel,
			Records:   grouped[p.ID],
		})
	}
	board := scoring.BuildLeaderboard(competitors, f)
	log.Debug("Leaderboard built", "players", len(board), "match_type", f.Type)
	return board, nil
}

// load returns the active players and their records.
func (s *Service) load(ctx context.Context) ([]roster.Player, map[int64][]match.Record, error) {
	players, err := s.members.List(ctx, roster.ListFilter{Role: roster.RolePlayer, ActiveOnly: true})
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	grouped, err := s.records.ListByPlayers(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return players, grouped, nil
}

func (s *Service) competitor(ctx context.Context, username string) (roster.Player, error) {
	p, err := s.members.GetByUsername(ctx, username)
	if err != nil {
		return roster.Player{}, err
	}
	if p.Role != roster.RolePlayer {
		return roster.Player{}, apperr.NotFound("player", username)
	}
	return p, nil
}
