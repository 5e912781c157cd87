package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/database"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/scoring"
	"github.com/mauv0809/squad-roster/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	roster  roster.RosterStore
	stats   stats.StatsStore
	metrics *metrics.Mock
}

func setupTestDB(t *testing.T) (fixture, func()) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	f := fixture{roster: roster.New(db), stats: stats.New(db), metrics: metrics.NewMock()}
	f.svc = New(f.roster, f.stats, f.metrics)
	return f, teardown
}

func (f fixture) member(t *testing.T, name string, role roster.Role) roster.Player {
	t.Helper()
	p, err := f.roster.Create(context.Background(), roster.NewPlayer{Username: name, PasswordHash: "h", Role: role, GameUID: name + "-uid", RoleLabel: "Rusher"})
	require.NoError(t, err)
	return p
}

func (f fixture) record(t *testing.T, playerID int64, day, kills, pos, damage, survival int, typ match.Type) {
	t.Helper()
	r, err := match.New(match.Fields{
		PlayerID: playerID,
		Date:     time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC),
		Kills:    kills,
		Position: pos,
		Damage:   damage,
		Survival: survival,
		Type:     typ,
	})
	require.NoError(t, err)
	_, err = f.stats.Insert(context.Background(), r)
	require.NoError(t, err)
}

func TestBoard(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	ace := f.member(t, "ace", roster.RolePlayer)
	bolt := f.member(t, "bolt", roster.RolePlayer)
	benched := f.member(t, "benched", roster.RolePlayer)
	f.member(t, "boss", roster.RoleAdmin)
	f.member(t, "quiet", roster.RolePlayer)

	// 8 + 12 + 12 + 5 = 37
	f.record(t, ace.ID, 1, 8, 1, 1200, 10, match.TypeBattleRoyale)
	// 20 + 7 + 5 + 1 = 33
	f.record(t, bolt.ID, 2, 20, 4, 500, 2, match.TypeClashSquad)
	f.record(t, benched.ID, 2, 50, 1, 5000, 20, match.TypeBattleRoyale)
	_, err := f.roster.Deactivate(ctx, benched.ID)
	require.NoError(t, err)

	t.Run("ranks active players by score", func(t *testing.T) {
		board, err := f.svc.Board(ctx, scoring.Filter{})
		require.NoError(t, err)
		require.Len(t, board, 3)
		assert.Equal(t, scoring.LeaderboardEntry{Rank: 1, Name: "ace", Kills: 8, Wins: 1, PositionPoints: 12, Damage: 1200, Survival: 10, Score: 37}, board[0])
		assert.Equal(t, "bolt", board[1].Name)
		assert.Equal(t, 33.0, board[1].Score)
		assert.Equal(t, "quiet", board[2].Name)
		assert.Equal(t, 0.0, board[2].Score)
	})

	t.Run("type filter", func(t *testing.T) {
		board, err := f.svc.Board(ctx, scoring.Filter{Type: match.TypeClashSquad})
		require.NoError(t, err)
		require.Len(t, board, 3)
		assert.Equal(t, "bolt", board[0].Name)
		assert.Equal(t, 0.0, board[1].Score)
	})

	t.Run("public roster carries profile fields", func(t *testing.T) {
		board, err := f.svc.PublicRoster(ctx, scoring.Filter{})
		require.NoError(t, err)
		require.NotEmpty(t, board)
		assert.Equal(t, "ace-uid", board[0].GameUID)
		assert.Equal(t, "Rusher", board[0].RoleLabel)
	})

	assert.Equal(t, 3, f.metrics.LeaderboardBuilds())
}

func TestReport(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	ace := f.member(t, "ace", roster.RolePlayer)
	f.member(t, "quiet", roster.RolePlayer)
	f.record(t, ace.ID, 1, 4, 1, 100, 1, match.TypeBattleRoyale)
	f.record(t, ace.ID, 10, 2, 5, 100, 1, match.TypeBattleRoyale)

	report, err := f.svc.Report(ctx, scoring.Filter{})
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "ace", report[0].Name)
	assert.Equal(t, 2, report[0].Matches)
	assert.Equal(t, 3.0, report[0].AvgKills)
	assert.Equal(t, 50.0, report[0].WinRate)
	assert.Equal(t, scoring.Aggregate{Name: "quiet"}, report[1])

	ranged, err := f.svc.Report(ctx, scoring.Filter{
		Start: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ranged[0].Matches)
	assert.Equal(t, 0.0, ranged[0].WinRate)
}

func TestProfileAndGraph(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	ace := f.member(t, "ace", roster.RolePlayer)
	f.member(t, "boss", roster.RoleAdmin)
	f.record(t, ace.ID, 9, 3, 2, 100, 1, "")
	f.record(t, ace.ID, 1, 7, 1, 100, 1, "")

	profile, err := f.svc.Profile(ctx, "ace")
	require.NoError(t, err)
	assert.Equal(t, ace.ID, profile.Player.ID)
	assert.Equal(t, 7, profile.Player.BestKills)
	assert.Equal(t, 10, profile.Aggregate.Kills)
	assert.Equal(t, 50.0, profile.Aggregate.WinRate)

	_, err = f.svc.Profile(ctx, "boss")
	assert.True(t, apperr.IsNotFound(err), "admins have no profile")
	_, err = f.svc.Profile(ctx, "nobody")
	assert.True(t, apperr.IsNotFound(err))

	graph, err := f.svc.Graph(ctx, "ace")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-09", "2024-05-01"}, graph.Dates, "insertion order, not date order")
	assert.Equal(t, []int{3, 7}, graph.Kills)

	empty, err := f.svc.Graph(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.Dates)
	assert.NotNil(t, empty.Kills)

	summary, err := f.svc.PlayerSummary(ctx, ace.ID)
	require.NoError(t, err)
	assert.Equal(t, Summary{Kills: 10, Matches: 2}, summary)
}

type failingRecords struct{ err error }

func (f failingRecords) ListByPlayers(ctx context.Context, ids []int64) (map[int64][]match.Record, error) {
	return nil, f.err
}

func TestBoardPropagatesErrors(t *testing.T) {
	members := roster.NewMock()
	members.Add(roster.Player{Username: "ace", Role: roster.RolePlayer, Active: true})
	boom := errors.New("db gone")

	svc := New(members, failingRecords{err: boom}, metrics.NewMock())
	_, err := svc.Board(context.Background(), scoring.Filter{})
	assert.ErrorIs(t, err, boom)

	members.ListFunc = func(ctx context.Context, filter roster.ListFilter) ([]roster.Player, error) {
		return nil, boom
	}
	_, err = svc.Report(context.Background(), scoring.Filter{})
	assert.ErrorIs(t, err, boom)
}
