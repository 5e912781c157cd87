package stats_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/database"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	stats  stats.StatsStore
	roster roster.RosterStore
	db     *sql.DB
}

func setupTestDB(t *testing.T) (fixture, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return fixture{stats: stats.New(db), roster: roster.New(db), db: db}, teardown
}

func (f fixture) player(t *testing.T, name string) roster.Player {
	t.Helper()
	p, err := f.roster.Create(context.Background(), roster.NewPlayer{Username: name, PasswordHash: "h"})
	require.NoError(t, err)
	return p
}

func (f fixture) best(t *testing.T, id int64) (int, int) {
	t.Helper()
	p, err := f.roster.Get(context.Background(), id)
	require.NoError(t, err)
	return p.BestKills, p.BestDamage
}

func newRecord(t *testing.T, playerID int64, day, kills, pos, damage int) match.Record {
	t.Helper()
	r, err := match.New(match.Fields{
		PlayerID:   playerID,
		Date:       time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC),
		Kills:      kills,
		Position:   pos,
		Damage:     damage,
		Survival:   3,
		Type:       match.TypeBattleRoyale,
		Screenshot: "shot.png",
	})
	require.NoError(t, err)
	return r
}

func TestInsertAndGet(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	p := f.player(t, "ace")

	stored, err := f.stats.Insert(ctx, newRecord(t, p.ID, 3, 6, 2, 700))
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)

	got, err := f.stats.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Equal(t, "2024-05-03", got.DateString())

	kills, damage := f.best(t, p.ID)
	assert.Equal(t, 6, kills)
	assert.Equal(t, 700, damage)

	_, err = f.stats.Get(ctx, 12345)
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.stats.Insert(ctx, newRecord(t, 999, 3, 1, 1, 1))
	assert.True(t, apperr.IsNotFound(err), "unknown player")
}

func TestBestStatsFollowMutations(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	p := f.player(t, "ace")

	top, err := f.stats.Insert(ctx, newRecord(t, p.ID, 1, 12, 3, 500))
	require.NoError(t, err)
	_, err = f.stats.Insert(ctx, newRecord(t, p.ID, 2, 9, 1, 1400))
	require.NoError(t, err)

	kills, damage := f.best(t, p.ID)
	assert.Equal(t, 12, kills)
	assert.Equal(t, 1400, damage)

	t.Run("deleting the top-kill record falls back to the next highest", func(t *testing.T) {
		deleted, err := f.stats.Delete(ctx, top.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, deleted.Kills)

		kills, damage := f.best(t, p.ID)
		assert.Equal(t, 9, kills)
		assert.Equal(t, 1400, damage)
	})

	t.Run("editing lowers the cache", func(t *testing.T) {
		records, err := f.stats.ListByPlayer(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)

		edited := newRecord(t, p.ID, 2, 4, 3, 200)
		edited.ID = records[0].ID
		out, err := f.stats.Update(ctx, edited)
		require.NoError(t, err)
		assert.Equal(t, 0, out.Booyah)

		kills, damage := f.best(t, p.ID)
		assert.Equal(t, 4, kills)
		assert.Equal(t, 200, damage)
	})

	t.Run("removing every record leaves zeros", func(t *testing.T) {
		records, err := f.stats.ListByPlayer(ctx, p.ID)
		require.NoError(t, err)
		for _, r := range records {
			_, err := f.stats.Delete(ctx, r.ID)
			require.NoError(t, err)
		}
		kills, damage := f.best(t, p.ID)
		assert.Equal(t, 0, kills)
		assert.Equal(t, 0, damage)

		_, err = f.stats.Delete(ctx, top.ID)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestUpdateRecomputesWinFlag(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	p := f.player(t, "ace")

	won, err := f.stats.Insert(ctx, newRecord(t, p.ID, 1, 5, 1, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, won.Booyah)

	third := newRecord(t, p.ID, 1, 5, 3, 100)
	third.ID = won.ID
	third.PlayerID = 777
	_, err = f.stats.Update(ctx, third)
	require.NoError(t, err)

	got, err := f.stats.Get(ctx, won.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Booyah)
	require.NotNil(t, got.Position)
	assert.Equal(t, 3, *got.Position)
	assert.Equal(t, p.ID, got.PlayerID, "the owner of a record never changes")

	missing := newRecord(t, p.ID, 1, 5, 3, 100)
	missing.ID = 4040
	_, err = f.stats.Update(ctx, missing)
	assert.True(t, apperr.IsNotFound(err))
}

func TestLegacyRowsRoundTrip(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	p := f.player(t, "vet")

	_, err := f.db.Exec(`INSERT INTO match_records (player_id, date, kills, damage, survival, booyah, created_at) VALUES (?, '2023-12-31', 4, 300, 2, 1, 0)`, p.ID)
	require.NoError(t, err)

	records, err := f.stats.ListByPlayer(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Position)
	assert.Equal(t, match.Type(""), records[0].Type)
	assert.Equal(t, "", records[0].Screenshot)
	assert.True(t, records[0].Won())
}

func TestListings(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	a := f.player(t, "a")
	b := f.player(t, "b")
	c := f.player(t, "c")

	first, err := f.stats.Insert(ctx, newRecord(t, a.ID, 1, 1, 4, 10))
	require.NoError(t, err)
	second, err := f.stats.Insert(ctx, newRecord(t, b.ID, 2, 2, 4, 20))
	require.NoError(t, err)
	third, err := f.stats.Insert(ctx, newRecord(t, a.ID, 3, 3, 4, 30))
	require.NoError(t, err)

	t.Run("by player is newest first", func(t *testing.T) {
		records, err := f.stats.ListByPlayer(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, third.ID, records[0].ID)
		assert.Equal(t, first.ID, records[1].ID)
	})

	t.Run("by players groups oldest first", func(t *testing.T) {
		grouped, err := f.stats.ListByPlayers(ctx, []int64{a.ID, b.ID, c.ID})
		require.NoError(t, err)
		require.Len(t, grouped[a.ID], 2)
		assert.Equal(t, first.ID, grouped[a.ID][0].ID)
		require.Len(t, grouped[b.ID], 1)
		assert.Equal(t, second.ID, grouped[b.ID][0].ID)
		assert.Empty(t, grouped[c.ID])

		empty, err := f.stats.ListByPlayers(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("gallery carries usernames", func(t *testing.T) {
		proofs, err := f.stats.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, proofs, 3)
		assert.Equal(t, third.ID, proofs[0].Record.ID)
		assert.Equal(t, "a", proofs[0].Player)
		assert.Equal(t, "b", proofs[1].Player)
	})

	t.Run("screenshot references", func(t *testing.T) {
		inUse, err := f.stats.ScreenshotInUse(ctx, "shot.png", first.ID)
		require.NoError(t, err)
		assert.True(t, inUse)

		inUse, err = f.stats.ScreenshotInUse(ctx, "other.png", 0)
		require.NoError(t, err)
		assert.False(t, inUse)

		inUse, err = f.stats.ScreenshotInUse(ctx, "", 0)
		require.NoError(t, err)
		assert.False(t, inUse)
	})
}
