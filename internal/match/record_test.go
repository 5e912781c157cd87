package match

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() Fields {
	return Fields{
		PlayerID: 1,
		Date:     time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC),
		Kills:    5,
		Position: 1,
		Damage:   800,
		Survival: 10,
		Type:     TypeBattleRoyale,
	}
}

func TestNew(t *testing.T) {
	t.Run("derives the win flag from the position", func(t *testing.T) {
		r, err := New(validFields())
		require.NoError(t, err)
		assert.Equal(t, 1, r.Booyah)
		assert.True(t, r.Won())
		assert.Equal(t, "2024-03-09", r.DateString())
		assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), r.Date)

		f := validFields()
		f.Position = 3
		r, err = New(f)
		require.NoError(t, err)
		assert.Equal(t, 0, r.Booyah)
		assert.False(t, r.Won())
	})

	t.Run("rejects out of range and negative values", func(t *testing.T) {
		cases := map[string]func(*Fields){
			"position zero":     func(f *Fields) { f.Position = 0 },
			"position thirteen": func(f *Fields) { f.Position = 13 },
			"negative kills":    func(f *Fields) { f.Kills = -1 },
			"negative damage":   func(f *Fields) { f.Damage = -5 },
			"negative survival": func(f *Fields) { f.Survival = -2 },
			"unknown type":      func(f *Fields) { f.Type = "Ranked" },
			"missing date":      func(f *Fields) { f.Date = time.Time{} },
			"missing player":    func(f *Fields) { f.PlayerID = 0 },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				f := validFields()
				mutate(&f)
				_, err := New(f)
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err))
			})
		}
	})

	t.Run("allows a record without a match type", func(t *testing.T) {
		f := validFields()
		f.Type = ""
		r, err := New(f)
		require.NoError(t, err)
		assert.Equal(t, Type(""), r.Type)
	})
}

func TestWonLegacy(t *testing.T) {
	assert.True(t, Record{Booyah: 1}.Won())
	assert.False(t, Record{Booyah: 0}.Won())
	pos := 2
	assert.False(t, Record{Booyah: 1, Position: &pos}.Won(), "position takes precedence over a stale flag")
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("scrims")
	require.NoError(t, err)
	assert.Equal(t, TypeScrims, typ)

	typ, err = ParseType("  ")
	require.NoError(t, err)
	assert.Equal(t, Type(""), typ)

	_, err = ParseType("ranked")
	assert.True(t, apperr.IsValidation(err))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	for _, bad := range []string{"", "2024/02/29", "29-02-2024", "2023-02-29"} {
		_, err := ParseDate(bad)
		assert.True(t, apperr.IsValidation(err), bad)
	}
}

func TestMarshalJSON(t *testing.T) {
	r, err := New(validFields())
	require.NoError(t, err)
	r.ID = 4

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"player_id":1,"date":"2024-03-09","kills":5,"damage":800,"survival":10,"position":1,"match_type":"BR","booyah":1}`, string(out))
}
