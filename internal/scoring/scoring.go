// Package scoring turns match records into aggregate statistics and ranked leaderboards.
// Every function here is pure: callers load the records and hand them in.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/mauv0809/squad-roster/internal/match"
)

// placementPoints is indexed by finishing position. Index 0 is unused.
var placementPoints = [...]int{0, 12, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 0}

// legacyWinPoints is awarded per win flag on records that predate positions.
const legacyWinPoints = 12

const (
	damagePerPoint   = 100.0
	survivalPerPoint = 0.5
)

// competingRole is the roster role whose members appear on leaderboards.
const competingRole = "player"

// Filter narrows the records an aggregate is computed over. Zero fields do not constrain.
type Filter struct {
	Type  match.Type
	Start time.Time
	End   time.Time
}

// Aggregate summarises one player's filtered record set.
type Aggregate struct {
	Name           string  `json:"name"`
	Matches        int     `json:"matches"`
	Kills          int     `json:"kills"`
	Wins           int     `json:"wins"`
	PositionPoints int     `json:"position_points"`
	Damage         int     `json:"damage"`
	Survival       int     `json:"survival"`
	Score          float64 `json:"score"`
	AvgKills       float64 `json:"avg_kills"`
	WinRate        float64 `json:"winrate"`
}

// Competitor is a roster member together with their stored records.
type Competitor struct {
	Name      string
	Role      string
	Active    bool
	GameUID   string
	RoleLabel string
	Records   []match.Record
}

// LeaderboardEntry is one ranked row of a leaderboard.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	Name           string  `json:"name"`
	Kills          int     `json:"kills"`
	Wins           int     `json:"wins"`
	PositionPoints int     `json:"position_points"`
	Damage         int     `json:"damage"`
	Survival       int     `json:"survival"`
	Score          float64 `json:"score"`
	GameUID        string  `json:"ff_uid,omitempty"`
	RoleLabel      string  `json:"player_role,omitempty"`
}

// PointsForPosition returns the placement points a record earns.
func PointsForPosition(r match.Record) int {
	if r.Position == nil {
		return legacyWinPoints * r.Booyah
	}
	p := *r.Position
	if p < match.MinPosition || p > match.MaxPosition {
		return 0
	}
	return placementPoints[p]
}

// Includes reports whether r passes the filter. Date bounds are inclusive.
func (f Filter) Includes(r match.Record) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if !f.Start.IsZero() && r.Date.Before(match.Day(f.Start)) {
		return false
	}
	if !f.End.IsZero() && r.Date.After(match.Day(f.End)) {
		return false
	}
	return true
}

// Score combines the totals into a single ranking value.
func Score(kills, positionPoints, damage, survival int) float64 {
	return round2(float64(kills) + float64(positionPoints) + float64(damage)/damagePerPoint + float64(survival)*survivalPerPoint)
}

// ComputeAggregate aggregates the records that pass f.
func ComputeAggregate(name string, records []match.Record, f Filter) Aggregate {
	agg := Aggregate{Name: name}
	for _, r := range records {
		if !f.Includes(r) {
			continue
		}
		agg.Matches++
		agg.Kills += r.Kills
		agg.Damage += r.Damage
		agg.Survival += r.Survival
		agg.PositionPoints += PointsForPosition(r)
		if r.Won() {
			agg.Wins++
		}
	}

	agg.Score = Score(agg.Kills, agg.PositionPoints, agg.Damage, agg.Survival)
	if agg.Matches > 0 {
		agg.AvgKills = round2(float64(agg.Kills) / float64(agg.Matches))
		agg.WinRate = round2(float64(agg.Wins) / float64(agg.Matches) * 100)
	}
	return agg
}

// BuildLeaderboard ranks every active competitor with the player role by score, highest first.
// Equal scores keep the order in which competitors were supplied.
func BuildLeaderboard(competitors []Competitor, f Filter) []LeaderboardEntry {
	board := make([]LeaderboardEntry, 0, len(competitors))
	for _, c := range competitors {
		if !c.Active || c.Role != competingRole {
			continue
		}
		agg := ComputeAggregate(c.Name, c.Records, f)
		board = append(board, LeaderboardEntry{
			Name:           c.Name,
			Kills:          agg.Kills,
			Wins:           agg.Wins,
			PositionPoints: agg.PositionPoints,
			Damage:         agg.Damage,
			Survival:       agg.Survival,
			Score:          agg.Score,
			GameUID:        c.GameUID,
			RoleLabel:      c.RoleLabel,
		})
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	for i := range board {
		board[i].Rank = i + 1
	}
	return board
}

// RecomputeBest returns the highest kills and damage across records, or zeros when there are none.
func RecomputeBest(records []match.Record) (bestKills, bestDamage int) {
	for _, r := range records {
		if r.Kills > bestKills {
			bestKills = r.Kills
		}
		if r.Damage > bestDamage {
			bestDamage = r.Damage
		}
	}
	return bestKills, bestDamage
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
