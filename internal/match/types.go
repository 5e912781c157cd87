package match

import "time"

// Type is the category a match was played in. The zero value means the record carries no type.
type Type string

const (
	TypeBattleRoyale Type = "BR"
	TypeClashSquad   Type = "CS"
	TypeScrims       Type = "Scrims"
	TypeCustom       Type = "Custom"
)

// Types lists the accepted match types in display order.
var Types = []Type{TypeBattleRoyale, TypeClashSquad, TypeScrims, TypeCustom}

const (
	MinPosition = 1
	MaxPosition = 12

	// DateLayout is the wire and storage format of match dates.
	DateLayout = "2006-01-02"
)

// Record is one reported match result for one player.
type Record struct {
	ID       int64     `json:"id"`
	PlayerID int64     `json:"player_id"`
	Date     time.Time `json:"-"`
	Kills    int       `json:"kills"`
	Damage   int       `json:"damage"`
	Survival int       `json:"survival"`
	// Position is nil only on rows written before placements were recorded.
	Position *int `json:"position"`
	Type     Type `json:"match_type,omitempty"`
	// Booyah is the stored win flag. For rows with a position it always mirrors Position == 1.
	Booyah     int    `json:"booyah"`
	Screenshot string `json:"screenshot,omitempty"`
}

// Fields carries the caller-supplied values of a record before validation.
type Fields struct {
	PlayerID   int64
	Date       time.Time
	Kills      int
	Position   int
	Damage     int
	Survival   int
	Type       Type
	Screenshot string
}
