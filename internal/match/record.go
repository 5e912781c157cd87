// Package match defines the match record entity and the boundary parsing of its fields.
package match

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/mauv0809/squad-roster/internal/apperr"
)

// New validates f and builds a record. The win flag is derived from the position.
func New(f Fields) (Record, error) {
	if f.PlayerID <= 0 {
		return Record{}, apperr.Invalid("player_id", "must reference a player")
	}
	if f.Date.IsZero() {
		return Record{}, apperr.Invalid("date", "is required")
	}
	if f.Kills < 0 {
		return Record{}, apperr.Invalid("kills", "must not be negative")
	}
	if f.Damage < 0 {
		return Record{}, apperr.Invalid("damage", "must not be negative")
	}
	if f.Survival < 0 {
		return Record{}, apperr.Invalid("survival", "must not be negative")
	}
	if f.Position < MinPosition || f.Position > MaxPosition {
		return Record{}, apperr.Invalid("position", "must be between %d and %d, got %d", MinPosition, MaxPosition, f.Position)
	}
	if f.Type != "" && !f.Type.Valid() {
		return Record{}, apperr.Invalid("match_type", "%q is not one of BR, CS, Scrims, Custom", string(f.Type))
	}

	pos := f.Position
	r := Record{
		PlayerID:   f.PlayerID,
		Date:       Day(f.Date),
		Kills:      f.Kills,
		Damage:     f.Damage,
		Survival:   f.Survival,
		Position:   &pos,
		Type:       f.Type,
		Screenshot: f.Screenshot,
	}
	if pos == 1 {
		r.Booyah = 1
	}
	return r, nil
}

// MarshalJSON renders the date in DateLayout.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain(r), r.DateString()})
}

// Won reports whether the record counts as a first-place finish.
func (r Record) Won() bool {
	if r.Position != nil {
		return *r.Position == 1
	}
	return r.Booyah > 0
}

// DateString renders the record date in DateLayout.
func (r Record) DateString() string {
	return r.Date.Format(DateLayout)
}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// ParseType maps user input onto a known Type, ignoring case. Empty input yields the zero Type.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, known := range Types {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", apperr.Invalid("match_type", "%q is not one of BR, CS, Scrims, Custom", s)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Invalid("date", "is required")
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Invalid("date", "%q is not a YYYY-MM-DD date", s)
	}
	return d, nil
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
