package model

import "strings"

// Role is the playing position code used by the quotation sources:
// P (portiere/goalkeeper), D (defender), C (midfielder), A (forward).
type Role string

const (
	RoleGoalkeeper Role = "P"
	RoleDefender   Role = "D"
	RoleMidfielder Role = "C"
	RoleForward    Role = "A"
)

var roleLabels = map[Role]string{
	RoleGoalkeeper: "goalkeeper",
	RoleDefender:   "defender",
	RoleMidfielder: "midfielder",
	RoleForward:    "forward",
}

func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return "unknown"
}

// ParseRole maps the role spellings seen across quotation exports onto the
// single-letter codes. Unknown spellings map to the empty Role, which never
// matches anything downstream.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P", "POR", "PORTIERE", "GK", "GOALKEEPER":
		return RoleGoalkeeper
	case "D", "DIF", "DIFENSORE", "DEF", "DEFENDER":
		return RoleDefender
	case "C", "CEN", "CENTROCAMPISTA", "MID", "MIDFIELDER":
		return RoleMidfielder
	case "A", "ATT", "ATTACCANTE", "FWD", "FW", "FORWARD":
		return RoleForward
	}
	return ""
}

// Player is the normalized record every engine stage works on. Quotation and
// roster exports arrive in several shapes; the roster adapter coalesces them
// into this one.
type Player struct {
	Name         string  `json:"name"`
	Role         Role    `json:"role"`
	Club         string  `json:"club"`
	CurrentValue float64 `json:"current_value"`
	SeasonScore  float64 `json:"season_score"`
	BonusScore   float64 `json:"bonus_score"`

	// Departed marks a squad player flagged as having left the league;
	// each departed player grants one extra outgoing slot.
	Departed bool `json:"departed,omitempty"`

	// PlaytimeConfidence is a pass-through annotation from the data source
	// (0..1). Sources that omit it get 1. Picks below the configured
	// threshold are flagged with an advisory warning, never rejected.
	PlaytimeConfidence float64 `json:"playtime_confidence,omitempty"`
}

// Key returns the identity key used for all player matching.
func (p Player) Key() string {
	return NameKey(p.Name)
}

// NameKey normalizes a player name for comparison: lowercase with every
// non-alphanumeric rune stripped, so "N'Koulou" and "nkoulou" collide.
func NameKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
