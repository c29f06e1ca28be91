// Package roster normalizes the heterogeneous player exports (owned-squad
// shape and transfer-pool shape) into the engine's internal representation.
package roster

import (
	"github.com/tidwall/gjson"

	"fanta-market-mcp/internal/model"
)

// Field precedence tables. Different exports carry the same attribute under
// different keys; the first key present wins. Keep these explicit — they are
// the whole contract with the upstream data layer.
var (
	nameKeys       = []string{"name", "player_name", "nome", "giocatore"}
	roleKeys       = []string{"role", "position", "ruolo", "r"}
	clubKeys       = []string{"club", "team", "squadra"}
	valueKeys      = []string{"current_value", "value", "quotazione", "qt_a", "price", "cost"}
	seasonKeys     = []string{"season_score", "fantamedia", "fm", "avg_score"}
	bonusKeys      = []string{"bonus_score", "expected_bonus", "fb"}
	departedKeys   = []string{"departed", "starred", "left_league"}
	confidenceKeys = []string{"playtime_confidence", "titolarita", "start_probability"}
)

// Normalize parses the raw squad and pool exports into Player slices.
// Records without a resolvable name are dropped silently; every other field
// defaults (numbers to 0, strings to empty, confidence to 1).
func Normalize(rawSquad, rawPool []byte) (squad, pool []model.Player) {
	return Records(rawSquad), Records(rawPool)
}

// Records parses one export. The payload may be a bare JSON array or an
// object wrapping it under "players".
func Records(raw []byte) []model.Player {
	doc := gjson.ParseBytes(raw)
	list := doc
	if doc.IsObject() {
		list = doc.Get("players")
	}
	if !list.IsArray() {
		return nil
	}

	var out []model.Player
	list.ForEach(func(_, rec gjson.Result) bool {
		p, ok := parseRecord(rec)
		if ok {
			out = append(out, p)
		}
		return true
	})
	return out
}

func parseRecord(rec gjson.Result) (model.Player, bool) {
	name := firstString(rec, nameKeys)
	if name == "" {
		return model.Player{}, false
	}
	p := model.Player{
		Name:               name,
		Role:               model.ParseRole(firstString(rec, roleKeys)),
		Club:               firstString(rec, clubKeys),
		CurrentValue:       firstFloat(rec, valueKeys),
		SeasonScore:        firstFloat(rec, seasonKeys),
		BonusScore:         firstFloat(rec, bonusKeys),
		Departed:           firstBool(rec, departedKeys),
		PlaytimeConfidence: 1,
	}
	for _, k := range confidenceKeys {
		if v := rec.Get(k); v.Exists() {
			p.PlaytimeConfidence = v.Float()
			break
		}
	}
	return p, true
}

func firstString(rec gjson.Result, keys []string) string {
	for _, k := range keys {
		if v := rec.Get(k); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstFloat(rec gjson.Result, keys []string) float64 {
	for _, k := range keys {
		if v := rec.Get(k); v.Exists() {
			return v.Float()
		}
	}
	return 0
}

func firstBool(rec gjson.Result, keys []string) bool {
	for _, k := range keys {
		if v := rec.Get(k); v.Exists() {
			return v.Bool()
		}
	}
	return false
}
