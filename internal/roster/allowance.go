package roster

import "fanta-market-mcp/internal/model"

// DefaultBaseSlots is the base number of players a manager may release in
// one market window.
const DefaultBaseSlots = 5

// Allowance returns how many outgoing slots the squad grants: the base
// allowance plus one for every player flagged as departed.
func Allowance(squad []model.Player, base int) int {
	if base <= 0 {
		base = DefaultBaseSlots
	}
	n := base
	for _, p := range squad {
		if p.Departed {
			n++
		}
	}
	return n
}

// Find resolves a player name against a list using the normalized name key.
func Find(players []model.Player, name string) (model.Player, bool) {
	key := model.NameKey(name)
	if key == "" {
		return model.Player{}, false
	}
	for _, p := range players {
		if p.Key() == key {
			return p, true
		}
	}
	return model.Player{}, false
}
