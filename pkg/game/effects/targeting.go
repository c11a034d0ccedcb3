package effects

import "github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"

// legalTargets enumerates the ids matching a targeting predicate for the
// acting player. Protection is skipped for the rest of the turn while the
// battlefield-unprotected flag is set.
func legalTargets(gs *types.GameState, t *Targeting, actor types.PlayerLabel) []int {
	label := actor
	if t.Who == TargetOpponent {
		label = actor.Opponent()
	}
	player := gs.Players[label]
	ignoreProtection := gs.UniversalFlags[types.FlagBattlefieldUnprotected]

	var ids []int
	if t.Persons {
		for i := range player.Slots {
			card := player.Slots[i].Card
			if card == nil {
				continue
			}
			if t.DamagedOnly && card.Damage == 0 {
				continue
			}
			if t.UnprotectedOnly && !ignoreProtection && player.SlotProtected(i) {
				continue
			}
			ids = append(ids, card.ID)
		}
	}
	if t.Camps {
		for column, camp := range player.Camps {
			if camp.Destroyed {
				continue
			}
			if t.DamagedOnly && camp.Damage == 0 {
				continue
			}
			if t.UnprotectedOnly && !ignoreProtection && player.CampProtected(column) {
				continue
			}
			ids = append(ids, camp.ID)
		}
	}
	return ids
}

// applyDamage adds one damage to the card or camp with the given id,
// discarding a destroyed card and marking a destroyed camp.
func applyDamage(gs *types.GameState, id int) bool {
	for _, label := range []types.PlayerLabel{types.PlayerLabel1, types.PlayerLabel2} {
		player := gs.Players[label]
		for i := range player.Slots {
			card := player.Slots[i].Card
			if card == nil || card.ID != id {
				continue
			}
			card.Damage++
			if card.IsDestroyed() {
				player.Slots[i].Card = nil
				gs.DiscardPile = append(gs.DiscardPile, card)
			}
			return true
		}
	}
	if camp := gs.FindCampByID(id); camp != nil && !camp.Destroyed {
		camp.Damage++
		if camp.Damage >= types.DestroyDamageThreshold {
			camp.Destroyed = true
		}
		return true
	}
	return false
}
