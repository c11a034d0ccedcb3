package effects

import (
	"fmt"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
)

func applyGainWater(gs *types.GameState, req Request) error {
	gs.Players[req.Actor].WaterCount++
	return nil
}

func applyDrawCard(gs *types.GameState, req Request) error {
	if len(gs.DrawPile) == 0 {
		return types.NewRuleError(types.ErrDeckEmpty, "the draw pile is empty")
	}
	card := gs.DrawPile[0]
	gs.DrawPile = gs.DrawPile[1:]
	gs.Players[req.Actor].Hand = append(gs.Players[req.Actor].Hand, card)
	return nil
}

func applyRestoreCard(gs *types.GameState, req Request) error {
	for _, id := range req.Targets {
		if card := gs.FindCardByID(id); card != nil {
			if card.Damage > 0 {
				card.Damage--
			}
			continue
		}
		if camp := gs.FindCampByID(id); camp != nil && !camp.Destroyed {
			if camp.Damage > 0 {
				camp.Damage--
			}
			continue
		}
		return types.NewRuleError(types.ErrTargetInvalid, fmt.Sprintf("nothing restorable with id %d", id))
	}
	return nil
}

func applyDamageTargets(gs *types.GameState, req Request) error {
	for _, id := range req.Targets {
		if !applyDamage(gs, id) {
			return types.NewRuleError(types.ErrTargetInvalid, fmt.Sprintf("nothing damageable with id %d", id))
		}
	}
	return nil
}

// applyHighGround strips protection from every card for the rest of the
// current turn. The flag is cleared when the next turn begins.
func applyHighGround(gs *types.GameState, req Request) error {
	gs.UniversalFlags[types.FlagBattlefieldUnprotected] = true
	return nil
}

// applyRaid damages the opponent's frontmost undestroyed camp directly,
// ignoring protection. It is a zero-target effect but still refuses to
// run when every camp is already gone.
func applyRaid(gs *types.GameState, req Request) error {
	opponent := gs.Players[req.Actor.Opponent()]
	for _, camp := range opponent.Camps {
		if camp.Destroyed {
			continue
		}
		camp.Damage++
		if camp.Damage >= types.DestroyDamageThreshold {
			camp.Destroyed = true
		}
		return nil
	}
	return types.NewRuleError(types.ErrNoValidTargets, "no camps left to raid")
}
