// Package effects holds the catalog of named card effects: junk effects,
// paid person abilities, and event payoffs. Every entry follows the same
// two-phase contract. Invoked without resolved targets, an effect that
// needs any computes its candidate set and returns a target request
// without touching state. Invoked with resolved targets (or needing
// none), it validates fully and then mutates. A failed invocation never
// leaves a partial mutation behind.
package effects

import (
	"fmt"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
)

// OutcomeKind tags what an effect invocation produced.
type OutcomeKind int

const (
	// OutcomeApplied means the effect mutated state and is finished.
	OutcomeApplied OutcomeKind = iota
	// OutcomeTargetRequested means the effect is paused awaiting a
	// target selection from the acting player.
	OutcomeTargetRequested
)

// Outcome is the result of a successful effect invocation.
type Outcome struct {
	Kind          OutcomeKind
	Candidates    []int
	ExpectedCount int
	Help          string
	Color         string
}

// TargetWho selects whose half-board an effect targets.
type TargetWho int

const (
	TargetOpponent TargetWho = iota
	TargetSelf
)

// Targeting is the data-driven target predicate for an effect. Effects
// without one resolve immediately.
type Targeting struct {
	Who             TargetWho
	Persons         bool
	Camps           bool
	UnprotectedOnly bool
	DamagedOnly     bool
	Count           int
}

// Request carries the acting player and, on the resolving call, the
// targets they chose along with the candidate set previously published.
type Request struct {
	Actor        types.PlayerLabel
	Targets      []int
	ValidTargets []int
	Resolved     bool
}

// Effect is one catalog entry.
type Effect struct {
	Targeting *Targeting
	Help      string
	Color     string
	Apply     func(gs *types.GameState, req Request) error
}

var catalog = map[types.EffectID]Effect{
	types.EffectGainWater: {
		Apply: applyGainWater,
	},
	types.EffectDrawCard: {
		Apply: applyDrawCard,
	},
	types.EffectRestoreCard: {
		Targeting: &Targeting{
			Who:         TargetSelf,
			Persons:     true,
			Camps:       true,
			DamagedOnly: true,
			Count:       1,
		},
		Help:  "Choose a damaged card to restore",
		Color: "good",
		Apply: applyRestoreCard,
	},
	types.EffectDamageCard: {
		Targeting: &Targeting{
			Who:             TargetOpponent,
			Persons:         true,
			Camps:           true,
			UnprotectedOnly: true,
			Count:           1,
		},
		Help:  "Choose an unprotected card to damage",
		Color: "danger",
		Apply: applyDamageTargets,
	},
	types.EffectInjurePerson: {
		Targeting: &Targeting{
			Who:             TargetOpponent,
			Persons:         true,
			UnprotectedOnly: true,
			Count:           1,
		},
		Help:  "Choose an unprotected person to injure",
		Color: "danger",
		Apply: applyDamageTargets,
	},
	types.EffectRaid: {
		Apply: applyRaid,
	},
	types.EffectHighGround: {
		Apply: applyHighGround,
	},
}

// Lookup returns the catalog entry for an effect id.
func Lookup(id types.EffectID) (Effect, error) {
	effect, ok := catalog[id]
	if !ok {
		return Effect{}, types.NewRuleError(types.ErrUnknownEffect, fmt.Sprintf("unknown effect: %s", id))
	}
	return effect, nil
}

// RequiresTargets reports whether an effect uses the two-phase target
// protocol. Unknown effects report false.
func RequiresTargets(id types.EffectID) bool {
	effect, ok := catalog[id]
	return ok && effect.Targeting != nil
}

// LegalTargets enumerates the ids an effect may target for the acting
// player. Effects without targeting report an empty set.
func LegalTargets(gs *types.GameState, id types.EffectID, actor types.PlayerLabel) []int {
	effect, ok := catalog[id]
	if !ok || effect.Targeting == nil {
		return nil
	}
	return legalTargets(gs, effect.Targeting, actor)
}

// Invoke runs an effect through the two-phase protocol.
func Invoke(gs *types.GameState, id types.EffectID, req Request) (Outcome, error) {
	effect, err := Lookup(id)
	if err != nil {
		return Outcome{}, err
	}

	if effect.Targeting == nil {
		if err := effect.Apply(gs, req); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeApplied}, nil
	}

	if !req.Resolved {
		candidates := legalTargets(gs, effect.Targeting, req.Actor)
		if len(candidates) == 0 {
			return Outcome{}, types.NewRuleError(types.ErrNoValidTargets, fmt.Sprintf("no valid targets for %s", id))
		}
		return Outcome{
			Kind:          OutcomeTargetRequested,
			Candidates:    candidates,
			ExpectedCount: effect.Targeting.Count,
			Help:          effect.Help,
			Color:         effect.Color,
		}, nil
	}

	if len(req.Targets) != effect.Targeting.Count {
		return Outcome{}, types.NewRuleError(types.ErrTargetInvalid, fmt.Sprintf("%s expects %d target(s), got %d", id, effect.Targeting.Count, len(req.Targets)))
	}
	for _, target := range req.Targets {
		if !containsID(req.ValidTargets, target) {
			return Outcome{}, types.NewRuleError(types.ErrTargetInvalid, fmt.Sprintf("target %d is not a valid target for %s", target, id))
		}
	}

	if err := effect.Apply(gs, req); err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeApplied}, nil
}

func containsID(ids []int, id int) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
