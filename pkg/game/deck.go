package game

import (
	"math/rand"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
)

// cardTemplate is the deck-building recipe for one card design. The deck
// holds Copies instances of it, each with its own identity.
type cardTemplate struct {
	Name      string
	Image     string
	Cost      int
	Abilities []types.Ability
	Junk      types.EffectID
	Copies    int
}

var cardTemplates = []cardTemplate{
	{
		Name:      "Scientist",
		Image:     "scientist.png",
		Cost:      1,
		Abilities: []types.Ability{{Cost: 1, Effect: types.EffectDrawCard}},
		Junk:      types.EffectGainWater,
		Copies:    4,
	},
	{
		Name:      "Gunner",
		Image:     "gunner.png",
		Cost:      1,
		Abilities: []types.Ability{{Cost: 1, Effect: types.EffectInjurePerson}},
		Junk:      types.EffectRestoreCard,
		Copies:    4,
	},
	{
		Name:      "Assassin",
		Image:     "assassin.png",
		Cost:      1,
		Abilities: []types.Ability{{Cost: 2, Effect: types.EffectDamageCard}},
		Junk:      types.EffectRaid,
		Copies:    4,
	},
	{
		Name:      "Repair Bot",
		Image:     "repair_bot.png",
		Cost:      1,
		Abilities: []types.Ability{{Cost: 2, Effect: types.EffectRestoreCard}},
		Junk:      types.EffectInjurePerson,
		Copies:    4,
	},
	{
		Name:      "Muse",
		Image:     "muse.png",
		Cost:      1,
		Abilities: []types.Ability{{Cost: 0, Effect: types.EffectGainWater}},
		Junk:      types.EffectInjurePerson,
		Copies:    4,
	},
	{
		Name:      "Rabble Rouser",
		Image:     "rabble_rouser.png",
		Cost:      1,
		Abilities: []types.Ability{{Cost: 1, Effect: types.EffectRaid}},
		Junk:      types.EffectGainWater,
		Copies:    4,
	},
	{
		Name:      "Sniper",
		Image:     "sniper.png",
		Cost:      2,
		Abilities: []types.Ability{{Cost: 2, Effect: types.EffectDamageCard}},
		Junk:      types.EffectDrawCard,
		Copies:    3,
	},
	{
		Name:   "Looter",
		Image:  "looter.png",
		Cost:   1,
		Junk:   types.EffectDrawCard,
		Copies: 5,
	},
	{
		Name:   "Wounded Soldier",
		Image:  "wounded_soldier.png",
		Cost:   1,
		Junk:   types.EffectGainWater,
		Copies: 4,
	},
	{
		Name:      "Scout",
		Image:     "scout.png",
		Cost:      1,
		Abilities: []types.Ability{{Cost: 1, Effect: types.EffectHighGround}},
		Junk:      types.EffectGainWater,
		Copies:    2,
	},
	{
		Name:      "Vigilante",
		Image:     "vigilante.png",
		Cost:      2,
		Abilities: []types.Ability{{Cost: 1, Effect: types.EffectInjurePerson}},
		Junk:      types.EffectRaid,
		Copies:    3,
	},
}

type campTemplate struct {
	Name      string
	Image     string
	DrawCount int
}

var campTemplates = []campTemplate{
	{Name: "Railgun", Image: "railgun.png", DrawCount: 0},
	{Name: "Atomic Garden", Image: "atomic_garden.png", DrawCount: 1},
	{Name: "Cannon", Image: "cannon.png", DrawCount: 1},
	{Name: "Pillbox", Image: "pillbox.png", DrawCount: 1},
	{Name: "Scud Launcher", Image: "scud_launcher.png", DrawCount: 0},
	{Name: "Victory Totem", Image: "victory_totem.png", DrawCount: 1},
	{Name: "Catapult", Image: "catapult.png", DrawCount: 0},
	{Name: "Nest of Spies", Image: "nest_of_spies.png", DrawCount: 1},
	{Name: "Command Post", Image: "command_post.png", DrawCount: 2},
	{Name: "Obelisk", Image: "obelisk.png", DrawCount: 1},
	{Name: "Training Camp", Image: "training_camp.png", DrawCount: 2},
	{Name: "Watchtower", Image: "watchtower.png", DrawCount: 0},
}

// BuildDecks creates the shuffled draw pile and camp pool for a new game.
// Ids are assigned from a single monotonic counter across cards and
// camps, so any id names at most one thing for the life of the game.
func BuildDecks(r *rand.Rand) ([]*types.Card, []*types.Camp) {
	nextID := 1

	var cards []*types.Card
	for _, template := range cardTemplates {
		for i := 0; i < template.Copies; i++ {
			abilities := make([]types.Ability, len(template.Abilities))
			copy(abilities, template.Abilities)
			cards = append(cards, &types.Card{
				ID:         nextID,
				Name:       template.Name,
				Image:      template.Image,
				Cost:       template.Cost,
				Abilities:  abilities,
				JunkEffect: template.Junk,
			})
			nextID++
		}
	}
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	var camps []*types.Camp
	for _, template := range campTemplates {
		camps = append(camps, &types.Camp{
			ID:        nextID,
			Name:      template.Name,
			Image:     template.Image,
			DrawCount: template.DrawCount,
		})
		nextID++
	}
	r.Shuffle(len(camps), func(i, j int) {
		camps[i], camps[j] = camps[j], camps[i]
	})

	return cards, camps
}
