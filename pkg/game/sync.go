package game

import (
	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/messages"
)

// BuildView produces the redacted snapshot of the game state for one
// player. The view never aliases the live state: every slice and struct
// is freshly built, so later mutation cannot change an already-sent view.
//
// Redaction rules:
//   - connection ids, draw pile contents, and the camp pool never leave
//     the server,
//   - the opponent's hand becomes a same-length run of face-down
//     placeholders,
//   - the opponent's camps stay hidden until they commit their draft.
func BuildView(gs *types.GameState, forLabel types.PlayerLabel) messages.GameView {
	view := messages.GameView{
		GameID:        gs.GameID,
		You:           string(forLabel),
		CurrentPlayer: string(gs.CurrentPlayer),
		Players:       make(map[string]messages.PlayerView, 2),
		DeckCount:     len(gs.DrawPile),
		DiscardCount:  len(gs.DiscardPile),
		Chat:          append([]string(nil), gs.ChatLog...),
	}

	for _, label := range []types.PlayerLabel{types.PlayerLabel1, types.PlayerLabel2} {
		view.Players[string(label)] = buildPlayerView(gs.Players[label], label == forLabel)
	}
	return view
}

func buildPlayerView(player *types.Player, isSelf bool) messages.PlayerView {
	view := messages.PlayerView{
		Water:              player.WaterCount,
		HasWaterSilo:       player.HasWaterSilo,
		TurnCount:          player.TurnCount,
		DoneSelectingCamps: player.DoneSelectingCamps,
		Hand:               make([]messages.CardView, 0, len(player.Hand)),
		Slots:              make([]messages.SlotView, 0, types.NumSlots),
		Events:             make([]messages.SlotView, 0, types.NumEvents),
	}

	for _, card := range player.Hand {
		if isSelf {
			view.Hand = append(view.Hand, cardView(card))
		} else {
			view.Hand = append(view.Hand, messages.CardView{FaceDown: true})
		}
	}

	if isSelf || player.DoneSelectingCamps {
		view.Camps = campViews(player.Camps)
	} else {
		view.Camps = []messages.CampView{}
	}

	for i := range player.Slots {
		view.Slots = append(view.Slots, messages.SlotView{
			Index: player.Slots[i].Index,
			Card:  cardViewPtr(player.Slots[i].Card),
		})
	}
	for i, card := range player.Events {
		view.Events = append(view.Events, messages.SlotView{
			Index: i,
			Card:  cardViewPtr(card),
		})
	}
	return view
}

func cardView(card *types.Card) messages.CardView {
	view := messages.CardView{
		ID:     card.ID,
		Name:   card.Name,
		Image:  card.Image,
		Cost:   card.Cost,
		Damage: card.Damage,
	}
	for _, ability := range card.Abilities {
		view.Abilities = append(view.Abilities, messages.AbilityView{
			Cost:   ability.Cost,
			Effect: ability.Effect.String(),
		})
	}
	if card.JunkEffect != types.EffectNone {
		view.JunkEffect = card.JunkEffect.String()
	}
	return view
}

func cardViewPtr(card *types.Card) *messages.CardView {
	if card == nil {
		return nil
	}
	view := cardView(card)
	return &view
}

func campViews(camps []*types.Camp) []messages.CampView {
	views := make([]messages.CampView, 0, len(camps))
	for _, camp := range camps {
		views = append(views, messages.CampView{
			ID:        camp.ID,
			Name:      camp.Name,
			Image:     camp.Image,
			DrawCount: camp.DrawCount,
			Selected:  camp.Selected,
			Damage:    camp.Damage,
			Destroyed: camp.Destroyed,
		})
	}
	return views
}
