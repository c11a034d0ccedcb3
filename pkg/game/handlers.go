package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/effects"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/log"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/messages"
)

func (s *GameSession) resolveLabel(playerID uint32) (types.PlayerLabel, error) {
	label, ok := PlayerLabelForConnection(s.state, playerID)
	if !ok {
		return "", types.NewRuleError(types.ErrNotJoined, "you have not joined this game")
	}
	return label, nil
}

// handleJoinGame binds a requested seat to a connection. Rebinding the
// same connection to its own seat re-sends the join state instead of
// failing, so a reconnecting client can recover.
func (s *GameSession) handleJoinGame(ctx context.Context, playerID uint32, details json.RawMessage) error {
	join := &messages.ClientJoinGame{}
	if err := json.Unmarshal(details, join); err != nil {
		return fmt.Errorf("failed to unmarshal joinGame details: %v", err)
	}

	label := types.PlayerLabel(join.Player)
	if label != types.PlayerLabel1 && label != types.PlayerLabel2 {
		return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("unknown seat %q", join.Player))
	}

	player := s.state.Players[label]
	if player.ConnectionID != 0 && player.ConnectionID != playerID {
		return types.NewRuleError(types.ErrSeatTaken, fmt.Sprintf("%s is already taken", label))
	}

	player.ConnectionID = playerID
	s.everJoined = true
	log.Info("Connection %d joined game %s as %s", playerID, s.state.GameID, label)

	s.sendTo(ctx, playerID, messages.MessageTypeServerSetPlayer, messages.ServerSetPlayer{
		Player: string(label),
	})

	if !player.DoneSelectingCamps {
		if len(player.CampOffer) == 0 {
			offer := types.CampOfferSize
			if offer > len(s.state.CampPool) {
				offer = len(s.state.CampPool)
			}
			player.CampOffer = s.state.CampPool[:offer]
			s.state.CampPool = s.state.CampPool[offer:]
		}
		s.sendTo(ctx, playerID, messages.MessageTypeServerPromptCamps, messages.ServerPromptCamps{
			Camps: campViews(player.CampOffer),
		})
	}

	return nil
}

// handleDoneCamps commits a player's 3-of-6 camp draft and grants the
// camps' combined card draw.
func (s *GameSession) handleDoneCamps(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, err := s.resolveLabel(playerID)
	if err != nil {
		return err
	}

	selection := &messages.ClientDoneCamps{}
	if err := json.Unmarshal(details, selection); err != nil {
		return fmt.Errorf("failed to unmarshal doneCamps details: %v", err)
	}

	player := s.state.Players[label]
	if player.DoneSelectingCamps {
		return types.NewRuleError(types.ErrInvalidSelection, "camps are already selected")
	}
	if len(selection.CampIDs) != types.NumCamps {
		return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("select exactly %d camps", types.NumCamps))
	}

	var chosen []*types.Camp
	for _, id := range selection.CampIDs {
		var match *types.Camp
		for _, camp := range player.CampOffer {
			if camp.ID == id {
				match = camp
				break
			}
		}
		if match == nil {
			return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("camp %d was not offered to you", id))
		}
		for _, already := range chosen {
			if already.ID == id {
				return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("camp %d selected twice", id))
			}
		}
		chosen = append(chosen, match)
	}

	drawTotal := 0
	for _, camp := range chosen {
		camp.Selected = true
		drawTotal += camp.DrawCount
	}
	// Unpicked camps return to the bottom of the pool.
	for _, camp := range player.CampOffer {
		if !camp.Selected {
			s.state.CampPool = append(s.state.CampPool, camp)
		}
	}
	player.Camps = chosen
	player.CampOffer = nil
	player.DoneSelectingCamps = true

	for i := 0; i < drawTotal; i++ {
		if err := s.drawOne(ctx, label, false); err != nil {
			s.sendError(ctx, playerID, err)
			break
		}
	}

	return nil
}

func (s *GameSession) handleStartTurn(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, err := s.resolveLabel(playerID)
	if err != nil {
		return err
	}
	if !s.soloMode && !BothSeatsBound(s.state) {
		return types.NewRuleError(types.ErrNoOpponent, "waiting for an opponent to join")
	}
	return s.beginTurn(ctx, label)
}

func (s *GameSession) handleEndTurn(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, err := s.resolveLabel(playerID)
	if err != nil {
		return err
	}
	opponent := label.Opponent()
	if s.state.Players[opponent].ConnectionID == 0 {
		if !s.soloMode {
			return types.NewRuleError(types.ErrNoOpponent, "no opponent to pass the turn to")
		}
	}
	return s.beginTurn(ctx, opponent)
}

// beginTurn starts a turn for the given seat: fresh water, incremented
// turn count, cleared per-turn flags, one forced draw.
func (s *GameSession) beginTurn(ctx context.Context, label types.PlayerLabel) error {
	player := s.state.Players[label]
	player.WaterCount = types.TurnStartingWater
	player.TurnCount++
	s.state.CurrentPlayer = label
	s.state.UniversalFlags = make(map[types.Flag]bool)

	s.broadcast(ctx, messages.MessageTypeServerGainWater, messages.ServerWaterUpdate{
		Player: string(label),
		Amount: player.WaterCount,
	})

	// An empty draw pile does not block the turn change.
	if err := s.drawOne(ctx, label, true); err != nil {
		s.sendToLabel(ctx, label, messages.MessageTypeServerChat, messages.ServerChat{
			Text: "SYS: " + err.Error(),
		})
	}
	return nil
}

func (s *GameSession) handlePlayCard(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, err := s.resolveLabel(playerID)
	if err != nil {
		return err
	}

	play := &messages.ClientPlayCard{}
	if err := json.Unmarshal(details, play); err != nil {
		return fmt.Errorf("failed to unmarshal playCard details: %v", err)
	}
	if play.SlotIndex < 0 || play.SlotIndex >= types.NumSlots {
		return fmt.Errorf("slot index %d out of range", play.SlotIndex)
	}

	player := s.state.Players[label]
	card := cardInHand(player, play.CardID)
	if card == nil {
		return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("card %d is not in your hand", play.CardID))
	}
	if player.Slots[play.SlotIndex].Card != nil {
		return types.NewRuleError(types.ErrSlotOccupied, fmt.Sprintf("slot %d is occupied", play.SlotIndex))
	}
	if card.Cost > player.WaterCount {
		return types.NewRuleError(types.ErrInsufficientWater, fmt.Sprintf("%s costs %d water, you have %d", card.Name, card.Cost, player.WaterCount))
	}

	player.WaterCount -= card.Cost
	player.Slots[play.SlotIndex].Card = card
	s.state.RemoveFromHand(label, card.ID)

	s.broadcast(ctx, messages.MessageTypeServerSlot, messages.ServerSlot{
		Player: string(label),
		Index:  play.SlotIndex,
		Card:   cardViewPtr(card),
	})
	s.broadcast(ctx, messages.MessageTypeServerReduceWater, messages.ServerWaterUpdate{
		Player: string(label),
		Amount: player.WaterCount,
	})
	return nil
}

func (s *GameSession) handleDrawCard(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, err := s.resolveLabel(playerID)
	if err != nil {
		return err
	}

	draw := &messages.ClientDrawCard{}
	if err := json.Unmarshal(details, draw); err != nil {
		return fmt.Errorf("failed to unmarshal drawCard details: %v", err)
	}

	player := s.state.Players[label]
	if draw.FromWater && player.WaterCount < types.PaidDrawCost {
		return types.NewRuleError(types.ErrInsufficientWater, fmt.Sprintf("a paid draw costs %d water", types.PaidDrawCost))
	}
	if len(s.state.DrawPile) == 0 {
		return types.NewRuleError(types.ErrDeckEmpty, "the draw pile is empty")
	}

	if draw.FromWater {
		player.WaterCount -= types.PaidDrawCost
		s.broadcast(ctx, messages.MessageTypeServerReduceWater, messages.ServerWaterUpdate{
			Player: string(label),
			Amount: player.WaterCount,
		})
	}
	return s.drawOne(ctx, label, true)
}

// drawOne pops the top of the draw pile into the player's hand and tells
// only that player about the card.
func (s *GameSession) drawOne(ctx context.Context, label types.PlayerLabel, animate bool) error {
	if len(s.state.DrawPile) == 0 {
		return types.NewRuleError(types.ErrDeckEmpty, "the draw pile is empty")
	}
	card := s.state.DrawPile[0]
	s.state.DrawPile = s.state.DrawPile[1:]
	player := s.state.Players[label]
	player.Hand = append(player.Hand, card)

	s.sendToLabel(ctx, label, messages.MessageTypeServerAddCard, messages.ServerAddCard{
		Card:          cardView(card),
		ShowAnimation: animate,
	})
	return nil
}

func (s *GameSession) handleUseCard(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, err := s.resolveLabel(playerID)
	if err != nil {
		return err
	}

	use := &messages.ClientUseCard{}
	if err := json.Unmarshal(details, use); err != nil {
		return fmt.Errorf("failed to unmarshal useCard details: %v", err)
	}

	player := s.state.Players[label]
	card := cardInSlots(player, use.CardID)
	if card == nil {
		return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("card %d is not on your board", use.CardID))
	}
	if use.AbilityIndex < 0 || use.AbilityIndex >= len(card.Abilities) {
		return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("%s has no ability %d", card.Name, use.AbilityIndex))
	}
	ability := card.Abilities[use.AbilityIndex]
	if ability.Cost > player.WaterCount {
		return types.NewRuleError(types.ErrInsufficientWater, fmt.Sprintf("that ability costs %d water, you have %d", ability.Cost, player.WaterCount))
	}

	// Water is paid when the effect either applies or successfully
	// requests targets; a rejected effect costs nothing.
	if _, err := s.invokeEffect(ctx, label, ability.Effect, card.ID, false); err != nil {
		return err
	}
	player.WaterCount -= ability.Cost
	if ability.Cost > 0 {
		s.broadcast(ctx, messages.MessageTypeServerReduceWater, messages.ServerWaterUpdate{
			Player: string(label),
			Amount: player.WaterCount,
		})
	}
	return nil
}

func (s *GameSession) handleJunkCard(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, err := s.resolveLabel(playerID)
	if err != nil {
		return err
	}

	junk := &messages.ClientJunkCard{}
	if err := json.Unmarshal(details, junk); err != nil {
		return fmt.Errorf("failed to unmarshal junkCard details: %v", err)
	}

	player := s.state.Players[label]
	card := cardInHand(player, junk.CardID)
	if card == nil {
		return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("card %d is not in your hand", junk.CardID))
	}
	if card.JunkEffect == types.EffectNone {
		return types.NewRuleError(types.ErrInvalidSelection, fmt.Sprintf("%s has no junk effect", card.Name))
	}

	applied, err := s.invokeEffect(ctx, label, card.JunkEffect, card.ID, true)
	if err != nil {
		// The card stays in hand when the effect cannot run.
		return err
	}
	if applied {
		s.discardFromHand(ctx, label, card)
	}
	return nil
}

// handleDoneTargets resolves the outstanding target request by re-running
// the paused effect with the chosen targets. A failed resolution keeps
// the request pending so the player can choose again.
func (s *GameSession) handleDoneTargets(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, err := s.resolveLabel(playerID)
	if err != nil {
		return err
	}

	pending := s.state.PendingTarget
	if pending == nil {
		return types.NewRuleError(types.ErrNoPendingTarget, "no target selection is pending")
	}
	if pending.Requestor != label {
		return types.NewRuleError(types.ErrNoPendingTarget, "the pending target selection is not yours")
	}

	done := &messages.ClientDoneTargets{}
	if err := json.Unmarshal(details, done); err != nil {
		return fmt.Errorf("failed to unmarshal doneTargets details: %v", err)
	}

	_, err = effects.Invoke(s.state, pending.Effect, effects.Request{
		Actor:        label,
		Targets:      done.Targets,
		ValidTargets: pending.ValidTargets,
		Resolved:     true,
	})
	if err != nil {
		return err
	}

	if pending.JunkSource {
		if card := cardInHand(s.state.Players[label], pending.SourceCardID); card != nil {
			s.discardFromHand(ctx, label, card)
		}
	}
	s.state.PendingTarget = nil
	return nil
}

// invokeEffect runs an effect through the catalog's two-phase protocol.
// It returns true when the effect applied immediately; false means a
// target request was published and the effect is paused.
func (s *GameSession) invokeEffect(ctx context.Context, label types.PlayerLabel, effect types.EffectID, sourceCardID int, junkSource bool) (bool, error) {
	if s.state.PendingTarget != nil && effects.RequiresTargets(effect) {
		return false, types.NewRuleError(types.ErrInvalidSelection, "another target selection is still pending")
	}

	outcome, err := effects.Invoke(s.state, effect, effects.Request{Actor: label})
	if err != nil {
		return false, err
	}
	if outcome.Kind == effects.OutcomeApplied {
		return true, nil
	}

	s.state.PendingTarget = &types.TargetRequest{
		Effect:        effect,
		Requestor:     label,
		ValidTargets:  outcome.Candidates,
		ExpectedCount: outcome.ExpectedCount,
		SourceCardID:  sourceCardID,
		JunkSource:    junkSource,
	}
	s.sendToLabel(ctx, label, messages.MessageTypeServerTargetMode, messages.ServerTargetMode{
		PlayerID:            string(label),
		Type:                effect.String(),
		Help:                outcome.Help,
		ColorType:           outcome.Color,
		ExpectedTargetCount: outcome.ExpectedCount,
		ValidTargets:        outcome.Candidates,
	})
	return false, nil
}

func (s *GameSession) discardFromHand(ctx context.Context, label types.PlayerLabel, card *types.Card) {
	if removed := s.state.RemoveFromHand(label, card.ID); removed != nil {
		s.state.DiscardPile = append(s.state.DiscardPile, removed)
	}
	s.sendToLabel(ctx, label, messages.MessageTypeServerRemoveCard, messages.ServerRemoveCard{
		CardID: card.ID,
	})
}

func (s *GameSession) handleChat(ctx context.Context, playerID uint32, details json.RawMessage) error {
	chat := &messages.ClientChat{}
	if err := json.Unmarshal(details, chat); err != nil {
		return fmt.Errorf("failed to unmarshal chat details: %v", err)
	}
	if chat.Text == "" {
		return fmt.Errorf("empty chat message")
	}

	label, ok := PlayerLabelForConnection(s.state, playerID)
	if !ok {
		return types.NewRuleError(types.ErrNotJoined, "join the game to chat")
	}

	line := fmt.Sprintf("%s: %s", label, chat.Text)
	s.state.ChatLog = append(s.state.ChatLog, line)
	s.broadcast(ctx, messages.MessageTypeServerChat, messages.ServerChat{Text: line})
	return nil
}

// systemChat appends a server-originated line to the shared log and
// broadcasts it.
func (s *GameSession) systemChat(ctx context.Context, text string) {
	line := "SYS: " + text
	s.state.ChatLog = append(s.state.ChatLog, line)
	s.broadcast(ctx, messages.MessageTypeServerChat, messages.ServerChat{Text: line})
}

func (s *GameSession) handleUnsubscribe(ctx context.Context, playerID uint32, details json.RawMessage) error {
	label, ok := PlayerLabelForConnection(s.state, playerID)
	if !ok {
		return nil
	}
	s.state.Players[label].ConnectionID = 0
	log.Info("Connection %d left game %s (%s)", playerID, s.state.GameID, label)
	s.systemChat(ctx, fmt.Sprintf("%s left the game", label))
	return nil
}

func (s *GameSession) handlePing(ctx context.Context, playerID uint32, details json.RawMessage) error {
	s.sendTo(ctx, playerID, messages.MessageTypeServerPong, struct{}{})
	return nil
}

func cardInHand(player *types.Player, cardID int) *types.Card {
	for _, card := range player.Hand {
		if card.ID == cardID {
			return card
		}
	}
	return nil
}

func cardInSlots(player *types.Player, cardID int) *types.Card {
	for i := range player.Slots {
		if card := player.Slots[i].Card; card != nil && card.ID == cardID {
			return card
		}
	}
	return nil
}
