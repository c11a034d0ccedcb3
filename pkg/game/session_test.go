package game

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/clients"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/messages"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testConn1 uint32 = 101
	testConn2 uint32 = 202
)

func newTestSession(t *testing.T) *GameSession {
	t.Helper()
	return NewGameSession(NewGameSessionOptions{
		GameID:        "test-game",
		ActionQueue:   queue.NewInMemoryQueue(64),
		ClientManager: clients.NewClientManager(),
		Interval:      10 * time.Millisecond,
		Rand:          rand.New(rand.NewSource(42)),
		SoloMode:      true,
	})
}

func mustDetails(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func joinBoth(t *testing.T, s *GameSession) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.handleJoinGame(ctx, testConn1, mustDetails(t, messages.ClientJoinGame{GameID: "test-game", Player: "player1"})))
	require.NoError(t, s.handleJoinGame(ctx, testConn2, mustDetails(t, messages.ClientJoinGame{GameID: "test-game", Player: "player2"})))
}

func assertRuleError(t *testing.T, err error, kind types.RuleErrorKind) {
	t.Helper()
	require.Error(t, err)
	got, ok := types.RuleErrorKindOf(err)
	require.True(t, ok, "expected a rule error, got %v", err)
	assert.Equal(t, kind, got)
}

func TestGameSession_JoinGame(t *testing.T) {
	ctx := context.Background()

	t.Run("binds both seats and deals camp offers", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)

		assert.Equal(t, testConn1, s.state.Players[types.PlayerLabel1].ConnectionID)
		assert.Equal(t, testConn2, s.state.Players[types.PlayerLabel2].ConnectionID)
		assert.Len(t, s.state.Players[types.PlayerLabel1].CampOffer, types.CampOfferSize)
		assert.Len(t, s.state.Players[types.PlayerLabel2].CampOffer, types.CampOfferSize)
	})

	t.Run("rejects a taken seat", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)

		err := s.handleJoinGame(ctx, testConn2, mustDetails(t, messages.ClientJoinGame{GameID: "test-game", Player: "player1"}))
		assertRuleError(t, err, types.ErrSeatTaken)
	})

	t.Run("same connection may rejoin its seat", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)

		err := s.handleJoinGame(ctx, testConn1, mustDetails(t, messages.ClientJoinGame{GameID: "test-game", Player: "player1"}))
		assert.NoError(t, err)
	})

	t.Run("rejects an unknown seat name", func(t *testing.T) {
		s := newTestSession(t)
		err := s.handleJoinGame(ctx, testConn1, mustDetails(t, messages.ClientJoinGame{GameID: "test-game", Player: "player3"}))
		assertRuleError(t, err, types.ErrInvalidSelection)
	})
}

func TestGameSession_DoneCamps(t *testing.T) {
	ctx := context.Background()

	t.Run("commits three offered camps and draws their total", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)

		player := s.state.Players[types.PlayerLabel1]
		picks := []int{player.CampOffer[0].ID, player.CampOffer[1].ID, player.CampOffer[2].ID}
		wantDraw := player.CampOffer[0].DrawCount + player.CampOffer[1].DrawCount + player.CampOffer[2].DrawCount

		err := s.handleDoneCamps(ctx, testConn1, mustDetails(t, messages.ClientDoneCamps{CampIDs: picks}))
		require.NoError(t, err)

		assert.True(t, player.DoneSelectingCamps)
		assert.Nil(t, player.CampOffer)
		assert.Len(t, player.Camps, types.NumCamps)
		assert.Len(t, player.Hand, wantDraw)
		for _, camp := range player.Camps {
			assert.True(t, camp.Selected)
		}
	})

	t.Run("rejects a selection that is not exactly three", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)

		player := s.state.Players[types.PlayerLabel1]
		picks := []int{player.CampOffer[0].ID, player.CampOffer[1].ID}
		err := s.handleDoneCamps(ctx, testConn1, mustDetails(t, messages.ClientDoneCamps{CampIDs: picks}))
		assertRuleError(t, err, types.ErrInvalidSelection)
		assert.False(t, player.DoneSelectingCamps)
		assert.Empty(t, player.Hand)
	})

	t.Run("rejects a camp that was not offered", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)

		player := s.state.Players[types.PlayerLabel1]
		picks := []int{player.CampOffer[0].ID, player.CampOffer[1].ID, 99999}
		err := s.handleDoneCamps(ctx, testConn1, mustDetails(t, messages.ClientDoneCamps{CampIDs: picks}))
		assertRuleError(t, err, types.ErrInvalidSelection)
		assert.False(t, player.DoneSelectingCamps)
	})
}

func TestGameSession_TurnOrderGuard(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	joinBoth(t, s)

	require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))
	require.Equal(t, types.PlayerLabel1, s.state.CurrentPlayer)

	// A guarded action from the off-turn player must change nothing.
	handBefore := len(s.state.Players[types.PlayerLabel2].Hand)
	waterBefore := s.state.Players[types.PlayerLabel2].WaterCount
	deckBefore := len(s.state.DrawPile)

	s.dispatch(ctx, &messages.Message{
		PlayerID: testConn2,
		Type:     messages.MessageTypeClientDrawCard,
		Details:  mustDetails(t, messages.ClientDrawCard{}),
	})

	assert.Equal(t, handBefore, len(s.state.Players[types.PlayerLabel2].Hand))
	assert.Equal(t, waterBefore, s.state.Players[types.PlayerLabel2].WaterCount)
	assert.Equal(t, deckBefore, len(s.state.DrawPile))
}

func TestGameSession_DispatchRejectsUnjoined(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	joinBoth(t, s)
	require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

	deckBefore := len(s.state.DrawPile)
	s.dispatch(ctx, &messages.Message{
		PlayerID: 9999,
		Type:     messages.MessageTypeClientDrawCard,
		Details:  mustDetails(t, messages.ClientDrawCard{}),
	})
	assert.Equal(t, deckBefore, len(s.state.DrawPile))
}

func TestGameSession_StartTurn(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	joinBoth(t, s)

	require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

	player := s.state.Players[types.PlayerLabel1]
	assert.Equal(t, types.TurnStartingWater, player.WaterCount)
	assert.Equal(t, 1, player.TurnCount)
	assert.Equal(t, types.PlayerLabel1, s.state.CurrentPlayer)
	assert.Len(t, player.Hand, 1, "start of turn performs one forced draw")
}

func TestGameSession_EndTurnPassesToOpponent(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	joinBoth(t, s)

	require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))
	require.NoError(t, s.handleEndTurn(ctx, testConn1, nil))

	assert.Equal(t, types.PlayerLabel2, s.state.CurrentPlayer)
	assert.Equal(t, types.TurnStartingWater, s.state.Players[types.PlayerLabel2].WaterCount)
	assert.Equal(t, 1, s.state.Players[types.PlayerLabel2].TurnCount)
}

func TestGameSession_PlayCard(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, water int) (*GameSession, *types.Card) {
		s := newTestSession(t)
		joinBoth(t, s)
		require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

		player := s.state.Players[types.PlayerLabel1]
		card := &types.Card{ID: 90001, Name: "Sniper", Cost: 2}
		player.Hand = append(player.Hand, card)
		player.WaterCount = water
		return s, card
	}

	t.Run("rejects insufficient water without mutating", func(t *testing.T) {
		s, card := setup(t, 1)
		player := s.state.Players[types.PlayerLabel1]

		err := s.handlePlayCard(ctx, testConn1, mustDetails(t, messages.ClientPlayCard{CardID: card.ID, SlotIndex: 0}))
		assertRuleError(t, err, types.ErrInsufficientWater)
		assert.Nil(t, player.Slots[0].Card)
		assert.Equal(t, 1, player.WaterCount)
		assert.NotNil(t, cardInHand(player, card.ID))
	})

	t.Run("rejects an occupied slot", func(t *testing.T) {
		s, card := setup(t, 3)
		player := s.state.Players[types.PlayerLabel1]
		player.Slots[0].Card = &types.Card{ID: 90002, Name: "Looter"}

		err := s.handlePlayCard(ctx, testConn1, mustDetails(t, messages.ClientPlayCard{CardID: card.ID, SlotIndex: 0}))
		assertRuleError(t, err, types.ErrSlotOccupied)
	})

	t.Run("moves the card and pays the cost", func(t *testing.T) {
		s, card := setup(t, 3)
		player := s.state.Players[types.PlayerLabel1]

		err := s.handlePlayCard(ctx, testConn1, mustDetails(t, messages.ClientPlayCard{CardID: card.ID, SlotIndex: 2}))
		require.NoError(t, err)
		assert.Equal(t, card, player.Slots[2].Card)
		assert.Equal(t, 1, player.WaterCount)
		assert.Nil(t, cardInHand(player, card.ID))
	})
}

func TestGameSession_DrawCard(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty draw pile without mutating", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)
		require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

		s.state.DrawPile = nil
		player := s.state.Players[types.PlayerLabel1]
		handBefore := len(player.Hand)
		waterBefore := player.WaterCount

		err := s.handleDrawCard(ctx, testConn1, mustDetails(t, messages.ClientDrawCard{FromWater: true}))
		assertRuleError(t, err, types.ErrDeckEmpty)
		assert.Equal(t, handBefore, len(player.Hand))
		assert.Equal(t, waterBefore, player.WaterCount, "a rejected paid draw costs nothing")
	})

	t.Run("paid draw deducts two water", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)
		require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

		player := s.state.Players[types.PlayerLabel1]
		handBefore := len(player.Hand)

		err := s.handleDrawCard(ctx, testConn1, mustDetails(t, messages.ClientDrawCard{FromWater: true}))
		require.NoError(t, err)
		assert.Equal(t, handBefore+1, len(player.Hand))
		assert.Equal(t, types.TurnStartingWater-types.PaidDrawCost, player.WaterCount)
	})

	t.Run("paid draw rejects with one water", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)
		require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

		player := s.state.Players[types.PlayerLabel1]
		player.WaterCount = 1
		err := s.handleDrawCard(ctx, testConn1, mustDetails(t, messages.ClientDrawCard{FromWater: true}))
		assertRuleError(t, err, types.ErrInsufficientWater)
		assert.Equal(t, 1, player.WaterCount)
	})
}

func TestGameSession_UseCardAbility(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	joinBoth(t, s)
	require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

	player := s.state.Players[types.PlayerLabel1]
	card := &types.Card{
		ID:        90010,
		Name:      "Scientist",
		Abilities: []types.Ability{{Cost: 1, Effect: types.EffectDrawCard}},
	}
	player.Slots[0].Card = card
	handBefore := len(player.Hand)

	err := s.handleUseCard(ctx, testConn1, mustDetails(t, messages.ClientUseCard{CardID: card.ID, AbilityIndex: 0}))
	require.NoError(t, err)
	assert.Equal(t, handBefore+1, len(player.Hand))
	assert.Equal(t, types.TurnStartingWater-1, player.WaterCount)
}

func TestGameSession_JunkCard(t *testing.T) {
	ctx := context.Background()

	t.Run("no valid targets keeps the card and no request", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)
		require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

		player := s.state.Players[types.PlayerLabel1]
		card := &types.Card{ID: 90020, Name: "Gunner", JunkEffect: types.EffectInjurePerson}
		player.Hand = append(player.Hand, card)

		err := s.handleJunkCard(ctx, testConn1, mustDetails(t, messages.ClientJunkCard{CardID: card.ID}))
		assertRuleError(t, err, types.ErrNoValidTargets)
		assert.NotNil(t, cardInHand(player, card.ID))
		assert.Nil(t, s.state.PendingTarget)
	})

	t.Run("zero-target junk applies and discards", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)
		require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

		player := s.state.Players[types.PlayerLabel1]
		card := &types.Card{ID: 90021, Name: "Wounded Soldier", JunkEffect: types.EffectGainWater}
		player.Hand = append(player.Hand, card)
		waterBefore := player.WaterCount
		discardBefore := len(s.state.DiscardPile)

		err := s.handleJunkCard(ctx, testConn1, mustDetails(t, messages.ClientJunkCard{CardID: card.ID}))
		require.NoError(t, err)
		assert.Equal(t, waterBefore+1, player.WaterCount)
		assert.Nil(t, cardInHand(player, card.ID))
		assert.Equal(t, discardBefore+1, len(s.state.DiscardPile))
	})
}

func TestGameSession_TargetProtocol(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*GameSession, *types.Card, *types.Card) {
		s := newTestSession(t)
		joinBoth(t, s)
		require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

		// An unprotected person on the opponent's board.
		victim := &types.Card{ID: 90030, Name: "Looter"}
		s.state.Players[types.PlayerLabel2].Slots[4].Card = victim

		junked := &types.Card{ID: 90031, Name: "Gunner", JunkEffect: types.EffectInjurePerson}
		s.state.Players[types.PlayerLabel1].Hand = append(s.state.Players[types.PlayerLabel1].Hand, junked)
		return s, junked, victim
	}

	t.Run("junk with targets publishes a request and keeps the card", func(t *testing.T) {
		s, junked, victim := setup(t)

		err := s.handleJunkCard(ctx, testConn1, mustDetails(t, messages.ClientJunkCard{CardID: junked.ID}))
		require.NoError(t, err)

		require.NotNil(t, s.state.PendingTarget)
		assert.Equal(t, types.EffectInjurePerson, s.state.PendingTarget.Effect)
		assert.Equal(t, types.PlayerLabel1, s.state.PendingTarget.Requestor)
		assert.Equal(t, []int{victim.ID}, s.state.PendingTarget.ValidTargets)
		assert.NotNil(t, cardInHand(s.state.Players[types.PlayerLabel1], junked.ID))
	})

	t.Run("doneTargets with an illegal id rejects and keeps the request", func(t *testing.T) {
		s, junked, victim := setup(t)
		require.NoError(t, s.handleJunkCard(ctx, testConn1, mustDetails(t, messages.ClientJunkCard{CardID: junked.ID})))

		err := s.handleDoneTargets(ctx, testConn1, mustDetails(t, messages.ClientDoneTargets{Targets: []int{99}}))
		assertRuleError(t, err, types.ErrTargetInvalid)
		assert.NotNil(t, s.state.PendingTarget)
		assert.Equal(t, 0, victim.Damage)
	})

	t.Run("doneTargets resolves, mutates, discards source, clears request", func(t *testing.T) {
		s, junked, victim := setup(t)
		require.NoError(t, s.handleJunkCard(ctx, testConn1, mustDetails(t, messages.ClientJunkCard{CardID: junked.ID})))

		err := s.handleDoneTargets(ctx, testConn1, mustDetails(t, messages.ClientDoneTargets{Targets: []int{victim.ID}}))
		require.NoError(t, err)
		assert.Nil(t, s.state.PendingTarget)
		assert.Equal(t, 1, victim.Damage)
		assert.Nil(t, cardInHand(s.state.Players[types.PlayerLabel1], junked.ID))
	})

	t.Run("doneTargets with no pending request rejects", func(t *testing.T) {
		s := newTestSession(t)
		joinBoth(t, s)
		require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

		err := s.handleDoneTargets(ctx, testConn1, mustDetails(t, messages.ClientDoneTargets{Targets: []int{1}}))
		assertRuleError(t, err, types.ErrNoPendingTarget)
	})

	t.Run("a second target request cannot start while one is pending", func(t *testing.T) {
		s, junked, _ := setup(t)
		require.NoError(t, s.handleJunkCard(ctx, testConn1, mustDetails(t, messages.ClientJunkCard{CardID: junked.ID})))

		attacker := &types.Card{
			ID:        90032,
			Name:      "Assassin",
			Abilities: []types.Ability{{Cost: 0, Effect: types.EffectDamageCard}},
		}
		s.state.Players[types.PlayerLabel1].Slots[0].Card = attacker

		err := s.handleUseCard(ctx, testConn1, mustDetails(t, messages.ClientUseCard{CardID: attacker.ID, AbilityIndex: 0}))
		assertRuleError(t, err, types.ErrInvalidSelection)
		assert.Equal(t, types.EffectInjurePerson, s.state.PendingTarget.Effect, "original request is untouched")
	})
}

func TestGameSession_WaterNeverNegative(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	joinBoth(t, s)
	require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

	player := s.state.Players[types.PlayerLabel1]
	// Burn water down with paid draws, then keep trying.
	for i := 0; i < 5; i++ {
		s.dispatch(ctx, &messages.Message{
			PlayerID: testConn1,
			Type:     messages.MessageTypeClientDrawCard,
			Details:  mustDetails(t, messages.ClientDrawCard{FromWater: true}),
		})
		assert.GreaterOrEqual(t, player.WaterCount, 0)
	}
}

func TestGameSession_ChatAndLeave(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	joinBoth(t, s)

	require.NoError(t, s.handleChat(ctx, testConn1, mustDetails(t, messages.ClientChat{Text: "hello"})))
	require.Len(t, s.state.ChatLog, 1)
	assert.Equal(t, "player1: hello", s.state.ChatLog[0])

	require.NoError(t, s.handleUnsubscribe(ctx, testConn1, nil))
	assert.Equal(t, uint32(0), s.state.Players[types.PlayerLabel1].ConnectionID)
	assert.False(t, s.finished(), "one seat still bound")

	require.NoError(t, s.handleUnsubscribe(ctx, testConn2, nil))
	assert.True(t, s.finished())
}

func TestGameSession_ProcessActionsDropsMalformed(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	joinBoth(t, s)
	require.NoError(t, s.handleStartTurn(ctx, testConn1, nil))

	deckBefore := len(s.state.DrawPile)
	require.NoError(t, s.Enqueue(&messages.Message{
		PlayerID: testConn1,
		Type:     messages.MessageTypeClientPlayCard,
		Details:  json.RawMessage(`{"cardId": "not a number"}`),
	}))
	require.NoError(t, s.Enqueue(&messages.Message{
		PlayerID: testConn1,
		Type:     "no-such-action",
	}))
	s.processActions(ctx)

	assert.Equal(t, deckBefore, len(s.state.DrawPile))
	assert.Nil(t, s.state.PendingTarget)
}
