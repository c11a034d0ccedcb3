package types

const (
	// NumSlots is the number of board slots per player (3x2 grid).
	NumSlots = 6
	// NumSlotColumns is the number of columns in the slot grid.
	NumSlotColumns = 3
	// NumEvents is the number of event queue positions per player.
	NumEvents = 4
	// NumCamps is the number of camps a player keeps after drafting.
	NumCamps = 3
	// CampOfferSize is the number of camps dealt to choose from.
	CampOfferSize = 6
	// DestroyDamageThreshold is the damage at which a card or camp is destroyed.
	DestroyDamageThreshold = 2
	// TurnStartingWater is the water a player starts each turn with.
	TurnStartingWater = 3
	// PaidDrawCost is the water cost of a non-forced draw.
	PaidDrawCost = 2
)

// PlayerLabel names one of the two fixed seats in a game.
type PlayerLabel string

const (
	PlayerLabel1 PlayerLabel = "player1"
	PlayerLabel2 PlayerLabel = "player2"
)

// Opponent returns the other seat. Exactly two labels exist, so the
// function is total.
func (l PlayerLabel) Opponent() PlayerLabel {
	if l == PlayerLabel1 {
		return PlayerLabel2
	}
	return PlayerLabel1
}

// Flag is a per-turn rule modifier.
type Flag string

const (
	// FlagBattlefieldUnprotected disables the protection rule for the
	// remainder of the current turn.
	FlagBattlefieldUnprotected Flag = "battlefieldUnprotected"
)

// Player holds one seat's state.
type Player struct {
	// ConnectionID is 0 until a connection has claimed this seat.
	ConnectionID       uint32
	WaterCount         int
	HasWaterSilo       bool
	Hand               []*Card
	Camps              []*Camp
	CampOffer          []*Camp
	DoneSelectingCamps bool
	Slots              [NumSlots]Slot
	Events             [NumEvents]*Card
	TurnCount          int
}

// SlotProtected reports whether the card in the given slot is protected.
// A card is protected when the same-column slot with the strictly higher
// index (closer to the back of the board) holds a card. Back-row slots
// are never protected.
func (p *Player) SlotProtected(index int) bool {
	back := index + NumSlotColumns
	if back >= NumSlots {
		return false
	}
	return p.Slots[back].Card != nil
}

// CampProtected reports whether the camp behind the given column is
// protected by any card standing in that column.
func (p *Player) CampProtected(column int) bool {
	return p.Slots[column].Card != nil || p.Slots[column+NumSlotColumns].Card != nil
}

// TargetRequest is an effect paused awaiting client target selection.
// At most one exists per game.
type TargetRequest struct {
	Effect        EffectID
	Requestor     PlayerLabel
	ValidTargets  []int
	ExpectedCount int
	// SourceCardID is the card whose junk or ability raised the request,
	// removed or charged only once the targets resolve.
	SourceCardID int
	// JunkSource marks the request as coming from a junked card rather
	// than a paid ability.
	JunkSource bool
}

// GameState is the canonical record for one game. It has a single writer:
// the session goroutine that owns it.
type GameState struct {
	GameID         string
	Players        map[PlayerLabel]*Player
	CurrentPlayer  PlayerLabel
	DrawPile       []*Card
	DiscardPile    []*Card
	CampPool       []*Camp
	PendingTarget  *TargetRequest
	ChatLog        []string
	UniversalFlags map[Flag]bool
}

// NewGameState creates an empty game state with both seats allocated.
func NewGameState(gameID string) *GameState {
	return &GameState{
		GameID: gameID,
		Players: map[PlayerLabel]*Player{
			PlayerLabel1: newPlayer(),
			PlayerLabel2: newPlayer(),
		},
		UniversalFlags: make(map[Flag]bool),
	}
}

func newPlayer() *Player {
	p := &Player{}
	for i := range p.Slots {
		p.Slots[i].Index = i
	}
	return p
}

// FindCardByID searches every board slot for a card, player1 slots first,
// then player2 slots. Returns nil when no slot holds the id.
func (gs *GameState) FindCardByID(id int) *Card {
	for _, label := range []PlayerLabel{PlayerLabel1, PlayerLabel2} {
		player := gs.Players[label]
		for i := range player.Slots {
			if card := player.Slots[i].Card; card != nil && card.ID == id {
				return card
			}
		}
	}
	return nil
}

// FindCampByID searches both players' drafted camps. Returns nil when no
// camp has the id.
func (gs *GameState) FindCampByID(id int) *Camp {
	for _, label := range []PlayerLabel{PlayerLabel1, PlayerLabel2} {
		for _, camp := range gs.Players[label].Camps {
			if camp.ID == id {
				return camp
			}
		}
	}
	return nil
}

// RemoveFromHand removes a card from a player's hand and returns it.
// Removing a card that is not in the hand is a no-op, matching the
// idempotent discard semantics callers rely on.
func (gs *GameState) RemoveFromHand(label PlayerLabel, cardID int) *Card {
	player := gs.Players[label]
	for i, card := range player.Hand {
		if card.ID == cardID {
			player.Hand = append(player.Hand[:i], player.Hand[i+1:]...)
			return card
		}
	}
	return nil
}
