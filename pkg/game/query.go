package game

import (
	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
)

// Read-only probes over the game state. None of these error: callers
// probe speculatively and absent data answers false/empty.

// PlayerLabelForConnection resolves a connection id to the seat it holds.
// Returns false when the connection holds no seat in this game.
func PlayerLabelForConnection(gs *types.GameState, connectionID uint32) (types.PlayerLabel, bool) {
	if connectionID == 0 {
		return "", false
	}
	for _, label := range []types.PlayerLabel{types.PlayerLabel1, types.PlayerLabel2} {
		if gs.Players[label].ConnectionID == connectionID {
			return label, true
		}
	}
	return "", false
}

// IsCurrentTurn reports whether the connection holds the seat whose turn
// it is.
func IsCurrentTurn(gs *types.GameState, connectionID uint32) bool {
	label, ok := PlayerLabelForConnection(gs, connectionID)
	if !ok {
		return false
	}
	return gs.CurrentPlayer == label
}

// BothSeatsBound reports whether both seats have a connection attached.
func BothSeatsBound(gs *types.GameState) bool {
	return gs.Players[types.PlayerLabel1].ConnectionID != 0 &&
		gs.Players[types.PlayerLabel2].ConnectionID != 0
}
