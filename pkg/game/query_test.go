package game

import (
	"testing"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func TestPlayerLabelForConnection(t *testing.T) {
	gs := types.NewGameState("query-test")
	gs.Players[types.PlayerLabel1].ConnectionID = 7
	gs.Players[types.PlayerLabel2].ConnectionID = 8

	tests := []struct {
		name         string
		connectionID uint32
		wantLabel    types.PlayerLabel
		wantOK       bool
	}{
		{"seat one", 7, types.PlayerLabel1, true},
		{"seat two", 8, types.PlayerLabel2, true},
		{"unknown connection", 9, "", false},
		{"zero never matches an unbound seat", 0, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, ok := PlayerLabelForConnection(gs, tc.connectionID)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantLabel, label)
		})
	}
}

func TestIsCurrentTurn(t *testing.T) {
	gs := types.NewGameState("query-test")
	gs.Players[types.PlayerLabel1].ConnectionID = 7
	gs.Players[types.PlayerLabel2].ConnectionID = 8
	gs.CurrentPlayer = types.PlayerLabel2

	assert.False(t, IsCurrentTurn(gs, 7))
	assert.True(t, IsCurrentTurn(gs, 8))
	assert.False(t, IsCurrentTurn(gs, 9))
}

func TestBothSeatsBound(t *testing.T) {
	gs := types.NewGameState("query-test")
	assert.False(t, BothSeatsBound(gs))

	gs.Players[types.PlayerLabel1].ConnectionID = 7
	assert.False(t, BothSeatsBound(gs))

	gs.Players[types.PlayerLabel2].ConnectionID = 8
	assert.True(t, BothSeatsBound(gs))
}
