package game

import (
	"math/rand"
	"testing"

	"github.com/horizoncarlo/badlands-online-sub000/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDecks_UniqueIDs(t *testing.T) {
	cards, camps := BuildDecks(rand.New(rand.NewSource(7)))
	require.NotEmpty(t, cards)
	require.NotEmpty(t, camps)

	seen := map[int]bool{}
	for _, card := range cards {
		assert.Positive(t, card.ID)
		assert.False(t, seen[card.ID], "duplicate card id %d", card.ID)
		seen[card.ID] = true
	}
	for _, camp := range camps {
		assert.Positive(t, camp.ID)
		assert.False(t, seen[camp.ID], "camp id %d collides with a card id", camp.ID)
		seen[camp.ID] = true
	}
}

func TestBuildDecks_CopiesShareNoState(t *testing.T) {
	cards, _ := BuildDecks(rand.New(rand.NewSource(7)))

	byName := map[string][]*types.Card{}
	for _, card := range cards {
		byName[card.Name] = append(byName[card.Name], card)
	}

	copies := byName["Scientist"]
	require.GreaterOrEqual(t, len(copies), 2)
	copies[0].Damage = 1
	assert.Equal(t, 0, copies[1].Damage, "copies must not alias each other")
}

func TestBuildDecks_DeterministicForSeed(t *testing.T) {
	first, _ := BuildDecks(rand.New(rand.NewSource(11)))
	second, _ := BuildDecks(rand.New(rand.NewSource(11)))
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}
