package types

// Ability is a paid effect printed on a person card.
type Ability struct {
	Cost   int
	Effect EffectID
}

// Card is a deck card. Its ID is assigned once at deck build time and is
// unique across every container for the life of the game.
type Card struct {
	ID         int
	Name       string
	Image      string
	Cost       int
	Damage     int
	Abilities  []Ability
	JunkEffect EffectID
}

// IsDestroyed reports whether accumulated damage has reached the
// destruction threshold.
func (c *Card) IsDestroyed() bool {
	return c.Damage >= DestroyDamageThreshold
}

// Camp is one of the three base camps a player drafts at game start.
// Camp IDs come from the same counter as card IDs, so an id names at
// most one card or camp in a game.
type Camp struct {
	ID        int
	Name      string
	Image     string
	DrawCount int
	Selected  bool
	Damage    int
	Destroyed bool
}

// Slot is a fixed board position that may hold one card.
type Slot struct {
	Index int
	Card  *Card
}
