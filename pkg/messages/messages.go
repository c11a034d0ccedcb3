package messages

import "encoding/json"

// Client message types
const (
	MessageTypeClientJoinGame    = "joinGame"
	MessageTypeClientStartTurn   = "startTurn"
	MessageTypeClientEndTurn     = "endTurn"
	MessageTypeClientPlayCard    = "playCard"
	MessageTypeClientUseCard     = "useCard"
	MessageTypeClientDrawCard    = "drawCard"
	MessageTypeClientJunkCard    = "junkCard"
	MessageTypeClientDoneCamps   = "doneCamps"
	MessageTypeClientDoneTargets = "doneTargets"
	MessageTypeClientChat        = "chat"
	MessageTypeClientUnsubscribe = "unsubscribe"
	MessageTypeClientPing        = "ping"
)

// Server message types
const (
	MessageTypeServerSetPlayer   = "setPlayer"
	MessageTypeServerPromptCamps = "promptCamps"
	MessageTypeServerSlot        = "slot"
	MessageTypeServerRemoveCard  = "removeCard"
	MessageTypeServerAddCard     = "addCard"
	MessageTypeServerReduceWater = "reduceWater"
	MessageTypeServerGainWater   = "gainWater"
	MessageTypeServerTargetMode  = "targetMode"
	MessageTypeServerSync        = "sync"
	MessageTypeServerChat        = "chat"
	MessageTypeServerPong        = "pong"
	MessageTypeServerAlert       = "alert"
)

// Message represents a generic message for serialization/deserialization.
// PlayerID is the transport connection id of the sender; it is 0 for
// messages originating from the server.
type Message struct {
	PlayerID uint32          `json:"playerId,omitempty"`
	Type     string          `json:"type"`
	Details  json.RawMessage `json:"details,omitempty"`
}

// Client message payloads

type ClientJoinGame struct {
	GameID string `json:"gameId"`
	Player string `json:"player"`
}

type ClientPlayCard struct {
	CardID    int `json:"cardId"`
	SlotIndex int `json:"slotIndex"`
}

type ClientUseCard struct {
	CardID       int `json:"cardId"`
	AbilityIndex int `json:"abilityIndex"`
}

type ClientDrawCard struct {
	FromWater bool `json:"fromWater"`
}

type ClientJunkCard struct {
	CardID int `json:"cardId"`
}

type ClientDoneCamps struct {
	CampIDs []int `json:"camps"`
}

type ClientDoneTargets struct {
	Targets []int `json:"targets"`
}

type ClientChat struct {
	Text string `json:"text"`
}

// Server message payloads

type ServerSetPlayer struct {
	Player string `json:"player"`
}

type ServerPromptCamps struct {
	Camps []CampView `json:"camps"`
}

type ServerSlot struct {
	Player string    `json:"player"`
	Index  int       `json:"index"`
	Card   *CardView `json:"card"`
}

type ServerRemoveCard struct {
	CardID int `json:"cardId"`
}

type ServerAddCard struct {
	Card          CardView `json:"card"`
	ShowAnimation bool     `json:"showAnimation,omitempty"`
}

type ServerWaterUpdate struct {
	Player string `json:"player"`
	Amount int    `json:"amount"`
}

type ServerTargetMode struct {
	PlayerID            string `json:"playerId"`
	Type                string `json:"type"`
	Help                string `json:"help"`
	ColorType           string `json:"colorType"`
	ExpectedTargetCount int    `json:"expectedTargetCount"`
	ValidTargets        []int  `json:"validTargets"`
}

type ServerSync struct {
	GS GameView `json:"gs"`
}

type ServerChat struct {
	Text string `json:"text"`
}

type ServerAlert struct {
	Text string `json:"text"`
}

// View types sent inside a sync payload. These are built by the redaction
// engine from the live game state; they never alias it.

// CardView describes a card from one player's perspective. A face-down
// card carries no identity beyond its position in the owner's hand.
type CardView struct {
	ID         int           `json:"id,omitempty"`
	Name       string        `json:"name,omitempty"`
	Image      string        `json:"img,omitempty"`
	Cost       int           `json:"cost,omitempty"`
	Damage     int           `json:"damage,omitempty"`
	Abilities  []AbilityView `json:"abilities,omitempty"`
	JunkEffect string        `json:"junkEffect,omitempty"`
	FaceDown   bool          `json:"faceDown,omitempty"`
}

type AbilityView struct {
	Cost   int    `json:"cost"`
	Effect string `json:"effect"`
}

type CampView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"img,omitempty"`
	DrawCount int    `json:"drawCount"`
	Selected  bool   `json:"selected,omitempty"`
	Damage    int    `json:"damage,omitempty"`
	Destroyed bool   `json:"destroyed,omitempty"`
}

type SlotView struct {
	Index int       `json:"index"`
	Card  *CardView `json:"card"`
}

type PlayerView struct {
	Water              int        `json:"water"`
	HasWaterSilo       bool       `json:"hasWaterSilo,omitempty"`
	TurnCount          int        `json:"turnCount"`
	DoneSelectingCamps bool       `json:"doneSelectingCamps"`
	Hand               []CardView `json:"hand"`
	Camps              []CampView `json:"camps"`
	Slots              []SlotView `json:"slots"`
	Events             []SlotView `json:"events"`
}

// GameView is the game state from one player's perspective.
type GameView struct {
	GameID        string                `json:"gameId"`
	You           string                `json:"you"`
	CurrentPlayer string                `json:"currentPlayer,omitempty"`
	Players       map[string]PlayerView `json:"players"`
	DeckCount     int                   `json:"deckCount"`
	DiscardCount  int                   `json:"discardCount"`
	Chat          []string              `json:"chat"`
}
