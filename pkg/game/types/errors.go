package types

import "errors"

// RuleErrorKind classifies the recoverable, player-facing failures the
// dispatcher and effect catalog can produce. None of them are fatal to
// the session.
type RuleErrorKind int

const (
	ErrNotJoined RuleErrorKind = iota
	ErrSeatTaken
	ErrOutOfTurn
	ErrInvalidSelection
	ErrInsufficientWater
	ErrSlotOccupied
	ErrDeckEmpty
	ErrNoOpponent
	ErrNoValidTargets
	ErrTargetInvalid
	ErrNoPendingTarget
	ErrUnknownEffect
)

func (k RuleErrorKind) String() string {
	switch k {
	case ErrNotJoined:
		return "NotJoined"
	case ErrSeatTaken:
		return "SeatTaken"
	case ErrOutOfTurn:
		return "OutOfTurn"
	case ErrInvalidSelection:
		return "InvalidSelection"
	case ErrInsufficientWater:
		return "InsufficientWater"
	case ErrSlotOccupied:
		return "SlotOccupied"
	case ErrDeckEmpty:
		return "DeckEmpty"
	case ErrNoOpponent:
		return "NoOpponent"
	case ErrNoValidTargets:
		return "NoValidTargets"
	case ErrTargetInvalid:
		return "TargetInvalid"
	case ErrNoPendingTarget:
		return "NoPendingTarget"
	case ErrUnknownEffect:
		return "UnknownEffect"
	default:
		return "Unknown"
	}
}

// RuleError is a game-rule violation attributable to one player. It is
// reported back to that player as a system chat line and never escapes
// the session loop.
type RuleError struct {
	Kind    RuleErrorKind
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func NewRuleError(kind RuleErrorKind, message string) *RuleError {
	return &RuleError{
		Kind:    kind,
		Message: message,
	}
}

// RuleErrorKindOf returns the kind of a rule error, or false if the error
// is not a rule error.
func RuleErrorKindOf(err error) (RuleErrorKind, bool) {
	ruleErr := &RuleError{}
	if errors.As(err, &ruleErr) {
		return ruleErr.Kind, true
	}
	return 0, false
}
