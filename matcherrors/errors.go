package matcherrors

import "errors"

// Sentinel errors shared across room, ws and registry packages to avoid
// import cycles and to give the protocol layer a stable error taxonomy.
//
// Categories map to the outbound ERROR envelope's "category" field:
// protocol, room, turn, interaction, card.
var (
	// protocol
	ErrMalformedMessage = errors.New("malformed message")
	ErrUnknownEventType = errors.New("unknown event type")

	// room
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomClosed      = errors.New("room is closed")
	ErrNameTooLong     = errors.New("display name too long")
	ErrInvalidToken    = errors.New("invalid rejoin token")
	ErrNotDisconnected = errors.New("this seat is not disconnected")

	// turn
	ErrNotYourTurn     = errors.New("not your turn")
	ErrWrongPhase      = errors.New("action not valid in the current phase")
	ErrGameAlreadyEnded = errors.New("game has already ended")

	// interaction
	ErrNoPendingInteraction   = errors.New("no pending interaction to resolve")
	ErrNotInteractionTarget   = errors.New("you are not the target of this interaction")
	ErrInteractionAlreadyOpen = errors.New("an interaction is already pending")

	// card / token
	ErrTokenAlreadyUsed = errors.New("action token already used")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrInvalidCardCount = errors.New("wrong number of cards for this action")
	ErrDuplicateGroup   = errors.New("competition groups must be disjoint")
)

// Category classifies a sentinel error for the outbound ERROR envelope.
func Category(err error) string {
	switch err {
	case ErrMalformedMessage, ErrUnknownEventType:
		return "protocol"
	case ErrRoomNotFound, ErrRoomFull, ErrRoomClosed, ErrNameTooLong, ErrInvalidToken, ErrNotDisconnected:
		return "room"
	case ErrNotYourTurn, ErrWrongPhase, ErrGameAlreadyEnded:
		return "turn"
	case ErrNoPendingInteraction, ErrNotInteractionTarget, ErrInteractionAlreadyOpen:
		return "interaction"
	case ErrTokenAlreadyUsed, ErrCardNotInHand, ErrInvalidCardCount, ErrDuplicateGroup:
		return "card"
	default:
		return "protocol"
	}
}
