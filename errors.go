package bonhomme

import "errors"

// Every rule violation is a recoverable error returned to the caller.
// The snapshot passed in is never modified on failure.
var (
	ErrRoomFull          = errors.New("room already has four players")
	ErrDuplicateName     = errors.New("a player with that name is already in the room")
	ErrUnknownPlayer     = errors.New("no such player in this room")
	ErrIllegalAssignment = errors.New("illegal team or seat assignment")
	ErrNotReady          = errors.New("cannot start: players, teams, seats or ready flags incomplete")
	ErrIllegalBid        = errors.New("illegal bid")
	ErrIllegalPlay       = errors.New("illegal card play")
	ErrTrickNotComplete  = errors.New("trick is not complete")
	ErrRoundNotComplete  = errors.New("round is not complete")
	ErrNoHighestBid      = errors.New("no highest bid recorded for this round")
	ErrBotCannotDecide   = errors.New("bot could not produce a legal action")
)
