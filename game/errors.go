package game

import "fmt"

// GameError is implemented by every validation error the engine returns.
// Kind is the stable identifier callers switch on.
type GameError interface {
	error
	Kind() string
}

type InvalidStateError struct {
	Msg string
}

func (e InvalidStateError) Error() string {
	return e.Msg
}

func (e InvalidStateError) Kind() string {
	return "INVALID_STATE"
}

type NotYourTurnError struct {
	PlayerID string
}

func (e NotYourTurnError) Error() string {
	return fmt.Sprintf("It is not player %s's turn to act", e.PlayerID)
}

func (e NotYourTurnError) Kind() string {
	return "NOT_YOUR_TURN"
}

type InvalidAmountError struct {
	Msg string
}

func (e InvalidAmountError) Error() string {
	return e.Msg
}

func (e InvalidAmountError) Kind() string {
	return "INVALID_AMOUNT"
}

type SeatTakenError struct {
	SeatNo int
}

func (e SeatTakenError) Error() string {
	return fmt.Sprintf("Seat %d is already taken", e.SeatNo)
}

func (e SeatTakenError) Kind() string {
	return "SEAT_TAKEN"
}

type InvalidSeatError struct {
	SeatNo int
}

func (e InvalidSeatError) Error() string {
	return fmt.Sprintf("Seat %d is not a valid seat", e.SeatNo)
}

func (e InvalidSeatError) Kind() string {
	return "INVALID_SEAT"
}

type InsufficientPlayersError struct {
	ReadyCount int
}

func (e InsufficientPlayersError) Error() string {
	return fmt.Sprintf("Cannot start a hand with %d ready players", e.ReadyCount)
}

func (e InsufficientPlayersError) Kind() string {
	return "INSUFFICIENT_PLAYERS"
}

// InsufficientCardsError is fatal. The deck can only run out on a
// misconfigured table; the current hand is aborted with no winner.
type InsufficientCardsError struct {
	Msg string
}

func (e InsufficientCardsError) Error() string {
	return e.Msg
}

func (e InsufficientCardsError) Kind() string {
	return "INSUFFICIENT_CARDS"
}

type NotFoundError struct {
	Msg string
}

func (e NotFoundError) Error() string {
	return e.Msg
}

func (e NotFoundError) Kind() string {
	return "NOT_FOUND"
}

// ErrorKind maps any error to its stable identifier for the command
// boundary. Non-engine errors map to INTERNAL_ERROR.
func ErrorKind(err error) string {
	if gameErr, ok := err.(GameError); ok {
		return gameErr.Kind()
	}
	return "INTERNAL_ERROR"
}
