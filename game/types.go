package game

import (
	"time"

	"github.com/mysubb01/sutda-sub000/sutda"
)

type GameStatus string

const (
	StatusWaiting  GameStatus = "WAITING"
	StatusPlaying  GameStatus = "PLAYING"
	StatusFinished GameStatus = "FINISHED"
	StatusRegame   GameStatus = "REGAME"
)

type GameMode string

const (
	ModeTwoCard   GameMode = "2-card"
	ModeThreeCard GameMode = "3-card"
)

// Phase is only meaningful while the session status is PLAYING.
type Phase string

const (
	PhaseBetting   Phase = "BETTING"
	PhaseSelecting Phase = "SELECTING"
)

type ActionKind string

const (
	ActionCheck ActionKind = "CHECK"
	ActionCall  ActionKind = "CALL"
	ActionRaise ActionKind = "RAISE"
	ActionFold  ActionKind = "FOLD"
	ActionAllIn ActionKind = "ALLIN"
)

// Player is a per-session participant. Account identity and account
// balance live outside the engine; Balance here is the table stake.
type Player struct {
	ID                 string
	Name               string
	SeatNo             int
	Balance            int64
	Hand               []sutda.Card
	Chosen             []sutda.Card // 2-card selection in 3-card mode
	CommittedThisRound int64
	TotalCommitted     int64
	InHand             bool
	Folded             bool
	Ready              bool
	HasActed           bool
}

// AllIn is derived: the player committed their whole stake this hand.
func (p *Player) AllIn() bool {
	return p.InHand && !p.Folded && p.Balance == 0
}

// BettingAction is an append-only audit record. Immutable once recorded.
type BettingAction struct {
	PlayerID  string     `json:"playerId"`
	Kind      ActionKind `json:"kind"`
	Amount    int64      `json:"amount"`
	Round     int        `json:"round"`
	Timestamp time.Time  `json:"timestamp"`
}
