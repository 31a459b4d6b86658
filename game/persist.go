package game

import (
	"time"

	"github.com/mysubb01/sutda-sub000/sutda"
)

// PlayerRecord is the stored per-player state, hole cards included.
type PlayerRecord struct {
	PlayerID           string       `json:"playerId"`
	Name               string       `json:"name"`
	SeatNo             int          `json:"seatNo"`
	Balance            int64        `json:"balance"`
	Hand               []sutda.Card `json:"hand,omitempty"`
	Chosen             []sutda.Card `json:"chosen,omitempty"`
	CommittedThisRound int64        `json:"committedThisRound"`
	TotalCommitted     int64        `json:"totalCommitted"`
	InHand             bool         `json:"inHand"`
	Folded             bool         `json:"folded"`
	Ready              bool         `json:"ready"`
	HasActed           bool         `json:"hasActed"`
}

// SessionRecord is the full authoritative state written to the store
// after every committed transition.
type SessionRecord struct {
	SessionID     string         `json:"sessionId"`
	Status        GameStatus     `json:"status"`
	Mode          GameMode       `json:"mode"`
	Phase         Phase          `json:"phase"`
	HandNum       uint32         `json:"handNum"`
	BettingRound  int            `json:"bettingRound"`
	Pot           int64          `json:"pot"`
	CurrentBet    int64          `json:"currentBet"`
	BaseBet       int64          `json:"baseBet"`
	TurnSeat      int            `json:"turnSeat"`
	WinnerID      string         `json:"winnerId,omitempty"`
	WinningRank   string         `json:"winningRank,omitempty"`
	DeadlineToken uint64         `json:"deadlineToken"`
	TurnDeadline  time.Time      `json:"turnDeadline"`
	Players       []PlayerRecord `json:"players"`
}

// SessionStore persists session records and the append-only action log.
// The engine treats the in-memory session as authoritative; store
// failures are logged by the caller, never rolled back.
type SessionStore interface {
	Save(record *SessionRecord) error
	Load(sessionID string) (*SessionRecord, error)
	Remove(sessionID string) error
	AppendAction(sessionID string, action BettingAction) error
	Actions(sessionID string) ([]BettingAction, error)
}

func (s *Session) buildRecordLocked() *SessionRecord {
	record := &SessionRecord{
		SessionID:     s.id,
		Status:        s.status,
		Mode:          s.mode,
		Phase:         s.phase,
		HandNum:       s.handNum,
		BettingRound:  s.bettingRound,
		Pot:           s.pot,
		CurrentBet:    s.currentBet,
		BaseBet:       s.baseBet,
		TurnSeat:      s.turnSeat,
		WinnerID:      s.winnerID,
		WinningRank:   s.winningRank,
		DeadlineToken: s.deadlineToken,
		TurnDeadline:  s.turnDeadline,
	}
	for _, player := range s.seats.Occupied() {
		record.Players = append(record.Players, PlayerRecord{
			PlayerID:           player.ID,
			Name:               player.Name,
			SeatNo:             player.SeatNo,
			Balance:            player.Balance,
			Hand:               append([]sutda.Card(nil), player.Hand...),
			Chosen:             append([]sutda.Card(nil), player.Chosen...),
			CommittedThisRound: player.CommittedThisRound,
			TotalCommitted:     player.TotalCommitted,
			InHand:             player.InHand,
			Folded:             player.Folded,
			Ready:              player.Ready,
			HasActed:           player.HasActed,
		})
	}
	return record
}
