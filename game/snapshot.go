package game

import (
	"time"

	"github.com/mysubb01/sutda-sub000/sutda"
)

// PlayerSnapshot is the published per-player view. Hand is populated
// only for the viewer's own seat, or for every non-folded hand once the
// showdown revealed them. The one exception is the third card in 3-card
// mode, which is dealt face up and visible to everyone from the second
// betting round on. This visibility rule is a hard contract.
type PlayerSnapshot struct {
	PlayerID  string       `json:"playerId"`
	Name      string       `json:"name"`
	SeatNo    int          `json:"seatNo"`
	Balance   int64        `json:"balance"`
	Committed int64        `json:"committed"`
	InHand    bool         `json:"inHand"`
	Folded    bool         `json:"folded"`
	AllIn     bool         `json:"allIn"`
	Ready     bool         `json:"ready"`
	HasActed  bool         `json:"hasActed"`
	Hand      []sutda.Card `json:"hand,omitempty"`
	Chosen    []sutda.Card `json:"chosen,omitempty"`
}

// Snapshot is the immutable public state emitted after every committed
// transition.
type Snapshot struct {
	SessionID    string            `json:"sessionId"`
	Status       GameStatus        `json:"status"`
	Mode         GameMode          `json:"mode"`
	Phase        Phase             `json:"phase"`
	HandNum      uint32            `json:"handNum"`
	BettingRound int               `json:"bettingRound"`
	Pot          int64             `json:"pot"`
	CurrentBet   int64             `json:"currentBet"`
	BaseBet      int64             `json:"baseBet"`
	TurnSeat     int               `json:"turnSeat"`
	TurnPlayerID string            `json:"turnPlayerId,omitempty"`
	TurnDeadline *time.Time        `json:"turnDeadline,omitempty"`
	WinnerID     string            `json:"winnerId,omitempty"`
	WinningRank  string            `json:"winningRank,omitempty"`
	Players      []PlayerSnapshot  `json:"players"`
	Available    *AvailableActions `json:"availableActions,omitempty"`
}

func (s *Session) snapshotLocked(viewerID string) *Snapshot {
	snapshot := &Snapshot{
		SessionID:    s.id,
		Status:       s.status,
		Mode:         s.mode,
		Phase:        s.phase,
		HandNum:      s.handNum,
		BettingRound: s.bettingRound,
		Pot:          s.pot,
		CurrentBet:   s.currentBet,
		BaseBet:      s.baseBet,
		TurnSeat:     s.turnSeat,
		WinnerID:     s.winnerID,
		WinningRank:  s.winningRank,
	}
	if !s.turnDeadline.IsZero() {
		deadline := s.turnDeadline
		snapshot.TurnDeadline = &deadline
	}

	for _, player := range s.seats.Occupied() {
		ps := PlayerSnapshot{
			PlayerID:  player.ID,
			Name:      player.Name,
			SeatNo:    player.SeatNo,
			Balance:   player.Balance,
			Committed: player.CommittedThisRound,
			InHand:    player.InHand,
			Folded:    player.Folded,
			AllIn:     player.AllIn(),
			Ready:     player.Ready,
			HasActed:  player.HasActed,
		}
		ownView := player.ID == viewerID
		if ownView || (s.revealed && player.InHand && !player.Folded) {
			ps.Hand = append([]sutda.Card(nil), player.Hand...)
			if ownView || s.revealed {
				ps.Chosen = append([]sutda.Card(nil), player.Chosen...)
			}
		} else if s.status == StatusPlaying && player.InHand && !player.Folded &&
			len(player.Hand) == 3 {
			// The third card is dealt face up; only the first two stay
			// concealed until showdown.
			ps.Hand = []sutda.Card{player.Hand[2]}
		}
		snapshot.Players = append(snapshot.Players, ps)

		if s.status == StatusPlaying && s.phase == PhaseBetting &&
			player.SeatNo == s.turnSeat {
			snapshot.TurnPlayerID = player.ID
			if ownView {
				snapshot.Available = s.availableActionsLocked(player)
			}
		}
	}
	return snapshot
}
