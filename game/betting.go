package game

import (
	"fmt"
	"time"

	"github.com/mysubb01/sutda-sub000/logging"
)

// Bet validates and applies a betting action for the player whose turn
// it is. Composite bets the client surfaces (ddadang, half, quarter) are
// pre-computed amounts that arrive here as plain RAISE/CALL.
func (s *Session) Bet(playerID string, kind ActionKind, amount int64) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying || s.phase != PhaseBetting {
		return nil, InvalidStateError{Msg: fmt.Sprintf("Cannot bet while session is %s", s.status)}
	}
	player := s.seats.ByPlayerID(playerID)
	if player == nil {
		return nil, NotFoundError{Msg: fmt.Sprintf("Player %s is not seated in session %s", playerID, s.id)}
	}
	turnPlayer := s.seats.Get(s.turnSeat)
	if turnPlayer == nil || turnPlayer.ID != playerID {
		return nil, NotYourTurnError{PlayerID: playerID}
	}

	if err := s.applyActionLocked(player, kind, amount); err != nil {
		return nil, err
	}
	s.commitLocked()
	return s.snapshotLocked(playerID), nil
}

// applyActionLocked is the single betting entry point; player turn and
// session status have already been checked. Timer-fired auto actions go
// through here as well.
func (s *Session) applyActionLocked(player *Player, kind ActionKind, amount int64) error {
	if player.Folded || player.Balance <= 0 {
		return InvalidStateError{Msg: fmt.Sprintf("Player %s cannot act in the current hand", player.ID)}
	}

	var debit int64
	switch kind {
	case ActionCheck:
		if s.currentBet != player.CommittedThisRound {
			return InvalidStateError{Msg: fmt.Sprintf("Cannot check facing a bet of %d", s.currentBet)}
		}
	case ActionCall:
		if s.currentBet <= player.CommittedThisRound {
			return InvalidStateError{Msg: "There is no bet to call"}
		}
		debit = s.currentBet - player.CommittedThisRound
		if debit > player.Balance {
			// Short stack: partial call is an implicit all-in.
			debit = player.Balance
		}
	case ActionRaise:
		if amount <= s.currentBet {
			return InvalidAmountError{Msg: fmt.Sprintf("Raise amount %d must exceed the current bet %d", amount, s.currentBet)}
		}
		if amount-player.CommittedThisRound > player.Balance {
			return InvalidAmountError{Msg: fmt.Sprintf("Raise to %d exceeds player balance", amount)}
		}
		debit = amount - player.CommittedThisRound
	case ActionAllIn:
		debit = player.Balance
	case ActionFold:
		player.Folded = true
	default:
		return InvalidStateError{Msg: fmt.Sprintf("Unknown action kind %s", kind)}
	}

	if kind != ActionFold {
		player.Balance -= debit
		player.CommittedThisRound += debit
		player.TotalCommitted += debit
		s.pot += debit
		if player.CommittedThisRound > s.currentBet {
			s.currentBet = player.CommittedThisRound
		}
	}
	player.HasActed = true
	s.recordActionLocked(player.ID, kind, debit)

	s.logger.Info().
		Str(logging.PlayerIDKey, player.ID).
		Int(logging.SeatNoKey, player.SeatNo).
		Str(logging.ActionKey, string(kind)).
		Int64(logging.AmountKey, debit).
		Int(logging.RoundKey, s.bettingRound).
		Int64("pot", s.pot).
		Msg("Player acted")

	if !s.checkRoundCompletionLocked() {
		s.advanceTurnLocked(player.SeatNo)
	}
	return nil
}

func (s *Session) advanceTurnLocked(fromSeat int) {
	next := s.seats.NextActive(fromSeat)
	if next < 0 {
		// Nobody left who can put in chips. The round cannot continue;
		// resolve it with the bets as they stand.
		s.advanceRoundLocked()
		return
	}
	s.turnSeat = next
	s.scheduleTurnDeadlineLocked()
}

func (s *Session) recordActionLocked(playerID string, kind ActionKind, amount int64) {
	action := BettingAction{
		PlayerID:  playerID,
		Kind:      kind,
		Amount:    amount,
		Round:     s.bettingRound,
		Timestamp: time.Now(),
	}
	s.actions = append(s.actions, action)
	if s.store != nil {
		if err := s.store.AppendAction(s.id, action); err != nil {
			s.logger.Error().Err(err).Msg("Could not append action to store")
		}
	}
}

// BetPreset is a client convenience amount for a composite bet.
type BetPreset struct {
	Text   string `json:"text"`
	Amount int64  `json:"amount"`
}

// AvailableActions is computed for the player to act and included in
// that player's snapshot.
type AvailableActions struct {
	CanCheck    bool        `json:"canCheck"`
	CanCall     bool        `json:"canCall"`
	CallAmount  int64       `json:"callAmount"`
	MinRaise    int64       `json:"minRaise"`
	MaxRaise    int64       `json:"maxRaise"`
	AllInAmount int64       `json:"allInAmount"`
	Presets     []BetPreset `json:"presets,omitempty"`
}

func (s *Session) availableActionsLocked(player *Player) *AvailableActions {
	actions := &AvailableActions{
		AllInAmount: player.Balance,
		MaxRaise:    player.CommittedThisRound + player.Balance,
	}
	toCall := s.currentBet - player.CommittedThisRound
	if toCall <= 0 {
		actions.CanCheck = true
	} else {
		actions.CanCall = true
		actions.CallAmount = toCall
		if actions.CallAmount > player.Balance {
			actions.CallAmount = player.Balance
		}
	}
	actions.MinRaise = s.currentBet + s.baseBet

	appendPreset := func(text string, amount int64) {
		if amount > s.currentBet && amount-player.CommittedThisRound <= player.Balance {
			actions.Presets = append(actions.Presets, BetPreset{Text: text, Amount: amount})
		}
	}
	if s.currentBet > 0 {
		appendPreset("DDADANG", 2*s.currentBet)
	}
	appendPreset("HALF", s.pot/2)
	appendPreset("QUARTER", s.pot/4)
	return actions
}
