package game

import (
	"github.com/mysubb01/sutda-sub000/logging"
	"github.com/mysubb01/sutda-sub000/sutda"
)

// checkRoundCompletionLocked decides whether the betting round is over
// and drives the hand forward if so. Returns true when the round (or the
// whole hand) ended.
func (s *Session) checkRoundCompletionLocked() bool {
	active := s.seats.Active()
	if len(active) <= 1 {
		s.endHandByFoldLocked(active)
		return true
	}
	for _, player := range active {
		if player.AllIn() {
			// All-in players cannot match further raises.
			continue
		}
		if !player.HasActed || player.CommittedThisRound != s.currentBet {
			return false
		}
	}
	s.advanceRoundLocked()
	return true
}

// advanceRoundLocked moves a completed betting round forward: third card
// and second round in 3-card mode, then the selection phase, otherwise
// straight to showdown.
func (s *Session) advanceRoundLocked() {
	if s.mode == ModeThreeCard && s.bettingRound == 1 {
		for _, player := range s.seats.Active() {
			cards, err := s.deck.Draw(1)
			if err != nil {
				s.abortHandLocked(err)
				return
			}
			player.Hand = append(player.Hand, cards...)
		}
		s.bettingRound = 2
		s.resetBettingRoundLocked()
		s.logger.Info().Int(logging.RoundKey, s.bettingRound).Msg("Dealt third card, second betting round")

		first := s.firstEligibleSeatLocked()
		if first < 0 {
			// Everyone is all-in; no betting is possible this round.
			s.advanceRoundLocked()
			return
		}
		s.turnSeat = first
		s.scheduleTurnDeadlineLocked()
		return
	}

	if s.mode == ModeThreeCard && s.bettingRound == 2 {
		s.startSelectionLocked()
		return
	}

	s.showdownLocked()
}

func (s *Session) resetBettingRoundLocked() {
	s.currentBet = 0
	for _, player := range s.seats.Occupied() {
		if player.InHand {
			player.CommittedThisRound = 0
			player.HasActed = false
		}
	}
}

func (s *Session) firstEligibleSeatLocked() int {
	for _, player := range s.seats.Occupied() {
		if player.InHand && !player.Folded && player.Balance > 0 {
			return player.SeatNo
		}
	}
	return -1
}

// startSelectionLocked begins the choose-2-of-3 phase. There is no turn
// order; every active player selects against one shared deadline.
func (s *Session) startSelectionLocked() {
	s.phase = PhaseSelecting
	s.turnSeat = -1
	s.scheduleSelectionDeadlineLocked()
	s.logger.Info().Msg("Card selection phase started")
}

// finishSelectionLocked applies the best-pair fallback to anyone who has
// not chosen, then runs the showdown.
func (s *Session) finishSelectionLocked() {
	for _, player := range s.seats.Active() {
		if len(player.Chosen) == 2 {
			continue
		}
		meld, err := sutda.BestPair(player.Hand)
		if err != nil {
			s.abortHandLocked(err)
			return
		}
		player.Chosen = []sutda.Card{meld.Cards[0], meld.Cards[1]}
		s.logger.Debug().
			Str(logging.PlayerIDKey, player.ID).
			Msgf("Auto-selected best pair %s", sutda.CardsToString(player.Chosen))
	}
	s.showdownLocked()
}

func (s *Session) showdownCardsLocked(player *Player) (sutda.Card, sutda.Card) {
	if s.mode == ModeThreeCard {
		return player.Chosen[0], player.Chosen[1]
	}
	return player.Hand[0], player.Hand[1]
}

// showdownLocked evaluates every active hand. The single strongest hand
// wins the pot; an equal top strength routes to a regame, as do the
// configured forced-regame hands (gusa) when enabled.
func (s *Session) showdownLocked() {
	s.revealed = true
	active := s.seats.Active()

	var best sutda.Meld
	var winner *Player
	tied := false
	gusaRegame := false
	melds := make(map[string]sutda.Meld)

	for _, player := range active {
		a, b := s.showdownCardsLocked(player)
		meld := sutda.Evaluate(a, b)
		melds[player.ID] = meld
		if winner == nil || meld.Strength > best.Strength {
			best = meld
			winner = player
			tied = false
		} else if meld.Strength == best.Strength {
			tied = true
		}
	}

	if s.gusaRegame {
		for _, player := range active {
			a, b := s.showdownCardsLocked(player)
			if sutda.IsBrightGusa(a, b) && best.Rank < sutda.RankTtaeng {
				gusaRegame = true
			} else if sutda.IsGusa(a, b) && best.Rank < sutda.RankAlli {
				gusaRegame = true
			}
		}
	}

	for _, player := range active {
		s.logger.Info().
			Str(logging.PlayerIDKey, player.ID).
			Int(logging.SeatNoKey, player.SeatNo).
			Msgf("Showdown hand: %s", melds[player.ID])
	}

	if tied || gusaRegame {
		s.startRegameLocked()
		return
	}

	winner.Balance += s.pot
	s.pot = 0
	s.winnerID = winner.ID
	s.winningRank = best.String()
	s.status = StatusFinished
	s.turnSeat = -1
	s.logger.Info().
		Str(logging.PlayerIDKey, winner.ID).
		Str(logging.StatusKey, string(s.status)).
		Msgf("Hand won at showdown with %s", best)
	s.scheduleRestartLocked(s.finishedIdle)
}

// endHandByFoldLocked credits the sole survivor without a showdown.
func (s *Session) endHandByFoldLocked(active []*Player) {
	if len(active) == 0 {
		// Defensive: everyone folded at once cannot happen through the
		// command path; refund and reset.
		s.abortHandLocked(InvalidStateError{Msg: "No active players remain"})
		return
	}
	winner := active[0]
	winner.Balance += s.pot
	s.pot = 0
	s.winnerID = winner.ID
	s.winningRank = ""
	s.status = StatusFinished
	s.turnSeat = -1
	s.logger.Info().
		Str(logging.PlayerIDKey, winner.ID).
		Msg("Hand won by fold, no showdown")
	s.scheduleRestartLocked(s.finishedIdle)
}

// startRegameLocked returns every participant's chips and schedules a
// fresh hand. The pot is not carried over.
func (s *Session) startRegameLocked() {
	for _, player := range s.seats.Occupied() {
		if !player.InHand {
			continue
		}
		player.Balance += player.TotalCommitted
		s.pot -= player.TotalCommitted
		player.TotalCommitted = 0
		player.CommittedThisRound = 0
	}
	if s.pot != 0 {
		s.logger.Error().Int64("pot", s.pot).Msg("Pot not empty after regame refund")
		s.pot = 0
	}
	s.status = StatusRegame
	s.turnSeat = -1
	s.winnerID = ""
	s.winningRank = ""
	s.logger.Info().Str(logging.StatusKey, string(s.status)).Msg("Hand tied, scheduling regame")
	s.scheduleRestartLocked(s.regameDelay)
}

// abortHandLocked handles fatal mid-hand errors (deck exhaustion).
// Commitments are refunded and the hand closes with no winner.
func (s *Session) abortHandLocked(err error) {
	s.logger.Error().Err(err).Msg("Aborting hand")
	for _, player := range s.seats.Occupied() {
		if !player.InHand {
			continue
		}
		player.Balance += player.TotalCommitted
		s.pot -= player.TotalCommitted
		player.TotalCommitted = 0
		player.CommittedThisRound = 0
	}
	s.pot = 0
	s.status = StatusFinished
	s.turnSeat = -1
	s.winnerID = ""
	s.winningRank = ""
	s.scheduleRestartLocked(s.finishedIdle)
}
