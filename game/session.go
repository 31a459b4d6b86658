package game

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mysubb01/sutda-sub000/logging"
	"github.com/mysubb01/sutda-sub000/sutda"
	"github.com/mysubb01/sutda-sub000/timer"
)

var sessionLogger = log.With().Str("logger_name", "game::session").Logger()

// Broadcaster receives committed state. Publishing happens after the
// in-memory transition; failures are logged by the implementation, never
// rolled back into game state.
type Broadcaster interface {
	BroadcastSessionState(snapshot *Snapshot)
	SendPlayerState(playerID string, snapshot *Snapshot)
}

// NoopBroadcaster is used when no pub/sub channel is wired (tests,
// standalone mode).
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastSessionState(snapshot *Snapshot) {}

func (NoopBroadcaster) SendPlayerState(playerID string, snapshot *Snapshot) {}

// SessionConfig carries per-table settings resolved by the manager.
type SessionConfig struct {
	Mode            GameMode
	BaseBet         int64
	MaxSeats        int
	StartingBalance int64
	GusaRegame      bool
	TurnTimeout     time.Duration
	SelectTimeout   time.Duration
	RegameDelay     time.Duration
	FinishedIdle    time.Duration
	// DeckSource makes deals and first-turn selection deterministic in
	// tests. nil uses a crypto-seeded source.
	DeckSource rand.Source
}

// Session is the authoritative state machine for one table. All mutation
// happens under mu; commands and timer callbacks are serialized through
// it (single-writer), so a raced command re-validates against the
// post-mutation state and fails a precondition instead of double
// applying.
type Session struct {
	mu     sync.Mutex
	logger zerolog.Logger

	id              string
	mode            GameMode
	status          GameStatus
	phase           Phase
	handNum         uint32
	bettingRound    int
	pot             int64
	currentBet      int64
	baseBet         int64
	startingBalance int64
	gusaRegame      bool

	seats       *SeatTable
	turnSeat    int
	winnerID    string
	winningRank string
	revealed    bool

	turnDeadline  time.Time
	deadlineToken uint64

	deck    *sutda.Deck
	randGen *rand.Rand
	actions []BettingAction

	actionTimer *timer.DeadlineTimer
	store       SessionStore
	broadcaster Broadcaster

	turnTimeout   time.Duration
	selectTimeout time.Duration
	regameDelay   time.Duration
	finishedIdle  time.Duration
}

func newCryptoSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

func NewSession(id string, config SessionConfig, store SessionStore, broadcaster Broadcaster) *Session {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	source := config.DeckSource
	if source == nil {
		source = newCryptoSeed()
	}
	s := &Session{
		logger:          sessionLogger.With().Str(logging.SessionIDKey, id).Logger(),
		id:              id,
		mode:            config.Mode,
		status:          StatusWaiting,
		phase:           PhaseBetting,
		baseBet:         config.BaseBet,
		startingBalance: config.StartingBalance,
		gusaRegame:      config.GusaRegame,
		seats:           NewSeatTable(config.MaxSeats),
		turnSeat:        -1,
		randGen:         rand.New(source),
		store:           store,
		broadcaster:     broadcaster,
		turnTimeout:     config.TurnTimeout,
		selectTimeout:   config.SelectTimeout,
		regameDelay:     config.RegameDelay,
		finishedIdle:    config.FinishedIdle,
	}
	s.actionTimer = timer.NewDeadlineTimer(id, s.onDeadline, nil)
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Run starts the session's deadline timer loop.
func (s *Session) Run() {
	s.actionTimer.Run()
}

// Destroy stops the timer loop. The session must not be used afterward.
func (s *Session) Destroy() {
	s.actionTimer.Destroy()
}

// Join seats a player. While waiting, a seated player may move to a free
// seat through the same command. seatNo -1 takes the first open seat.
func (s *Session) Join(playerID string, name string, seatNo int) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting {
		return nil, InvalidStateError{Msg: fmt.Sprintf("Cannot join while session is %s", s.status)}
	}
	player := s.seats.ByPlayerID(playerID)
	if player == nil {
		player = &Player{
			ID:      playerID,
			Name:    name,
			Balance: s.startingBalance,
		}
	}
	if seatNo < 0 {
		seatNo = s.seats.FirstOpenSeat()
		if seatNo < 0 {
			return nil, InvalidStateError{Msg: "No open seats at the table"}
		}
	}
	if err := s.seats.Occupy(seatNo, player); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str(logging.PlayerIDKey, playerID).
		Str(logging.PlayerNameKey, name).
		Int(logging.SeatNoKey, seatNo).
		Msg("Player seated")
	s.commitLocked()
	return s.snapshotLocked(playerID), nil
}

// SetReady toggles readiness. Only meaningful while waiting.
func (s *Session) SetReady(playerID string, ready bool) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting {
		return nil, InvalidStateError{Msg: fmt.Sprintf("Cannot change readiness while session is %s", s.status)}
	}
	player := s.seats.ByPlayerID(playerID)
	if player == nil {
		return nil, NotFoundError{Msg: fmt.Sprintf("Player %s is not seated in session %s", playerID, s.id)}
	}
	player.Ready = ready
	s.commitLocked()
	return s.snapshotLocked(playerID), nil
}

// Leave vacates the player's seat. Legal only while waiting; mid-hand
// departures are the presence layer's concern and arrive as folds.
func (s *Session) Leave(playerID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting {
		return nil, InvalidStateError{Msg: fmt.Sprintf("Cannot leave while session is %s", s.status)}
	}
	player := s.seats.ByPlayerID(playerID)
	if player == nil {
		return nil, NotFoundError{Msg: fmt.Sprintf("Player %s is not seated in session %s", playerID, s.id)}
	}
	s.seats.Vacate(player.SeatNo)
	s.logger.Info().
		Str(logging.PlayerIDKey, playerID).
		Int(logging.SeatNoKey, player.SeatNo).
		Msg("Player left")
	s.commitLocked()
	return s.snapshotLocked(""), nil
}

// StartHand begins a hand: antes are collected from every participant,
// two cards dealt, and a uniformly random participant acts first.
func (s *Session) StartHand(requestedBy string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seats.ByPlayerID(requestedBy) == nil {
		return nil, NotFoundError{Msg: fmt.Sprintf("Player %s is not seated in session %s", requestedBy, s.id)}
	}
	if err := s.startHandLocked(); err != nil {
		return nil, err
	}
	s.commitLocked()
	return s.snapshotLocked(requestedBy), nil
}

func (s *Session) startHandLocked() error {
	if s.status != StatusWaiting {
		return InvalidStateError{Msg: fmt.Sprintf("Cannot start a hand while session is %s", s.status)}
	}

	var participants []*Player
	for _, player := range s.seats.Occupied() {
		// The seat-0 host plays without pressing ready.
		if !player.Ready && player.SeatNo != 0 {
			continue
		}
		if player.Balance < s.baseBet {
			continue
		}
		participants = append(participants, player)
	}
	if len(participants) < 2 {
		return InsufficientPlayersError{ReadyCount: len(participants)}
	}

	s.deck = sutda.NewDeck(s.randGen)
	for _, player := range participants {
		player.InHand = true
		player.Folded = false
		player.HasActed = false
		player.Hand = nil
		player.Chosen = nil
		player.Balance -= s.baseBet
		player.CommittedThisRound = 0
		player.TotalCommitted = s.baseBet
		s.pot += s.baseBet

		cards, err := s.deck.Draw(2)
		if err != nil {
			s.abortHandLocked(err)
			return InsufficientCardsError{Msg: err.Error()}
		}
		player.Hand = cards
	}

	s.handNum++
	s.status = StatusPlaying
	s.phase = PhaseBetting
	s.bettingRound = 1
	s.currentBet = 0
	s.winnerID = ""
	s.winningRank = ""
	s.revealed = false
	s.turnSeat = participants[s.randGen.Intn(len(participants))].SeatNo
	s.scheduleTurnDeadlineLocked()

	s.logger.Info().
		Uint32(logging.HandNumKey, s.handNum).
		Int(logging.SeatNoKey, s.turnSeat).
		Int("players", len(participants)).
		Msg("Hand started")
	return nil
}

// SelectCards records a player's explicit 2-of-3 choice during the
// selection phase of 3-card mode. A valid explicit choice is
// authoritative even if not optimal.
func (s *Session) SelectCards(playerID string, cards []sutda.Card) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying || s.phase != PhaseSelecting {
		return nil, InvalidStateError{Msg: "Card selection is not open"}
	}
	player := s.seats.ByPlayerID(playerID)
	if player == nil {
		return nil, NotFoundError{Msg: fmt.Sprintf("Player %s is not seated in session %s", playerID, s.id)}
	}
	if !player.InHand || player.Folded {
		return nil, InvalidStateError{Msg: fmt.Sprintf("Player %s is not in the hand", playerID)}
	}
	if len(cards) != 2 {
		return nil, InvalidAmountError{Msg: fmt.Sprintf("Must select exactly 2 cards, got %d", len(cards))}
	}
	if cards[0] == cards[1] || !containsCard(player.Hand, cards[0]) || !containsCard(player.Hand, cards[1]) {
		return nil, InvalidAmountError{Msg: "Selected cards are not part of the held hand"}
	}

	player.Chosen = []sutda.Card{cards[0], cards[1]}
	s.logger.Info().
		Str(logging.PlayerIDKey, playerID).
		Msgf("Player selected %s", sutda.CardsToString(player.Chosen))

	if s.allSelectedLocked() {
		s.showdownLocked()
	}
	s.commitLocked()
	return s.snapshotLocked(playerID), nil
}

func (s *Session) allSelectedLocked() bool {
	for _, player := range s.seats.Active() {
		if len(player.Chosen) != 2 {
			return false
		}
	}
	return true
}

func containsCard(hand []sutda.Card, card sutda.Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// GetSnapshot returns the viewer's state. Reads take the same lock;
// callers get an immutable copy.
func (s *Session) GetSnapshot(viewerID string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(viewerID)
}

// onDeadline is the timer callback. A fired deadline whose token does
// not match the session's current token lost a race with a player
// command and is dropped silently.
func (s *Session) onDeadline(msg timer.DeadlineMsg) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Token != s.deadlineToken {
		s.logger.Debug().
			Uint64(logging.TokenKey, msg.Token).
			Uint64("currentToken", s.deadlineToken).
			Str(logging.TimerKey, string(msg.Purpose)).
			Msg("Dropping stale deadline")
		return
	}

	switch msg.Purpose {
	case timer.PurposeTurn:
		if s.status != StatusPlaying || s.phase != PhaseBetting || s.turnSeat != msg.SeatNo {
			s.logger.Debug().Msg("Dropping turn deadline, turn already advanced")
			return
		}
		player := s.seats.Get(s.turnSeat)
		if player == nil || player.ID != msg.PlayerID {
			s.logger.Debug().Msg("Dropping turn deadline, player mismatch")
			return
		}
		// The synthetic action goes through the same validation path as
		// a client bet.
		kind := ActionFold
		if s.currentBet == player.CommittedThisRound {
			kind = ActionCheck
		}
		s.logger.Info().
			Str(logging.PlayerIDKey, player.ID).
			Str(logging.ActionKey, string(kind)).
			Msg("Turn timed out, applying auto action")
		if err := s.applyActionLocked(player, kind, 0); err != nil {
			s.logger.Debug().Err(err).Msg("Dropping failed auto action")
			return
		}
	case timer.PurposeSelection:
		if s.status != StatusPlaying || s.phase != PhaseSelecting {
			s.logger.Debug().Msg("Dropping selection deadline, phase already advanced")
			return
		}
		s.logger.Info().Msg("Selection timed out, auto-selecting best pairs")
		s.finishSelectionLocked()
	case timer.PurposeRestart:
		s.handleRestartLocked()
	}
	s.commitLocked()
}

// handleRestartLocked drives the settled session back to waiting. A
// regame restarts a fresh hand immediately with the same participants.
func (s *Session) handleRestartLocked() {
	switch s.status {
	case StatusRegame:
		s.resetHandLocked(true)
		if err := s.startHandLocked(); err != nil {
			s.logger.Info().Err(err).Msg("Could not restart hand after regame, back to waiting")
		}
	case StatusFinished:
		s.resetHandLocked(false)
		s.logger.Info().Msg("Idle grace elapsed, session back to waiting")
	default:
		s.logger.Debug().Str(logging.StatusKey, string(s.status)).Msg("Dropping restart deadline")
	}
}

// resetHandLocked clears all per-hand state. Balances survive across
// hands; stake changes are the account layer's business.
func (s *Session) resetHandLocked(preserveReady bool) {
	for _, player := range s.seats.Occupied() {
		player.Hand = nil
		player.Chosen = nil
		player.CommittedThisRound = 0
		player.TotalCommitted = 0
		player.InHand = false
		player.Folded = false
		player.HasActed = false
		if !preserveReady {
			player.Ready = false
		}
	}
	s.status = StatusWaiting
	s.phase = PhaseBetting
	s.bettingRound = 0
	s.pot = 0
	s.currentBet = 0
	s.turnSeat = -1
	s.winnerID = ""
	s.winningRank = ""
	s.revealed = false
	s.deck = nil
	s.turnDeadline = time.Time{}
	// Invalidate any in-flight deadline.
	s.deadlineToken++
}

func (s *Session) scheduleTurnDeadlineLocked() {
	player := s.seats.Get(s.turnSeat)
	if player == nil {
		return
	}
	s.deadlineToken++
	s.turnDeadline = time.Now().Add(s.turnTimeout)
	err := s.actionTimer.Reset(timer.DeadlineMsg{
		Purpose:  timer.PurposeTurn,
		SeatNo:   s.turnSeat,
		PlayerID: player.ID,
		Token:    s.deadlineToken,
		ExpireAt: s.turnDeadline,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not schedule turn deadline")
	}
}

func (s *Session) scheduleSelectionDeadlineLocked() {
	s.deadlineToken++
	s.turnDeadline = time.Now().Add(s.selectTimeout)
	err := s.actionTimer.Reset(timer.DeadlineMsg{
		Purpose:  timer.PurposeSelection,
		Token:    s.deadlineToken,
		ExpireAt: s.turnDeadline,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not schedule selection deadline")
	}
}

func (s *Session) scheduleRestartLocked(delay time.Duration) {
	s.deadlineToken++
	s.turnDeadline = time.Time{}
	err := s.actionTimer.Reset(timer.DeadlineMsg{
		Purpose:  timer.PurposeRestart,
		Token:    s.deadlineToken,
		ExpireAt: time.Now().Add(delay),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not schedule restart")
	}
}

// commitLocked externalizes the committed in-memory transition: persist
// the record and publish snapshots. Both are fire-and-forget; the
// in-memory session stays authoritative on failure.
func (s *Session) commitLocked() {
	if s.store != nil {
		if err := s.store.Save(s.buildRecordLocked()); err != nil {
			s.logger.Error().Err(err).Msg("Could not persist session record")
		}
	}
	s.broadcaster.BroadcastSessionState(s.snapshotLocked(""))
	for _, player := range s.seats.Occupied() {
		s.broadcaster.SendPlayerState(player.ID, s.snapshotLocked(player.ID))
	}
}
