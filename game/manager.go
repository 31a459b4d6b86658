package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var managerLogger = log.With().Str("logger_name", "game::manager").Logger()

// SessionDefaults are the table settings applied to every new session.
type SessionDefaults struct {
	MaxSeats        int
	StartingBalance int64
	GusaRegame      bool
	TurnTimeout     time.Duration
	SelectTimeout   time.Duration
	RegameDelay     time.Duration
	FinishedIdle    time.Duration
}

// Manager owns the active sessions. Sessions are independent; the
// manager lock only guards the registry.
type Manager struct {
	mu             sync.Mutex
	store          SessionStore
	broadcaster    Broadcaster
	defaults       SessionDefaults
	activeSessions map[string]*Session
}

func NewManager(store SessionStore, broadcaster Broadcaster, defaults SessionDefaults) *Manager {
	return &Manager{
		store:          store,
		broadcaster:    broadcaster,
		defaults:       defaults,
		activeSessions: make(map[string]*Session),
	}
}

func (m *Manager) CreateSession(mode GameMode, baseBet int64) (*Session, error) {
	if mode != ModeTwoCard && mode != ModeThreeCard {
		return nil, InvalidStateError{Msg: fmt.Sprintf("Unknown game mode %s", mode)}
	}
	if baseBet <= 0 {
		return nil, InvalidAmountError{Msg: fmt.Sprintf("Base bet must be positive, got %d", baseBet)}
	}

	sessionID := uuid.New().String()
	session := NewSession(sessionID, SessionConfig{
		Mode:            mode,
		BaseBet:         baseBet,
		MaxSeats:        m.defaults.MaxSeats,
		StartingBalance: m.defaults.StartingBalance,
		GusaRegame:      m.defaults.GusaRegame,
		TurnTimeout:     m.defaults.TurnTimeout,
		SelectTimeout:   m.defaults.SelectTimeout,
		RegameDelay:     m.defaults.RegameDelay,
		FinishedIdle:    m.defaults.FinishedIdle,
	}, m.store, m.broadcaster)
	session.Run()

	m.mu.Lock()
	m.activeSessions[sessionID] = session
	m.mu.Unlock()

	managerLogger.Info().Str("session", sessionID).Str("mode", string(mode)).Msg("Session created")
	return session, nil
}

func (m *Manager) GetSession(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.activeSessions[sessionID]
	if !ok {
		return nil, NotFoundError{Msg: fmt.Sprintf("Session %s is not found", sessionID)}
	}
	return session, nil
}

// RemoveSession tears the session down when the owning room closes.
func (m *Manager) RemoveSession(sessionID string) error {
	m.mu.Lock()
	session, ok := m.activeSessions[sessionID]
	if ok {
		delete(m.activeSessions, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return NotFoundError{Msg: fmt.Sprintf("Session %s is not found", sessionID)}
	}
	session.Destroy()
	if m.store != nil {
		if err := m.store.Remove(sessionID); err != nil {
			managerLogger.Error().Err(err).Str("session", sessionID).Msg("Could not remove session record")
		}
	}
	managerLogger.Info().Str("session", sessionID).Msg("Session removed")
	return nil
}

func (m *Manager) ActiveSessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.activeSessions)
}
