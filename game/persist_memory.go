package game

import (
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var jsonit = jsoniter.ConfigCompatibleWithStandardLibrary

// MemorySessionStore keeps serialized records in memory. Used for tests
// and standalone mode.
type MemorySessionStore struct {
	mu             sync.Mutex
	activeSessions map[string][]byte
	actionLogs     map[string][][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		activeSessions: make(map[string][]byte),
		actionLogs:     make(map[string][][]byte),
	}
}

func (m *MemorySessionStore) Save(record *SessionRecord) error {
	recordBytes, err := jsonit.Marshal(record)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeSessions[record.SessionID] = recordBytes
	return nil
}

func (m *MemorySessionStore) Load(sessionID string) (*SessionRecord, error) {
	m.mu.Lock()
	recordBytes, ok := m.activeSessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil, NotFoundError{Msg: fmt.Sprintf("Session record for key %s is not found", sessionID)}
	}
	record := &SessionRecord{}
	err := jsonit.Unmarshal(recordBytes, record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (m *MemorySessionStore) Remove(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.activeSessions, sessionID)
	delete(m.actionLogs, sessionID)
	return nil
}

func (m *MemorySessionStore) AppendAction(sessionID string, action BettingAction) error {
	actionBytes, err := jsonit.Marshal(action)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionLogs[sessionID] = append(m.actionLogs[sessionID], actionBytes)
	return nil
}

func (m *MemorySessionStore) Actions(sessionID string) ([]BettingAction, error) {
	m.mu.Lock()
	logBytes := m.actionLogs[sessionID]
	m.mu.Unlock()
	actions := make([]BettingAction, 0, len(logBytes))
	for _, actionBytes := range logBytes {
		var action BettingAction
		if err := jsonit.Unmarshal(actionBytes, &action); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}
