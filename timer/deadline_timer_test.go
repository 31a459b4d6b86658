package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeadlineFiresOnce(t *testing.T) {
	var mu sync.Mutex
	var fired []DeadlineMsg
	dt := NewDeadlineTimer("test-session", func(msg DeadlineMsg) {
		mu.Lock()
		fired = append(fired, msg)
		mu.Unlock()
	}, nil)
	dt.Run()
	defer dt.Destroy()

	err := dt.Reset(DeadlineMsg{
		Purpose:  PurposeTurn,
		SeatNo:   1,
		PlayerID: "p1",
		Token:    1,
		ExpireAt: time.Now().Add(100 * time.Millisecond),
	})
	require.NoError(t, err)

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1)
	require.Equal(t, uint64(1), fired[0].Token)
	require.Equal(t, PurposeTurn, fired[0].Purpose)
}

func TestResetSupersedesPendingDeadline(t *testing.T) {
	var mu sync.Mutex
	var fired []DeadlineMsg
	dt := NewDeadlineTimer("test-session", func(msg DeadlineMsg) {
		mu.Lock()
		fired = append(fired, msg)
		mu.Unlock()
	}, nil)
	dt.Run()
	defer dt.Destroy()

	err := dt.Reset(DeadlineMsg{
		Purpose:  PurposeTurn,
		SeatNo:   1,
		PlayerID: "p1",
		Token:    1,
		ExpireAt: time.Now().Add(200 * time.Millisecond),
	})
	require.NoError(t, err)

	// Supersede before the first deadline expires.
	err = dt.Reset(DeadlineMsg{
		Purpose:  PurposeTurn,
		SeatNo:   2,
		PlayerID: "p2",
		Token:    2,
		ExpireAt: time.Now().Add(100 * time.Millisecond),
	})
	require.NoError(t, err)

	time.Sleep(600 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1)
	require.Equal(t, uint64(2), fired[0].Token)
	require.Equal(t, "p2", fired[0].PlayerID)
}

func TestPauseCancelsDeadline(t *testing.T) {
	var mu sync.Mutex
	firedCount := 0
	dt := NewDeadlineTimer("test-session", func(msg DeadlineMsg) {
		mu.Lock()
		firedCount++
		mu.Unlock()
	}, nil)
	dt.Run()
	defer dt.Destroy()

	err := dt.Reset(DeadlineMsg{
		Purpose:  PurposeSelection,
		Token:    7,
		ExpireAt: time.Now().Add(200 * time.Millisecond),
	})
	require.NoError(t, err)
	dt.Pause()

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 0, firedCount)
}

func TestResetValidation(t *testing.T) {
	dt := NewDeadlineTimer("test-session", func(msg DeadlineMsg) {}, nil)
	err := dt.Reset(DeadlineMsg{})
	require.Error(t, err)
}
