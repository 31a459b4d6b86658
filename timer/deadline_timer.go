package timer

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var deadlineTimerLogger = log.With().Str("logger_name", "timer::deadline_timer").Logger()

// Purpose identifies what a fired deadline should do to the session.
type Purpose string

const (
	PurposeTurn      Purpose = "TURN"
	PurposeSelection Purpose = "SELECTION"
	PurposeRestart   Purpose = "RESTART"
)

// DeadlineMsg carries one scheduled deadline. Token is minted by the
// session on every Reset; a fired deadline whose token no longer matches
// the session's current token is stale and must be dropped.
type DeadlineMsg struct {
	Purpose  Purpose
	SeatNo   int
	PlayerID string
	Token    uint64
	ExpireAt time.Time
}

// DeadlineTimer runs one loop goroutine per session. Resetting supersedes
// any pending deadline, so at most one deadline is outstanding and at most
// one callback fires per scheduled deadline.
type DeadlineTimer struct {
	sessionID string

	chReset   chan DeadlineMsg
	chPause   chan bool
	chEndLoop chan bool

	callback   func(DeadlineMsg)
	currentMsg DeadlineMsg

	crashHandler func()
}

func NewDeadlineTimer(sessionID string, callback func(DeadlineMsg), crashHandler func()) *DeadlineTimer {
	dt := DeadlineTimer{
		sessionID:    sessionID,
		chReset:      make(chan DeadlineMsg),
		chPause:      make(chan bool),
		chEndLoop:    make(chan bool, 10),
		callback:     callback,
		crashHandler: crashHandler,
	}
	return &dt
}

func (d *DeadlineTimer) Run() {
	go d.loop()
}

func (d *DeadlineTimer) Destroy() {
	d.chEndLoop <- true
}

func (d *DeadlineTimer) loop() {
	defer func() {
		err := recover()
		if err != nil {
			// Panic occurred.
			debug.PrintStack()
			deadlineTimerLogger.Error().
				Str("session", d.sessionID).
				Msgf("Deadline timer loop returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))

			if d.crashHandler != nil {
				d.crashHandler()
			}
		} else {
			deadlineTimerLogger.Info().Str("session", d.sessionID).Msg("Deadline timer loop returning")
		}
	}()

	var expirationTime time.Time
	paused := true
	for {
		select {
		case <-d.chEndLoop:
			return
		case <-d.chPause:
			paused = true
		case msg := <-d.chReset:
			// Start the new deadline, superseding any pending one.
			d.currentMsg = msg
			expirationTime = msg.ExpireAt
			paused = false
		default:
			if !paused {
				remaining := expirationTime.Sub(time.Now())
				if remaining <= 0 {
					// Deadline expired. Fire exactly once.
					d.callback(d.currentMsg)
					expirationTime = time.Time{}
					paused = true
				}
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (d *DeadlineTimer) Pause() {
	d.chPause <- true
}

func (d *DeadlineTimer) Reset(msg DeadlineMsg) error {
	var errMsgs []string
	if msg.Purpose == "" {
		errMsgs = append(errMsgs, "invalid purpose")
	}
	if msg.Token == 0 {
		errMsgs = append(errMsgs, "invalid token")
	}
	if time.Time.IsZero(msg.ExpireAt) {
		errMsgs = append(errMsgs, "invalid expireAt")
	}
	if len(errMsgs) > 0 {
		return fmt.Errorf(strings.Join(errMsgs, "; "))
	}
	d.chReset <- msg
	return nil
}
