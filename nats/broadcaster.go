package nats

import (
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mysubb01/sutda-sub000/game"
)

var natsLogger = log.With().Str("logger_name", "nats::broadcaster").Logger()

var jsonit = jsoniter.ConfigCompatibleWithStandardLibrary

// Broadcaster publishes committed session snapshots to per-session NATS
// subjects. The public subject carries the masked snapshot; each seated
// player additionally gets a private subject with their own cards.
type Broadcaster struct {
	natsConn *natsgo.Conn
}

func NewBroadcaster(natsURL string) (*Broadcaster, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		natsLogger.Error().Msgf("Failed to connect to NATS server at %s", natsURL)
		return nil, err
	}
	return &Broadcaster{natsConn: nc}, nil
}

func (b *Broadcaster) BroadcastSessionState(snapshot *game.Snapshot) {
	b.publish(GetSessionStateSubject(snapshot.SessionID), snapshot)
}

func (b *Broadcaster) SendPlayerState(playerID string, snapshot *game.Snapshot) {
	b.publish(GetPlayerStateSubject(snapshot.SessionID, playerID), snapshot)
}

func (b *Broadcaster) publish(subject string, snapshot *game.Snapshot) {
	data, err := jsonit.Marshal(snapshot)
	if err != nil {
		natsLogger.Error().Err(err).Str("subject", subject).Msg("Could not marshal snapshot")
		return
	}
	if err := b.natsConn.Publish(subject, data); err != nil {
		natsLogger.Error().Err(err).Str("subject", subject).Msg("Could not publish snapshot")
	}
}

func (b *Broadcaster) Close() {
	b.natsConn.Close()
}
