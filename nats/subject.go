package nats

import (
	"fmt"
)

func GetSessionStateSubject(sessionID string) string {
	return fmt.Sprintf("sutda.%s.state", sessionID)
}

func GetPlayerStateSubject(sessionID string, playerID string) string {
	return fmt.Sprintf("sutda.%s.player.%s", sessionID, playerID)
}
