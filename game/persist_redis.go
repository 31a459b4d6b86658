package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisSessionStore persists session records as JSON values and action
// logs as Redis lists.
type RedisSessionStore struct {
	rdclient *redis.Client
}

func NewRedisSessionStore(redisURL string, redisPW string, redisDB int) *RedisSessionStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisSessionStore{
		rdclient: rdclient,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("sutda:session:%s", sessionID)
}

func actionLogKey(sessionID string) string {
	return fmt.Sprintf("sutda:actions:%s", sessionID)
}

func (r *RedisSessionStore) Save(record *SessionRecord) error {
	recordBytes, err := jsonit.Marshal(record)
	if err != nil {
		return err
	}
	return r.rdclient.Set(context.Background(), sessionKey(record.SessionID), recordBytes, 0).Err()
}

func (r *RedisSessionStore) Load(sessionID string) (*SessionRecord, error) {
	recordBytes, err := r.rdclient.Get(context.Background(), sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, NotFoundError{Msg: fmt.Sprintf("Session record for key %s is not found", sessionID)}
	} else if err != nil {
		return nil, err
	}
	record := &SessionRecord{}
	err = jsonit.Unmarshal([]byte(recordBytes), record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *RedisSessionStore) Remove(sessionID string) error {
	return r.rdclient.Del(context.Background(), sessionKey(sessionID), actionLogKey(sessionID)).Err()
}

func (r *RedisSessionStore) AppendAction(sessionID string, action BettingAction) error {
	actionBytes, err := jsonit.Marshal(action)
	if err != nil {
		return err
	}
	return r.rdclient.RPush(context.Background(), actionLogKey(sessionID), actionBytes).Err()
}

func (r *RedisSessionStore) Actions(sessionID string) ([]BettingAction, error) {
	entries, err := r.rdclient.LRange(context.Background(), actionLogKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	actions := make([]BettingAction, 0, len(entries))
	for _, entry := range entries {
		var action BettingAction
		if err := jsonit.Unmarshal([]byte(entry), &action); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}
