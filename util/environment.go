package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type serverEnvironment struct {
	PersistMethod      string
	RedisHost          string
	RedisPort          string
	RedisPW            string
	RedisDB            string
	NatsURL            string
	ListenPort         string
	RulesFile          string
	TurnTimeoutSec     string
	SelectTimeoutSec   string
	RegameDelaySec     string
	FinishedIdleSec    string
	DisableRateLimiter string
}

// ServerEnvironment is a helper object for accessing environment variables.
var ServerEnvironment = &serverEnvironment{
	PersistMethod:      "PERSIST_METHOD",
	RedisHost:          "REDIS_HOST",
	RedisPort:          "REDIS_PORT",
	RedisPW:            "REDIS_PW",
	RedisDB:            "REDIS_DB",
	NatsURL:            "NATS_URL",
	ListenPort:         "LISTEN_PORT",
	RulesFile:          "RULES_FILE",
	TurnTimeoutSec:     "TURN_TIMEOUT",
	SelectTimeoutSec:   "SELECT_TIMEOUT",
	RegameDelaySec:     "REGAME_DELAY",
	FinishedIdleSec:    "FINISHED_IDLE_TIMEOUT",
	DisableRateLimiter: "DISABLE_RATE_LIMITER",
}

func (s *serverEnvironment) GetPersistMethod() string {
	method := os.Getenv(s.PersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (s *serverEnvironment) GetRedisHost() string {
	host := os.Getenv(s.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", s.RedisHost)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (s *serverEnvironment) GetRedisPort() int {
	portStr := os.Getenv(s.RedisPort)
	if portStr == "" {
		msg := fmt.Sprintf("%s is not defined", s.RedisPort)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (s *serverEnvironment) GetRedisPW() string {
	return os.Getenv(s.RedisPW)
}

func (s *serverEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(s.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis db %s", dbStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return dbNum
}

func (s *serverEnvironment) GetNatsURL() string {
	return os.Getenv(s.NatsURL)
}

func (s *serverEnvironment) GetListenPort() int {
	return s.getIntWithDefault(s.ListenPort, 9000)
}

func (s *serverEnvironment) GetRulesFile() string {
	return os.Getenv(s.RulesFile)
}

func (s *serverEnvironment) GetTurnTimeoutSec() int {
	return s.getIntWithDefault(s.TurnTimeoutSec, 20)
}

func (s *serverEnvironment) GetSelectTimeoutSec() int {
	return s.getIntWithDefault(s.SelectTimeoutSec, 15)
}

func (s *serverEnvironment) GetRegameDelaySec() int {
	return s.getIntWithDefault(s.RegameDelaySec, 5)
}

func (s *serverEnvironment) GetFinishedIdleSec() int {
	return s.getIntWithDefault(s.FinishedIdleSec, 30)
}

func (s *serverEnvironment) ShouldDisableRateLimiter() bool {
	v := os.Getenv(s.DisableRateLimiter)
	return v == "1" || v == "true"
}

func (s *serverEnvironment) getIntWithDefault(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid value %s for %s", valStr, key)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return val
}
