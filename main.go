package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mysubb01/sutda-sub000/game"
	"github.com/mysubb01/sutda-sub000/logging"
	"github.com/mysubb01/sutda-sub000/nats"
	"github.com/mysubb01/sutda-sub000/rest"
	"github.com/mysubb01/sutda-sub000/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

func main() {
	var logLevel = flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	var rulesFile = flag.String("rules", "", "table rules yaml file (overrides RULES_FILE)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		mainLogger.Fatal().Msgf("Invalid log level %s", *logLevel)
	}
	zerolog.SetGlobalLevel(level)

	if err := run(*rulesFile); err != nil {
		mainLogger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run(rulesFile string) error {
	if rulesFile == "" {
		rulesFile = util.ServerEnvironment.GetRulesFile()
	}
	rules, err := util.LoadRules(rulesFile)
	if err != nil {
		return err
	}
	mainLogger.Info().
		Int("maxSeats", rules.MaxSeats).
		Int64("baseBet", rules.BaseBet).
		Str("mode", rules.Mode).
		Msg("Table rules loaded")

	var store game.SessionStore
	persistMethod := util.ServerEnvironment.GetPersistMethod()
	switch persistMethod {
	case "memory":
		store = game.NewMemorySessionStore()
	case "redis":
		redisAddr := fmt.Sprintf("%s:%d",
			util.ServerEnvironment.GetRedisHost(),
			util.ServerEnvironment.GetRedisPort())
		store = game.NewRedisSessionStore(redisAddr,
			util.ServerEnvironment.GetRedisPW(),
			util.ServerEnvironment.GetRedisDB())
	default:
		return fmt.Errorf("Unsupported persist method %s", persistMethod)
	}
	mainLogger.Info().Msgf("Persistence: %s", persistMethod)

	var broadcaster game.Broadcaster
	natsURL := util.ServerEnvironment.GetNatsURL()
	if natsURL == "" {
		mainLogger.Warn().Msg("NATS_URL is not set, running without broadcast")
		broadcaster = game.NoopBroadcaster{}
	} else {
		natsBroadcaster, err := nats.NewBroadcaster(natsURL)
		if err != nil {
			return err
		}
		defer natsBroadcaster.Close()
		broadcaster = natsBroadcaster
	}

	manager := game.NewManager(store, broadcaster, game.SessionDefaults{
		MaxSeats:        rules.MaxSeats,
		StartingBalance: rules.StartingBalance,
		GusaRegame:      rules.GusaRegame,
		TurnTimeout:     time.Duration(util.ServerEnvironment.GetTurnTimeoutSec()) * time.Second,
		SelectTimeout:   time.Duration(util.ServerEnvironment.GetSelectTimeoutSec()) * time.Second,
		RegameDelay:     time.Duration(util.ServerEnvironment.GetRegameDelaySec()) * time.Second,
		FinishedIdle:    time.Duration(util.ServerEnvironment.GetFinishedIdleSec()) * time.Second,
	})

	server := rest.NewServer(manager, util.ServerEnvironment.ShouldDisableRateLimiter())
	return server.Run(util.ServerEnvironment.GetListenPort())
}
