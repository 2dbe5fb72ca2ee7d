package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/config"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/effects"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/scenario"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/monitoring"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	scenarioPath := flag.String("scenario", "", "Scenario YAML file (empty generates a map)")
	turns := flag.Int("turns", -1, "Turns to run (-1 to use config max_turns)")
	seed := flag.Int64("seed", 0, "Map generation and demo order seed (0 to use config, then the clock)")
	width := flag.Int("width", 0, "Generated map width (0 to use config default)")
	height := flag.Int("height", 0, "Generated map height (0 to use config default)")
	empires := flag.Int("empires", 0, "Generated empire count (0 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	renderEvery := flag.Int("render-every", -1, "Print the board every N turns, 0 disables (-1 to use config default)")
	watch := flag.Bool("watch", false, "Reload the config file when it changes")
	slowTurn := flag.Duration("slow-turn", 250*time.Millisecond, "Warn when a turn takes longer than this (0 disables)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}

	overrides := map[string]int{
		"simulation.map.width":   *width,
		"simulation.map.height":  *height,
		"simulation.map.empires": *empires,
	}
	for key, value := range overrides {
		if value > 0 {
			config.Set(key, value)
		}
	}
	if *turns >= 0 {
		config.Set("simulation.max_turns", *turns)
	}
	cfg := config.Get()
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	if *renderEvery < 0 {
		*renderEvery = cfg.Development.RenderEvery
	}
	if *seed == 0 {
		*seed = cfg.Simulation.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	setupLogging(*logLevel, cfg.Logging.Format)

	var render atomic.Int64
	render.Store(int64(*renderEvery))
	if *watch {
		config.WatchConfig(func(next *config.Config) {
			if level, err := zerolog.ParseLevel(next.Logging.Level); err == nil && next.Logging.Level != "" {
				zerolog.SetGlobalLevel(level)
			}
			render.Store(int64(next.Development.RenderEvery))
			log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded")
		}, func(err error) {
			log.Error().Err(err).Msg("Ignoring invalid config reload")
		})
	}

	var sc *scenario.Scenario
	if *scenarioPath != "" {
		loaded, err := scenario.Load(*scenarioPath, effects.NewRegistry())
		if err != nil {
			log.Fatal().Err(err).Str("path", *scenarioPath).Msg("Failed to load scenario")
		}
		sc = loaded
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal, finishing current turn")
		cancel()
	}()

	bus := events.NewEventBus()
	eventLogger := subscribers.NewLoggerSubscriber("cli", log.Logger, zerolog.InfoLevel)
	eventLogger.SetDevMode(cfg.Development.VerboseLogging)
	if !cfg.Development.VerboseLogging {
		eventLogger.SetEventFilter([]string{
			events.TypeSourceConquered,
			events.TypeEmpireEliminated,
			events.TypeRelationChanged,
			events.TypePathNotFound,
		})
	}
	bus.Subscribe(eventLogger)
	turnMonitor := monitoring.NewTurnMonitor(log.Logger, *slowTurn)
	bus.Subscribe(turnMonitor)

	engine, err := game.NewEngine(ctx, game.GameConfig{
		Scenario: sc,
		Seed:     *seed,
		Settings: cfg,
		Logger:   log.Logger,
		EventBus: bus,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine")
	}
	log.Info().Str("world_id", engine.ID()).Int64("seed", *seed).Msg("World created")

	color := cfg.Development.Color
	fmt.Printf("Initial board:\n%s\n", engine.Board(color))

	rng := rand.New(rand.NewSource(*seed))
	game.GenerateRandomOrders(engine, rng)
	ran, err := engine.Run(ctx, cfg.Simulation.MaxTurns, func(e *game.Engine) {
		if every := int(render.Load()); every > 0 && e.Turn()%every == 0 {
			fmt.Printf("Turn %d:\n%s\n", e.Turn(), e.Board(color))
			printStats(e)
		}
		if !e.IsGameOver() {
			game.GenerateRandomOrders(e, rng)
		}
	})
	if err != nil {
		log.Error().Err(err).Int("turns_run", ran).Msg("Simulation stopped")
	}

	if winner, ok := engine.Winner(); ok {
		emp, _ := engine.Empire(winner)
		fmt.Printf("Game over after %d turns: %s wins\n", engine.Turn(), emp.Name)
	} else if leader, ok := engine.Leader(); ok {
		emp, _ := engine.Empire(leader)
		fmt.Printf("Stopped after %d turns: %s holds the most territory\n", engine.Turn(), emp.Name)
	} else {
		fmt.Printf("Stopped after %d turns with no clear leader\n", engine.Turn())
	}
	fmt.Printf("\nFinal board:\n%s\n", engine.Board(color))
	printStats(engine)
	turnMonitor.LogSummary()
}

func printStats(e *game.Engine) {
	for _, s := range e.Stats() {
		status := "ALIVE"
		if !s.Alive {
			status = "ELIMINATED"
		}
		fmt.Printf("%-8s %-10s sources=%d power=%d tiles=%d movers=%d\n",
			s.Name, status, s.Sources, s.TotalPower, s.Tiles, s.Movers)
	}
	fmt.Println()
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" || format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
