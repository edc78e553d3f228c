package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/loophook/internal/config"
	"github.com/l1jgo/loophook/internal/core/event"
	"github.com/l1jgo/loophook/internal/core/hook"
	"github.com/l1jgo/loophook/internal/core/loop"
	"github.com/l1jgo/loophook/internal/layout"
	"github.com/l1jgo/loophook/internal/persist"
	"github.com/l1jgo/loophook/internal/scripting"
	"github.com/l1jgo/loophook/internal/system"
)

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string, id int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m %-41s \033[36;1m│\033[0m\n", "loopd  v"+version)
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", name, id)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Commands ──────────────────────────────────────────────────────

// printPhases lists the layout given by layoutPath, or the one the config
// points at when layoutPath is empty.
func printPhases(cmd *cobra.Command, cfgPath, layoutPath string) error {
	if layoutPath == "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		layoutPath = cfg.Loop.LayoutPath
	}
	phases, err := layout.Load(layoutPath)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	for i, p := range phases {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, p)
	}
	return nil
}

func run(cfgPath string) error {
	// 1. Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Build the loop from the phase layout
	printSection("loop")
	phases, err := layout.Load(cfg.Loop.LayoutPath)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	host := loop.NewHost(layout.Configuration(phases))
	bus := event.NewBus()
	reg := hook.NewRegistry(host, log.Named("hook"), bus)
	systems := hook.NewSystems(reg)
	printStat("phases", len(phases))

	// 4. Optional journal database
	var (
		journal  system.JournalWriter
		recorder system.StatsRecorder
	)
	if cfg.Database.DSN != "" {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		err = persist.RunMigrations(ctx, db.Pool)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")

		journal = persist.NewJournalRepo(db, cfg.Server.ID)
		recorder = persist.NewStatsRepo(db, cfg.Server.ID)
	}

	// 5. Register systems
	clock := system.NewFrameClock(nil)
	systems.Register(system.NewFrameStartSystem(clock))
	systems.Register(system.NewEventDispatchSystem(bus))
	systems.Register(system.NewFrameStatsSystem(clock, bus, recorder, cfg.Journal.StatsEvery, log.Named("stats")))
	var journalSys *system.JournalSystem
	if journal != nil {
		journalSys = system.NewJournalSystem(bus, journal, cfg.Journal.FlushEvery, log.Named("journal"))
		systems.Register(journalSys)
	}
	printStat("systems", systems.Len())

	// 6. Lua hooks
	var engine *scripting.Engine
	if cfg.Scripting.Enabled {
		engine, err = scripting.NewEngine(cfg.Scripting.Dir, reg, host, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		printStat("lua hooks", engine.HookCount())
	}
	fmt.Println()

	// 7. Start loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	var pollC <-chan time.Time
	if cfg.Loop.InputPollRate > 0 && cfg.Loop.InputPollRate < cfg.Loop.TickRate {
		poll := time.NewTicker(cfg.Loop.InputPollRate)
		defer poll.Stop()
		pollC = poll.C
	}

	printSection("ready")
	printReady(fmt.Sprintf("loop started (tick: %s)", cfg.Loop.TickRate))
	fmt.Println()

	shutdown := func() {
		stopLoop(systems, engine, bus, journalSys, log)
		log.Info("loop stopped", zap.Uint64("frames", host.Frame()))
	}

	for {
		select {
		case <-ticker.C:
			host.Tick(cfg.Loop.TickRate)
			if cfg.Loop.MaxFrames > 0 && host.Frame() >= cfg.Loop.MaxFrames {
				log.Info("frame limit reached", zap.Uint64("max_frames", cfg.Loop.MaxFrames))
				shutdown()
				return nil
			}
		case <-pollC:
			host.TickPhase(loop.PhaseInput, cfg.Loop.InputPollRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			shutdown()
			return nil
		}
	}
}

// stopLoop unhooks every system and Lua hook, then gives the journal one last
// dispatch so the resulting HookRemoved events are written before exit.
// engine and journalSys may be nil.
func stopLoop(systems *hook.Systems, engine *scripting.Engine, bus *event.Bus, journalSys *system.JournalSystem, log *zap.Logger) {
	systems.UnregisterAll()
	if engine != nil {
		engine.Close()
	}
	if journalSys == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	bus.SwapBuffers()
	bus.DispatchAll()
	if err := journalSys.Flush(ctx); err != nil {
		log.Error("final journal flush", zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
