package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/pinewood/internal/audio"
	"chosenoffset.com/pinewood/internal/platform/env"
	"chosenoffset.com/pinewood/internal/platform/logger"
	"chosenoffset.com/pinewood/internal/session"
	"chosenoffset.com/pinewood/internal/simulation"
	"chosenoffset.com/pinewood/internal/tty"
)

func main() {
	configPath := flag.String("config", "", "tuning file (JSON); defaults to $PINEWOOD_CONFIG, then tuning.json")
	seed := flag.Int64("seed", 0, "world seed; 0 picks $PINEWOOD_SEED or the clock")
	mute := flag.Bool("mute", false, "disable audio")
	logPath := flag.String("log", "", "write logs to this file (the terminal is busy drawing)")
	flag.Parse()

	// Logging to the terminal would corrupt the screen
	lg := logger.Discard()
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		lg = logger.NewWithWriters(f, f)
	}

	if err := env.Load(); err != nil {
		lg.Warnf("Failed to load .env: %v", err)
	}

	config, err := simulation.LoadConfig(env.StringFlag(*configPath, env.ConfigPath, "tuning.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load tuning: %v\n", err)
		os.Exit(1)
	}

	worldSeed, err := env.Int64Flag(*seed, env.Seed, 0)
	if err != nil {
		lg.Warnf("Ignoring %s: %v", env.Seed, err)
	}
	if worldSeed == 0 {
		worldSeed = time.Now().UnixNano()
	}
	muted, err := env.BoolFlag(*mute, env.Mute)
	if err != nil {
		lg.Warnf("Ignoring %s: %v", env.Mute, err)
	}

	sound := audio.NewService(lg, muted)
	if err := sound.Start(); err != nil {
		// Non-fatal, game can run without sound
		lg.Warnf("Audio disabled: %v", err)
	}
	defer sound.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	s := session.NewFromSeed(config, worldSeed, session.Options{Audio: sound, Logger: lg})
	var outcome session.Outcome
	s.OnOutcome = func(o session.Outcome) {
		outcome = o
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lg.Infof("Starting terminal game (seed %d)", worldSeed)
	runErr := tty.NewApp(screen, s, lg).Run(ctx)
	screen.Fini()

	if runErr != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
	if outcome != session.OutcomeNone {
		fmt.Println(session.BannerFor(outcome))
	}
}
