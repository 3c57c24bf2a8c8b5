package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"chosenoffset.com/pinewood/internal/assets"
	"chosenoffset.com/pinewood/internal/audio"
	"chosenoffset.com/pinewood/internal/game"
	"chosenoffset.com/pinewood/internal/platform/env"
	"chosenoffset.com/pinewood/internal/platform/logger"
	ebitenrender "chosenoffset.com/pinewood/internal/render/ebiten"
	"chosenoffset.com/pinewood/internal/simulation"
)

func main() {
	configPath := flag.String("config", "", "tuning file (JSON); defaults to $PINEWOOD_CONFIG, then tuning.json")
	seed := flag.Int64("seed", 0, "world seed; 0 picks $PINEWOOD_SEED or the clock")
	mute := flag.Bool("mute", false, "disable audio")
	fullscreen := flag.Bool("fullscreen", false, "start in fullscreen")
	flag.Parse()

	lg := logger.New()
	if err := env.Load(); err != nil {
		lg.Warnf("Failed to load .env: %v", err)
	}

	config, err := simulation.LoadConfig(env.StringFlag(*configPath, env.ConfigPath, "tuning.json"))
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}

	worldSeed := resolveSeed(*seed, lg)
	muted, err := env.BoolFlag(*mute, env.Mute)
	if err != nil {
		lg.Warnf("Ignoring %s: %v", env.Mute, err)
	}
	full, err := env.BoolFlag(*fullscreen, env.Fullscreen)
	if err != nil {
		lg.Warnf("Ignoring %s: %v", env.Fullscreen, err)
	}

	screenWidth := 1280
	screenHeight := 800

	// Initialize the renderer backend (ebiten)
	renderer, err := ebitenrender.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	// Load shader source files
	lightingShaderSrc, err := os.ReadFile("shaders/lighting.kage")
	if err != nil {
		lg.Warnf("Failed to load lighting shader: %v", err)
	}

	// Generate sprites in the background; the manager waits on the barrier
	recipes := assets.DefaultRecipes()
	library := assets.NewLibrary()
	barrier := assets.NewBarrier(len(recipes))
	barrier.OnProgress(func(loaded, total int) {
		lg.Infof("Assets %d/%d", loaded, total)
	})
	barrier.OnComplete(func() {
		lg.Info("All assets ready")
	})
	go func() {
		if err := library.Load(context.Background(), recipes, barrier); err != nil {
			lg.Errorf("Asset generation failed: %v", err)
		}
	}()

	sound := audio.NewService(lg, muted)
	if err := sound.Start(); err != nil {
		// Non-fatal, game can run without sound
		lg.Warnf("Audio disabled: %v", err)
	}
	defer sound.Close()

	// Create the game manager
	gameManager := game.NewManager(renderer, inputMgr, screenWidth, screenHeight)
	gameManager.Log = lg
	gameManager.SetConfig(config, worldSeed)
	gameManager.SetAssets(library, barrier)
	gameManager.SetAudio(sound)
	gameManager.SetShaderSources(lightingShaderSrc)

	// Set up the window
	engine.SetWindowSize(screenWidth, screenHeight)
	engine.SetWindowTitle("Pinewood")
	engine.SetWindowResizable(true)
	engine.SetFullscreen(full)

	lg.Infof("Starting game (seed %d)...", worldSeed)
	if err := engine.RunGame(gameManager); err != nil && !errors.Is(err, game.ErrQuit) {
		log.Fatal(err)
	}
}

// resolveSeed prefers the flag, then the environment, then the clock.
func resolveSeed(flagSeed int64, lg *logger.Logger) int64 {
	seed, err := env.Int64Flag(flagSeed, env.Seed, 0)
	if err != nil {
		lg.Warnf("Ignoring %s: %v", env.Seed, err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seed
}
