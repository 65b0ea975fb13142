package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"SignalForge/internal/di"
	"SignalForge/internal/usecase"
	"SignalForge/pkg/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	envFile := flag.String("env", ".env", "dotenv file loaded before env overrides")
	once := flag.Bool("once", false, "run a single analysis cycle, print the report and exit")
	interval := flag.Duration("interval", 0, "override bot.interval")
	healthCheck := flag.Bool("health-check", false, "validate configuration and exit")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load %s: %v", *envFile, err)
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *healthCheck {
		ec, err := usecase.EngineConfigFromConfig(cfg)
		if err == nil {
			_, err = usecase.NewSignalEngine(ec, nil, nil, nil)
		}
		if err != nil {
			log.Fatalf("config invalid: %v", err)
		}
		fmt.Println("configuration OK")
		return
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}
	defer cleanup()
	app.SetInterval(*interval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		ctx, cancel := context.WithTimeout(ctx, cfg.Bot.CycleTimeout+10*time.Second)
		defer cancel()
		res, err := app.RunOnce(ctx)
		if err != nil {
			log.Printf("analysis failed: %v", err)
			cleanup()
			os.Exit(1)
		}
		fmt.Print(usecase.RenderReport(res))
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("app error: %v", err)
		cleanup()
		os.Exit(1)
	}
}
