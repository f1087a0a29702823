package main

import (
	"context"
	"flag"
	"os"

	"github.com/distordia/nexgo/config"
	"github.com/distordia/nexgo/internal/app"
	"github.com/distordia/nexgo/pkg/logger"

	_ "github.com/distordia/nexgo/docs"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

// @title           NexGo Board API
// @version         1.0
// @description     Ledger-backed taxi listing board with driver broadcasting and ratings.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	log := logger.InitLogger("nexgo", logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		return
	}

	log = logger.InitLogger("nexgo", cfg.LogLevel)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
