package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/resthub/internal/infrastructure/config"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/logging"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/server"
)

func main() {
	// Parse flags
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "YAML config file")
	port := flag.String("port", "", "Server port")
	host := flag.String("host", "", "Listen host")
	baseDir := flag.String("base-dir", "", "Directory served under /api/file")
	backend := flag.String("users-backend", "", "User store: memory, file or dynamodb")
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Explicit flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "host":
			cfg.Server.Host = *host
		case "base-dir":
			cfg.Files.BaseDir = *baseDir
		case "users-backend":
			cfg.Users.Backend = *backend
		case "dev":
			cfg.Logging.Development = *dev
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}
