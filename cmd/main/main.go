package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-screener/src/config"
	"stock-screener/src/logger"
	"stock-screener/src/refresh"
	"stock-screener/src/store"
)

// -----------------------------------------------------------------------------

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)

	// 4. Setup Components
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := setupRepository(ctx, conf.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init repository: %v", err)
	}
	defer repo.Close()

	if err := expandTickers(ctx, conf, repo, appLogger); err != nil {
		appLogger.Critical("Failed to expand tickers: %v", err)
	}

	networkManager := setupNetwork(conf.MConfig)
	provider, err := setupProvider(conf.MConfig, networkManager, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init data sources: %v", err)
	}

	quoteStore := store.NewQuoteStore(nil)
	orchestrator := refresh.NewOrchestrator(conf.MConfig, provider, quoteStore, repo, logger.NewLogger(conf.MConfig, "Orchestrator"))

	// 5. Restore the last persisted snapshot
	if n, err := orchestrator.Restore(ctx); err != nil {
		appLogger.Warning("Could not restore snapshot: %v", err)
	} else if n > 0 {
		appLogger.Info("Restored %d quotes (last updated %s)", n, quoteStore.LastUpdated().Format(time.RFC3339))
	}

	// 6. Start Servers
	servers := newServers(conf, *configPath, orchestrator, provider)
	orchestrator.SetPublisher(refresh.Publishers{servers.http, servers.control})
	startServers(servers.all(), appLogger)

	// 7. Background refresher
	var scheduler *refresh.Scheduler
	if conf.DataSource.BackgroundRefresh {
		scheduler = setupScheduler(conf.MConfig, orchestrator)
		scheduler.Start(ctx)
	}

	// 8. Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	if scheduler != nil {
		scheduler.Stop()
	}
	cancel()
	stopServers(servers.all(), appLogger)
	appLogger.Info("Shutdown complete.")
}
