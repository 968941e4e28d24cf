package main

import (
	"context"
	"time"

	"stock-screener/src/config"
	datasource "stock-screener/src/data_source"
	"stock-screener/src/interfaces"
	"stock-screener/src/logger"
	"stock-screener/src/models"
	"stock-screener/src/network"
	"stock-screener/src/refresh"
	"stock-screener/src/storage"
	"stock-screener/src/utils"
)

const repositoryInitTimeout = 30 * time.Second

// -----------------------------------------------------------------------------

// setupRepository opens the backend named by storage.db_type
func setupRepository(ctx context.Context, cfg *models.MConfig, appLogger *logger.Logger) (interfaces.IQuoteRepository, error) {
	repo, err := storage.NewRepository(cfg, logger.NewLogger(cfg, "Repository"))
	if err != nil {
		return nil, err
	}

	ictx, cancel := context.WithTimeout(ctx, repositoryInitTimeout)
	defer cancel()
	if err := repo.Initialize(ictx); err != nil {
		return nil, err
	}

	appLogger.Info("Repository ready (%s)", cfg.Storage.DBType)
	return repo, nil
}

// -----------------------------------------------------------------------------

// expandTickers resolves schema.table.column entries when the repository is
// postgres.
func expandTickers(ctx context.Context, conf *config.Config, repo interfaces.IQuoteRepository, appLogger *logger.Logger) error {
	pg, ok := repo.(*storage.PostgresRepository)
	if !ok {
		return nil
	}

	tickers, err := pg.ExpandTickers(ctx, conf.DataSource.Tickers)
	if err != nil {
		return err
	}
	if len(tickers) != len(conf.DataSource.Tickers) {
		appLogger.Info("Expanded %d ticker entries into %d tickers", len(conf.DataSource.Tickers), len(tickers))
	}
	conf.DataSource.Tickers = tickers
	return nil
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(cfg *models.MConfig) interfaces.INetworkManager {
	networkLogger := logger.NewLogger(cfg, "NetworkManager")
	return network.NewAsyncNetworkManager(cfg, networkLogger)
}

// -----------------------------------------------------------------------------

// setupProvider builds the ordered source chain from data_source.sources
func setupProvider(cfg *models.MConfig, netMgr interfaces.INetworkManager, appLogger *logger.Logger) (*datasource.MultiSourceManager, error) {
	appLogger.Info("Initializing data sources...")
	provider, err := datasource.NewQuoteProvider(cfg, netMgr, logger.NewLogger(cfg, "DataSources"))
	if err != nil {
		return nil, err
	}
	for _, src := range provider.GetAllSources() {
		appLogger.Info("Added source: %s", src.Name())
	}
	return provider, nil
}

// -----------------------------------------------------------------------------

// setupScheduler gates background cycles on the exchanges of the tracked tickers
func setupScheduler(cfg *models.MConfig, o *refresh.Orchestrator) *refresh.Scheduler {
	market := utils.NewMarketScheduler(o.TickerList(), logger.NewLogger(cfg, "MarketScheduler"))
	interval := time.Duration(cfg.DataSource.UpdateIntervalSeconds) * time.Second
	return refresh.NewScheduler(o, market, interval, logger.NewLogger(cfg, "Scheduler"))
}
