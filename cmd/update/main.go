package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"stock-screener/src/config"
	datasource "stock-screener/src/data_source"
	"stock-screener/src/helpers"
	"stock-screener/src/logger"
	"stock-screener/src/models"
	"stock-screener/src/network"
	"stock-screener/src/refresh"
	"stock-screener/src/storage"
	"stock-screener/src/store"
)

// update runs one refresh cycle, persists it and prints the snapshot.
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline for the cycle")
	flag.Parse()

	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.NewLogger(conf.MConfig, "update")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	repo, err := storage.NewRepository(conf.MConfig, logger.NewLogger(conf.MConfig, "Repository"))
	if err != nil {
		appLogger.Critical("Failed to init repository: %v", err)
	}
	if err := repo.Initialize(ctx); err != nil {
		appLogger.Critical("Failed to open repository: %v", err)
	}
	defer repo.Close()

	if pg, ok := repo.(*storage.PostgresRepository); ok {
		tickers, err := pg.ExpandTickers(ctx, conf.DataSource.Tickers)
		if err != nil {
			appLogger.Critical("Failed to expand tickers: %v", err)
		}
		conf.DataSource.Tickers = tickers
	}

	netMgr := network.NewAsyncNetworkManager(conf.MConfig, logger.NewLogger(conf.MConfig, "NetworkManager"))
	provider, err := datasource.NewQuoteProvider(conf.MConfig, netMgr, logger.NewLogger(conf.MConfig, "DataSources"))
	if err != nil {
		appLogger.Critical("Failed to init data sources: %v", err)
	}

	quoteStore := store.NewQuoteStore(nil)
	orchestrator := refresh.NewOrchestrator(conf.MConfig, provider, quoteStore, repo, logger.NewLogger(conf.MConfig, "Orchestrator"))

	fmt.Printf("Fetching %d tickers...\n", len(conf.DataSource.Tickers))
	result, err := orchestrator.Refresh(ctx)
	var storageErr *helpers.StorageError
	if err != nil && !errors.As(err, &storageErr) {
		appLogger.Critical("Refresh failed: %v", err)
	}

	failed := make(map[string]bool, len(result.Failures))
	for _, t := range result.Failures {
		failed[t] = true
	}
	for _, q := range quoteStore.InInsertionOrder() {
		if failed[q.Ticker] {
			fmt.Printf("  x %s: fetch failed, stored placeholder\n", q.Ticker)
		} else {
			fmt.Printf("  + %s: %.2f\n", q.Ticker, q.CurrentPrice)
		}
	}

	fmt.Println()
	printSummary(os.Stdout, quoteStore.GetAll())
	fmt.Printf("\nUpdated %d stocks (%d failed) at %s in %v\n",
		result.Count, len(result.Failures), models.FormatTimestamp(result.LastUpdated), result.Duration.Round(time.Millisecond))

	if err != nil {
		fmt.Printf("Warning: snapshot was not persisted: %v\n", err)
		os.Exit(2)
	}
}

// -----------------------------------------------------------------------------

// printSummary writes the quotes, already ordered by change percent.
func printSummary(out io.Writer, quotes []models.MQuote) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "SYMBOL\tCOMPANY\tPRICE\tCHANGE\tCHANGE %\tMARKET CAP\tP/E\t")
	for _, q := range quotes {
		pe := "N/A"
		if v, ok := q.PERatio.Get(); ok {
			pe = fmt.Sprintf("%.2f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%+.2f\t%+.2f%%\t%s\t%s\t\n",
			q.Ticker, truncate(q.Name, 24), q.CurrentPrice, q.PriceChange, q.PriceChangePercent, q.MarketCapDisplay, pe)
	}
	w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
