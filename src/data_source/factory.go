package datasource

import (
	"strings"

	"stock-screener/src/data_source/polygon"
	"stock-screener/src/data_source/yahoo"
	"stock-screener/src/helpers"
	"stock-screener/src/interfaces"
	"stock-screener/src/logger"
	"stock-screener/src/models"
)

// NewQuoteProvider builds the configured sources, in order, behind a
// MultiSourceManager. Sources with max_requests_per_minute set are rate limited.
func NewQuoteProvider(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) (*MultiSourceManager, error) {
	var sources []interfaces.IQuoteProvider

	for _, sc := range cfg.DataSource.Sources {
		var src interfaces.IQuoteProvider
		switch strings.ToLower(sc.Name) {
		case "yahoo":
			src = yahoo.NewYahooFinanceSource(cfg, sc, netMgr, log)
		case "polygon":
			p, err := polygon.NewPolygonSource(sc, log)
			if err != nil {
				return nil, err
			}
			src = p
		default:
			return nil, helpers.NewConfigurationError("unknown data source %q", sc.Name)
		}

		if sc.MaxRequestsPerMinute > 0 {
			src = NewRateLimitedProvider(src, sc.MaxRequestsPerMinute, sc.Burst)
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, helpers.NewConfigurationError("no data sources configured")
	}
	return NewMultiSourceManager(sources, log.Named("MultiSourceManager")), nil
}
