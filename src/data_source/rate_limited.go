package datasource

import (
	"context"

	"stock-screener/src/interfaces"
	"stock-screener/src/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider gates every call to the wrapped provider on a shared
// token bucket.
type RateLimitedProvider struct {
	P       interfaces.IQuoteProvider
	Limiter *rate.Limiter
}

// NewRateLimitedProvider allows maxPerMinute calls per minute with the given
// burst. The bucket starts full. A non-positive maxPerMinute disables the limit.
func NewRateLimitedProvider(p interfaces.IQuoteProvider, maxPerMinute, burst int) *RateLimitedProvider {
	limit := rate.Inf
	if maxPerMinute > 0 {
		limit = rate.Limit(float64(maxPerMinute) / 60.0)
	}
	return &RateLimitedProvider{P: p, Limiter: rate.NewLimiter(limit, max(1, burst))}
}

func (r *RateLimitedProvider) Name() string { return r.P.Name() }

func (r *RateLimitedProvider) FetchQuote(ctx context.Context, ticker string) (models.MRawQuote, error) {
	if err := r.Limiter.Wait(ctx); err != nil {
		return models.MRawQuote{}, err
	}
	return r.P.FetchQuote(ctx, ticker)
}

func (r *RateLimitedProvider) FetchLatestPrice(ctx context.Context, ticker string) (float64, error) {
	if err := r.Limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return r.P.FetchLatestPrice(ctx, ticker)
}
