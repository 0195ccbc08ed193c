package resty_fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/user/review-harvester/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures the HTTP fetcher.
type Options struct {
	Timeout time.Duration
	// RequestsPerSecond of zero disables the politeness limit.
	RequestsPerSecond float64
	UserAgents        []string
	Proxies           []string
}

// RestyFetcher fetches source pages over plain HTTP.
type RestyFetcher struct {
	rotator *rotator
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRestyFetcher creates a fetcher with one client per proxy, or a single direct client.
func NewRestyFetcher(opts Options, logger *zap.Logger) *RestyFetcher {
	newClient := func() *resty.Client {
		c := resty.New().
			SetTimeout(opts.Timeout).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
			SetHeader("Accept", "text/html,application/xhtml+xml")
		return c
	}

	var clients []*resty.Client
	for _, proxy := range opts.Proxies {
		clients = append(clients, newClient().SetProxy(proxy))
	}
	if len(clients) == 0 {
		clients = append(clients, newClient())
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &RestyFetcher{
		rotator: newRotator(clients, opts.UserAgents),
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.Named("fetcher"),
	}
}

// Fetch issues a GET for url. Any transport error or non-2xx status is
// reported as repository.ErrPageUnavailable.
func (f *RestyFetcher) Fetch(ctx context.Context, url string) (*repository.Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrPageUnavailable, err)
	}

	start := time.Now()
	resp, err := f.rotator.client().R().
		SetContext(ctx).
		SetHeader("User-Agent", f.rotator.userAgent()).
		Get(url)
	if err != nil {
		f.logger.Debug("transport failure", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", repository.ErrPageUnavailable, err)
	}

	f.logger.Debug("fetched page",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)

	if !resp.IsSuccess() {
		return nil, &repository.StatusError{StatusCode: resp.StatusCode()}
	}

	return &repository.Page{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
