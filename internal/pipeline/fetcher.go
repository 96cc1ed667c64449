package pipeline

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/limitscan/limitscan/internal/cache"
	"github.com/limitscan/limitscan/internal/model"
	"github.com/limitscan/limitscan/internal/util"
	"github.com/limitscan/limitscan/internal/worker"
)

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep between retries, injectable for tests.
var fetchSleepFunc = time.Sleep

// Fetcher retrieves result pages politely: robots.txt compliance,
// per-domain rate limiting, a bounded body read and a page cache.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	pages      cache.Cache // nil disables caching
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewFetcher creates a fetcher from the HTTP and rate-limit
// configuration. A nil page cache disables caching.
func NewFetcher(cfg *model.Config, pages cache.Cache, logger *zap.Logger) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		limiter:   worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		robots:    util.NewRobotsChecker(util.NormalizeUserAgent(cfg.HTTP.UserAgent), cfg.HTTP.Timeout),
		pages:     pages,
		cacheTTL:  cfg.Cache.TTL,
		logger:    logger,
	}
}

// FetchBody returns the page body for a URL, satisfying the source
// package's PageFetcher interface.
func (f *Fetcher) FetchBody(ctx context.Context, rawURL string) (string, error) {
	if f.pages != nil {
		if body, found := f.pages.Get(cache.Key(rawURL)); found {
			f.logger.Debug("page cache hit", zap.String("url", rawURL))
			return string(body), nil
		}
	}

	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	body, err := f.fetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if f.pages != nil {
		if err := f.pages.Set(cache.Key(rawURL), []byte(body), f.cacheTTL); err != nil {
			f.logger.Warn("page cache write failed", zap.String("url", rawURL), zap.Error(err))
		}
	}
	return body, nil
}

// fetchWithRetry retries transient failures (network errors, 5xx) with a
// short backoff. Client errors fail immediately.
func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchMaxRetries; attempt++ {
		body, retryable, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || attempt == fetchMaxRetries {
			break
		}

		f.logger.Debug("fetch retry",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err))
		fetchSleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
	}
	return "", lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (body string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode >= 500, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", true, fmt.Errorf("read body: %w", err)
	}

	return string(data), false, nil
}
