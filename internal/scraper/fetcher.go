package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

var errInvalidURL = errors.New("invalid URL")

const defaultMaxBodyBytes = 5 << 20

// Fetcher downloads reference pages politely
type Fetcher struct {
	httpClient   *http.Client
	timeout      time.Duration
	limiter      *rate.Limiter
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

type FetcherOption func(*Fetcher)

// WithTimeout sets the HTTP client timeout. It applies to a client given
// through WithHTTPClient regardless of option order.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRateLimit caps outbound requests
func WithRateLimit(requestsPerMinute int, burst int) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
	}
}

func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodyBytes bounds how much of a page is read
func WithMaxBodyBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.httpClient = c
		}
	}
}

func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger.With("component", "fetcher")
	}
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		limiter:      rate.NewLimiter(rate.Inf, 1),
		userAgent:    "Mozilla/5.0 (compatible; sitegen/1.0)",
		maxBodyBytes: defaultMaxBodyBytes,
		logger:       slog.Default().With("component", "fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.timeout > 0 && f.httpClient.Timeout != f.timeout {
		// copy so a caller's client is left untouched
		client := *f.httpClient
		client.Timeout = f.timeout
		f.httpClient = &client
	}
	return f
}

// Fetch returns the raw page body. Every failure is a FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, NewFetchError(rawURL, errInvalidURL)
	}

	waitStart := time.Now()
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, NewFetchError(rawURL, fmt.Errorf("rate limit wait failed: %w", err))
	}
	f.logger.Debug("rate limit passed",
		"url", rawURL,
		"wait_duration_ms", time.Since(waitStart).Milliseconds())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewFetchError(rawURL, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, NewFetchError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewFetchError(rawURL, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, NewFetchError(rawURL, fmt.Errorf("read body: %w", err))
	}

	f.logger.Debug("page fetched",
		"url", rawURL,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds())

	return body, nil
}
