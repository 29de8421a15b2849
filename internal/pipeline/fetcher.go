package pipeline

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"

	"github.com/JeanHerbaut/HerbautArbre/internal/cache"
	"github.com/JeanHerbaut/HerbautArbre/internal/model"
	"github.com/JeanHerbaut/HerbautArbre/internal/util"
)

// Fetcher retrieves chronicle pages published as web pages. Fetched bytes
// go through the cache so repeated parses of the same chronicle stay
// offline.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	store      cache.Cache
	robots     *util.RobotsChecker
}

// NewFetcher creates a fetcher; store may be nil to disable caching
func NewFetcher(cfg model.HTTPConfig, store cache.Cache) *Fetcher {
	transport := &http.Transport{}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		store:     store,
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
	}
}

// FetchResult contains the fetched chronicle bytes and metadata
type FetchResult struct {
	Body        []byte
	StatusCode  int
	ContentType string
	FinalURL    string
	Cached      bool
}

// Fetch retrieves the chronicle at the given URL, honoring robots.txt and
// the cache.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	allowed, _, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
	}

	key := cache.Key(rawURL)
	if f.store != nil {
		if body, found := f.store.Get(key); found {
			return &FetchResult{Body: body, FinalURL: rawURL, Cached: true}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if f.store != nil {
		_ = f.store.Set(key, body, 0)
	}

	return &FetchResult{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
