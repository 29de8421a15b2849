package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JeanHerbaut/HerbautArbre/internal/cache"
	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
	}
}

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("expected test-agent user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>Pierre Herbaut</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil)
	result, err := fetcher.Fetch(context.Background(), server.URL+"/chronique.html")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result.Body) != "<html><body>Pierre Herbaut</body></html>" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", result.StatusCode)
	}
	if result.ContentType != "text/html" {
		t.Errorf("Expected text/html, got %s", result.ContentType)
	}
	if result.Cached {
		t.Error("Expected fresh fetch, got cached")
	}
}

func TestFetcher_Fetch_CacheHit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits.Add(1)
		_, _ = fmt.Fprint(w, "chronicle content")
	}))
	defer server.Close()

	store := cache.NewMemoryCache(time.Minute)
	fetcher := NewFetcher(testHTTPConfig(), store)
	url := server.URL + "/chronique.txt"

	first, err := fetcher.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if first.Cached {
		t.Error("expected first fetch to be fresh")
	}

	second, err := fetcher.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if !second.Cached {
		t.Error("expected second fetch to hit the cache")
	}
	if string(second.Body) != "chronicle content" {
		t.Errorf("expected cached body, got %q", second.Body)
	}
	if hits.Load() != 1 {
		t.Errorf("expected exactly 1 origin hit, got %d", hits.Load())
	}
}

func TestFetcher_Fetch_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /prive/\n")
			return
		}
		_, _ = fmt.Fprint(w, "should not be served")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/prive/chronique.html")
	if err == nil {
		t.Fatal("expected robots.txt to block the fetch")
	}
	if !strings.Contains(err.Error(), "robots.txt") {
		t.Errorf("expected robots error, got %v", err)
	}
}

func TestFetcher_Fetch_RobotsAllowedPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /prive/\n")
			return
		}
		_, _ = fmt.Fprint(w, "public chronicle")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil)
	result, err := fetcher.Fetch(context.Background(), server.URL+"/public/chronique.html")
	if err != nil {
		t.Fatalf("expected allowed path to fetch, got %v", err)
	}
	if string(result.Body) != "public chronicle" {
		t.Errorf("unexpected body: %s", result.Body)
	}
}

func TestFetcher_Fetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/absente.html")
	if err == nil {
		t.Fatal("expected error for 404, got nil")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestFetcher_Fetch_BodyTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, strings.Repeat("x", 1000))
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 100
	fetcher := NewFetcher(cfg, nil)

	result, err := fetcher.Fetch(context.Background(), server.URL+"/grosse.html")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(result.Body) != 100 {
		t.Errorf("expected body capped at 100 bytes, got %d", len(result.Body))
	}
}
