package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"limitscan/0.3 (+https://github.com/limitscan/limitscan)", "limitscan"},
		{"limitscan", "limitscan"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.input); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRobotsChecker(t *testing.T) {
	var robotsCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsCalls++
			w.Write([]byte("User-agent: *\nDisallow: /private/\nCrawl-delay: 2\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	checker := NewRobotsChecker("limitscan", 2*time.Second)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/results")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Errorf("public path disallowed")
	}
	if delay != 2*time.Second {
		t.Errorf("crawl delay = %v, want 2s", delay)
	}

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/results")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if allowed {
		t.Errorf("private path allowed despite robots.txt")
	}

	// robots.txt is fetched once per host.
	if robotsCalls != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", robotsCalls)
	}

	checker.Clear()
	if _, _, err := checker.CanFetch(ctx, server.URL+"/results"); err != nil {
		t.Fatalf("CanFetch after Clear failed: %v", err)
	}
	if robotsCalls != 2 {
		t.Errorf("robots.txt fetched %d times after Clear, want 2", robotsCalls)
	}
}

func TestRobotsChecker_MissingRobots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	checker := NewRobotsChecker("limitscan", 2*time.Second)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/results")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Errorf("missing robots.txt must allow fetching")
	}
}

func TestNewProxyFunc(t *testing.T) {
	// Without explicit proxies the environment rules apply.
	f := NewProxyFunc("", "", "")
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, err := f(req); err != nil {
		t.Errorf("environment proxy func failed: %v", err)
	}

	f = NewProxyFunc("http://proxy.internal:3128", "http://sproxy.internal:3128", "")

	httpReq, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	u, err := f(httpReq)
	if err != nil || u == nil || u.Host != "proxy.internal:3128" {
		t.Errorf("http proxy = %v, %v", u, err)
	}

	httpsReq, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	u, err = f(httpsReq)
	if err != nil || u == nil || u.Host != "sproxy.internal:3128" {
		t.Errorf("https proxy = %v, %v", u, err)
	}
}
