// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/crate-avail/internal/cache"
)

type countingClient struct {
	calls int
	fn    func(*http.Request) (*http.Response, error)
}

func (c *countingClient) Do(req *http.Request) (*http.Response, error) {
	c.calls++
	return c.fn(req)
}

func TestWithUserAgent(t *testing.T) {
	inner := &countingClient{fn: func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("User-Agent"); got != "test-agent/1.0" {
			t.Errorf("User-Agent = %q, want %q", got, "test-agent/1.0")
		}
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(""))}, nil
	}}
	client := &WithUserAgent{BasicClient: inner, UserAgent: "test-agent/1.0"}
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if _, err := client.Do(req); err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestCachedClient_CachesGet(t *testing.T) {
	inner := &countingClient{fn: func(req *http.Request) (*http.Response, error) {
		resp := httptest.NewRecorder()
		resp.WriteString("hello")
		return resp.Result(), nil
	}}
	client := NewCachedClient(inner, &cache.CoalescingMemoryCache{})
	for range 3 {
		req, _ := http.NewRequest(http.MethodGet, "https://example.com/crates/serde", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Do() failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != "hello" {
			t.Fatalf("body = %q, want %q", body, "hello")
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", inner.calls)
	}
}

func TestCachedClient_SkipsNonGet(t *testing.T) {
	inner := &countingClient{fn: func(req *http.Request) (*http.Response, error) {
		resp := httptest.NewRecorder()
		return resp.Result(), nil
	}}
	client := NewCachedClient(inner, &cache.CoalescingMemoryCache{})
	for range 2 {
		req, _ := http.NewRequest(http.MethodPost, "https://example.com", strings.NewReader("x"))
		if _, err := client.Do(req); err != nil {
			t.Fatalf("Do() failed: %v", err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", inner.calls)
	}
}

func TestCachedClient_DoesNotCacheServerErrors(t *testing.T) {
	inner := &countingClient{fn: func(req *http.Request) (*http.Response, error) {
		resp := httptest.NewRecorder()
		resp.WriteHeader(http.StatusInternalServerError)
		return resp.Result(), nil
	}}
	client := NewCachedClient(inner, &cache.CoalescingMemoryCache{})
	for range 2 {
		req, _ := http.NewRequest(http.MethodGet, "https://example.com/flaky", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Do() failed: %v", err)
		}
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", resp.StatusCode)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", inner.calls)
	}
}
