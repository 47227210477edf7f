// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides a simpler http.Client abstraction and derivative uses.
package httpx

import (
	"bufio"
	"bytes"
	"net/http"

	"github.com/google/crate-avail/internal/cache"
)

// BasicClient is a simpler http.Client that only requires a Do method.
type BasicClient interface {
	Do(*http.Request) (*http.Response, error)
}

var _ BasicClient = http.DefaultClient

// WithUserAgent is a basic HTTP client that adds a User-Agent header.
type WithUserAgent struct {
	BasicClient
	UserAgent string
}

var _ BasicClient = &WithUserAgent{}

// Do adds the User-Agent header and sends the request.
func (c *WithUserAgent) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.UserAgent)
	return c.BasicClient.Do(req)
}

// CachedClient is a BasicClient that caches GET and HEAD responses.
type CachedClient struct {
	BasicClient
	ch cache.Cache
}

// NewCachedClient returns a new CachedClient.
func NewCachedClient(client BasicClient, c cache.Cache) *CachedClient {
	return &CachedClient{client, c}
}

// Do attempts to fulfill the request from cache or, failing that, with the
// underlying client. Concurrent misses for the same URL share one request.
// Server errors are never cached.
func (cc *CachedClient) Do(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return cc.BasicClient.Do(req)
	}
	respBytes, err := cc.ch.GetOrSet(req.URL.String(), func() (any, error) {
		resp, err := cc.BasicClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		var buf bytes.Buffer
		if err := resp.Write(&buf); err != nil {
			return nil, err
		}
		if isServer := resp.StatusCode >= 500 && resp.StatusCode <= 599; isServer {
			// Propagate the bytes but clear the entry so a retry re-fetches.
			return nil, &uncacheableResponse{buf.Bytes()}
		}
		return buf.Bytes(), nil
	})
	if u, ok := err.(*uncacheableResponse); ok {
		respBytes, err = u.raw, nil
	}
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(respBytes.([]byte))), req)
}

type uncacheableResponse struct {
	raw []byte
}

func (u *uncacheableResponse) Error() string { return "uncacheable response" }

var _ BasicClient = &CachedClient{}
