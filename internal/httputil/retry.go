// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across upstream clients.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Policy describes how an upstream client retries transient failures.
// The literature-database client uses MaxRetries=1 with a longer Delay:
// wait, retry once, and on a second failure hand the upstream payload to
// the caller unchanged.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// Delay is the fixed wait before each retry.
	Delay time.Duration
}

// retryableStatus reports whether an HTTP status indicates a transient
// upstream condition worth one more attempt.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Do executes req and retries per the policy on network errors and transient
// HTTP statuses. The request body must be rewindable (GET or GetBody set);
// req.Clone is used for each attempt. After exhausting retries the last
// response (or error) is returned as-is so the caller can propagate the
// upstream payload unchanged.
func Do(ctx context.Context, client *http.Client, req *http.Request, policy Policy) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if attempt >= policy.MaxRetries {
			return resp, err
		}

		if err == nil {
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.Delay):
		}
	}
}
