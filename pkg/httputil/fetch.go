package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/brandqr/pkg/buildinfo"
	"github.com/matzehuels/brandqr/pkg/observability"
)

var (
	// ErrNetwork marks transport failures and 5xx/429 responses.
	ErrNetwork = errors.New("network error")
	// ErrStatus marks non-retryable HTTP status codes.
	ErrStatus = errors.New("unexpected status")
	// ErrTooLarge is returned when the body exceeds the size limit.
	ErrTooLarge = errors.New("response too large")
)

// DefaultClient is used when Fetch is given a nil client.
var DefaultClient = &http.Client{Timeout: 10 * time.Second}

// Fetch GETs url and returns at most maxBytes of body. Transient failures
// are wrapped with Retryable so they can be passed straight to Retry.
func Fetch(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return nil, Retryable(fmt.Errorf("%w: %s", ErrNetwork, resp.Status))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, maxBytes)
	}
	return body, nil
}
