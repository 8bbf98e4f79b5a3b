package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meusugar/server/internal/retry"
)

const requestTimeout = 30 * time.Second

// StatusError is a non-2xx provider response.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.Status, e.Body)
}

// apiClient sends JSON requests with a per-attempt timeout and bounded retry.
// 4xx responses are not retried.
type apiClient struct {
	provider string
	http     *http.Client
	token    string
	retry    retry.Config
}

func newAPIClient(provider, token string, client *http.Client, cfg retry.Config) apiClient {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return apiClient{provider: provider, http: client, token: token, retry: cfg}
}

func (c apiClient) do(ctx context.Context, method, url string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("%s: encode request: %w", c.provider, err)
		}
	}

	return retry.Do(ctx, c.retry, func(ctx context.Context, attempt int) error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return retry.Permanent(fmt.Errorf("%s: build request: %w", c.provider, err))
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s: %w", c.provider, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := &StatusError{Provider: c.provider, Status: resp.StatusCode, Body: string(snippet)}
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return retry.Permanent(statusErr)
			}
			return statusErr
		}
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("%s: decode response: %w", c.provider, err))
		}
		return nil
	})
}
