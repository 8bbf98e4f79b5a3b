package video

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/cache"
	"github.com/meusugar/server/internal/config"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/retry"
)

var fastRetry = retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

type stubProvider struct {
	name  string
	url   string
	err   error
	calls int32
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(context.Context, string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.url, s.err
}

func TestGenerator_PriorityAndCache(t *testing.T) {
	ctx := context.Background()
	first := &stubProvider{name: "first", err: errors.New("boom")}
	second := &stubProvider{name: "second", url: "https://cdn/v.mp4"}
	third := &stubProvider{name: "third", url: "https://cdn/other.mp4"}
	g := NewGenerator([]Provider{first, second, third}, cache.NewMemoryStore(), logging.Discard())

	req := Request{ImageURL: "https://img/1.jpg", MediaID: "1", ModelSlug: "ana-silva"}
	res, err := g.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, Result{VideoURL: "https://cdn/v.mp4"}, res)
	assert.Equal(t, int32(0), atomic.LoadInt32(&third.calls))

	res, err = g.Generate(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&second.calls))
}

func TestGenerator_Errors(t *testing.T) {
	ctx := context.Background()
	req := Request{ImageURL: "https://img/1.jpg", MediaID: "1", ModelSlug: "ana-silva"}

	_, err := NewGenerator(nil, nil, logging.Discard()).Generate(ctx, req)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	failing := NewGenerator([]Provider{&stubProvider{name: "a", err: errors.New("x")}}, nil, logging.Discard())
	_, err = failing.Generate(ctx, req)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	_, err = failing.Generate(ctx, Request{ImageURL: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestProvidersFromConfig(t *testing.T) {
	ps := ProvidersFromConfig(config.VideoConfig{
		OpenAIKey:  "k",
		ComfyUIURL: "http://comfy",
		RunPodKey:  "k",
	}, nil)
	require.Len(t, ps, 2, "runpod needs an endpoint id")
	assert.Equal(t, "openai", ps[0].Name())
	assert.Equal(t, "comfyui", ps[1].Name())
	assert.Empty(t, ProvidersFromConfig(config.VideoConfig{}, nil))
}

func TestOpenAI(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["prompt"], "https://img/1.jpg")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{{"url": "https://oai/v.mp4"}}})
	}))
	defer srv.Close()

	p := NewOpenAI("sk-test", srv.Client())
	p.BaseURL = srv.URL
	p.api.retry = fastRetry

	url, err := p.Generate(context.Background(), "https://img/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://oai/v.mp4", url)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "5xx is retried")
}

func TestComfyUI_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewComfyUI(srv.URL+"/", "key", srv.Client())
	p.api.retry = fastRetry

	_, err := p.Generate(context.Background(), "https://img/1.jpg")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunPod_Polling(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ep1/run":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-9", "status": "IN_QUEUE"})
		case "/ep1/status/job-9":
			if atomic.AddInt32(&polls, 1) < 3 {
				_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-9", "status": "IN_PROGRESS"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "job-9", "status": "COMPLETED", "output": map[string]string{"video_url": "https://rp/v.mp4"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewRunPod("key", "ep1", srv.Client())
	p.BaseURL = srv.URL
	p.PollInterval = time.Millisecond
	p.api.retry = fastRetry

	url, err := p.Generate(context.Background(), "https://img/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://rp/v.mp4", url)
	assert.Equal(t, int32(3), atomic.LoadInt32(&polls))
}

func TestRunPod_FailedAndExhausted(t *testing.T) {
	var status atomic.Value
	status.Store("FAILED")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ep1/run" {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status.Load().(string)})
	}))
	defer srv.Close()

	p := NewRunPod("key", "ep1", srv.Client())
	p.BaseURL = srv.URL
	p.PollInterval = time.Millisecond
	p.MaxPolls = 4
	p.api.retry = fastRetry

	_, err := p.Generate(context.Background(), "https://img/1.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAILED")

	status.Store("IN_PROGRESS")
	_, err = p.Generate(context.Background(), "https://img/1.jpg")
	assert.ErrorIs(t, err, retry.ErrExhausted)
}
