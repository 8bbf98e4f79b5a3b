package video

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/meusugar/server/internal/retry"
)

// ErrNoResult is returned when a provider answered without a video URL.
var ErrNoResult = errors.New("provider returned no video")

// Provider turns an image into a video URL.
type Provider interface {
	Name() string
	Generate(ctx context.Context, imageURL string) (string, error)
}

// OpenAI calls the image generation endpoint with an image-to-video prompt.
type OpenAI struct {
	BaseURL string
	api     apiClient
}

func NewOpenAI(apiKey string, client *http.Client) *OpenAI {
	return &OpenAI{
		BaseURL: "https://api.openai.com/v1",
		api:     newAPIClient("openai", apiKey, client, retry.DefaultConfig()),
	}
}

func (p *OpenAI) Name() string { return "openai" }

func (p *OpenAI) Generate(ctx context.Context, imageURL string) (string, error) {
	req := map[string]any{
		"prompt": "Generate a video from this image: " + imageURL,
		"n":      1,
		"size":   "1024x1024",
	}
	var resp struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := p.api.do(ctx, http.MethodPost, p.BaseURL+"/images/generations", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("openai: %w", ErrNoResult)
	}
	return resp.Data[0].URL, nil
}

// ComfyUI runs the image-to-video workflow of a ComfyUI gateway.
type ComfyUI struct {
	baseURL string
	api     apiClient
}

func NewComfyUI(baseURL, apiKey string, client *http.Client) *ComfyUI {
	return &ComfyUI{
		baseURL: strings.TrimRight(baseURL, "/"),
		api:     newAPIClient("comfyui", apiKey, client, retry.DefaultConfig()),
	}
}

func (p *ComfyUI) Name() string { return "comfyui" }

func (p *ComfyUI) Generate(ctx context.Context, imageURL string) (string, error) {
	req := map[string]string{
		"image_url": imageURL,
		"workflow":  "image-to-video",
	}
	var resp struct {
		VideoURL string `json:"video_url"`
	}
	if err := p.api.do(ctx, http.MethodPost, p.baseURL+"/generate", req, &resp); err != nil {
		return "", err
	}
	if resp.VideoURL == "" {
		return "", fmt.Errorf("comfyui: %w", ErrNoResult)
	}
	return resp.VideoURL, nil
}

const (
	runPodPollInterval = 2 * time.Second
	runPodMaxPolls     = 30
)

// RunPod submits an async job to a serverless endpoint and polls its status.
type RunPod struct {
	BaseURL      string
	PollInterval time.Duration
	MaxPolls     int
	endpointID   string
	api          apiClient
}

func NewRunPod(apiKey, endpointID string, client *http.Client) *RunPod {
	return &RunPod{
		BaseURL:      "https://api.runpod.ai/v2",
		PollInterval: runPodPollInterval,
		MaxPolls:     runPodMaxPolls,
		endpointID:   endpointID,
		api:          newAPIClient("runpod", apiKey, client, retry.DefaultConfig()),
	}
}

func (p *RunPod) Name() string { return "runpod" }

type runPodStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output struct {
		VideoURL string `json:"video_url"`
	} `json:"output"`
}

func (p *RunPod) Generate(ctx context.Context, imageURL string) (string, error) {
	base := p.BaseURL + "/" + p.endpointID
	req := map[string]any{
		"input": map[string]string{
			"image_url": imageURL,
			"task":      "image-to-video",
		},
	}
	var job runPodStatus
	if err := p.api.do(ctx, http.MethodPost, base+"/run", req, &job); err != nil {
		return "", err
	}
	if job.ID == "" {
		return "", fmt.Errorf("runpod: job id missing")
	}

	var videoURL string
	err := retry.Poll(ctx, p.PollInterval, p.MaxPolls, func(ctx context.Context) (bool, error) {
		var st runPodStatus
		if err := p.api.do(ctx, http.MethodGet, base+"/status/"+job.ID, nil, &st); err != nil {
			return false, err
		}
		switch st.Status {
		case "COMPLETED":
			if st.Output.VideoURL == "" {
				return false, fmt.Errorf("runpod job %s: %w", job.ID, ErrNoResult)
			}
			videoURL = st.Output.VideoURL
			return true, nil
		case "FAILED", "CANCELLED", "TIMED_OUT":
			return false, fmt.Errorf("runpod job %s ended with status %s", job.ID, st.Status)
		default:
			return false, nil
		}
	})
	if err != nil {
		return "", fmt.Errorf("runpod: %w", err)
	}
	return videoURL, nil
}
