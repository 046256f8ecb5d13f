package textgen

import (
	"context"
	"fmt"
	"time"

	xhttp "RiskPulse/pkg/http"
	"RiskPulse/pkg/logger"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-1.5-flash"
	retryAttempts  = 3
)

// GeminiClient generates narrative text through the generateContent API.
// It implements service.TextGenerator.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *xhttp.Client
	logger  *logger.Logger
}

type Option func(*GeminiClient)

func WithBaseURL(u string) Option {
	return func(c *GeminiClient) { c.baseURL = u }
}

func WithModel(m string) Option {
	return func(c *GeminiClient) { c.model = m }
}

func WithTimeout(d time.Duration) Option {
	return func(c *GeminiClient) { c.client = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

func NewGeminiClient(apiKey string, l *logger.Logger, opts ...Option) *GeminiClient {
	c := &GeminiClient{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   defaultModel,
		client:  xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		logger:  l,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends one prompt and returns the first candidate's text.
// Transient failures are retried with a short backoff.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("text generator has no api key")
	}

	req := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	var resp generateResponse
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodPost,
			URL:    fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model),
			Headers: map[string]string{
				"Content-Type":   "application/json",
				"x-goog-api-key": c.apiKey,
			},
			Body: req,
		}, &resp)
		if err == nil {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate content: empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
