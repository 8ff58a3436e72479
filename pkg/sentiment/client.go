package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"medbot-backend/pkg/apperrors"
)

const (
	LabelNeutral = "neutral"

	defaultTimeout = 10 * time.Second
)

// ErrMalformedResult is returned when the service answers 2xx with an unusable body
var ErrMalformedResult = errors.New("malformed sentiment result")

type Request struct {
	Text string `json:"text"`
}

// Result is the body returned by POST /analyze
type Result struct {
	Label      string  `json:"predicted_label"`
	Confidence float64 `json:"confidence"`
}

// Default is substituted whenever analysis fails
func Default() Result {
	return Result{Label: LabelNeutral, Confidence: 0}
}

// Client talks to the sentiment analysis microservice
type Client struct {
	baseURL    string
	httpClient *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", "MedBot-Summarizer/1.0").
		SetTimeout(timeout)

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Close releases idle connections held by the client
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// Analyze sends text to the service. Every failure is classified as KindSentimentUnavailable.
func (c *Client) Analyze(ctx context.Context, text string) (Result, error) {
	const op = "sentiment.Analyze"

	var res Result
	httpResp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(Request{Text: text}).
		SetResult(&res).
		Post("/analyze")
	if err != nil {
		return Result{}, apperrors.New(apperrors.KindSentimentUnavailable, op,
			fmt.Errorf("sentiment request failed: %w", err))
	}
	if httpResp.IsError() {
		return Result{}, apperrors.New(apperrors.KindSentimentUnavailable, op,
			fmt.Errorf("sentiment service error (%d): %s", httpResp.StatusCode(), httpResp.String()))
	}
	if err := res.validate(); err != nil {
		return Result{}, apperrors.New(apperrors.KindSentimentUnavailable, op, err)
	}
	return res, nil
}

func (r Result) validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return fmt.Errorf("%w: missing predicted_label", ErrMalformedResult)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformedResult, r.Confidence)
	}
	return nil
}
