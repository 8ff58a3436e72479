package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"
)

const savePath = "/medical/save"

// HTTPSaver posts the form to the backend
type HTTPSaver struct {
	httpClient *resty.Client
}

// NewHTTPSaver creates a saver for baseURL. token, when set, is sent as a bearer token.
func NewHTTPSaver(baseURL, token string, timeout time.Duration) *HTTPSaver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", "MedBot-Intake/1.0").
		SetTimeout(timeout)
	if token != "" {
		httpClient.SetAuthToken(token)
	}
	return &HTTPSaver{httpClient: httpClient}
}

// Save implements Saver
func (s *HTTPSaver) Save(ctx context.Context, p Payload) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(p).
		Post(savePath)
	if err != nil {
		return fmt.Errorf("medical save request failed: %w", err)
	}
	if resp.IsError() {
		return &RejectedError{
			StatusCode: resp.StatusCode(),
			Message:    serverMessage(resp.String()),
		}
	}
	return nil
}

// serverMessage extracts the "error" field from a JSON error body
func serverMessage(body string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}
