package intake

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"
)

// Client covers the account and status calls the intake CLI makes besides saving
type Client struct {
	httpClient *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("User-Agent", "MedBot-Intake/1.0").
			SetTimeout(timeout),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		Email string `json:"email"`
	} `json:"user"`
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var tokens tokenResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(loginRequest{Email: email, Password: password}).
		SetResult(&tokens).
		Post("/api/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &RejectedError{StatusCode: resp.StatusCode(), Message: serverMessage(resp.String())}
	}

	sessionEmail := tokens.User.Email
	if sessionEmail == "" {
		sessionEmail = email
	}
	return &Session{
		Email:        sessionEmail,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes a refresh token
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	if resp.IsError() {
		return &RejectedError{StatusCode: resp.StatusCode(), Message: serverMessage(resp.String())}
	}
	return nil
}

// Status reports whether email already has medical details on file
func (c *Client) Status(ctx context.Context, email string) (bool, error) {
	var status struct {
		Exists bool `json:"exists"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&status).
		Get("/medical/" + url.PathEscape(email) + "/status")
	if err != nil {
		return false, fmt.Errorf("status request failed: %w", err)
	}
	if resp.IsError() {
		return false, &RejectedError{StatusCode: resp.StatusCode(), Message: serverMessage(resp.String())}
	}
	return status.Exists, nil
}
