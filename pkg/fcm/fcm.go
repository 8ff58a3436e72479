package fcm

import (
	"context"
	"fmt"

	"medbot-backend/pkg/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging for summary-ready pushes
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates an FCM client. An empty credentialsFile uses application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	l := logger.Component("fcm")
	l.Info().Msg("client initialized")
	return &Client{messagingClient: messagingClient}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	// Data is delivered to the app alongside the notification
	Data map[string]string
}

func (n NotificationData) notification() *messaging.Notification {
	return &messaging.Notification{Title: n.Title, Body: n.Body}
}

func (n NotificationData) android() *messaging.AndroidConfig {
	return &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			ChannelID: "summaries",
		},
	}
}

// SendToDevice sends a push notification to one device token
func (c *Client) SendToDevice(ctx context.Context, token string, n NotificationData) error {
	message := &messaging.Message{
		Token:        token,
		Notification: n.notification(),
		Data:         n.Data,
		Android:      n.android(),
	}

	id, err := c.messagingClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	l := logger.Component("fcm")
	l.Debug().Str("message_id", id).Msg("message sent")
	return nil
}

// SendToDevices sends one notification to many tokens.
// It returns only the tokens FCM reported as no longer registered; transient failures are logged.
func (c *Client) SendToDevices(ctx context.Context, tokens []string, n NotificationData) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	message := &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: n.notification(),
		Data:         n.Data,
		Android:      n.android(),
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log := logger.Component("fcm")
	log.Info().
		Int("success", response.SuccessCount).
		Int("failure", response.FailureCount).
		Msg("multicast sent")

	return staleTokens(tokens, response.Responses, messaging.IsUnregistered), nil
}

// staleTokens picks the tokens whose send failed with an error isStale accepts
func staleTokens(tokens []string, responses []*messaging.SendResponse, isStale func(error) bool) []string {
	log := logger.Component("fcm")

	var stale []string
	for i, resp := range responses {
		if i >= len(tokens) {
			break
		}
		if resp == nil || resp.Success {
			continue
		}
		if resp.Error != nil && isStale(resp.Error) {
			stale = append(stale, tokens[i])
			log.Info().Str("token", redact(tokens[i])).Msg("token unregistered")
			continue
		}
		log.Warn().Err(resp.Error).Str("token", redact(tokens[i])).Msg("delivery failed")
	}
	return stale
}

func redact(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:12] + "..."
}
