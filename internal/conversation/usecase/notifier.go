package usecase

import (
	"context"
	"fmt"

	authdomain "medbot-backend/internal/auth/domain"
	"medbot-backend/internal/conversation/domain"
	"medbot-backend/pkg/fcm"
	"medbot-backend/pkg/logger"
)

// Notifier tells a user their background summary is ready
type Notifier interface {
	SummaryReady(ctx context.Context, owner *domain.Owner, rec *domain.ConversationSummary) error
}

// AccountLookup finds the account that owns device tokens. It returns nil, nil for an unknown email.
type AccountLookup interface {
	FindByEmail(email string) (*authdomain.User, error)
}

// DeviceTokenStore is the slice of the device token repository the push notifier needs
type DeviceTokenStore interface {
	TokensForUser(userID string) ([]string, error)
	PruneTokens(tokens []string) error
}

// PushSender delivers a notification to device tokens and returns the ones no longer registered
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error)
}

// PushNotifier sends summary-ready pushes over FCM.
// Device tokens belong to accounts, so the summary owner is matched by email;
// Owner.ID comes from whichever store holds the history and may not be an account id.
type PushNotifier struct {
	accounts AccountLookup
	tokens   DeviceTokenStore
	sender   PushSender
}

func NewPushNotifier(accounts AccountLookup, tokens DeviceTokenStore, sender PushSender) *PushNotifier {
	return &PushNotifier{accounts: accounts, tokens: tokens, sender: sender}
}

func (n *PushNotifier) SummaryReady(ctx context.Context, owner *domain.Owner, rec *domain.ConversationSummary) error {
	account, err := n.accounts.FindByEmail(owner.Email)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if account == nil {
		return nil
	}

	tokens, err := n.tokens.TokensForUser(account.ID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	stale, err := n.sender.SendToDevices(ctx, tokens, fcm.NotificationData{
		Title: "Conversation summary ready",
		Body:  "MedBot finished summarizing your conversation.",
		Data: map[string]string{
			"type":       "conversation_summary",
			"summary_id": rec.ID,
			"sentiment":  rec.Sentiment.Label,
		},
	})
	if err != nil {
		return err
	}

	if len(stale) > 0 {
		if err := n.tokens.PruneTokens(stale); err != nil {
			l := logger.Component("summary_worker")
			l.Warn().Err(err).Int("tokens", len(stale)).Msg("failed to prune device tokens")
		}
	}
	return nil
}
