package fcm

import (
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	assert.Equal(t, "***", redact("short"))
	assert.Equal(t, "abcdefghijkl...", redact("abcdefghijklmnopqrstuvwxyz"))
}

func TestNotificationData(t *testing.T) {
	n := NotificationData{Title: "t", Body: "b", Data: map[string]string{"k": "v"}}
	assert.Equal(t, "t", n.notification().Title)
	assert.Equal(t, "high", n.android().Priority)
}

var errUnregistered = errors.New("requested entity was not found")

func TestStaleTokens(t *testing.T) {
	tokens := []string{"ok-token", "gone-token", "quota-token", "down-token"}
	responses := []*messaging.SendResponse{
		{Success: true, MessageID: "m1"},
		{Success: false, Error: errUnregistered},
		{Success: false, Error: errors.New("quota exceeded")},
		{Success: false, Error: errors.New("service unavailable")},
	}

	isGone := func(err error) bool { return errors.Is(err, errUnregistered) }
	assert.Equal(t, []string{"gone-token"}, staleTokens(tokens, responses, isGone))

	// Transient errors never mark a token as stale with the real classifier
	assert.Empty(t, staleTokens(tokens, responses[2:], messaging.IsUnregistered))
	assert.Empty(t, staleTokens(tokens[:1], responses, isGone))
}
