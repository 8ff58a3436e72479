package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"medbot-backend/pkg/logger"
)

// NamedCompleter pairs a provider with the name used in logs
type NamedCompleter struct {
	Name      string
	Completer ChatCompleter
}

// FallbackService tries providers in order and returns the first usable completion.
// A provider that answers with an empty completion counts as failed.
type FallbackService struct {
	providers []NamedCompleter
}

// NewFallbackService creates a fallback chain. Nil completers are skipped.
func NewFallbackService(providers ...NamedCompleter) *FallbackService {
	chain := make([]NamedCompleter, 0, len(providers))
	for _, p := range providers {
		if p.Completer != nil {
			chain = append(chain, p)
		}
	}
	return &FallbackService{providers: chain}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	}
	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func failureReason(err error) string {
	switch {
	case isQuotaError(err):
		return "quota"
	case isConnectionError(err):
		return "connection"
	default:
		return "error"
	}
}

// Complete implements ChatCompleter
func (f *FallbackService) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if len(f.providers) == 0 {
		return nil, fmt.Errorf("no AI provider available")
	}

	log := logger.Component("ai")
	var errs []error
	for i, p := range f.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result, err := p.Completer.Complete(ctx, req)
		if err == nil {
			if _, textErr := result.AsText(); textErr != nil {
				err = textErr
			}
		}
		if err == nil {
			if i > 0 {
				log.Info().Str("provider", p.Name).Msg("fallback provider answered")
			}
			return result, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
		ev := log.Warn().Err(err).Str("provider", p.Name).Str("reason", failureReason(err))
		if i+1 < len(f.providers) {
			ev.Str("next", f.providers[i+1].Name).Msg("provider failed, falling back")
		} else {
			ev.Msg("provider failed, no fallback left")
		}
	}
	return nil, fmt.Errorf("all AI providers failed: %w", errors.Join(errs...))
}
