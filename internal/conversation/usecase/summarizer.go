package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medbot-backend/internal/conversation/domain"
	"medbot-backend/internal/conversation/repository"
	"medbot-backend/pkg/ai"
	"medbot-backend/pkg/apperrors"
	"medbot-backend/pkg/logger"
	"medbot-backend/pkg/metrics"
	"medbot-backend/pkg/sentiment"

	"github.com/rs/zerolog"
)

// FallbackSummary is returned in place of a summary whenever the model step fails
const FallbackSummary = "Unable to generate conversation summary due to an error."

// SummaryTemperature is the sampling temperature of every summary request
const SummaryTemperature float32 = 0.3

const defaultModelTimeout = 60 * time.Second

// SentimentAnalyzer scores the tone of a summary
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (sentiment.Result, error)
}

// SummarizerConfig tunes the model call. A zero ModelTimeout selects 60s.
type SummarizerConfig struct {
	ModelTimeout time.Duration
}

// Outcome describes one summarization run
type Outcome struct {
	Summary   string
	Sentiment domain.Sentiment
	// Generated is false when Summary is FallbackSummary
	Generated bool
	// Record is the appended history entry, nil when nothing was persisted
	Record *domain.ConversationSummary
	Owner  *domain.Owner
	// Failures holds classified errors, including the absorbed ones
	Failures []error
}

// Persisted reports whether the run appended a history entry
func (o *Outcome) Persisted() bool {
	return o.Record != nil
}

// FailureKinds lists the kinds of every failure in run order
func (o *Outcome) FailureKinds() []apperrors.Kind {
	kinds := make([]apperrors.Kind, 0, len(o.Failures))
	for _, err := range o.Failures {
		kinds = append(kinds, apperrors.KindOf(err))
	}
	return kinds
}

// Summarizer turns a conversation transcript into a stored summary.
// Only the model step can change what is returned; sentiment and storage failures are logged and absorbed.
type Summarizer struct {
	model    ai.ChatCompleter
	analyzer SentimentAnalyzer
	store    repository.UserStore
	cfg      SummarizerConfig
	locks    *keyedMutex
	log      zerolog.Logger
}

// NewSummarizer creates a Summarizer. analyzer may be nil, in which case every record gets the default sentiment.
func NewSummarizer(model ai.ChatCompleter, analyzer SentimentAnalyzer, store repository.UserStore, cfg SummarizerConfig) *Summarizer {
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = defaultModelTimeout
	}
	return &Summarizer{
		model:    model,
		analyzer: analyzer,
		store:    store,
		cfg:      cfg,
		locks:    newKeyedMutex(),
		log:      logger.Component("summarizer"),
	}
}

// Summarize returns the summary text for history, or FallbackSummary. It never returns an empty string.
func (s *Summarizer) Summarize(ctx context.Context, history, email string) string {
	return s.Run(ctx, history, email).Summary
}

// Run performs model call, sentiment analysis and persistence in order
func (s *Summarizer) Run(ctx context.Context, history, email string) *Outcome {
	out := &Outcome{Sentiment: domain.DefaultSentiment()}
	log := s.log.With().Str("email", email).Logger()

	log.Info().Int("history_len", len(history)).Msg("summarizing conversation")
	summary, err := s.generate(ctx, history)
	if err != nil {
		log.Error().Err(err).Msg("summary generation failed")
		out.Summary = FallbackSummary
		out.Failures = append(out.Failures, err)
		metrics.SummariesTotal.WithLabelValues("fallback").Inc()
		return out
	}
	out.Summary = summary
	out.Generated = true
	metrics.SummariesTotal.WithLabelValues("generated").Inc()

	// The caller may go away once it has its answer; the record is still written
	peripheral := context.WithoutCancel(ctx)

	sent, err := s.analyze(peripheral, summary)
	if err != nil {
		log.Warn().Err(err).Msg("sentiment analysis failed, using default")
		out.Failures = append(out.Failures, err)
		metrics.AbsorbedFailuresTotal.WithLabelValues(string(apperrors.KindSentimentUnavailable)).Inc()
	} else {
		out.Sentiment = sent
	}
	log.Info().Str("label", out.Sentiment.Label).Float64("confidence", out.Sentiment.Confidence).Msg("sentiment")

	if err := s.persist(peripheral, email, out); err != nil {
		kind := apperrors.KindOf(err)
		if kind == apperrors.KindNotFound {
			log.Warn().Err(err).Msg("user not found, summary not saved")
		} else {
			log.Error().Err(err).Msg("failed to save summary")
		}
		out.Failures = append(out.Failures, err)
		metrics.AbsorbedFailuresTotal.WithLabelValues(string(kind)).Inc()
	} else {
		log.Info().Str("record_id", out.Record.ID).Msg("summary saved")
	}

	return out
}

func (s *Summarizer) generate(ctx context.Context, history string) (summary string, err error) {
	const op = "summarizer.generate"

	defer func() {
		if r := recover(); r != nil {
			summary = ""
			err = apperrors.New(apperrors.KindModelUnavailable, op, fmt.Errorf("panic: %v", r))
		}
	}()

	if s.model == nil {
		return "", apperrors.New(apperrors.KindModelUnavailable, op, errors.New("no chat model configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()

	start := time.Now()
	completion, err := s.model.Complete(ctx, ai.CompletionRequest{
		Prompt:      BuildPrompt(history),
		Temperature: SummaryTemperature,
	})
	provider := "unknown"
	if completion != nil && completion.Provider != "" {
		provider = completion.Provider
	}
	metrics.ModelLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", apperrors.New(apperrors.KindModelUnavailable, op, err)
	}

	text, err := completion.AsText()
	if err != nil {
		return "", apperrors.New(apperrors.KindModelUnavailable, op, err)
	}
	return text, nil
}

func (s *Summarizer) analyze(ctx context.Context, summary string) (domain.Sentiment, error) {
	const op = "summarizer.analyze"

	if s.analyzer == nil {
		return domain.DefaultSentiment(), apperrors.New(apperrors.KindSentimentUnavailable, op, errors.New("no sentiment analyzer configured"))
	}

	res, err := s.analyzer.Analyze(ctx, summary)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindSentimentUnavailable) {
			return domain.DefaultSentiment(), err
		}
		return domain.DefaultSentiment(), apperrors.New(apperrors.KindSentimentUnavailable, op, err)
	}
	return domain.Sentiment{Label: res.Label, Confidence: res.Confidence}, nil
}

func (s *Summarizer) persist(ctx context.Context, email string, out *Outcome) error {
	const op = "summarizer.persist"

	if s.store == nil {
		return apperrors.New(apperrors.KindPersistenceUnavailable, op, errors.New("no user store configured"))
	}
	if strings.TrimSpace(email) == "" {
		return apperrors.New(apperrors.KindNotFound, op, errors.New("no user email given"))
	}

	unlock := s.locks.Lock(strings.ToLower(strings.TrimSpace(email)))
	defer unlock()

	owner, err := s.store.FindOwner(ctx, email)
	if err != nil {
		return apperrors.New(apperrors.KindPersistenceUnavailable, op, fmt.Errorf("find user: %w", err))
	}
	if owner == nil {
		return apperrors.New(apperrors.KindNotFound, op, fmt.Errorf("user %s not found", email))
	}
	out.Owner = owner

	rec := &domain.ConversationSummary{
		Summary:   out.Summary,
		Sentiment: out.Sentiment,
	}
	if err := s.store.AppendSummary(ctx, owner, rec); err != nil {
		if errors.Is(err, repository.ErrOwnerGone) {
			return apperrors.New(apperrors.KindNotFound, op, err)
		}
		return apperrors.New(apperrors.KindPersistenceUnavailable, op, fmt.Errorf("append summary: %w", err))
	}
	out.Record = rec
	return nil
}

// History returns a page of the user's stored summaries
func (s *Summarizer) History(ctx context.Context, email string, limit, offset int) ([]*domain.ConversationSummary, int64, error) {
	const op = "summarizer.History"

	if s.store == nil {
		return nil, 0, apperrors.New(apperrors.KindPersistenceUnavailable, op, errors.New("no user store configured"))
	}
	owner, err := s.store.FindOwner(ctx, email)
	if err != nil {
		return nil, 0, apperrors.New(apperrors.KindPersistenceUnavailable, op, err)
	}
	if owner == nil {
		return nil, 0, apperrors.New(apperrors.KindNotFound, op, fmt.Errorf("user %s not found", email))
	}

	items, total, err := s.store.ListSummaries(ctx, owner, limit, offset)
	if err != nil {
		return nil, 0, apperrors.New(apperrors.KindPersistenceUnavailable, op, err)
	}
	return items, total, nil
}
