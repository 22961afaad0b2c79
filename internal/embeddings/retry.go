package embeddings

import (
	"context"
	"errors"
	"time"

	"github.com/ziadkadry99/agentic/internal/apperr"
)

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxAttempts int           // Total attempts including the first call.
	BaseDelay   time.Duration // Initial delay between attempts.
	MaxDelay    time.Duration // Cap on the delay between attempts.
	Multiplier  float64       // Exponential backoff multiplier.
}

// DefaultRetryConfig returns the retry policy applied during ingestion:
// at most 3 attempts with exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryEmbedder wraps an Embedder with bounded-retry semantics for
// upstream failures. Configuration and validation errors are never
// retried, and retry stops on context cancellation.
type RetryEmbedder struct {
	inner Embedder
	cfg   RetryConfig
}

// WithRetry wraps the given embedder with the given retry policy.
func WithRetry(inner Embedder, cfg RetryConfig) *RetryEmbedder {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 2.0
	}
	return &RetryEmbedder{inner: inner, cfg: cfg}
}

func (r *RetryEmbedder) Name() string { return r.inner.Name() }

func (r *RetryEmbedder) Dimensions() int { return r.inner.Dimensions() }

func (r *RetryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	backoff := r.cfg.BaseDelay

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		vec, err := r.inner.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err

		// Only transient upstream failures are worth retrying.
		if !errors.Is(err, apperr.ErrUpstream) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt < r.cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * r.cfg.Multiplier)
				if r.cfg.MaxDelay > 0 && backoff > r.cfg.MaxDelay {
					backoff = r.cfg.MaxDelay
				}
			}
		}
	}

	return nil, lastErr
}
