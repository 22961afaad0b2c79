// Package session stores per-conversation message history so that chat
// requests can carry context across calls.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/agentic/internal/llm"
)

// DefaultTTL is how long an idle conversation is kept.
const DefaultTTL = time.Hour

// Store persists conversation history keyed by session ID.
type Store interface {
	// Get returns the history for a session. An unknown or expired
	// session yields an empty history and no error.
	Get(ctx context.Context, id string) ([]llm.Message, error)
	// Set replaces the history for a session and refreshes its TTL.
	Set(ctx context.Context, id string, history []llm.Message) error
	// Clear removes every stored session and returns how many were removed.
	Clear(ctx context.Context) (int64, error)
	Close() error
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}
