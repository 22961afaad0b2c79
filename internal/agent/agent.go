// Package agent answers questions about indexed code by combining vector
// retrieval with an LLM completion.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/agentic/internal/apperr"
	"github.com/ziadkadry99/agentic/internal/llm"
	"github.com/ziadkadry99/agentic/internal/store"
)

// ContextRetriever supplies ranked source chunks for a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, topK int, repository string) ([]store.Result, error)
}

// Options tune the agent's behavior.
type Options struct {
	SystemPrompt string  // Empty uses DefaultSystemPrompt.
	TopK         int     // Chunks retrieved per question. 0 uses the retriever's default.
	Temperature  float64 // Sampling temperature for the completion.
	MaxHistory   int     // Prior messages kept per request. 0 keeps all.
}

// Agent orchestrates retrieve-then-answer for one configured provider.
type Agent struct {
	retriever ContextRetriever
	provider  llm.Provider
	opts      Options
}

// New creates an Agent.
func New(retriever ContextRetriever, provider llm.Provider, opts Options) *Agent {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	return &Agent{retriever: retriever, provider: provider, opts: opts}
}

// Reply is one answered question.
type Reply struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Answer retrieves context for the question, folds it into the system
// prompt together with prior conversation history, and asks the provider.
// The returned sources are the distinct file paths of the retrieved chunks
// in rank order. An empty index still produces an answer, with no sources.
func (a *Agent) Answer(ctx context.Context, question string, history []llm.Message, repository string) (*Reply, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("agent: empty question: %w", apperr.ErrValidation)
	}

	results, err := a.retriever.Retrieve(ctx, question, a.opts.TopK, repository)
	if err != nil {
		return nil, fmt.Errorf("agent: retrieve context: %w", err)
	}

	if a.opts.MaxHistory > 0 && len(history) > a.opts.MaxHistory {
		history = history[len(history)-a.opts.MaxHistory:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: systemMessage(a.opts.SystemPrompt, buildContext(results)),
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    messages,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: completion: %w", err)
	}

	return &Reply{
		Answer:  resp.Content,
		Sources: sourcePaths(results),
	}, nil
}

// sourcePaths returns the distinct file paths of results in rank order.
func sourcePaths(results []store.Result) []string {
	seen := make(map[string]bool, len(results))
	var paths []string
	for _, r := range results {
		if seen[r.FilePath] {
			continue
		}
		seen[r.FilePath] = true
		paths = append(paths, r.FilePath)
	}
	return paths
}
