package agent

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/agentic/internal/store"
)

// DefaultSystemPrompt is used when no system prompt is configured.
const DefaultSystemPrompt = `You are a code assistant. Answer questions about the indexed codebase using the provided source excerpts. Cite file paths when you reference code. If the excerpts do not contain the answer, say so instead of guessing.`

// buildContext formats retrieved chunks into the block of source excerpts
// appended to the system prompt.
func buildContext(results []store.Result) string {
	if len(results) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("File: %s\n---\n%s", r.FilePath, r.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// systemMessage combines the base prompt with the retrieved context. With no
// retrieved chunks the base prompt is used alone.
func systemMessage(base, context string) string {
	if context == "" {
		return base
	}
	return base + "\n\nRelevant code from the repository:\n\n" + context
}
