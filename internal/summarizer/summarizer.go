// Package summarizer turns one day of an author's git history into a single
// non-technical sentence using an LLM.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mikebijl/attrm/internal/daterange"
	"github.com/mikebijl/attrm/internal/llm"
	"github.com/mikebijl/attrm/internal/prompts"
)

// Options configures a Summarizer.
type Options struct {
	// SystemPrompt defaults to prompts.TattletaleSystemPrompt.
	SystemPrompt string
}

// Request is one (project, day) history block to summarize.
type Request struct {
	Project string
	Author  string
	Day     time.Time
	Log     string
}

// Summarizer generates summaries from git log text.
type Summarizer struct {
	client llm.Client
	opts   Options
}

// New creates a summarizer that sends requests to client.
func New(client llm.Client, opts Options) *Summarizer {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = prompts.TattletaleSystemPrompt()
	}
	return &Summarizer{client: client, opts: opts}
}

// Summarize returns the model's answer for req as-is. The response is not
// parsed or validated.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: s.opts.SystemPrompt},
		{Role: "user", Content: prompts.BuildTattletaleHistoryPrompt(
			req.Author, daterange.Format(req.Day), req.Project, req.Log)},
	}

	response, err := s.client.ChatComplete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to summarize %s on %s: %w", req.Project, daterange.Format(req.Day), err)
	}

	return strings.TrimSpace(response), nil
}

// MentionsAuthor reports whether summary contains author, case-insensitively.
// The system prompt asks the model not to name the author; nothing enforces it.
func MentionsAuthor(summary, author string) bool {
	author = strings.TrimSpace(author)
	if author == "" {
		return false
	}
	return strings.Contains(strings.ToLower(summary), strings.ToLower(author))
}
