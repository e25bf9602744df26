/*
Package advisory turns PPE questions into prompts for a hosted text
generation model and normalizes every failure into fallback text.

PURPOSE:
  Two entry points back the "AI Safety Advisor":
  - GetSafetyInsights: answers a free-text question using issuance history
  - PredictPPERequirement: lists the PPE a described task needs

EXTERNAL CONTRACT:
  Both entry points always return a string. A transport error, an API error
  or an empty answer is logged and replaced by the entry point's fixed
  fallback text. There is exactly one attempt per call; no retry.

CONCURRENCY:
  Calls are independent. Each one is bound to the caller's context, so an
  HTTP request that goes away cancels its own call and nothing else.

SEE ALSO:
  - prompt.go: Prompt templates
  - gemini.go: Generator backed by the Google GenAI SDK
*/
package advisory

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/vesselflow/ppe-engine/ppe"
)

// Fallback answers returned when generation fails.
const (
	InsightsFallback    = "I'm having trouble analyzing the data right now. Please try again later."
	RequirementFallback = "Could not generate requirements."
)

// Call kinds, used in logs and metrics.
const (
	KindInsights    = "insights"
	KindRequirement = "requirement"
)

// Outcomes reported to the observer.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

// ErrEmptyResponse is returned by generators that got no text back.
var ErrEmptyResponse = errors.New("model returned no text")

// Generator is the external text-generation capability.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Observer is told the outcome of every call.
type Observer func(kind, outcome string)

// Client builds prompts and calls the Generator.
type Client struct {
	gen      Generator
	logger   *zap.Logger
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for failed calls.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver registers an outcome callback (metrics).
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient wraps gen.
func NewClient(gen Generator, opts ...Option) *Client {
	c := &Client{gen: gen, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSafetyInsights answers query in the context of history.
func (c *Client) GetSafetyInsights(ctx context.Context, history []ppe.Record, query string) string {
	return c.ask(ctx, KindInsights, BuildInsightsPrompt(history, query), InsightsFallback,
		zap.Int("history", len(history)))
}

// PredictPPERequirement lists PPE needed for task.
func (c *Client) PredictPPERequirement(ctx context.Context, task string) string {
	return c.ask(ctx, KindRequirement, BuildRequirementPrompt(task), RequirementFallback)
}

func (c *Client) ask(ctx context.Context, kind, prompt, fallback string, fields ...zap.Field) string {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("advisory call failed",
			append(fields, zap.String("kind", kind), zap.Error(err))...)
		c.observe(kind, OutcomeFallback)
		return fallback
	}
	c.observe(kind, OutcomeOK)
	return text
}

// generate makes the single outbound attempt. A nil generator or a panic in
// it count as failures like any other.
func (c *Client) generate(ctx context.Context, prompt string) (text string, err error) {
	if c.gen == nil {
		return "", errors.New("no generator configured")
	}
	defer func() {
		if r := recover(); r != nil {
			text, err = "", errors.New("generator panicked")
		}
	}()

	text, err = c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) observe(kind, outcome string) {
	if c.observer != nil {
		c.observer(kind, outcome)
	}
}
