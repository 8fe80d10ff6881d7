// Package reply orchestrates reply generation: classify the message, try
// the LLM provider if one is configured, and degrade to the deterministic
// template fallback on any failure.  Every method returns non-empty text;
// the degradation ladder ends in templates that always exist.
package reply

import (
	"context"
	"log/slog"
	"time"

	"github.com/bdobrica/Tomo/common/redact"
	"github.com/bdobrica/Tomo/internal/tomo/classify"
	"github.com/bdobrica/Tomo/internal/tomo/fallback"
	"github.com/bdobrica/Tomo/internal/tomo/llm"
)

// defaultMaxInFlight caps concurrent provider calls across all conversations.
const defaultMaxInFlight = 2

// Config configures a Generator.
type Config struct {
	// Provider generates replies remotely.  Nil disables generation
	// entirely: every reply comes from the local templates and no network
	// call is ever attempted.
	Provider llm.Provider

	// Selector picks fallback lines.  Nil means the built-in default pools.
	Selector *fallback.Selector

	// MaxInFlight caps concurrent provider calls.  Defaults to 2.
	MaxInFlight int

	// Now supplies the current time for bucket selection.  Nil means
	// time.Now; tests inject fixed clocks.
	Now func() time.Time

	Logger *slog.Logger
}

// Generator produces one reply per user message.  It is safe for concurrent
// use; the provider semaphore is the only shared mutable state.
type Generator struct {
	provider llm.Provider
	selector *fallback.Selector
	sem      chan struct{}
	now      func() time.Time
	logger   *slog.Logger
}

// NewGenerator returns a Generator for cfg with defaults applied.
func NewGenerator(cfg Config) *Generator {
	if cfg.Selector == nil {
		cfg.Selector = fallback.NewSelector(nil)
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = defaultMaxInFlight
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Generator{
		provider: cfg.Provider,
		selector: cfg.Selector,
		sem:      make(chan struct{}, cfg.MaxInFlight),
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
}

// Talk produces a conversational reply to userText, with history as the
// bounded recent window (oldest first).
func (g *Generator) Talk(ctx context.Context, userText string, history []llm.Turn) string {
	if text, ok := g.generate(ctx, llm.Request{
		Kind:     llm.KindTalk,
		UserText: userText,
		History:  history,
	}); ok {
		return text
	}

	sent := classify.DetectSentiment(userText)
	topic := classify.DetectTopic(userText)
	bucket := fallback.BucketAt(g.now())
	if line := g.selector.TalkLine(topic, bucket); line != "" {
		return line
	}
	return fallback.Reflect(userText, sent)
}

// Support produces a short supportive reply to userText.
func (g *Generator) Support(ctx context.Context, userText string) string {
	if text, ok := g.generate(ctx, llm.Request{
		Kind:     llm.KindSupport,
		UserText: userText,
	}); ok {
		return text
	}
	return g.selector.SupportLine(classify.DetectSentiment(userText), fallback.BucketAt(g.now()))
}

// Motivate produces a short motivational line.  contextText is optional
// recent context for the prompt; the fallback ignores it.
func (g *Generator) Motivate(ctx context.Context, contextText string) string {
	if text, ok := g.generate(ctx, llm.Request{
		Kind:     llm.KindMotivate,
		UserText: contextText,
	}); ok {
		return text
	}
	return g.selector.MotivationLine(fallback.BucketAt(g.now()))
}

// generate attempts one provider call under the in-flight cap.  It returns
// ok=false when the provider is disabled, the context is done before a slot
// frees up, or the call fails; in all three cases the caller falls back.
func (g *Generator) generate(ctx context.Context, req llm.Request) (string, bool) {
	if g.provider == nil {
		return "", false
	}

	select {
	case g.sem <- struct{}{}:
		defer func() { <-g.sem }()
	case <-ctx.Done():
		g.logger.Warn("generation slot wait cancelled",
			"kind", string(req.Kind),
			"error", ctx.Err())
		return "", false
	}

	text, err := g.provider.Generate(ctx, req)
	if err != nil {
		g.logger.Warn("generation failed, using fallback",
			"kind", string(req.Kind),
			"transient", llm.IsTransient(err),
			"text_snippet", redact.Snippet(req.UserText, 40),
			"error", err)
		return "", false
	}
	return text, true
}
