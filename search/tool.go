package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"ai_tutorial_generator/metrics"
)

const (
	DefaultMaxResults  = 8
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

var errNoResults = errors.New("no results")

// Tool is the researcher's web search tool. Run never fails: every outcome,
// including exhausted retries, is reported as text for the model to read.
type Tool struct {
	searcher    Searcher
	formatter   Formatter
	maxResults  int
	maxAttempts int
	baseDelay   time.Duration
	logger      *zap.Logger
	metrics     *metrics.Metrics

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

type ToolOption func(*Tool)

func WithMaxResults(n int) ToolOption {
	return func(t *Tool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

func WithMaxAttempts(n int) ToolOption {
	return func(t *Tool) {
		if n > 0 {
			t.maxAttempts = n
		}
	}
}

func WithBaseDelay(d time.Duration) ToolOption {
	return func(t *Tool) {
		if d >= 0 {
			t.baseDelay = d
		}
	}
}

func WithLogger(l *zap.Logger) ToolOption {
	return func(t *Tool) {
		if l != nil {
			t.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) ToolOption {
	return func(t *Tool) { t.metrics = m }
}

// NewTool wires a searcher and formatter. A nil formatter means digest mode.
func NewTool(s Searcher, f Formatter, opts ...ToolOption) *Tool {
	if f == nil {
		f = DigestFormatter{}
	}
	t := &Tool{
		searcher:    s,
		formatter:   f,
		maxResults:  DefaultMaxResults,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		logger:      zap.NewNop(),
		sleep:       sleepCtx,
		jitter:      func() time.Duration { return rand.N(time.Second) },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tool) Name() string { return "web_search" }

func (t *Tool) Description() string {
	return "DuckDuckGo search that returns concise, readable result summaries."
}

// Run searches for query with up to maxAttempts tries.
func (t *Tool) Run(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "No results found for query: "
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < t.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := t.backoff(attempt)
			t.logger.Debug("retrying search", zap.String("query", query),
				zap.Int("attempt", attempt+1), zap.Duration("delay", delay))
			if err := t.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		attempts++
		results, err := t.searcher.Search(ctx, query, t.maxResults)
		if err != nil {
			t.metrics.SearchAttempt("error")
			t.logger.Warn("search attempt failed", zap.String("query", query),
				zap.Int("attempt", attempts), zap.Error(err))
			lastErr = err
			continue
		}
		if len(results) == 0 {
			t.metrics.SearchAttempt("empty")
			lastErr = errNoResults
			continue
		}

		t.metrics.SearchAttempt("ok")
		out := t.formatter.Format(query, results)
		if out == "" {
			return fmt.Sprintf("No quality results found for query: %s", query)
		}
		return out
	}

	msg := fmt.Sprintf("Search failed after %d attempts for query: %s", attempts, query)
	if lastErr != nil {
		msg += ": " + lastErr.Error()
	}
	return msg
}

// backoff is baseDelay*2^attempt plus up to one second of jitter.
func (t *Tool) backoff(attempt int) time.Duration {
	return t.baseDelay*time.Duration(1<<attempt) + t.jitter()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
