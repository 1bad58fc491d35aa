package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxRetries  = 3
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 2000

	malformedRetryDelay = time.Second
)

// Sleeper suspends the caller for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Invoker wraps a Client with the retry discipline of the generation
// pipeline: exponential backoff on transient failures, a short pause on
// unparseable output and no retry at all on rate limiting.
type Invoker struct {
	client      Client
	maxRetries  int
	temperature float64
	maxTokens   int
	sleep       Sleeper
	logger      *zap.Logger
}

type Option func(*Invoker)

func WithMaxRetries(n int) Option {
	return func(inv *Invoker) {
		if n > 0 {
			inv.maxRetries = n
		}
	}
}

func WithSampling(temperature float64, maxTokens int) Option {
	return func(inv *Invoker) {
		inv.temperature = temperature
		if maxTokens > 0 {
			inv.maxTokens = maxTokens
		}
	}
}

func WithSleeper(s Sleeper) Option {
	return func(inv *Invoker) { inv.sleep = s }
}

func NewInvoker(client Client, logger *zap.Logger, opts ...Option) *Invoker {
	inv := &Invoker{
		client:      client,
		maxRetries:  DefaultMaxRetries,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		sleep:       sleepContext,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke sends the instructions and returns the decoded JSON object. The
// returned error wraps ErrTransient, ErrRateLimited or ErrMalformedOutput.
func (inv *Invoker) Invoke(ctx context.Context, system, user string) (map[string]any, error) {
	req := Request{
		System:      system,
		User:        user,
		Temperature: inv.temperature,
		MaxTokens:   inv.maxTokens,
	}

	var lastErr error
	for attempt := 0; attempt < inv.maxRetries; attempt++ {
		inv.logger.Info("Invoking model",
			zap.String("provider", inv.client.Name()),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", inv.maxRetries))

		content, err := inv.client.Complete(ctx, req)
		if err == nil {
			var parsed map[string]any
			if parsed, err = ParseObject(content); err == nil {
				return parsed, nil
			}
		}
		lastErr = err
		last := attempt == inv.maxRetries-1

		switch {
		case stderrors.Is(err, ErrRateLimited):
			inv.logger.Warn("Model rate limited, not retrying", zap.Int("attempt", attempt+1), zap.Error(err))
			return nil, err

		case ctx.Err() != nil:
			return nil, fmt.Errorf("%w: %w", ErrTransient, ctx.Err())

		case stderrors.Is(err, ErrMalformedOutput):
			inv.logger.Warn("Model output not parseable", zap.Int("attempt", attempt+1), zap.Error(err))
			if last {
				return nil, err
			}
			if serr := inv.sleep(ctx, malformedRetryDelay); serr != nil {
				return nil, fmt.Errorf("%w: %w", ErrTransient, serr)
			}

		default:
			if !stderrors.Is(err, ErrTransient) {
				err = fmt.Errorf("%w: %w", ErrTransient, err)
			}
			lastErr = err
			inv.logger.Warn("Model call failed", zap.Int("attempt", attempt+1), zap.Error(err))
			if last {
				return nil, err
			}
			backoff := time.Duration(1<<attempt) * time.Second
			if serr := inv.sleep(ctx, backoff); serr != nil {
				return nil, fmt.Errorf("%w: %w", ErrTransient, serr)
			}
		}
	}
	return nil, lastErr
}
