package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Task selects which configured model a call uses
type Task string

const (
	TaskClaims    Task = "claims"
	TaskFollowUp  Task = "follow_up"
	TaskFeedback  Task = "feedback"
	TaskEmbedding Task = "embedding"
)

var (
	ErrNoProvider         = errors.New("no ai provider configured")
	ErrAllProvidersFailed = errors.New("all ai providers failed")
	ErrUnsupported        = errors.New("operation not supported by provider")
)

// Provider is one LLM backend
type Provider interface {
	Name() string
	Generate(ctx context.Context, task Task, prompt string) (string, error)
	GenerateJSON(ctx context.Context, task Task, prompt string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

// sleep is swapped in tests
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Chain tries providers in order, retrying each before falling back to the next
type Chain struct {
	providers  []Provider
	maxRetries int
	backoff    time.Duration
	timeout    time.Duration
	logger     *zap.Logger
}

type ChainOption func(*Chain)

func WithRetries(n int) ChainOption {
	return func(c *Chain) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

func WithBackoff(d time.Duration) ChainOption {
	return func(c *Chain) { c.backoff = d }
}

// WithTimeout bounds every single provider call
func WithTimeout(d time.Duration) ChainOption {
	return func(c *Chain) { c.timeout = d }
}

func NewChain(logger *zap.Logger, providers []Provider, opts ...ChainOption) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{
		providers:  providers,
		maxRetries: 2,
		backoff:    500 * time.Millisecond,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Chain) Name() string { return "chain" }

// Len returns the number of configured providers
func (c *Chain) Len() int { return len(c.providers) }

func (c *Chain) Generate(ctx context.Context, task Task, prompt string) (string, error) {
	var out string
	err := c.do(ctx, "generate", task, func(ctx context.Context, p Provider) error {
		var err error
		out, err = p.Generate(ctx, task, prompt)
		return err
	})
	return out, err
}

func (c *Chain) GenerateJSON(ctx context.Context, task Task, prompt string) (string, error) {
	var out string
	err := c.do(ctx, "generate_json", task, func(ctx context.Context, p Provider) error {
		var err error
		out, err = p.GenerateJSON(ctx, task, prompt)
		return err
	})
	return out, err
}

func (c *Chain) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := c.do(ctx, "embed", TaskEmbedding, func(ctx context.Context, p Provider) error {
		var err error
		out, err = p.Embed(ctx, text)
		return err
	})
	return out, err
}

func (c *Chain) do(ctx context.Context, op string, task Task, call func(context.Context, Provider) error) error {
	if len(c.providers) == 0 {
		return ErrNoProvider
	}

	var lastErr error
	for _, p := range c.providers {
		for attempt := 0; attempt <= c.maxRetries; attempt++ {
			if attempt > 0 {
				if err := sleep(ctx, c.backoff*time.Duration(attempt)); err != nil {
					return err
				}
			}

			err := c.call(ctx, p, call)
			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%s: %w", p.Name(), err)

			c.logger.Warn("ai provider call failed",
				zap.String("provider", p.Name()),
				zap.String("op", op),
				zap.String("task", string(task)),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if errors.Is(err, ErrUnsupported) {
				break
			}
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrAllProvidersFailed, op, lastErr)
}

func (c *Chain) call(ctx context.Context, p Provider, call func(context.Context, Provider) error) error {
	if c.timeout <= 0 {
		return call(ctx, p)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return call(callCtx, p)
}
