package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/config"
)

// CircuitBreakerClient stops calling a failing provider for a while so that a
// dead endpoint costs one fast error per chunk instead of one timeout.
type CircuitBreakerClient struct {
	client LLMClient
	cb     *gobreaker.CircuitBreaker
}

func NewCircuitBreakerClient(client LLMClient, cfg config.CircuitBreakerConfig, name string, logger *zap.Logger) *CircuitBreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	ratio := cfg.ReadyToTripRatio
	if ratio <= 0 {
		ratio = 0.6
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= ratio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("llm circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &CircuitBreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
	}
}

func (c *CircuitBreakerClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return resp.(string), nil
}

// State exposes the breaker state, mostly for tests and health output.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.cb.State()
}

// Close closes the wrapped client.
func (c *CircuitBreakerClient) Close() error {
	return Close(c.client)
}
