package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// Handler processes a single request for a topic and returns a response.
type Handler func(ctx context.Context, payload any) (any, error)

// Config holds bus timing policy. A request gets RequestTimeout per attempt
// and up to MaxRetries attempts with linearly growing backoff between them.
type Config struct {
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
}

// DefaultConfig returns the standard bus policy.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 5 * time.Second,
		MaxRetries:     3,
		RetryBackoff:   time.Second,
	}
}

// Bus is an in-process request/response channel between loosely coupled
// components. Handlers register per topic; requesters never hold a direct
// reference to the handling side.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	config   Config
	logger   *zap.Logger
	sleep    func(time.Duration)
}

// NewBus creates a bus with the given policy.
func NewBus(config Config, logger *zap.Logger) *Bus {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 5 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = time.Second
	}
	return &Bus{
		handlers: make(map[string]Handler),
		config:   config,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Subscribe registers the handler for a topic, replacing any previous one.
func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = handler
	b.logger.Debug("handler subscribed", zap.String("topic", topic))
}

// Unsubscribe removes the handler for a topic.
func (b *Bus) Unsubscribe(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, topic)
}

// Request sends a payload to the topic handler and waits for its response.
// Attempts that time out or fail with a retryable error are retried up to
// the configured limit; exhaustion yields a messaging timeout error.
func (b *Bus) Request(ctx context.Context, topic string, payload any) (any, error) {
	b.mu.RLock()
	handler, ok := b.handlers[topic]
	b.mu.RUnlock()
	if !ok {
		return nil, shared.NewDomainError(shared.CodeMessagingTimeout,
			fmt.Sprintf("No receiver registered for %q", topic))
	}

	var lastErr error
	for attempt := 1; attempt <= b.config.MaxRetries; attempt++ {
		resp, err := b.dispatch(ctx, handler, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, err
		}
		if !retryable(err) {
			return nil, err
		}

		b.logger.Warn("request attempt failed",
			zap.String("topic", topic),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < b.config.MaxRetries {
			b.sleep(b.config.RetryBackoff * time.Duration(attempt))
		}
	}

	return nil, shared.NewDomainError(shared.CodeMessagingTimeout,
		fmt.Sprintf("Request to %q failed after %d attempts: %s", topic, b.config.MaxRetries, lastErr))
}

// dispatch runs a single attempt under the per-attempt timeout. The handler
// goroutine is abandoned on timeout; handlers observe cancellation through
// their context.
func (b *Bus) dispatch(ctx context.Context, handler Handler, payload any) (any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, b.config.RequestTimeout)
	defer cancel()

	type result struct {
		resp any
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("handler panicked: %v", r)}
			}
		}()
		resp, err := handler(attemptCtx, payload)
		done <- result{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-attemptCtx.Done():
		return nil, shared.NewDomainError(shared.CodeMessagingTimeout, "Receiver did not respond in time")
	}
}

func retryable(err error) bool {
	return shared.IsRetryable(shared.CodeOf(err))
}
