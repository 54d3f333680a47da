// Package ratelimit provides an EmbeddingService decorator that paces calls
// to the wrapped provider with a token bucket.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultBackoff is how long calls pause after the provider reports a rate limit.
const DefaultBackoff = 5 * time.Second

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate.
	RequestsPerSecond float64

	// Burst is the maximum burst size. Values below 1 are raised to 1.
	Burst int

	// Backoff is the pause after a rate-limit error (default: 5s).
	Backoff time.Duration
}

// EmbeddingService waits for a token before each call to the wrapped service.
// A rate-limit error from the provider also pauses subsequent calls.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
	backoff time.Duration

	mu      sync.Mutex
	retryAt time.Time
}

// New wraps inner with a limiter built from cfg.
func New(inner driven.EmbeddingService, cfg Config) *EmbeddingService {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &EmbeddingService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		backoff: cfg.Backoff,
	}
}

// Embed waits for capacity and delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	v, err := s.inner.Embed(ctx, text)
	s.observe(err)
	return v, err
}

// EmbedBatch waits for capacity once per batch and delegates.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	v, err := s.inner.EmbedBatch(ctx, texts)
	s.observe(err)
	return v, err
}

// Dimensions delegates to the wrapped service.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName delegates to the wrapped service.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming a token.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close delegates to the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}

// wait honours any backoff window, then the token bucket.
func (s *EmbeddingService) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		logger.Debug("embedding backoff: waiting %s", d.Round(time.Millisecond))
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return s.limiter.Wait(ctx)
}

func (s *EmbeddingService) observe(err error) {
	if !errors.Is(err, domain.ErrRateLimited) {
		return
	}
	logger.Warn("embedding provider rate limited, backing off %s", s.backoff)
	s.mu.Lock()
	s.retryAt = time.Now().Add(s.backoff)
	s.mu.Unlock()
}
