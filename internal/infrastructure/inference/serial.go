package inference

import (
	"context"
	"sync"

	"github.com/transparencyportal/ai-service/internal/domain"
)

// SerialGenerator serialises calls to a generator that is not safe for
// concurrent inference.
type SerialGenerator struct {
	mu    sync.Mutex
	inner domain.TextGenerator
}

// NewSerialGenerator wraps inner so at most one Generate call runs at a time
func NewSerialGenerator(inner domain.TextGenerator) *SerialGenerator {
	return &SerialGenerator{inner: inner}
}

// Generate waits for the lock, giving up if ctx is done first
func (s *SerialGenerator) Generate(ctx context.Context, prompt string, params domain.SamplingParams) (string, error) {
	if err := s.lock(ctx); err != nil {
		return "", err
	}
	defer s.mu.Unlock()
	return s.inner.Generate(ctx, prompt, params)
}

// ModelID returns the wrapped generator's model identifier
func (s *SerialGenerator) ModelID() string {
	return s.inner.ModelID()
}

func (s *SerialGenerator) lock(ctx context.Context) error {
	if s.mu.TryLock() {
		return nil
	}

	acquired := make(chan struct{})
	go func() {
		s.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return nil
	case <-ctx.Done():
		// The goroutine still owns the eventual lock; release it once taken.
		go func() {
			<-acquired
			s.mu.Unlock()
		}()
		return ctx.Err()
	}
}
