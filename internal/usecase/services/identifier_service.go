package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/atlasbank/core-banking/internal/domain"
)

// ExistsFunc probes the persisted uniqueness constraint for a candidate.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

const defaultMaxAttempts = 25

// IdentifierGenerator draws uniformly random numeric identifiers and redraws
// on collision. The source is injected so tests can seed it deterministically.
type IdentifierGenerator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	maxAttempts int
}

func NewIdentifierGenerator(src rand.Source) *IdentifierGenerator {
	return &IdentifierGenerator{
		rng:         rand.New(src),
		maxAttempts: defaultMaxAttempts,
	}
}

// AccountNumber returns a free 8-digit account number.
func (g *IdentifierGenerator) AccountNumber(ctx context.Context, exists ExistsFunc) (string, error) {
	return g.unique(ctx, exists, func() string {
		return fmt.Sprintf("%08d", 10000000+g.intn(90000000))
	})
}

// CardNumber returns a free 16-digit card number.
func (g *IdentifierGenerator) CardNumber(ctx context.Context, exists ExistsFunc) (string, error) {
	return g.unique(ctx, exists, func() string {
		return fmt.Sprintf("%d%015d", 1+g.intn(9), g.int63n(1_000_000_000_000_000))
	})
}

// SecurityCode returns a 3-digit card verification value.
func (g *IdentifierGenerator) SecurityCode() string {
	return fmt.Sprintf("%03d", 100+g.intn(900))
}

// PIN returns a 4-digit card PIN.
func (g *IdentifierGenerator) PIN() string {
	return fmt.Sprintf("%04d", g.intn(10000))
}

func (g *IdentifierGenerator) unique(ctx context.Context, exists ExistsFunc, draw func() string) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := draw()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check identifier candidate: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", domain.ErrIdentifierExhausted
}

func (g *IdentifierGenerator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

func (g *IdentifierGenerator) int63n(n int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Int63n(n)
}
