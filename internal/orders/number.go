package orders

import (
	"context"
	"math/rand"
	"strconv"

	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
)

const (
	// DefaultNumberPrefix precedes every generated order number.
	DefaultNumberPrefix = "ORD-"
	// DefaultNumberAttempts bounds how many candidates one creation may draw.
	DefaultNumberAttempts = 5

	numberLow  = 1_000_000
	numberHigh = 90_000_000
)

// ExistsFunc reports whether a candidate order number is already stored.
type ExistsFunc func(ctx context.Context, number string) (bool, error)

// NumberGenerator draws order numbers of the form prefix + n with n in
// [1000000, 90000000). It holds no state besides its random source.
type NumberGenerator struct {
	prefix   string
	attempts int
	intN     func(n int64) int64
}

// NewNumberGenerator builds a generator. A nil intN uses math/rand.
func NewNumberGenerator(prefix string, attempts int, intN func(n int64) int64) *NumberGenerator {
	if attempts < 1 {
		attempts = DefaultNumberAttempts
	}
	if intN == nil {
		intN = rand.Int63n
	}
	return &NumberGenerator{prefix: prefix, attempts: attempts, intN: intN}
}

// Attempts is the total candidate budget for one order creation.
func (g *NumberGenerator) Attempts() int {
	return g.attempts
}

// Next draws with the full attempt budget.
func (g *NumberGenerator) Next(ctx context.Context, exists ExistsFunc) (string, int, error) {
	return g.Draw(ctx, g.attempts, exists)
}

// Draw returns the first candidate that exists reports as free, and how many candidates it
// consumed. It fails with NUMBER_GENERATION_EXHAUSTED once budget candidates
// have all been taken.
func (g *NumberGenerator) Draw(ctx context.Context, budget int, exists ExistsFunc) (string, int, error) {
	used := 0
	for used < budget {
		if err := ctx.Err(); err != nil {
			return "", used, err
		}
		used++
		candidate := g.candidate()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", used, err
		}
		if !taken {
			return candidate, used, nil
		}
	}
	return "", used, pkgerrors.NumberGenerationExhausted(g.attempts)
}

func (g *NumberGenerator) candidate() string {
	return g.prefix + strconv.FormatInt(numberLow+g.intN(numberHigh-numberLow), 10)
}
