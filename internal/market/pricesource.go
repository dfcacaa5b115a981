package market

import (
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	priceFloor = decimal.RequireFromString("0.01")
	priceCeil  = decimal.RequireFromString("0.99")
)

// RandomWalk jitters prices by up to ±maxStep per poll. It stands in for a
// real feed in non-live mode.
type RandomWalk struct {
	mu      sync.Mutex
	rng     *rand.Rand
	maxStep float64
}

// NewRandomWalk creates a seeded random-walk source. maxStep is the largest
// absolute move per poll, e.g. 0.01 for one cent.
func NewRandomWalk(seed int64, maxStep float64) *RandomWalk {
	return &RandomWalk{
		rng:     rand.New(rand.NewSource(seed)),
		maxStep: maxStep,
	}
}

// Next returns the jittered price, clamped to [0.01, 0.99].
func (w *RandomWalk) Next(current decimal.Decimal) decimal.Decimal {
	w.mu.Lock()
	step := (w.rng.Float64()*2 - 1) * w.maxStep
	w.mu.Unlock()

	next := current.Add(decimal.NewFromFloat(step))
	return clampPrice(next)
}

// Fixed returns prices unchanged. The deterministic source for tests.
type Fixed struct{}

// Next returns current as-is.
func (Fixed) Next(current decimal.Decimal) decimal.Decimal { return current }

// Scripted replays a fixed sequence of absolute prices, then holds the last
// one. Deterministic feed for fill-path tests.
type Scripted struct {
	mu     sync.Mutex
	prices []decimal.Decimal
	index  int
}

// NewScripted creates a scripted source from absolute price strings.
func NewScripted(prices ...string) *Scripted {
	s := &Scripted{}
	for _, p := range prices {
		s.prices = append(s.prices, decimal.RequireFromString(p))
	}
	return s
}

// Next returns the next scripted price, ignoring current.
func (s *Scripted) Next(current decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.prices) == 0 {
		return current
	}
	p := s.prices[s.index]
	if s.index < len(s.prices)-1 {
		s.index++
	}
	return p
}

func clampPrice(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(priceFloor) {
		return priceFloor
	}
	if p.GreaterThan(priceCeil) {
		return priceCeil
	}
	return p
}
