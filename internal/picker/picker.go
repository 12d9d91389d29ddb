// Package picker chooses shoes from the collection: uniformly at random,
// by least recent wear, or as a random sample for the public preview.
package picker

import (
	"math/rand/v2"
	"sync"

	"github.com/erazemk/sneakerbox/internal/model"
)

// Picker selects shoes using its own random source. It is safe for
// concurrent use.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Picker drawing from src.
func New(src rand.Source) *Picker {
	return &Picker{rnd: rand.New(src)}
}

// Default returns a Picker seeded from the runtime's random source.
func Default() *Picker {
	return New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Random returns a uniformly chosen shoe, or false for an empty list.
func (p *Picker) Random(shoes []model.Shoe) (model.Shoe, bool) {
	if len(shoes) == 0 {
		return model.Shoe{}, false
	}
	p.mu.Lock()
	i := p.rnd.IntN(len(shoes))
	p.mu.Unlock()
	return shoes[i], true
}

// RandomSubset returns min(n, len(shoes)) distinct shoes in random order.
// The input slice is not modified.
func (p *Picker) RandomSubset(shoes []model.Shoe, n int) []model.Shoe {
	if n <= 0 || len(shoes) == 0 {
		return []model.Shoe{}
	}
	shuffled := make([]model.Shoe, len(shoes))
	copy(shuffled, shoes)

	p.mu.Lock()
	p.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	p.mu.Unlock()

	return shuffled[:min(n, len(shuffled))]
}

// LeastRecentlyWorn returns the shoe whose last wear is oldest. Shoes that
// were never worn come before any worn shoe. Ties go to the earliest created
// shoe, then the smallest ID, so the result does not depend on list order.
func LeastRecentlyWorn(shoes []model.Shoe) (model.Shoe, bool) {
	if len(shoes) == 0 {
		return model.Shoe{}, false
	}
	best := shoes[0]
	for _, s := range shoes[1:] {
		if wornBefore(s, best) {
			best = s
		}
	}
	return best, true
}

// wornBefore reports whether a ranks ahead of b for LeastRecentlyWorn.
func wornBefore(a, b model.Shoe) bool {
	switch {
	case a.LastWorn == nil && b.LastWorn != nil:
		return true
	case a.LastWorn != nil && b.LastWorn == nil:
		return false
	case a.LastWorn != nil && !a.LastWorn.Equal(*b.LastWorn):
		return a.LastWorn.Before(*b.LastWorn)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// LeastRecentlyWorn is the method form of the package function.
func (p *Picker) LeastRecentlyWorn(shoes []model.Shoe) (model.Shoe, bool) {
	return LeastRecentlyWorn(shoes)
}
