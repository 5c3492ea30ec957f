// Package position assigns blinded display labels to a turn's responses
// so that voters cannot tell which model produced which answer. Each
// turn gets a fresh assignment drawn uniformly from all permutations.
package position

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
)

// DefaultLabels is the display alphabet of the reference deployment.
var DefaultLabels = []string{"A", "B", "C", "D"}

// BadLengthError reports an Assign call whose input length does not
// match the label alphabet. The randomizer fails closed instead of
// padding or truncating.
type BadLengthError struct {
	Got  int
	Want int
}

func (e BadLengthError) Error() string {
	return fmt.Sprintf("position: got %d response ids, want %d labels", e.Got, e.Want)
}

// Randomizer draws uniform random bijections from response identifiers
// onto a fixed label alphabet. It owns its generator explicitly rather
// than using ambient global state, so tests can seed it. Safe for
// concurrent use: the generator is guarded so concurrent turns cannot
// interleave a shuffle.
type Randomizer struct {
	mu     sync.Mutex
	rng    *rand.Rand
	labels []string
}

// New creates a Randomizer over the given label alphabet, seeded from
// fresh entropy.
func New(labels []string) *Randomizer {
	return NewWithSource(labels, rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewWithSource creates a Randomizer with an explicit random source for
// deterministic seeding under test.
func NewWithSource(labels []string, src rand.Source) *Randomizer {
	return &Randomizer{
		rng:    rand.New(src),
		labels: slices.Clone(labels),
	}
}

// Assign maps each response identifier to exactly one label, selected
// uniformly at random over all possible bijections. Every call is an
// independent draw.
func (r *Randomizer) Assign(responseIDs []string) (map[string]string, error) {
	if len(responseIDs) != len(r.labels) {
		return nil, BadLengthError{Got: len(responseIDs), Want: len(r.labels)}
	}

	shuffled := slices.Clone(r.labels)

	r.mu.Lock()
	r.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	r.mu.Unlock()

	assignment := make(map[string]string, len(responseIDs))
	for i, id := range responseIDs {
		assignment[id] = shuffled[i]
	}

	return assignment, nil
}
