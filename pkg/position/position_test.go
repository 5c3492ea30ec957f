package position_test

import (
	"math/rand/v2"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/gavel/pkg/position"
)

var _ = Describe("Randomizer", func() {
	ids := []string{"resp-1", "resp-2", "resp-3", "resp-4"}

	newSeeded := func(seed uint64) *position.Randomizer {
		return position.NewWithSource(position.DefaultLabels, rand.NewPCG(seed, seed+1))
	}

	Describe("Assign", func() {
		It("returns a total bijection onto the label alphabet", func() {
			r := newSeeded(1)

			assignment, err := r.Assign(ids)
			Expect(err).NotTo(HaveOccurred())
			Expect(assignment).To(HaveLen(4))

			seen := map[string]bool{}
			for _, id := range ids {
				label, ok := assignment[id]
				Expect(ok).To(BeTrue(), "id %s has no label", id)
				Expect(position.DefaultLabels).To(ContainElement(label))
				Expect(seen[label]).To(BeFalse(), "label %s used twice", label)
				seen[label] = true
			}
		})

		It("fails closed when given too few ids", func() {
			r := newSeeded(1)

			_, err := r.Assign(ids[:3])

			var badLen position.BadLengthError
			Expect(err).To(BeAssignableToTypeOf(badLen))
			Expect(err.(position.BadLengthError).Got).To(Equal(3))
			Expect(err.(position.BadLengthError).Want).To(Equal(4))
		})

		It("fails closed when given too many ids", func() {
			r := newSeeded(1)

			_, err := r.Assign(append(ids[:4:4], "resp-5"))
			Expect(err).To(MatchError("position: got 5 response ids, want 4 labels"))
		})

		It("draws each permutation with roughly equal frequency", func() {
			r := newSeeded(42)

			const trials = 12000
			counts := map[string]int{}
			for range trials {
				assignment, err := r.Assign(ids)
				Expect(err).NotTo(HaveOccurred())

				var key strings.Builder
				for _, id := range ids {
					key.WriteString(assignment[id])
				}
				counts[key.String()]++
			}

			// 4! = 24 permutations, expected 500 each. A uniform draw
			// stays well inside +/-20% at this sample size.
			Expect(counts).To(HaveLen(24))
			for perm, count := range counts {
				Expect(count).To(BeNumerically(">", 400), "permutation %s underrepresented", perm)
				Expect(count).To(BeNumerically("<", 600), "permutation %s overrepresented", perm)
			}
		})

		It("draws independently across calls", func() {
			r := newSeeded(7)

			first, err := r.Assign(ids)
			Expect(err).NotTo(HaveOccurred())

			// At least one of the next draws must differ from the first.
			differs := false
			for range 50 {
				next, err := r.Assign(ids)
				Expect(err).NotTo(HaveOccurred())
				for id, label := range first {
					if next[id] != label {
						differs = true
					}
				}
			}
			Expect(differs).To(BeTrue())
		})

		It("is deterministic for an identical seed", func() {
			a := newSeeded(99)
			b := newSeeded(99)

			for range 10 {
				wantAssignment, err := a.Assign(ids)
				Expect(err).NotTo(HaveOccurred())
				gotAssignment, err := b.Assign(ids)
				Expect(err).NotTo(HaveOccurred())
				Expect(gotAssignment).To(Equal(wantAssignment))
			}
		})

		It("stays a bijection under concurrent use", func() {
			r := position.New(position.DefaultLabels)

			var wg sync.WaitGroup
			results := make([]map[string]string, 32)
			for i := range results {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assignment, err := r.Assign(ids)
					Expect(err).NotTo(HaveOccurred())
					results[i] = assignment
				}()
			}
			wg.Wait()

			for _, assignment := range results {
				labels := map[string]bool{}
				for _, label := range assignment {
					labels[label] = true
				}
				Expect(labels).To(HaveLen(4))
			}
		})
	})
})
