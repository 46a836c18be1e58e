package knapsack_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/knapviz/internal/knapsack"
)

func bruteForce(capacity int, weights, prices []int) int {
	best := 0
	for mask := 0; mask < 1<<len(weights); mask++ {
		w, p := 0, 0
		for i := range weights {
			if mask&(1<<i) != 0 {
				w += weights[i]
				p += prices[i]
			}
		}
		if w <= capacity && p > best {
			best = p
		}
	}
	return best
}

var _ = Describe("Table", func() {
	It("solves the classic instance", func() {
		t, err := knapsack.Solve(5, []int{2, 3, 4, 5}, []int{3, 4, 5, 6})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Rows()).To(Equal([][]int{
			{0, 0, 0, 0, 0, 0},
			{0, 0, 3, 3, 3, 3},
			{0, 0, 3, 4, 4, 7},
			{0, 0, 3, 4, 5, 7},
			{0, 0, 3, 4, 5, 7},
		}))
		Expect(t.At(4, 5)).To(Equal(7))
		Expect(t.Selection([]int{2, 3, 4, 5})).To(Equal([]int{0, 1}))
	})

	It("handles a zero capacity", func() {
		t, err := knapsack.Solve(0, []int{1}, []int{10})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Rows()).To(Equal([][]int{{0}, {0}}))
		Expect(t.Selection([]int{1})).To(BeEmpty())
	})

	It("handles no items", func() {
		t, err := knapsack.Solve(3, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Rows()).To(Equal([][]int{{0, 0, 0, 0}}))
	})

	It("copies the previous row when an item cannot fit", func() {
		t, err := knapsack.Solve(4, []int{1, 9}, []int{2, 100})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Row(2)).To(Equal(t.Row(1)))
	})

	DescribeTable("matches exhaustive search",
		func(capacity int, weights, prices []int) {
			t, err := knapsack.Solve(capacity, weights, prices)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.At(len(weights), capacity)).To(Equal(bruteForce(capacity, weights, prices)))

			picked := t.Selection(weights)
			total, load := 0, 0
			for _, i := range picked {
				total += prices[i]
				load += weights[i]
			}
			Expect(total).To(Equal(t.At(len(weights), capacity)))
			Expect(load).To(BeNumerically("<=", capacity))
		},
		Entry("single item fits", 3, []int{3}, []int{5}),
		Entry("single item too heavy", 2, []int{3}, []int{5}),
		Entry("greedy by price fails", 10, []int{6, 5, 5}, []int{10, 8, 8}),
		Entry("greedy by ratio fails", 7, []int{1, 3, 4, 5}, []int{1, 4, 5, 7}),
		Entry("eight items", 20, []int{4, 7, 2, 9, 5, 3, 8, 6}, []int{5, 9, 3, 11, 6, 4, 10, 7}),
	)

	It("matches exhaustive search on random instances", func() {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 50; i++ {
			n := rng.Intn(9)
			capacity := rng.Intn(16)
			weights := make([]int, n)
			prices := make([]int, n)
			for j := range weights {
				weights[j] = 1 + rng.Intn(10)
				prices[j] = rng.Intn(20)
			}
			t, err := knapsack.Solve(capacity, weights, prices)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.At(n, capacity)).To(Equal(bruteForce(capacity, weights, prices)),
				"capacity=%d weights=%v prices=%v", capacity, weights, prices)
		}
	})

	It("writes every entry once", func() {
		t := knapsack.NewTable(1, 1)
		Expect(t.IsSet(0, 0)).To(BeFalse())
		Expect(t.Set(0, 0, 0)).To(Succeed())
		Expect(t.Set(0, 0, 1)).To(MatchError(knapsack.ErrInvariant))
		Expect(t.Set(2, 0, 1)).To(MatchError(knapsack.ErrInvariant))
		Expect(t.Set(1, 1, -3)).To(MatchError(knapsack.ErrInvariant))
		Expect(t.At(5, 5)).To(Equal(knapsack.Unset))
		Expect(t.Complete()).To(BeFalse())
	})

	Describe("Validate", func() {
		It("rejects mismatched lengths", func() {
			err := knapsack.Validate(5, []int{1, 2}, []int{1, 2, 3})
			Expect(err).To(MatchError(knapsack.ErrValidation))
			var ve *knapsack.ValidationError
			Expect(err).To(BeAssignableToTypeOf(ve))
		})

		It("rejects negative numbers", func() {
			Expect(knapsack.Validate(-1, nil, nil)).To(MatchError(knapsack.ErrValidation))
			Expect(knapsack.Validate(1, []int{-1}, []int{1})).To(MatchError(knapsack.ErrValidation))
			Expect(knapsack.Validate(1, []int{1}, []int{-1})).To(MatchError(knapsack.ErrValidation))
		})

		It("rejects weightless items", func() {
			err := knapsack.Validate(0, []int{0, 1}, []int{4, 9})
			Expect(err).To(MatchError(knapsack.ErrValidation))
			_, err = knapsack.Solve(0, []int{0, 1}, []int{4, 9})
			Expect(err).To(MatchError(knapsack.ErrValidation))
		})

		It("bounds the table size", func() {
			Expect(knapsack.Validate(math.MaxInt, []int{1}, []int{1})).To(MatchError(knapsack.ErrValidation))
			Expect(knapsack.Validate(knapsack.MaxCells, nil, nil)).To(MatchError(knapsack.ErrValidation))
			Expect(knapsack.Validate(knapsack.MaxCells/2, []int{1, 1}, []int{1, 1})).To(MatchError(knapsack.ErrValidation))
			Expect(knapsack.Validate(knapsack.MaxCells/2-1, []int{1}, []int{1})).To(Succeed())

			_, err := knapsack.Solve(math.MaxInt, []int{1}, []int{1})
			Expect(err).To(MatchError(knapsack.ErrValidation))
			Expect(err.Error()).To(ContainSubstring("limit"))
		})

		It("accepts empty item lists", func() {
			Expect(knapsack.Validate(0, []int{}, []int{})).To(Succeed())
		})
	})
})
