package knapsack_test

import (
	"context"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
)

var (
	classicWeights = []int{2, 3, 4, 5}
	classicPrices  = []int{3, 4, 5, 6}
)

func attachedGrid(rows, columns int) *grid.Grid {
	g, err := grid.New(rows, columns, "visualisation.css")
	Expect(err).NotTo(HaveOccurred())
	Expect(g.Attach(grid.NewViewport(640, 480))).To(Succeed())
	DeferCleanup(g.Detach)
	return g
}

// cancellingPacer ends the run's context on its nth wait but still lets the
// caller proceed, as a supersede landing between two steps would.
type cancellingPacer struct {
	n      int
	waits  int
	cancel context.CancelFunc
}

func (p *cancellingPacer) Wait(context.Context) error {
	p.waits++
	if p.waits == p.n {
		p.cancel()
	}
	return nil
}

func itoa(n int) string { return strconv.Itoa(n) }

func advanceTo(a *knapsack.Animator, n, w int) knapsack.Step {
	for {
		step, err := a.Advance()
		Expect(err).NotTo(HaveOccurred())
		if step.Kind == knapsack.TableEntry && step.N == n && step.W == w {
			return step
		}
	}
}

var _ = Describe("Animator", func() {
	var (
		board    *grid.Grid
		anim     *knapsack.Animator
		statuses []string
	)

	BeforeEach(func() {
		statuses = nil
		board = attachedGrid(len(classicWeights)+2, 5+2)
		var err error
		anim, err = knapsack.New(board, 5, classicWeights, classicPrices,
			knapsack.WithStatus(func(s string) { statuses = append(statuses, s) }))
		Expect(err).NotTo(HaveOccurred())
	})

	It("writes headings before any entry", func() {
		Expect(anim.State()).To(Equal(knapsack.Idle))

		step, err := anim.Advance()
		Expect(err).NotTo(HaveOccurred())
		Expect(step.Kind).To(Equal(knapsack.ColumnHeadings))
		for w := 0; w <= 5; w++ {
			text, err := board.TextAt(0, w+1)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal(itoa(w)))
		}
		_, err = board.TextAt(1, 0)
		Expect(err).To(MatchError(grid.ErrNotFound))

		step, err = anim.Advance()
		Expect(err).NotTo(HaveOccurred())
		Expect(step.Kind).To(Equal(knapsack.RowHeadings))
		Expect(anim.State()).To(Equal(knapsack.HeadingsWritten))
		for n := 0; n <= 4; n++ {
			text, _ := board.TextAtOrEmpty(n+1, 0)
			Expect(text).To(Equal(itoa(n)))
		}
		_, ok := board.TextAtOrEmpty(0, 0)
		Expect(ok).To(BeFalse())
	})

	It("fills entries in item-major order", func() {
		anim.Advance()
		anim.Advance()

		var order [][2]int
		for !anim.Finished() {
			step, err := anim.Advance()
			Expect(err).NotTo(HaveOccurred())
			Expect(step.Kind).To(Equal(knapsack.TableEntry))
			order = append(order, [2]int{step.N, step.W})
		}
		Expect(order).To(HaveLen(5 * 6))
		Expect(order[0]).To(Equal([2]int{0, 0}))
		Expect(order[6]).To(Equal([2]int{1, 0}))
		Expect(order[29]).To(Equal([2]int{4, 5}))

		Expect(anim.State()).To(Equal(knapsack.Done))
		answer, ok := anim.Answer()
		Expect(ok).To(BeTrue())
		Expect(answer).To(Equal(7))
		Expect(anim.Selection()).To(Equal([]int{0, 1}))

		text, err := board.TextAt(5, 6)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("7"))

		_, err = anim.Advance()
		Expect(err).To(MatchError(knapsack.ErrFinished))
	})

	It("describes the subproblem of every entry", func() {
		step := advanceTo(anim, 2, 3)
		Expect(step.Value).To(Equal(4))
		Expect(step.Status).To(Equal("Node: W=3, P=[3,4], Wt=[2,3]"))
		Expect(statuses[0]).To(Equal("Node: W=0, P=[], Wt=[]"))
		Expect(statuses).To(HaveLen(2*6 + 4))
	})

	It("highlights the current entry and its sources", func() {
		advanceTo(anim, 2, 5)

		cell, _ := board.ElementAt(3, 6)
		Expect(cell.HasClass(knapsack.ClassCurrent)).To(BeTrue())
		for _, col := range []int{6, 3} {
			src, _ := board.ElementAt(2, col)
			Expect(src.HasClass(knapsack.ClassSource)).To(BeTrue(), "column %d", col)
		}

		anim.Advance()
		cell, _ = board.ElementAt(3, 6)
		Expect(cell.HasClass(knapsack.ClassCurrent)).To(BeFalse())
		src, _ := board.ElementAt(2, 3)
		Expect(src.HasClass(knapsack.ClassSource)).To(BeFalse())
	})

	It("clears highlights when done", func() {
		Expect(anim.Run(context.Background(), knapsack.NewDelay(0))).To(Succeed())
		for _, c := range board.Snapshot().Cells {
			Expect(c.HasClass(knapsack.ClassCurrent)).To(BeFalse())
			Expect(c.HasClass(knapsack.ClassSource)).To(BeFalse())
		}
	})

	It("can run without highlights", func() {
		plain := attachedGrid(3, 4)
		a, err := knapsack.New(plain, 2, []int{1}, []int{1}, knapsack.WithHighlight(false))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Run(context.Background(), knapsack.NewDelay(0))).To(Succeed())
		for _, c := range plain.Snapshot().Cells {
			Expect(c.Classes).To(BeEmpty())
		}
	})

	It("reports progress", func() {
		written, total := anim.Progress()
		Expect(written).To(Equal(0))
		Expect(total).To(Equal(30))

		advanceTo(anim, 1, 2)
		written, _ = anim.Progress()
		Expect(written).To(Equal(9))

		Expect(anim.Run(context.Background(), nil)).To(Succeed())
		written, _ = anim.Progress()
		Expect(written).To(Equal(30))
	})

	It("keeps its progress after cancellation", func() {
		advanceTo(anim, 1, 2)
		anim.Cancel()
		written, total := anim.Progress()
		Expect(written).To(Equal(9))
		Expect(total).To(Equal(30))
	})

	It("writes nothing once its context ends between steps", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		// two heading waits, two entries, then the fifth wait cancels
		p := &cancellingPacer{n: 5, cancel: cancel}

		Expect(anim.Run(ctx, p)).To(MatchError(context.Canceled))
		Expect(anim.State()).To(Equal(knapsack.Cancelled))
		written, _ := anim.Progress()
		Expect(written).To(Equal(2))
		_, ok := board.TextAtOrEmpty(1, 3)
		Expect(ok).To(BeFalse())
	})

	It("stops before the next write when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(anim.Run(ctx, knapsack.NewDelay(0))).To(MatchError(context.Canceled))
		Expect(anim.State()).To(Equal(knapsack.Cancelled))
		Expect(board.Snapshot().Cells).To(HaveEach(HaveField("Written", BeFalse())))

		_, err := anim.Advance()
		Expect(err).To(MatchError(knapsack.ErrFinished))
		_, ok := anim.Answer()
		Expect(ok).To(BeFalse())
	})

	It("fails on a board without room", func() {
		small := attachedGrid(2, 2)
		a, err := knapsack.New(small, 5, classicWeights, classicPrices)
		Expect(err).NotTo(HaveOccurred())
		_, err = a.Advance()
		Expect(err).To(MatchError(grid.ErrIndex))
	})

	It("rejects invalid input", func() {
		_, err := knapsack.New(board, 5, []int{1, 2}, []int{1, 2, 3})
		Expect(err).To(MatchError(knapsack.ErrValidation))
	})
})

var _ = Describe("Delay", func() {
	It("does not suspend when zero or negative", func() {
		for _, d := range []time.Duration{0, -time.Second} {
			start := time.Now()
			Expect(knapsack.NewDelay(d).Wait(context.Background())).To(Succeed())
			Expect(time.Since(start)).To(BeNumerically("<", 50*time.Millisecond))
		}
	})

	It("waits for the configured duration", func() {
		start := time.Now()
		Expect(knapsack.NewDelay(20 * time.Millisecond).Wait(context.Background())).To(Succeed())
		Expect(time.Since(start)).To(BeNumerically(">=", 20*time.Millisecond))
	})

	It("returns early on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		start := time.Now()
		Expect(knapsack.NewDelay(time.Hour).Wait(ctx)).To(MatchError(context.Canceled))
		Expect(time.Since(start)).To(BeNumerically("<", time.Second))
	})

	It("reports cancellation even without a delay", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(knapsack.NewDelay(0).Wait(ctx)).To(MatchError(context.Canceled))
	})

	It("can be changed while in use", func() {
		d := knapsack.NewDelay(time.Second)
		d.Set(5 * time.Millisecond)
		Expect(d.Get()).To(Equal(5 * time.Millisecond))
	})
})

var _ = Describe("Controller", func() {
	It("cancels the previous token on reset", func() {
		c := knapsack.NewController(context.Background())
		a := c.Reset()
		Expect(c.Live(a.ID())).To(BeTrue())

		b := c.Reset()
		Expect(a.Cancelled()).To(BeTrue())
		Expect(b.Cancelled()).To(BeFalse())
		Expect(b.ID()).NotTo(Equal(a.ID()))
		Expect(c.Live(a.ID())).To(BeFalse())
		Expect(c.Live(b.ID())).To(BeTrue())
		Expect(c.Current()).To(BeIdenticalTo(b))

		c.Cancel()
		Expect(b.Cancelled()).To(BeTrue())
		Expect(c.Live(b.ID())).To(BeFalse())
	})

	It("follows its parent context", func() {
		parent, cancel := context.WithCancel(context.Background())
		c := knapsack.NewController(parent)
		t := c.Reset()
		cancel()
		Expect(t.Cancelled()).To(BeTrue())
	})
})
