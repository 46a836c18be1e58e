package knapsack_test

import (
	"context"
	"math"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
)

type finishLog struct {
	mu   sync.Mutex
	errs []error
}

func (f *finishLog) record(_ *knapsack.Animator, err error) {
	f.mu.Lock()
	f.errs = append(f.errs, err)
	f.mu.Unlock()
}

func (f *finishLog) all() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.errs...)
}

type cellHook func(grid.Cell)

func (h cellHook) CellChanged(c grid.Cell)   { h(c) }
func (h cellHook) LayoutChanged(grid.Layout) {}

var _ = Describe("Session", func() {
	var (
		viewport *grid.Viewport
		finished *finishLog
		session  *knapsack.Session
		delay    *knapsack.Delay
	)

	BeforeEach(func() {
		viewport = grid.NewViewport(800, 600)
		finished = &finishLog{}
		delay = knapsack.NewDelay(0)
		session = knapsack.NewSession(knapsack.SessionConfig{
			Container:  viewport,
			Stylesheet: "visualisation.css",
			Pacer:      delay,
			Highlight:  true,
			OnFinish:   finished.record,
		})
		DeferCleanup(session.Close)
	})

	It("animates the classic instance to its answer", func() {
		a, err := session.Start(5, classicWeights, classicPrices)
		Expect(err).NotTo(HaveOccurred())
		session.Wait()

		answer, ok := a.Answer()
		Expect(ok).To(BeTrue())
		Expect(answer).To(Equal(7))
		text, err := session.Grid().TextAt(5, 6)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("7"))
		Expect(finished.all()).To(Equal([]error{nil}))
	})

	It("animates a zero capacity", func() {
		a, err := session.Start(0, []int{1}, []int{10})
		Expect(err).NotTo(HaveOccurred())
		session.Wait()

		answer, _ := a.Answer()
		Expect(answer).To(Equal(0))
		g := session.Grid()
		Expect(g.Rows).To(Equal(3))
		Expect(g.Columns).To(Equal(2))
	})

	It("creates no grid for invalid input", func() {
		_, err := session.Start(5, []int{1, 2}, []int{1, 2, 3})
		Expect(err).To(MatchError(knapsack.ErrValidation))
		Expect(session.Grid()).To(BeNil())
		Expect(viewport.Observers()).To(Equal(0))
	})

	It("refuses capacities beyond the table limit", func() {
		_, err := session.Start(math.MaxInt/4, classicWeights, classicPrices)
		Expect(err).To(MatchError(knapsack.ErrValidation))
		Expect(session.Grid()).To(BeNil())
	})

	It("keeps one observer across runs", func() {
		for i := 0; i < 3; i++ {
			_, err := session.Start(2, []int{1}, []int{1})
			Expect(err).NotTo(HaveOccurred())
		}
		session.Wait()
		Expect(viewport.Observers()).To(Equal(1))
	})

	It("stops a superseded run before its next write", func() {
		delay.Set(5 * time.Millisecond)
		first, err := session.Start(12, []int{3, 4, 5, 6, 7}, []int{4, 5, 6, 7, 8})
		Expect(err).NotTo(HaveOccurred())
		firstGrid := session.Grid()
		Eventually(func() int {
			written, _ := first.Progress()
			return written
		}).WithTimeout(2 * time.Second).Should(BeNumerically(">", 3))

		second, err := session.Start(5, classicWeights, classicPrices)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.State()).To(Equal(knapsack.Cancelled))
		Expect(firstGrid.Attached()).To(BeFalse())
		frozen := firstGrid.Snapshot()

		Eventually(second.Finished).WithTimeout(2 * time.Second).Should(BeTrue())
		session.Wait()
		Consistently(firstGrid.Snapshot).WithTimeout(30 * time.Millisecond).Should(Equal(frozen))

		want, err := knapsack.Solve(5, classicWeights, classicPrices)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Table().Rows()).To(Equal(want.Rows()))
		Expect(finished.all()).To(HaveLen(2))
		Expect(finished.all()[0]).To(MatchError(context.Canceled))
	})

	It("lands no superseded step after Start returns", func() {
		entered := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		gated := knapsack.NewSession(knapsack.SessionConfig{
			Container:  viewport,
			Stylesheet: "visualisation.css",
			Highlight:  true,
			OnGrid: func(g *grid.Grid) {
				g.SetListener(cellHook(func(c grid.Cell) {
					if c.Row == 1 && c.Column == 1 {
						once.Do(func() {
							close(entered)
							<-release
						})
					}
				}))
			},
		})
		DeferCleanup(gated.Close)

		first, err := gated.Start(5, classicWeights, classicPrices)
		Expect(err).NotTo(HaveOccurred())
		firstGrid := gated.Grid()
		Eventually(entered).Should(BeClosed())

		started := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			_, err := gated.Start(5, classicWeights, classicPrices)
			Expect(err).NotTo(HaveOccurred())
			close(started)
		}()
		Consistently(started).WithTimeout(20 * time.Millisecond).ShouldNot(BeClosed())
		close(release)
		Eventually(started).WithTimeout(2 * time.Second).Should(BeClosed())

		Expect(first.State()).To(Equal(knapsack.Cancelled))
		written, _ := first.Progress()
		Expect(written).To(Equal(1))
		frozen := firstGrid.Snapshot()
		gated.Wait()
		Expect(firstGrid.Snapshot()).To(Equal(frozen))
	})

	It("cancels the run in flight", func() {
		delay.Set(time.Hour)
		a, err := session.Start(5, classicWeights, classicPrices)
		Expect(err).NotTo(HaveOccurred())
		session.Cancel()
		session.Wait()
		Expect(a.State()).To(Equal(knapsack.Cancelled))
	})

	It("prepares a run for manual stepping", func() {
		a, token, err := session.Prepare(2, []int{1}, []int{5})
		Expect(err).NotTo(HaveOccurred())
		Expect(session.Controller().Live(token.ID())).To(BeTrue())
		for !a.Finished() {
			_, err := a.Advance()
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(session.Current()).To(BeIdenticalTo(a))

		_, next, err := session.Prepare(1, []int{1}, []int{1})
		Expect(err).NotTo(HaveOccurred())
		Expect(token.Cancelled()).To(BeTrue())
		Expect(session.Controller().Live(next.ID())).To(BeTrue())
	})
})
