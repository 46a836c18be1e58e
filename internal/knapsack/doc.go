// Package knapsack animates the 0/1 knapsack dynamic-programming table.
//
// The package separates the recurrence from its presentation:
//
//   - [Table]: the (N+1) x (capacity+1) DP table, written once per entry
//   - [Animator]: state machine that fills the table and mirrors every entry
//     onto a [Board] (normally a *grid.Grid) one step at a time
//   - [Pacer]: cancellable suspension between steps
//   - [Controller]: hands out cancellation [Token]s; resetting it cancels the
//     run that held the previous token
//   - [Session]: owns the single live grid and the single in-flight run
//
// # Example
//
//	s := knapsack.NewSession(knapsack.SessionConfig{
//		Container: grid.NewViewport(800, 600),
//		Pacer:     knapsack.NewDelay(100 * time.Millisecond),
//	})
//	a, _ := s.Start(5, []int{2, 3, 4, 5}, []int{3, 4, 5, 6})
//	s.Wait()
//	fmt.Println(a.Answer()) // 7
//
// # Ordering
//
// Entries are computed with the item index outer and the capacity inner;
// table[n] depends only on table[n-1], so the order cannot change.
package knapsack
