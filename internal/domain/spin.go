package domain

import "math/rand"

// SpinResult is the outcome of one spin: the winner (nil when the pool is
// empty) plus the full pool it was drawn from. The winner is always one of
// the pool entries.
type SpinResult struct {
	Winner        *Item   `json:"winner"`
	Pool          []*Item `json:"pool"`
	TotalPoolSize int     `json:"total_pool_size"`
}

// Spinner draws one item uniformly at random from a pool. The randomness
// source is injectable so tests can force a fixed choice.
type Spinner struct {
	intn func(n int) int
}

// NewSpinner returns a spinner backed by the process-wide PRNG.
func NewSpinner() *Spinner {
	return &Spinner{intn: rand.Intn}
}

// NewSpinnerWithSource returns a spinner using a custom source.
// intn must return a value in [0, n).
func NewSpinnerWithSource(intn func(n int) int) *Spinner {
	return &Spinner{intn: intn}
}

// Spin picks a winner from the pool. An empty pool is a normal outcome,
// not an error. Spinning never mutates anything.
func (s *Spinner) Spin(pool []*Item) SpinResult {
	if pool == nil {
		pool = []*Item{}
	}
	res := SpinResult{Pool: pool, TotalPoolSize: len(pool)}
	if len(pool) == 0 {
		return res
	}
	res.Winner = pool[s.intn(len(pool))]
	return res
}
