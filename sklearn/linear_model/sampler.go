package linear_model

import (
	"iter"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// batchSampler draws mini-batches of rows from a fixed dataset.
//
// Each batch holds batchSize distinct rows chosen uniformly at random;
// successive batches are independent, so a row may reappear in the next
// batch. A batchSize <= 0, or one that covers the whole dataset, yields the
// full dataset on every draw.
type batchSampler struct {
	X         *mat.Dense
	y         []int
	batchSize int
	rng       *rand.Rand

	indices []int
}

func newBatchSampler(X *mat.Dense, y []int, batchSize int, rng *rand.Rand) *batchSampler {
	n, _ := X.Dims()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return &batchSampler{X: X, y: y, batchSize: batchSize, rng: rng, indices: indices}
}

// fullBatch reports whether every draw returns the whole dataset.
func (s *batchSampler) fullBatch() bool {
	return s.batchSize <= 0 || s.batchSize >= len(s.indices)
}

// size returns the number of rows per batch.
func (s *batchSampler) size() int {
	if s.fullBatch() {
		return len(s.indices)
	}
	return s.batchSize
}

// next draws one batch. The full dataset is returned without copying.
func (s *batchSampler) next() (*mat.Dense, []int) {
	if s.fullBatch() {
		return s.X, s.y
	}

	// Partial Fisher-Yates: the first batchSize entries become a uniform
	// sample without replacement regardless of the current order.
	n := len(s.indices)
	for i := 0; i < s.batchSize; i++ {
		j := i + s.rng.IntN(n-i)
		s.indices[i], s.indices[j] = s.indices[j], s.indices[i]
	}

	_, cols := s.X.Dims()
	xb := mat.NewDense(s.batchSize, cols, nil)
	yb := make([]int, s.batchSize)
	for i, idx := range s.indices[:s.batchSize] {
		xb.SetRow(i, s.X.RawRowView(idx))
		yb[i] = s.y[idx]
	}
	return xb, yb
}

// Batches returns a sequence of n batches. Each call starts a fresh sequence;
// batches are drawn lazily as the sequence is ranged over.
func (s *batchSampler) Batches(n int) iter.Seq2[*mat.Dense, []int] {
	return func(yield func(*mat.Dense, []int) bool) {
		for i := 0; i < n; i++ {
			if !yield(s.next()) {
				return
			}
		}
	}
}
