package linear_model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ElasticNet is the weight penalty
//
//	Lambda * ((1-L1Ratio) * ΣW² + L1Ratio * Σ|W|)
//
// L1Ratio 0 is pure ridge, 1 is pure lasso. The bias is never penalized.
type ElasticNet struct {
	Lambda  float64
	L1Ratio float64
}

// Penalty returns the penalty value for W.
func (e ElasticNet) Penalty(W *mat.Dense) float64 {
	if e.Lambda == 0 {
		return 0
	}
	rows, _ := W.Dims()
	var squares, absolutes float64
	for i := 0; i < rows; i++ {
		row := W.RawRowView(i)
		squares += floats.Dot(row, row)
		absolutes += floats.Norm(row, 1)
	}
	return e.Lambda * ((1-e.L1Ratio)*squares + e.L1Ratio*absolutes)
}

// addGradient accumulates dPenalty/dW into grad. The L1 subgradient at 0 is 0.
func (e ElasticNet) addGradient(grad, W *mat.Dense) {
	if e.Lambda == 0 {
		return
	}
	l2 := 2 * e.Lambda * (1 - e.L1Ratio)
	l1 := e.Lambda * e.L1Ratio
	rows, _ := W.Dims()
	for i := 0; i < rows; i++ {
		w := W.RawRowView(i)
		g := grad.RawRowView(i)
		for j, wj := range w {
			g[j] += l2*wj + l1*sign(wj)
		}
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// logits returns Z = X·W + B as a new (n_samples, n_classes) matrix.
// Mul panics with mat.ErrShape when X and W disagree.
func logits(X mat.Matrix, p *parameters) *mat.Dense {
	var z mat.Dense
	z.Mul(X, p.W)
	rows, _ := z.Dims()
	bias := mat.Col(nil, 0, p.B)
	for i := 0; i < rows; i++ {
		floats.Add(z.RawRowView(i), bias)
	}
	return &z
}

// softmaxRow replaces the scores in row by their softmax and returns
// log Σ exp(scores), so that log p_c = score_c - logSumExp.
func softmaxRow(row []float64) (logSumExp float64) {
	shift := floats.Max(row)
	for j, v := range row {
		row[j] = math.Exp(v - shift)
	}
	sum := floats.Sum(row)
	floats.Scale(1/sum, row)
	return shift + math.Log(sum)
}

// probabilities runs the forward pass and returns row-wise class probabilities.
func probabilities(X mat.Matrix, p *parameters) *mat.Dense {
	z := logits(X, p)
	rows, _ := z.Dims()
	for i := 0; i < rows; i++ {
		softmaxRow(z.RawRowView(i))
	}
	return z
}

// evaluateLoss computes the regularized cross-entropy of (X, y) under p and
// its analytic gradients:
//
//	loss   = -1/m Σ log P[i, y_i] + penalty(W)
//	gradW  = Xᵀ(P - Y)/m + dpenalty/dW
//	gradB  = Σ_i (P - Y)[i, :] / m
//
// where Y is the one-hot encoding of y. Labels must lie in [0, n_classes).
func evaluateLoss(X mat.Matrix, y []int, p *parameters, penalty ElasticNet) (float64, *mat.Dense, *mat.VecDense) {
	m, _ := X.Dims()
	if len(y) != m {
		panic(mat.ErrShape)
	}
	nFeatures, nClasses := p.dims()

	// z becomes P - Y, scaled by 1/m, in place.
	z := logits(X, p)
	invM := 1 / float64(m)
	nll := 0.0
	for i := 0; i < m; i++ {
		row := z.RawRowView(i)
		target := row[y[i]]
		nll -= target - softmaxRow(row)
		row[y[i]] -= 1
		floats.Scale(invM, row)
	}

	gradW := mat.NewDense(nFeatures, nClasses, nil)
	gradW.Mul(X.T(), z)
	penalty.addGradient(gradW, p.W)

	gradB := mat.NewVecDense(nClasses, nil)
	for i := 0; i < m; i++ {
		floats.Add(gradB.RawVector().Data, z.RawRowView(i))
	}

	return nll*invM + penalty.Penalty(p.W), gradW, gradB
}
