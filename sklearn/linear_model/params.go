package linear_model

import "gonum.org/v1/gonum/mat"

// parameters holds the trainable state of a softmax model: W is
// (n_features, n_classes) and B has one entry per class.
type parameters struct {
	W *mat.Dense
	B *mat.VecDense
}

// initializeParameters returns zero-filled W and B.
func initializeParameters(nFeatures, nClasses int) *parameters {
	return &parameters{
		W: mat.NewDense(nFeatures, nClasses, nil),
		B: mat.NewVecDense(nClasses, nil),
	}
}

// dims returns (n_features, n_classes).
func (p *parameters) dims() (int, int) {
	return p.W.Dims()
}
