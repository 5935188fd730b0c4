package linear_model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/logitreg/pkg/errors"
)

// Optimizer method names.
const (
	MethodGradientDescent = "gradient_descent"
	MethodMomentum        = "momentum"
)

// Optimizer applies one parameter update from the gradients of the loss.
type Optimizer interface {
	// Update mutates W and B in place.
	Update(W *mat.Dense, B *mat.VecDense, gradW *mat.Dense, gradB *mat.VecDense)
	// Method returns the optimizer name.
	Method() string
}

// OptimizerConfig selects and parameterizes an Optimizer.
type OptimizerConfig struct {
	Method       string
	LearningRate float64
	Decay        float64 // momentum only
}

// NewOptimizer builds the Optimizer named by cfg.Method for parameters of
// shape (nFeatures, nClasses). Unknown methods yield a ConfigurationError.
func NewOptimizer(cfg OptimizerConfig, nFeatures, nClasses int) (Optimizer, error) {
	switch cfg.Method {
	case MethodGradientDescent:
		return &GradientDescent{LearningRate: cfg.LearningRate}, nil
	case MethodMomentum:
		return NewMomentum(cfg.LearningRate, cfg.Decay, nFeatures, nClasses), nil
	default:
		return nil, errors.NewUnsupportedMethodError("NewOptimizer", cfg.Method)
	}
}

// GradientDescent is the plain update
//
//	W = W - lr * gradW
//	B = B - lr * gradB
type GradientDescent struct {
	LearningRate float64
}

// Update implements Optimizer.
func (g *GradientDescent) Update(W *mat.Dense, B *mat.VecDense, gradW *mat.Dense, gradB *mat.VecDense) {
	W.Sub(W, scaled(g.LearningRate, gradW))
	B.AddScaledVec(B, -g.LearningRate, gradB)
}

// Method implements Optimizer.
func (g *GradientDescent) Method() string { return MethodGradientDescent }

// scaled returns s*m as a new matrix.
func scaled(s float64, m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Scale(s, m)
	return &out
}

// Momentum keeps a decayed running velocity per parameter:
//
//	vW = decay*vW - lr*gradW;  W = W + vW
//	vB = decay*vB - lr*gradB;  B = B + vB
//
// Velocities start at zero and persist across Update calls.
type Momentum struct {
	LearningRate float64
	Decay        float64

	velocityW *mat.Dense
	velocityB *mat.VecDense
}

// NewMomentum returns a Momentum optimizer with zeroed velocities.
func NewMomentum(learningRate, decay float64, nFeatures, nClasses int) *Momentum {
	return &Momentum{
		LearningRate: learningRate,
		Decay:        decay,
		velocityW:    mat.NewDense(nFeatures, nClasses, nil),
		velocityB:    mat.NewVecDense(nClasses, nil),
	}
}

// Update implements Optimizer.
func (m *Momentum) Update(W *mat.Dense, B *mat.VecDense, gradW *mat.Dense, gradB *mat.VecDense) {
	m.velocityW.Scale(m.Decay, m.velocityW)
	m.velocityW.Sub(m.velocityW, scaled(m.LearningRate, gradW))
	m.velocityB.ScaleVec(m.Decay, m.velocityB)
	m.velocityB.AddScaledVec(m.velocityB, -m.LearningRate, gradB)

	W.Add(W, m.velocityW)
	B.AddVec(B, m.velocityB)
}

// Method implements Optimizer.
func (m *Momentum) Method() string { return MethodMomentum }
