// Package preprocessing provides feature scaling for the design matrix.
//
// Gradient-based training converges faster when features share a common
// scale. StandardScaler follows the Fit / Transform / FitTransform pattern:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XTrain, err := scaler.FitTransform(XTrain)
//	if err != nil {
//		log.Fatal(err)
//	}
//	XTest, err = scaler.Transform(XTest)
package preprocessing

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/logitreg/core/model"
	lrErrors "github.com/ezoic/logitreg/pkg/errors"
)

// minScale replaces standard deviations of (nearly) constant features.
const minScale = 1e-8

// StandardScaler standardizes features to zero mean and unit variance
type StandardScaler struct {
	state *model.StateManager

	// Mean is the per-feature mean
	Mean []float64

	// Scale is the per-feature population standard deviation
	Scale []float64

	// NFeatures is the number of features seen in Fit
	NFeatures int

	// WithMean centers the data (default: true)
	WithMean bool

	// WithStd scales the data to unit variance (default: true)
	WithStd bool
}

// NewStandardScaler creates a new StandardScaler.
//
// Parameters:
//   - withMean: whether to subtract the mean
//   - withStd: whether to divide by the standard deviation
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler that centers and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes the per-feature mean and standard deviation of X.
//
// Errors:
//   - ErrEmptyData: if X is empty
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer lrErrors.Recover(&err, "StandardScaler.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return lrErrors.NewModelError("StandardScaler.Fit", "empty data", lrErrors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)

		s.Mean[j] = 0
		if s.WithMean {
			s.Mean[j] = mean
		}

		s.Scale[j] = 1
		if s.WithStd && std >= minScale {
			s.Scale[j] = std
		}
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform applies (X - Mean) / Scale using the fitted statistics.
//
// Errors:
//   - NotFittedError: if the scaler hasn't been fitted yet
//   - DimensionError: if X doesn't match the number of features from Fit
func (s *StandardScaler) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer lrErrors.Recover(&err, "StandardScaler.Transform")
	if !s.state.IsFitted() {
		return nil, lrErrors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, lrErrors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return out, nil
}

// FitTransform fits to X, then transforms it.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer lrErrors.Recover(&err, "StandardScaler.InverseTransform")
	if !s.state.IsFitted() {
		return nil, lrErrors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, lrErrors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return out, nil
}

// IsFitted returns whether the scaler has been fitted.
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

var _ model.Transformer = (*StandardScaler)(nil)
