// Package datasets generates synthetic classification data.
package datasets

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/ezoic/logitreg/pkg/errors"
)

// MakeBlobs draws nSamples points from isotropic Gaussian clusters, one per
// entry of centers, each with standard deviation clusterStd. Sample i belongs
// to class i % len(centers).
//
// Returns X of shape (nSamples, n_features) and y of length nSamples holding
// the class index of each row. The same randomState always yields the same data.
//
// Example:
//
//	X, y, err := datasets.MakeBlobs(300, [][]float64{{0, 0}, {5, 5}, {0, 5}}, 0.8, 42)
func MakeBlobs(nSamples int, centers [][]float64, clusterStd float64, randomState uint64) (*mat.Dense, *mat.VecDense, error) {
	const op = "MakeBlobs"
	if nSamples <= 0 {
		return nil, nil, errors.NewValueError(op, "nSamples must be positive")
	}
	if len(centers) == 0 {
		return nil, nil, errors.NewValueError(op, "at least one center is required")
	}
	if clusterStd <= 0 {
		return nil, nil, errors.NewValueError(op, "clusterStd must be positive")
	}

	nFeatures := len(centers[0])
	if nFeatures == 0 {
		return nil, nil, errors.NewValueError(op, "centers must have at least one feature")
	}

	cov := mat.NewSymDense(nFeatures, nil)
	for j := 0; j < nFeatures; j++ {
		cov.SetSym(j, j, clusterStd*clusterStd)
	}

	src := rand.NewPCG(randomState, randomState)
	dists := make([]*distmv.Normal, len(centers))
	for c, center := range centers {
		if len(center) != nFeatures {
			return nil, nil, errors.NewDimensionError(op, nFeatures, len(center), 1)
		}
		normal, ok := distmv.NewNormal(center, cov, src)
		if !ok {
			return nil, nil, errors.NewValueError(op, fmt.Sprintf("covariance for center %d is not positive definite", c))
		}
		dists[c] = normal
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		c := i % len(centers)
		dists[c].Rand(X.RawRowView(i))
		y.SetVec(i, float64(c))
	}
	return X, y, nil
}
