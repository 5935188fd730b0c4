// Package metrics provides classification metrics for evaluating fitted models.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	lrErrors "github.com/ezoic/logitreg/pkg/errors"
)

// probabilityFloor keeps log(0) out of CrossEntropy.
const probabilityFloor = 1e-15

func checkLabelVectors(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, lrErrors.NewValueError(op, "input vectors cannot be nil")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, lrErrors.NewValueError(op, "input vectors cannot be empty")
	}

	if n != yPred.Len() {
		return 0, lrErrors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// ClassificationError calculates the fraction of misclassified samples.
//
// Parameters:
//   - yTrue: Ground truth labels (integers)
//   - yPred: Predicted labels (integers)
//
// Returns:
//   - The error rate (between 0 and 1)
//   - An error if inputs are invalid
//
// Example:
//
//	yTrue := mat.NewVecDense(5, []float64{0, 1, 2, 1, 0})
//	yPred := mat.NewVecDense(5, []float64{0, 1, 1, 1, 0})
//	errorRate, err := ClassificationError(yTrue, yPred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Error Rate: %f\n", errorRate) // Output: Error Rate: 0.2
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabelVectors("ClassificationError", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	misses := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != yPred.AtVec(i) {
			misses++
		}
	}

	return float64(misses) / float64(n), nil
}

// Accuracy calculates the classification accuracy.
//
// Accuracy is the fraction of correct predictions.
//
// Parameters:
//   - yTrue: Ground truth labels
//   - yPred: Predicted labels
//
// Returns:
//   - The accuracy (between 0 and 1)
//   - An error if inputs are invalid
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	errorRate, err := ClassificationError(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1.0 - errorRate, nil
}

// CrossEntropy computes the mean multi-class negative log-likelihood
// -1/n * Σ log(proba[i, yTrue[i]]).
//
// proba must have one row per sample and one column per class; labels in yTrue
// index those columns. Probabilities are floored at 1e-15.
func CrossEntropy(yTrue *mat.VecDense, proba mat.Matrix) (float64, error) {
	if yTrue == nil || proba == nil {
		return 0, lrErrors.NewValueError("CrossEntropy", "inputs cannot be nil")
	}
	n := yTrue.Len()
	rows, classes := proba.Dims()
	if n == 0 {
		return 0, lrErrors.NewValueError("CrossEntropy", "input vectors cannot be empty")
	}
	if rows != n {
		return 0, lrErrors.NewDimensionError("CrossEntropy", n, rows, 0)
	}

	total := 0.0
	for i := 0; i < n; i++ {
		label := int(yTrue.AtVec(i))
		if label < 0 || label >= classes {
			return 0, lrErrors.NewValueError("CrossEntropy",
				fmt.Sprintf("label %d at index %d outside [0, %d)", label, i, classes))
		}
		total -= math.Log(math.Max(proba.At(i, label), probabilityFloor))
	}
	return total / float64(n), nil
}

// ConfusionMatrix returns an (nClasses, nClasses) matrix whose entry (i, j)
// counts samples with true label i predicted as j.
func ConfusionMatrix(yTrue, yPred *mat.VecDense, nClasses int) (*mat.Dense, error) {
	n, err := checkLabelVectors("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}
	if nClasses < 1 {
		return nil, lrErrors.NewValueError("ConfusionMatrix", "nClasses must be positive")
	}

	cm := mat.NewDense(nClasses, nClasses, nil)
	for i := 0; i < n; i++ {
		t, p := int(yTrue.AtVec(i)), int(yPred.AtVec(i))
		if t < 0 || t >= nClasses || p < 0 || p >= nClasses {
			return nil, lrErrors.NewValueError("ConfusionMatrix",
				fmt.Sprintf("label pair (%d, %d) at index %d outside [0, %d)", t, p, i, nClasses))
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}
