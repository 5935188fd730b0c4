// Package errors defines the error types returned by logitreg estimators.
//
// Every typed error implements Unwrap so callers can match on either the
// concrete type (errors.As) or the package sentinels (errors.Is):
//
//	_, err := clf.Predict(X)
//	var nf *errors.NotFittedError
//	if errors.As(err, &nf) {
//		// call Fit first
//	}
//
// Construction helpers and stack traces come from github.com/cockroachdb/errors.
package errors

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

const prefix = "logitreg"

// Sentinel errors.
var (
	ErrNotFitted         = errors.New("not fitted")
	ErrEmptyData         = errors.New("empty data")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrNumerical         = errors.New("numerical instability")
)

// Re-exported constructors and inspectors, so callers only need one errors import.
var (
	New   = errors.New
	Newf  = errors.Newf
	Wrap  = errors.Wrap
	Wrapf = errors.Wrapf
	Is    = errors.Is
	As    = errors.As
)

// NotFittedError is returned when an estimator is used before Fit completed.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for the given model and method.
func NewNotFittedError(modelName, method string) error {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s: model is not fitted, call Fit before %s", prefix, e.ModelName, e.Method)
}

func (e *NotFittedError) Unwrap() error { return ErrNotFitted }

// DimensionError reports a shape mismatch along Axis (0 = rows, 1 = columns).
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: %s: dimension mismatch on %s: expected %d, got %d", prefix, e.Op, axis, e.Expected, e.Got)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// ValueError reports an argument with a valid type but an invalid value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// ModelError wraps an underlying cause with the operation and a short description.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

// NewModelError creates a ModelError wrapping err.
func NewModelError(op, kind string, err error) error {
	return &ModelError{Op: op, Kind: kind, Err: err}
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ConfigurationError reports a hyperparameter that cannot be honoured.
type ConfigurationError struct {
	Op    string
	Param string
	Value interface{}
	Err   error
}

// NewConfigurationError creates a ConfigurationError for param=value wrapping err.
func NewConfigurationError(op, param string, value interface{}, err error) error {
	return &ConfigurationError{Op: op, Param: param, Value: value, Err: err}
}

// NewUnsupportedMethodError is a ConfigurationError for an unknown optimizer method.
func NewUnsupportedMethodError(op, method string) error {
	return NewConfigurationError(op, "method", method, ErrUnsupportedMethod)
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: invalid %s %v: %v", prefix, e.Op, e.Param, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NumericalError reports a non-finite value produced during training.
type NumericalError struct {
	Name      string
	Value     float64
	Iteration int
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("%s: %s became %v at iteration %d", prefix, e.Name, e.Value, e.Iteration)
}

func (e *NumericalError) Unwrap() error { return ErrNumerical }

// CheckScalar returns a NumericalError when v is NaN or infinite.
func CheckScalar(name string, v float64, iteration int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &NumericalError{Name: name, Value: v, Iteration: iteration}
	}
	return nil
}

// Recover converts a panic raised below op into an error stored in *errp.
// It must be deferred directly:
//
//	func (m *Model) Fit(X, y mat.Matrix) (err error) {
//		defer errors.Recover(&err, "Model.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok {
		*errp = errors.Wrapf(err, "%s: recovered panic", op)
		return
	}
	*errp = errors.Newf("%s: recovered panic: %v", op, r)
}
