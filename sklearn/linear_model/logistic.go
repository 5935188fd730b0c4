// Package linear_model implements multinomial logistic regression trained by
// mini-batch gradient descent, with an optional momentum optimizer.
//
// The loss is the mean softmax cross-entropy plus an elastic-net penalty on
// the weights. Training runs a fixed number of iterations; each iteration
// draws a batch, evaluates the loss and its gradients, and applies one
// optimizer update.
//
//	clf := linear_model.NewLogisticRegression(500,
//		linear_model.WithBatchSize(0),
//		linear_model.WithLearningRate(0.1),
//		linear_model.WithMomentum(linear_model.MomentumConfig{Decay: 0.9}),
//	)
//	if err := clf.Fit(X, y); err != nil {
//		log.Fatal(err)
//	}
//	acc, err := clf.Score(XTest, yTest)
package linear_model

import (
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/logitreg/core/model"
	"github.com/ezoic/logitreg/metrics"
	"github.com/ezoic/logitreg/pkg/errors"
	"github.com/ezoic/logitreg/pkg/log"
)

const modelName = "LogisticRegression"

// Default hyperparameters.
const (
	DefaultBatchSize    = 1000
	DefaultLambda       = 0.0001
	DefaultL1Ratio      = 0.0
	DefaultRandomState  = 0
	DefaultLearningRate = 0.001
)

// LogisticRegression is a softmax (multinomial) logistic regression classifier.
type LogisticRegression struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	nIter        int     // Number of optimizer iterations
	batchSize    int     // Rows per mini-batch; <= 0 uses the full dataset
	lambda       float64 // Regularization strength
	l1Ratio      float64 // Elastic-net mixing: 0 = L2, 1 = L1
	randomState  int64   // Seed for batch sampling; negative seeds from the clock
	learningRate float64 // Step size
	method       string  // Optimizer: "gradient_descent" or "momentum"
	decay        float64 // Momentum decay
	verbose      int     // Log the loss every verbose iterations; 0 disables

	// Model parameters
	params       *parameters
	classes_     []int
	nFeatures_   int
	lossHistory_ []float64

	rng *rand.Rand
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// MomentumConfig switches the optimizer away from plain gradient descent.
// An empty Method selects "momentum".
type MomentumConfig struct {
	Method string
	Decay  float64
}

// NewLogisticRegression creates an unfitted classifier that will run nIter
// optimizer iterations. The random generator used for batch sampling is
// seeded here, once.
func NewLogisticRegression(nIter int, opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		nIter:        nIter,
		batchSize:    DefaultBatchSize,
		lambda:       DefaultLambda,
		l1Ratio:      DefaultL1Ratio,
		randomState:  DefaultRandomState,
		learningRate: DefaultLearningRate,
		method:       MethodGradientDescent,
	}

	for _, opt := range opts {
		opt(lr)
	}

	lr.seed()
	lr.logger = log.GetLoggerWithName("linear_model").With(log.ModelNameKey, modelName)

	return lr
}

func (lr *LogisticRegression) seed() {
	if lr.randomState >= 0 {
		lr.rng = rand.New(rand.NewPCG(uint64(lr.randomState), uint64(lr.randomState)))
	} else {
		now := uint64(time.Now().UnixNano())
		lr.rng = rand.New(rand.NewPCG(now, now^0xdeadbeef))
	}
}

// WithBatchSize sets the mini-batch size. Zero or negative uses the full dataset.
func WithBatchSize(batchSize int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.batchSize = batchSize
	}
}

// WithLambda sets the regularization strength
func WithLambda(lambda float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.lambda = lambda
	}
}

// WithL1Ratio sets the elastic-net mixing parameter
func WithL1Ratio(l1Ratio float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.l1Ratio = l1Ratio
	}
}

// WithRandomState sets the random seed
func WithRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// WithLearningRate sets the step size
func WithLearningRate(learningRate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.learningRate = learningRate
	}
}

// WithMomentum overrides the optimizer with cfg.Method (default "momentum").
func WithMomentum(cfg MomentumConfig) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.method = cfg.Method
		if lr.method == "" {
			lr.method = MethodMomentum
		}
		lr.decay = cfg.Decay
	}
}

// WithVerbose logs the training loss every n iterations.
func WithVerbose(n int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.verbose = n
	}
}

// validateHyperparameters checks values that would make training meaningless.
func (lr *LogisticRegression) validateHyperparameters(op string) error {
	switch {
	case lr.nIter < 1:
		return errors.NewValueError(op, fmt.Sprintf("n_iter must be >= 1, got %d", lr.nIter))
	case lr.lambda < 0:
		return errors.NewValueError(op, fmt.Sprintf("lambda must be >= 0, got %g", lr.lambda))
	case lr.l1Ratio < 0 || lr.l1Ratio > 1:
		return errors.NewValueError(op, fmt.Sprintf("l1_ratio must be in [0, 1], got %g", lr.l1Ratio))
	}
	return nil
}

// extractLabels converts the column vector y to integer labels and returns
// them with the sorted distinct classes. Labels must be integral and lie in
// [0, n_classes) where n_classes is the number of distinct values.
func extractLabels(op string, y mat.Matrix) ([]int, []int, error) {
	rows, _ := y.Dims()
	labels := make([]int, rows)
	seen := make(map[int]struct{})

	for i := range rows {
		v := y.At(i, 0)
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, nil, errors.NewValueError(op, fmt.Sprintf("label %v at index %d is not an integer", v, i))
		}
		labels[i] = int(v)
		seen[labels[i]] = struct{}{}
	}

	classes := slices.Sorted(maps.Keys(seen))
	if len(classes) < 2 {
		return nil, nil, errors.NewValueError(op, fmt.Sprintf("at least 2 classes are required, got %d", len(classes)))
	}
	if classes[0] < 0 || classes[len(classes)-1] >= len(classes) {
		return nil, nil, errors.NewValueError(op,
			fmt.Sprintf("labels must lie in [0, %d), got range [%d, %d]", len(classes), classes[0], classes[len(classes)-1]))
	}
	return labels, classes, nil
}

// Fit trains the classifier on X (n_samples, n_features) and the column
// vector of labels y.
//
// Fit runs exactly nIter iterations of: sample a batch, evaluate the loss and
// gradients, apply the optimizer update, record the loss. Any failure aborts
// training and leaves the model unfitted. Calling Fit again retrains from
// zero weights.
//
// Errors:
//   - ErrEmptyData: if X is empty
//   - DimensionError: if X and y have different numbers of rows
//   - ValueError: if y is not a column vector of labels in [0, n_classes)
//   - ConfigurationError: if the optimizer method is not supported
//   - NumericalError: if the loss stops being finite
func (lr *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	const op = "LogisticRegression.Fit"
	defer errors.Recover(&err, op)

	startTime := time.Now()
	lr.state.Reset()
	lr.params = nil
	lr.lossHistory_ = nil

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if err := lr.validateHyperparameters(op); err != nil {
		return err
	}

	labels, classes, err := extractLabels(op, y)
	if err != nil {
		return err
	}
	nClasses := len(classes)

	optimizer, err := NewOptimizer(OptimizerConfig{
		Method:       lr.method,
		LearningRate: lr.learningRate,
		Decay:        lr.decay,
	}, cols, nClasses)
	if err != nil {
		lr.logger.Error("Optimizer setup failed", err, log.MethodKey, lr.method)
		return err
	}

	sampler := newBatchSampler(mat.DenseCopyOf(X), labels, lr.batchSize, lr.rng)
	if lr.batchSize > rows {
		lr.logger.Warn("Batch size exceeds sample count, using full dataset",
			log.BatchSizeKey, lr.batchSize,
			log.SamplesKey, rows,
		)
	}

	lr.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, nClasses,
		log.BatchSizeKey, sampler.size(),
		log.MethodKey, optimizer.Method(),
	)

	lr.params = initializeParameters(cols, nClasses)
	penalty := ElasticNet{Lambda: lr.lambda, L1Ratio: lr.l1Ratio}
	losses := make([]float64, 0, lr.nIter)

	iteration := 0
	for xb, yb := range sampler.Batches(lr.nIter) {
		loss, gradW, gradB := evaluateLoss(xb, yb, lr.params, penalty)
		if err := errors.CheckScalar("loss", loss, iteration); err != nil {
			lr.logger.Error("Training aborted", err, log.IterationKey, iteration)
			return err
		}

		optimizer.Update(lr.params.W, lr.params.B, gradW, gradB)
		losses = append(losses, loss)

		if lr.verbose > 0 && iteration%lr.verbose == 0 {
			lr.logger.Info("Iteration", log.IterationKey, iteration, log.LossKey, loss)
		}
		iteration++
	}

	lr.lossHistory_ = slices.Clip(losses)
	lr.classes_ = classes
	lr.nFeatures_ = cols
	lr.state.SetDimensions(cols, rows)
	lr.state.SetFitted()

	lr.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.NIterKey, len(losses),
		log.LossKey, losses[len(losses)-1],
	)

	return nil
}

func (lr *LogisticRegression) checkPredictInput(method string, X mat.Matrix) error {
	if !lr.state.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	if _, c := X.Dims(); c != lr.nFeatures_ {
		return errors.NewDimensionError(modelName+"."+method, lr.nFeatures_, c, 1)
	}
	return nil
}

// PredictProba returns an (n_samples, n_classes) matrix of class probabilities.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "LogisticRegression.PredictProba")
	if err := lr.checkPredictInput("PredictProba", X); err != nil {
		return nil, err
	}
	return probabilities(X, lr.params), nil
}

// Predict returns an (n_samples, 1) matrix holding the most probable class
// for each row. Ties go to the lowest class index.
func (lr *LogisticRegression) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "LogisticRegression.Predict")
	if err := lr.checkPredictInput("Predict", X); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	lr.logger.Debug("Prediction started",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	proba := probabilities(X, lr.params)
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, float64(lr.classes_[floats.MaxIdx(proba.RawRowView(i))]))
	}

	lr.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, r,
	)
	return predictions, nil
}

// Score returns the mean accuracy of Predict(X) against the labels in y.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (_ float64, err error) {
	defer errors.Recover(&err, "LogisticRegression.Score")
	if !lr.state.IsFitted() {
		return 0, errors.NewNotFittedError(modelName, "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := X.Dims()
	if yRows, yCols := y.Dims(); yRows != r || yCols != 1 {
		return 0, errors.NewDimensionError("LogisticRegression.Score", r, yRows, 0)
	}

	return metrics.Accuracy(
		mat.NewVecDense(r, mat.Col(nil, 0, y)),
		mat.NewVecDense(r, mat.Col(nil, 0, yPred)),
	)
}

// LossHistory returns the loss recorded at each training iteration.
func (lr *LogisticRegression) LossHistory() []float64 {
	return slices.Clone(lr.lossHistory_)
}

// NIter returns the number of iterations run by the last successful Fit.
func (lr *LogisticRegression) NIter() int {
	return len(lr.lossHistory_)
}

// Coef returns a copy of the (n_features, n_classes) weight matrix, or nil
// before Fit.
func (lr *LogisticRegression) Coef() *mat.Dense {
	if lr.params == nil {
		return nil
	}
	return mat.DenseCopyOf(lr.params.W)
}

// Intercept returns a copy of the per-class bias, or nil before Fit.
func (lr *LogisticRegression) Intercept() []float64 {
	if lr.params == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.params.B)
}

// Classes returns the class labels seen during Fit.
func (lr *LogisticRegression) Classes() []int {
	return slices.Clone(lr.classes_)
}

// IsFitted returns whether the model has been fitted.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_iter":        lr.nIter,
		"batch_size":    lr.batchSize,
		"lambda":        lr.lambda,
		"l1_ratio":      lr.l1Ratio,
		"random_state":  lr.randomState,
		"learning_rate": lr.learningRate,
		"method":        lr.method,
		"decay":         lr.decay,
		"verbose":       lr.verbose,
	}
}

// SetParams sets the model hyperparameters. Changing random_state reseeds the
// batch sampler.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	const op = "LogisticRegression.SetParams"
	for key, value := range params {
		var ok bool
		switch key {
		case "n_iter":
			ok = setParam(&lr.nIter, value)
		case "batch_size":
			ok = setParam(&lr.batchSize, value)
		case "lambda":
			ok = setParam(&lr.lambda, value)
		case "l1_ratio":
			ok = setParam(&lr.l1Ratio, value)
		case "random_state":
			if ok = setSeed(&lr.randomState, value); ok {
				lr.seed()
			}
		case "learning_rate":
			ok = setParam(&lr.learningRate, value)
		case "method":
			ok = setParam(&lr.method, value)
		case "decay":
			ok = setParam(&lr.decay, value)
		case "verbose":
			ok = setParam(&lr.verbose, value)
		default:
			return errors.NewValueError(op, fmt.Sprintf("unknown parameter: %s", key))
		}
		if !ok {
			return errors.NewValueError(op, fmt.Sprintf("parameter %s has unexpected type %T", key, value))
		}
	}
	return nil
}

// setParam stores value in dst when it has dst's type.
func setParam[T any](dst *T, value interface{}) bool {
	v, ok := value.(T)
	if ok {
		*dst = v
	}
	return ok
}

// setSeed accepts either int64 or a plain int literal.
func setSeed(dst *int64, value interface{}) bool {
	switch v := value.(type) {
	case int64:
		*dst = v
	case int:
		*dst = int64(v)
	default:
		return false
	}
	return true
}

var _ model.Classifier = (*LogisticRegression)(nil)
