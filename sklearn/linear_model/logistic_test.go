package linear_model

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/logitreg/datasets"
	"github.com/ezoic/logitreg/pkg/errors"
	"github.com/ezoic/logitreg/pkg/log"
)

func separableFixture() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		0.5, 0.5,
		4, 4,
		5, 5,
	})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	return X, y
}

func TestLogisticRegressionSeparableData(t *testing.T) {
	X, y := separableFixture()
	clf := NewLogisticRegression(500,
		WithBatchSize(0),
		WithLearningRate(0.1),
		WithLambda(0),
		WithL1Ratio(0),
	)

	require.NoError(t, clf.Fit(X, y))
	assert.True(t, clf.IsFitted())
	assert.Len(t, clf.LossHistory(), 500)
	assert.Equal(t, 500, clf.NIter())
	assert.Equal(t, []int{0, 1}, clf.Classes())

	score, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	pred, err := clf.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(y, pred))

	history := clf.LossHistory()
	assert.InDelta(t, math.Ln2, history[0], 1e-12)
	assert.Less(t, history[len(history)-1], history[0])
}

func TestLogisticRegressionPredictProba(t *testing.T) {
	X, y := separableFixture()
	clf := NewLogisticRegression(500, WithBatchSize(0), WithLearningRate(0.1))
	require.NoError(t, clf.Fit(X, y))

	proba, err := clf.PredictProba(X)
	require.NoError(t, err)
	r, c := proba.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-12)
	}
	assert.Greater(t, proba.At(0, 0), 0.5)
	assert.Greater(t, proba.At(3, 1), 0.5)
}

func TestLogisticRegressionNotFitted(t *testing.T) {
	X, y := separableFixture()
	clf := NewLogisticRegression(10)

	_, err := clf.Predict(X)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	_, err = clf.PredictProba(X)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	_, err = clf.Score(X, y)
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Score", nf.Method)

	assert.Nil(t, clf.Coef())
	assert.Nil(t, clf.Intercept())
	assert.Empty(t, clf.LossHistory())
}

func TestLogisticRegressionUnsupportedMethod(t *testing.T) {
	X, y := separableFixture()
	clf := NewLogisticRegression(10, WithMomentum(MomentumConfig{Method: "nesterov", Decay: 0.9}))

	err := clf.Fit(X, y)
	require.Error(t, err)

	var cfgErr *errors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "method", cfgErr.Param)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedMethod))

	assert.False(t, clf.IsFitted())
	assert.Nil(t, clf.Coef())
	assert.Empty(t, clf.LossHistory())
}

func TestLogisticRegressionFullBatchIsDeterministic(t *testing.T) {
	X, y := separableFixture()

	fit := func(seed int64) []float64 {
		clf := NewLogisticRegression(25, WithBatchSize(0), WithLearningRate(0.05), WithRandomState(seed))
		require.NoError(t, clf.Fit(X, y))
		return clf.LossHistory()
	}

	first := fit(1)
	assert.Equal(t, first, fit(2))
	assert.Equal(t, first, fit(-1))

	// The first recorded loss is evaluated at zero parameters.
	loss, _, _ := evaluateLoss(X, []int{0, 0, 1, 1}, initializeParameters(2, 2), ElasticNet{Lambda: DefaultLambda})
	assert.Equal(t, loss, first[0])
}

func TestLogisticRegressionBatchLargerThanDataset(t *testing.T) {
	X, y := separableFixture()

	full := NewLogisticRegression(20, WithBatchSize(0), WithLearningRate(0.1))
	require.NoError(t, full.Fit(X, y))

	oversized := NewLogisticRegression(20, WithBatchSize(100), WithLearningRate(0.1))
	require.NoError(t, oversized.Fit(X, y))

	assert.Equal(t, full.LossHistory(), oversized.LossHistory())
}

func TestLogisticRegressionMomentumFirstStep(t *testing.T) {
	X, y := separableFixture()
	const lr = 0.5

	clf := NewLogisticRegression(1,
		WithBatchSize(0),
		WithLearningRate(lr),
		WithLambda(0),
		WithMomentum(MomentumConfig{Decay: 0.9}),
	)
	require.NoError(t, clf.Fit(X, y))

	_, gradW, gradB := evaluateLoss(X, []int{0, 0, 1, 1}, initializeParameters(2, 2), ElasticNet{})
	var want mat.Dense
	want.Scale(-lr, gradW)

	assert.True(t, mat.EqualApprox(&want, clf.Coef(), 1e-12))
	assert.InDeltaSlice(t, []float64{-lr * gradB.AtVec(0), -lr * gradB.AtVec(1)}, clf.Intercept(), 1e-12)
}

func TestLogisticRegressionMiniBatchBlobs(t *testing.T) {
	X, y, err := datasets.MakeBlobs(300, [][]float64{{0, 0}, {6, 6}, {-6, 6}}, 1.0, 7)
	require.NoError(t, err)

	for _, method := range []string{MethodGradientDescent, MethodMomentum} {
		t.Run(method, func(t *testing.T) {
			opts := []LogisticRegressionOption{
				WithBatchSize(32),
				WithLearningRate(0.05),
				WithRandomState(3),
			}
			if method == MethodMomentum {
				opts = append(opts, WithMomentum(MomentumConfig{Decay: 0.9}))
			}
			clf := NewLogisticRegression(400, opts...)
			require.NoError(t, clf.Fit(X, y))

			history := clf.LossHistory()
			require.Len(t, history, 400)
			assert.InDelta(t, math.Log(3), history[0], 1e-12)
			assert.Less(t, history[len(history)-1], history[0])

			score, err := clf.Score(X, y)
			require.NoError(t, err)
			assert.Greater(t, score, 0.9)
		})
	}
}

func TestLogisticRegressionMiniBatchReproducible(t *testing.T) {
	X, y, err := datasets.MakeBlobs(120, [][]float64{{0, 0}, {3, 3}}, 1.5, 11)
	require.NoError(t, err)

	fit := func() *LogisticRegression {
		clf := NewLogisticRegression(50, WithBatchSize(10), WithLearningRate(0.1), WithRandomState(5))
		require.NoError(t, clf.Fit(X, y))
		return clf
	}
	a, b := fit(), fit()
	assert.Equal(t, a.LossHistory(), b.LossHistory())
	assert.True(t, mat.Equal(a.Coef(), b.Coef()))
}

func TestLogisticRegressionRefitResets(t *testing.T) {
	X, y := separableFixture()
	clf := NewLogisticRegression(30, WithBatchSize(0), WithLearningRate(0.1))

	require.NoError(t, clf.Fit(X, y))
	first := clf.LossHistory()
	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, first, clf.LossHistory())

	// A failed Fit leaves the model unfitted.
	err := clf.Fit(X, mat.NewDense(4, 1, []float64{0, 0, 0, 0}))
	require.Error(t, err)
	assert.False(t, clf.IsFitted())
	_, err = clf.Predict(X)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}

func TestLogisticRegressionInvalidInput(t *testing.T) {
	X, y := separableFixture()

	t.Run("empty", func(t *testing.T) {
		err := NewLogisticRegression(10).Fit(&mat.Dense{}, &mat.Dense{})
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("row mismatch", func(t *testing.T) {
		err := NewLogisticRegression(10).Fit(X, mat.NewDense(3, 1, []float64{0, 1, 0}))
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 4, dimErr.Expected)
		assert.Equal(t, 3, dimErr.Got)
	})

	t.Run("y not a column", func(t *testing.T) {
		err := NewLogisticRegression(10).Fit(X, mat.NewDense(4, 2, nil))
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("n_iter", func(t *testing.T) {
		err := NewLogisticRegression(0).Fit(X, y)
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("l1_ratio", func(t *testing.T) {
		err := NewLogisticRegression(10, WithL1Ratio(1.5)).Fit(X, y)
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	labels := map[string][]float64{
		"fractional":   {0, 0.5, 1, 1},
		"single class": {1, 1, 1, 1},
		"gap":          {0, 0, 2, 2},
		"negative":     {-1, 0, 1, 1},
	}
	for name, values := range labels {
		t.Run(name, func(t *testing.T) {
			err := NewLogisticRegression(10).Fit(X, mat.NewDense(4, 1, values))
			var valErr *errors.ValueError
			assert.True(t, errors.As(err, &valErr), "got %v", err)
		})
	}

	t.Run("predict feature mismatch", func(t *testing.T) {
		clf := NewLogisticRegression(10, WithBatchSize(0))
		require.NoError(t, clf.Fit(X, y))
		_, err := clf.Predict(mat.NewDense(2, 3, nil))
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 1, dimErr.Axis)
	})
}

func TestLogisticRegressionNonFiniteLoss(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		math.NaN(), 0.5,
		4, 4,
		5, 5,
	})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	clf := NewLogisticRegression(10, WithBatchSize(0))
	err := clf.Fit(X, y)

	var numErr *errors.NumericalError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, 0, numErr.Iteration)
	assert.False(t, clf.IsFitted())
}

func TestLogisticRegressionArgmaxTieBreak(t *testing.T) {
	clf := NewLogisticRegression(1)
	clf.params = initializeParameters(2, 3)
	clf.classes_ = []int{0, 1, 2}
	clf.nFeatures_ = 2
	clf.state.SetFitted()

	pred, err := clf.Predict(mat.NewDense(3, 2, []float64{1, 2, -3, 4, 0, 0}))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, pred.At(i, 0))
	}
}

func TestLogisticRegressionVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf, "info")
	t.Cleanup(func() { log.SetupLogger("info") })

	X, y := separableFixture()
	clf := NewLogisticRegression(3, WithBatchSize(0), WithVerbose(1))
	require.NoError(t, clf.Fit(X, y))

	out := buf.String()
	assert.Contains(t, out, `"message":"Training started"`)
	assert.Contains(t, out, `"message":"Training completed"`)
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte(`"message":"Iteration"`)))
	assert.Contains(t, out, `"model_name":"LogisticRegression"`)

	// The completion record carries the iteration count, not an index.
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.Contains(line, `"message":"Training completed"`) {
			assert.Contains(t, line, `"n_iter":3`)
			assert.NotContains(t, line, `"iteration"`)
		}
	}
}

func TestLogisticRegressionParams(t *testing.T) {
	clf := NewLogisticRegression(100, WithLambda(0.01), WithMomentum(MomentumConfig{Decay: 0.8}))

	params := clf.GetParams()
	assert.Equal(t, 100, params["n_iter"])
	assert.Equal(t, DefaultBatchSize, params["batch_size"])
	assert.Equal(t, 0.01, params["lambda"])
	assert.Equal(t, MethodMomentum, params["method"])
	assert.Equal(t, 0.8, params["decay"])

	require.NoError(t, clf.SetParams(map[string]interface{}{
		"learning_rate": 0.5,
		"random_state":  int64(9),
	}))
	assert.Equal(t, 0.5, clf.GetParams()["learning_rate"])
	assert.Equal(t, int64(9), clf.GetParams()["random_state"])

	assert.Error(t, clf.SetParams(map[string]interface{}{"n_iter": "ten"}))
	assert.Error(t, clf.SetParams(map[string]interface{}{"penalty": "l2"}))
	assert.Equal(t, 100, clf.GetParams()["n_iter"])
}

func TestLogisticRegressionSetParamsIntSeed(t *testing.T) {
	X, y, err := datasets.MakeBlobs(60, [][]float64{{0, 0}, {3, 3}}, 1.0, 4)
	require.NoError(t, err)

	viaOption := NewLogisticRegression(20, WithBatchSize(8), WithRandomState(5))
	require.NoError(t, viaOption.Fit(X, y))

	viaParams := NewLogisticRegression(20, WithBatchSize(8), WithRandomState(99))
	require.NoError(t, viaParams.SetParams(map[string]interface{}{"random_state": 5}))
	assert.Equal(t, int64(5), viaParams.GetParams()["random_state"])
	require.NoError(t, viaParams.Fit(X, y))

	assert.Equal(t, viaOption.LossHistory(), viaParams.LossHistory())
	assert.Error(t, viaParams.SetParams(map[string]interface{}{"random_state": 5.0}))
}
