package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/logitreg/datasets"
	"github.com/ezoic/logitreg/pkg/errors"
	"github.com/ezoic/logitreg/preprocessing"
	"github.com/ezoic/logitreg/sklearn/linear_model"
)

func newScaledPipeline() *Pipeline {
	clf := linear_model.NewLogisticRegression(300,
		linear_model.WithBatchSize(0),
		linear_model.WithLearningRate(0.1),
	)
	return New("clf", clf, Step{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()})
}

func TestPipelineFitScore(t *testing.T) {
	X, y, err := datasets.MakeBlobs(150, [][]float64{{10, 100}, {14, 130}, {18, 100}}, 1.0, 1)
	require.NoError(t, err)

	p := newScaledPipeline()
	require.NoError(t, p.Fit(X, y))
	assert.True(t, p.IsFitted())

	score, err := p.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)

	proba, err := p.PredictProba(X)
	require.NoError(t, err)
	r, c := proba.Dims()
	assert.Equal(t, 150, r)
	assert.Equal(t, 3, c)

	pred, err := p.Predict(X)
	require.NoError(t, err)
	direct, err := p.Classifier().Predict(mustTransform(t, p, X))
	require.NoError(t, err)
	assert.True(t, mat.Equal(pred, direct))
}

func mustTransform(t *testing.T, p *Pipeline, X mat.Matrix) mat.Matrix {
	t.Helper()
	Xt, err := p.Steps()[0].Transformer.Transform(X)
	require.NoError(t, err)
	return Xt
}

func TestPipelineNotFitted(t *testing.T) {
	p := newScaledPipeline()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := p.Predict(X)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
	_, err = p.Score(X, mat.NewDense(2, 1, []float64{0, 1}))
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}

func TestPipelineFitErrorNamesStep(t *testing.T) {
	p := newScaledPipeline()
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	err := p.Fit(X, mat.NewDense(3, 1, []float64{0, 0, 0}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "final step 'clf'")
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
	assert.False(t, p.IsFitted())
}

func TestPipelineParams(t *testing.T) {
	p := newScaledPipeline()

	params := p.GetParams()
	assert.Equal(t, 300, params["clf__n_iter"])
	assert.Equal(t, false, params["verbose"])

	require.NoError(t, p.SetParams(map[string]interface{}{
		"clf__learning_rate": 0.5,
		"verbose":            true,
	}))
	assert.Equal(t, 0.5, p.GetParams()["clf__learning_rate"])
	assert.Equal(t, true, p.GetParams()["verbose"])

	require.NoError(t, p.SetParams(map[string]interface{}{"clf__random_state": 5}))
	assert.Equal(t, int64(5), p.GetParams()["clf__random_state"])

	assert.Error(t, p.SetParams(map[string]interface{}{"missing__n_iter": 3}))
	assert.Error(t, p.SetParams(map[string]interface{}{"scaler__with_mean": false}))
	assert.Error(t, p.SetParams(map[string]interface{}{"n_iter": 3}))
}
