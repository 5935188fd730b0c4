package model

import "gonum.org/v1/gonum/mat"

// Fitter is an interface for trainable models
type Fitter interface {
	// Fit trains the model with training data
	Fit(X, y mat.Matrix) error
}

// Predictor is an interface for predictive models
type Predictor interface {
	// Predict performs predictions on input data
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is an interface for models that can both learn and predict
type Estimator interface {
	Fitter
	Predictor
}

// Classifier is an Estimator that also exposes class probabilities and accuracy.
type Classifier interface {
	Estimator
	// PredictProba returns an (n_samples, n_classes) probability matrix
	PredictProba(X mat.Matrix) (mat.Matrix, error)
	// Score returns the mean accuracy on X against y
	Score(X, y mat.Matrix) (float64, error)
}

// Transformer is an interface for fitted feature transformations
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
