// Package pipeline chains fitted feature transformations in front of a
// classifier, in the manner of sklearn.pipeline.Pipeline.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/logitreg/core/model"
	"github.com/ezoic/logitreg/pkg/errors"
	"github.com/ezoic/logitreg/pkg/log"
)

// Step is a named transformer applied before the classifier.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline fits each transformer on the output of the previous one, then
// fits the classifier on the fully transformed data. Prediction replays the
// fitted transformations.
type Pipeline struct {
	state  *model.StateManager
	logger log.Logger

	steps          []Step
	classifierName string
	classifier     model.Classifier
	verbose        bool
}

// New creates a Pipeline ending in clf. The classifier is addressed by name
// in GetParams/SetParams.
func New(name string, clf model.Classifier, steps ...Step) *Pipeline {
	return &Pipeline{
		state:          model.NewStateManager(),
		logger:         log.GetLoggerWithName("Pipeline"),
		steps:          steps,
		classifierName: name,
		classifier:     clf,
	}
}

// WithVerbose logs the time spent fitting each step.
func (p *Pipeline) WithVerbose(verbose bool) *Pipeline {
	p.verbose = verbose
	return p
}

// Fit trains the pipeline.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	p.state.Reset()

	Xt := X
	var err error
	for _, step := range p.steps {
		start := time.Now()
		Xt, err = step.Transformer.FitTransform(Xt)
		if err != nil {
			return errors.Wrapf(err, "failed to fit step '%s'", step.Name)
		}
		p.logStep(step.Name, start)
	}

	start := time.Now()
	if err := p.classifier.Fit(Xt, y); err != nil {
		return errors.Wrapf(err, "failed to fit final step '%s'", p.classifierName)
	}
	p.logStep(p.classifierName, start)

	rows, cols := X.Dims()
	p.state.SetDimensions(cols, rows)
	p.state.SetFitted()
	return nil
}

func (p *Pipeline) logStep(name string, start time.Time) {
	if p.verbose {
		p.logger.Info("Step fitted",
			"step", name,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
}

// transform applies every fitted transformer to X.
func (p *Pipeline) transform(method string, X mat.Matrix) (mat.Matrix, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", method)
	}

	Xt := X
	var err error
	for _, step := range p.steps {
		Xt, err = step.Transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to transform at step '%s'", step.Name)
		}
	}
	return Xt, nil
}

// Predict applies the transformations and predicts with the classifier.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	Xt, err := p.transform("Predict", X)
	if err != nil {
		return nil, err
	}
	return p.classifier.Predict(Xt)
}

// PredictProba applies the transformations and returns class probabilities.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	Xt, err := p.transform("PredictProba", X)
	if err != nil {
		return nil, err
	}
	return p.classifier.PredictProba(Xt)
}

// Score returns the classifier accuracy on the transformed X.
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	Xt, err := p.transform("Score", X)
	if err != nil {
		return 0, err
	}
	return p.classifier.Score(Xt, y)
}

// IsFitted returns whether Fit has completed.
func (p *Pipeline) IsFitted() bool {
	return p.state.IsFitted()
}

// Steps returns the transformer steps.
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// Classifier returns the final estimator.
func (p *Pipeline) Classifier() model.Classifier {
	return p.classifier
}

type paramsGetter interface {
	GetParams() map[string]interface{}
}

type paramsSetter interface {
	SetParams(map[string]interface{}) error
}

// GetParams returns each step's parameters keyed as "<step>__<param>".
func (p *Pipeline) GetParams() map[string]interface{} {
	params := map[string]interface{}{"verbose": p.verbose}
	collect := func(name string, est interface{}) {
		if g, ok := est.(paramsGetter); ok {
			for key, value := range g.GetParams() {
				params[name+"__"+key] = value
			}
		}
	}
	for _, step := range p.steps {
		collect(step.Name, step.Transformer)
	}
	collect(p.classifierName, p.classifier)
	return params
}

// SetParams routes "<step>__<param>" keys to the named step.
func (p *Pipeline) SetParams(params map[string]interface{}) error {
	const op = "Pipeline.SetParams"
	nested := make(map[string]map[string]interface{})

	for key, value := range params {
		if key == "verbose" {
			v, ok := value.(bool)
			if !ok {
				return errors.NewValueError(op, fmt.Sprintf("parameter verbose has unexpected type %T", value))
			}
			p.verbose = v
			continue
		}
		name, param, ok := strings.Cut(key, "__")
		if !ok {
			return errors.NewValueError(op, fmt.Sprintf("unknown parameter: %s", key))
		}
		if nested[name] == nil {
			nested[name] = make(map[string]interface{})
		}
		nested[name][param] = value
	}

	for name, stepParams := range nested {
		est := p.lookup(name)
		if est == nil {
			return errors.NewValueError(op, fmt.Sprintf("unknown step: %s", name))
		}
		s, ok := est.(paramsSetter)
		if !ok {
			return errors.NewValueError(op, fmt.Sprintf("step %s has no settable parameters", name))
		}
		if err := s.SetParams(stepParams); err != nil {
			return errors.Wrapf(err, "step '%s'", name)
		}
	}
	return nil
}

func (p *Pipeline) lookup(name string) interface{} {
	if name == p.classifierName {
		return p.classifier
	}
	for _, step := range p.steps {
		if step.Name == name {
			return step.Transformer
		}
	}
	return nil
}

var _ model.Classifier = (*Pipeline)(nil)
