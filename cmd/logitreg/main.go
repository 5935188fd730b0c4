// Command logitreg trains a softmax logistic regression classifier on a CSV
// file and reports its training accuracy.
//
//	logitreg -data train.csv -n-iter 500 -batch-size 64 -method momentum -plot loss.png
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ezoic/logitreg/core/model"
	"github.com/ezoic/logitreg/datasets"
	"github.com/ezoic/logitreg/pkg/errors"
	"github.com/ezoic/logitreg/pkg/log"
	"github.com/ezoic/logitreg/preprocessing"
	"github.com/ezoic/logitreg/sklearn/linear_model"
	"github.com/ezoic/logitreg/sklearn/pipeline"
	"github.com/ezoic/logitreg/viz"
)

type config struct {
	data         string
	labelCol     int
	header       bool
	nIter        int
	batchSize    int
	lambda       float64
	l1Ratio      float64
	learningRate float64
	method       string
	decay        float64
	seed         int64
	scale        bool
	plot         string
	logLevel     string
	verbose      int
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.data, "data", "", "CSV file with one row per sample (required)")
	flag.IntVar(&cfg.labelCol, "label-col", -1, "label column index; negative counts from the end")
	flag.BoolVar(&cfg.header, "header", false, "skip the first CSV record")
	flag.IntVar(&cfg.nIter, "n-iter", 500, "optimizer iterations")
	flag.IntVar(&cfg.batchSize, "batch-size", linear_model.DefaultBatchSize, "rows per mini-batch; 0 uses the full dataset")
	flag.Float64Var(&cfg.lambda, "lambda", linear_model.DefaultLambda, "regularization strength")
	flag.Float64Var(&cfg.l1Ratio, "l1-ratio", linear_model.DefaultL1Ratio, "elastic-net mixing, 0 = L2, 1 = L1")
	flag.Float64Var(&cfg.learningRate, "lr", linear_model.DefaultLearningRate, "learning rate")
	flag.StringVar(&cfg.method, "method", linear_model.MethodGradientDescent, "optimizer: gradient_descent or momentum")
	flag.Float64Var(&cfg.decay, "decay", 0.9, "momentum decay")
	flag.Int64Var(&cfg.seed, "seed", linear_model.DefaultRandomState, "batch sampling seed; negative seeds from the clock")
	flag.BoolVar(&cfg.scale, "scale", true, "standardize features before training")
	flag.StringVar(&cfg.plot, "plot", "", "write the loss curve to this image file")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "log level")
	flag.IntVar(&cfg.verbose, "verbose", 0, "log the loss every n iterations")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	log.SetupLogger(cfg.logLevel)
	logger := log.GetLoggerWithName("logitreg")

	if err := run(cfg); err != nil {
		logger.Error("Training failed", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	if cfg.data == "" {
		return errors.New("-data is required")
	}

	f, err := os.Open(cfg.data)
	if err != nil {
		return errors.Wrap(err, "opening data")
	}
	defer func() { _ = f.Close() }()

	X, y, err := datasets.ReadCSV(f, cfg.labelCol, cfg.header)
	if err != nil {
		return err
	}

	clf := linear_model.NewLogisticRegression(cfg.nIter,
		linear_model.WithBatchSize(cfg.batchSize),
		linear_model.WithLambda(cfg.lambda),
		linear_model.WithL1Ratio(cfg.l1Ratio),
		linear_model.WithLearningRate(cfg.learningRate),
		linear_model.WithRandomState(cfg.seed),
		linear_model.WithMomentum(linear_model.MomentumConfig{Method: cfg.method, Decay: cfg.decay}),
		linear_model.WithVerbose(cfg.verbose),
	)

	var est model.Classifier = clf
	if cfg.scale {
		est = pipeline.New("clf", clf, pipeline.Step{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()})
	}

	if err := est.Fit(X, y); err != nil {
		return err
	}
	score, err := est.Score(X, y)
	if err != nil {
		return err
	}

	history := clf.LossHistory()
	fmt.Printf("samples=%d classes=%d iterations=%d final_loss=%.6f accuracy=%.4f\n",
		y.Len(), len(clf.Classes()), clf.NIter(), history[len(history)-1], score)

	if cfg.plot != "" {
		if err := viz.SaveLossCurve(history, "Training loss", cfg.plot); err != nil {
			return err
		}
		fmt.Printf("loss curve written to %s\n", cfg.plot)
	}
	return nil
}
