package log

// Structured field keys.
const (
	ModelNameKey  = "model_name"
	ComponentKey  = "component"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	ClassesKey    = "classes"
	IterationKey  = "iteration"
	NIterKey      = "n_iter"
	LossKey       = "loss"
	BatchSizeKey  = "batch_size"
	MethodKey     = "method"
	DurationMsKey = "duration_ms"
	PredsKey      = "preds"
)

// Operation and phase values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	PhaseTraining    = "training"
	PhaseInference   = "inference"
)
