// Package model provides the fitted-state bookkeeping and the estimator
// interfaces shared by logitreg models.
//
// Estimators hold a *StateManager by composition and flip it to Fitted only
// after training completes:
//
//	type MyModel struct {
//		state *model.StateManager
//	}
//
//	func (m *MyModel) Fit(X, y mat.Matrix) error {
//		m.state.Reset()
//		// training logic
//		m.state.SetFitted()
//		return nil
//	}
package model

import "sync"

// EstimatorState represents the learning state of a model
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained
	Fitted
)

func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// StateManager tracks whether an estimator is fitted and the shape it was fitted on.
type StateManager struct {
	mu        sync.RWMutex
	state     EstimatorState
	nFeatures int
	nSamples  int
}

// NewStateManager returns a StateManager in the NotFitted state.
func NewStateManager() *StateManager {
	return &StateManager{state: NotFitted}
}

// IsFitted reports whether SetFitted has been called since the last Reset.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Fitted
}

// State returns the current state.
func (s *StateManager) State() EstimatorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetFitted marks the estimator as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Fitted
}

// Reset returns to NotFitted and clears the recorded dimensions.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NotFitted
	s.nFeatures = 0
	s.nSamples = 0
}

// SetDimensions records the training shape.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// GetDimensions returns the training shape recorded by SetDimensions.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}
