package metrics

import "time"

// NoopRecorder discards all metrics. Used when no metrics backend is wired.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncCitizenCreated()                              {}
func (n *NoopRecorder) IncCitizenUpdated()                              {}
func (n *NoopRecorder) IncCitizenDeleted()                              {}
func (n *NoopRecorder) IncEmployerCreated()                             {}
func (n *NoopRecorder) IncEmployerUpdated()                             {}
func (n *NoopRecorder) IncEmployerDeleted()                             {}
func (n *NoopRecorder) IncContributionCreated()                         {}
func (n *NoopRecorder) IncContributionDeleted()                         {}
func (n *NoopRecorder) IncEligibilityCheck(eligible bool)               {}
func (n *NoopRecorder) ObserveEligibilityDuration(duration time.Duration) {}
