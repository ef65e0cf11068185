// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Directory metrics
	IncCitizenCreated()
	IncCitizenUpdated()
	IncCitizenDeleted()
	IncEmployerCreated()
	IncEmployerUpdated()
	IncEmployerDeleted()

	// Ledger metrics
	IncContributionCreated()
	IncContributionDeleted()

	// Eligibility metrics
	IncEligibilityCheck(eligible bool)
	ObserveEligibilityDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
