package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	CitizensCreated          uint64
	CitizensUpdated          uint64
	CitizensDeleted          uint64
	EmployersCreated         uint64
	EmployersUpdated         uint64
	EmployersDeleted         uint64
	ContributionsCreated     uint64
	ContributionsDeleted     uint64
	EligibilityChecks        uint64
	EligibilityEligible      uint64
	EligibilityDurationCount uint64
	EligibilityDurationNs    int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	citizensCreated          uint64
	citizensUpdated          uint64
	citizensDeleted          uint64
	employersCreated         uint64
	employersUpdated         uint64
	employersDeleted         uint64
	contributionsCreated     uint64
	contributionsDeleted     uint64
	eligibilityChecks        uint64
	eligibilityEligible      uint64
	eligibilityDurationCount uint64
	eligibilityDurationNs    int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		CitizensCreated:          atomic.LoadUint64(&m.citizensCreated),
		CitizensUpdated:          atomic.LoadUint64(&m.citizensUpdated),
		CitizensDeleted:          atomic.LoadUint64(&m.citizensDeleted),
		EmployersCreated:         atomic.LoadUint64(&m.employersCreated),
		EmployersUpdated:         atomic.LoadUint64(&m.employersUpdated),
		EmployersDeleted:         atomic.LoadUint64(&m.employersDeleted),
		ContributionsCreated:     atomic.LoadUint64(&m.contributionsCreated),
		ContributionsDeleted:     atomic.LoadUint64(&m.contributionsDeleted),
		EligibilityChecks:        atomic.LoadUint64(&m.eligibilityChecks),
		EligibilityEligible:      atomic.LoadUint64(&m.eligibilityEligible),
		EligibilityDurationCount: atomic.LoadUint64(&m.eligibilityDurationCount),
		EligibilityDurationNs:    atomic.LoadInt64(&m.eligibilityDurationNs),
	}
}

func (m *InMemoryRecorder) IncCitizenCreated()      { atomic.AddUint64(&m.citizensCreated, 1) }
func (m *InMemoryRecorder) IncCitizenUpdated()      { atomic.AddUint64(&m.citizensUpdated, 1) }
func (m *InMemoryRecorder) IncCitizenDeleted()      { atomic.AddUint64(&m.citizensDeleted, 1) }
func (m *InMemoryRecorder) IncEmployerCreated()     { atomic.AddUint64(&m.employersCreated, 1) }
func (m *InMemoryRecorder) IncEmployerUpdated()     { atomic.AddUint64(&m.employersUpdated, 1) }
func (m *InMemoryRecorder) IncEmployerDeleted()     { atomic.AddUint64(&m.employersDeleted, 1) }
func (m *InMemoryRecorder) IncContributionCreated() { atomic.AddUint64(&m.contributionsCreated, 1) }
func (m *InMemoryRecorder) IncContributionDeleted() { atomic.AddUint64(&m.contributionsDeleted, 1) }

// IncEligibilityCheck counts every check and, separately, eligible verdicts.
func (m *InMemoryRecorder) IncEligibilityCheck(eligible bool) {
	atomic.AddUint64(&m.eligibilityChecks, 1)
	if eligible {
		atomic.AddUint64(&m.eligibilityEligible, 1)
	}
}

// ObserveEligibilityDuration records how long an eligibility check took.
func (m *InMemoryRecorder) ObserveEligibilityDuration(duration time.Duration) {
	atomic.AddUint64(&m.eligibilityDurationCount, 1)
	atomic.AddInt64(&m.eligibilityDurationNs, duration.Nanoseconds())
}
