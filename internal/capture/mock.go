// Package capture holds implementations of the engine's camera/microphone
// lifecycle hook. Real device bindings live outside this repository; the
// mock here is used for local runs and tests.
package capture

import (
	"context"
	"sync"

	"github.com/proctorly/invigil/internal/calibration"
)

// Mock is an in-memory CaptureResources implementation with configurable
// failures.
type Mock struct {
	mu sync.Mutex

	acquired bool
	profile  *calibration.Profile

	// AcquireErr / ReleaseErr, when set, are returned by the matching call.
	AcquireErr error
	ReleaseErr error

	acquireCalls int
	releaseCalls int
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Acquire(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.acquireCalls++
	if m.AcquireErr != nil {
		return m.AcquireErr
	}
	m.acquired = true
	return nil
}

func (m *Mock) Release(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseCalls++
	m.acquired = false
	if m.ReleaseErr != nil {
		return m.ReleaseErr
	}
	return nil
}

func (m *Mock) ApplyProfile(profile calibration.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = &profile
}

// Acquired reports whether the devices are currently held.
func (m *Mock) Acquired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired
}

// Profile returns the last applied calibration profile, if any.
func (m *Mock) Profile() (calibration.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return calibration.Profile{}, false
	}
	return *m.profile, true
}

// Calls returns how many times Acquire and Release ran.
func (m *Mock) Calls() (acquire, release int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquireCalls, m.releaseCalls
}
