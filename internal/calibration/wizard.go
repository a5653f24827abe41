package calibration

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/proctorly/invigil/internal/domain"
)

// StepID identifies one step of the guided calibration wizard.
type StepID string

const (
	StepCameraPosition StepID = "camera_position"
	StepLighting       StepID = "lighting"
	StepFaceDetection  StepID = "face_detection"
	StepAudio          StepID = "audio"
	StepFinalSettings  StepID = "final_settings"
)

// Steps is the fixed wizard order.
var Steps = []StepID{
	StepCameraPosition,
	StepLighting,
	StepFaceDetection,
	StepAudio,
	StepFinalSettings,
}

// TestResult is the structured outcome of one detector self-check. Checker
// failures come back as Status "error" with a message, never as a panic.
type TestResult struct {
	Step            StepID         `json:"step"`
	Status          string         `json:"status"` // "ok", "warning" or "error"
	Passed          bool           `json:"passed"`
	Message         string         `json:"message,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	RanAt           time.Time      `json:"ran_at"`
}

// Checker runs the external detector self-check for a wizard step.
// Implementations talk to the actual capture layer; the wizard only records
// their structured results.
type Checker interface {
	RunCheck(ctx context.Context, step StepID) (TestResult, error)
}

// Profile carries the per-detector thresholds produced by a completed
// calibration run. Detectors consume it the next time a session starts.
type Profile struct {
	FaceScaleFactor  float64   `json:"face_scale_factor"`
	FaceMinNeighbors int       `json:"face_min_neighbors"`
	AudioThresholdDB float64   `json:"audio_threshold_db"`
	MinBrightness    float64   `json:"min_brightness"`
	MaxBrightness    float64   `json:"max_brightness"`
	MinContrast      float64   `json:"min_contrast"`
	CalibratedAt     time.Time `json:"calibrated_at"`
	Version          string    `json:"version"`
}

// defaultProfile is used as the baseline before any calibration completes.
func defaultProfile() Profile {
	return Profile{
		FaceScaleFactor:  1.1,
		FaceMinNeighbors: 5,
		AudioThresholdDB: -25,
		MinBrightness:    50,
		MaxBrightness:    200,
		MinContrast:      30,
		Version:          "1.0",
	}
}

// Status is a snapshot of wizard progress for the dashboard.
type Status struct {
	Started     bool                  `json:"started"`
	Completed   bool                  `json:"completed"`
	CurrentStep StepID                `json:"current_step,omitempty"`
	StepIndex   int                   `json:"step_index"`
	TotalSteps  int                   `json:"total_steps"`
	Progress    float64               `json:"progress"`
	Results     map[StepID]TestResult `json:"results,omitempty"`
}

// Manager runs the calibration wizard: a fixed ordered sequence of detector
// self-tests whose results derive the threshold profile. Calibration never
// touches exam session state.
type Manager struct {
	mu      sync.Mutex
	checker Checker
	path    string
	logger  *slog.Logger

	started bool
	stepIdx int
	results map[StepID]TestResult
	profile *Profile
}

// NewManager creates a wizard bound to a checker. An existing profile at
// path is loaded so a restart keeps the previous thresholds available.
func NewManager(checker Checker, path string, logger *slog.Logger) *Manager {
	m := &Manager{
		checker: checker,
		path:    path,
		logger:  logger,
		results: make(map[StepID]TestResult),
	}
	m.loadProfile()
	return m
}

// Start begins (or restarts) the wizard at the first step.
func (m *Manager) Start() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = true
	m.stepIdx = 0
	m.results = make(map[StepID]TestResult)

	m.logger.Info("calibration wizard started", "total_steps", len(Steps))
	return m.statusLocked()
}

// Status returns current wizard progress.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// RunTest runs the self-check for the given step and records its result.
// An unknown step is a client error; a checker failure is recorded and
// returned as a structured error result.
func (m *Manager) RunTest(ctx context.Context, step StepID) (TestResult, error) {
	if !validStep(step) {
		return TestResult{}, domain.ErrUnknownCalibrationStep
	}

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return TestResult{}, domain.ErrCalibrationNotStarted
	}
	m.mu.Unlock()

	result, err := m.checker.RunCheck(ctx, step)
	if err != nil {
		m.logger.Warn("calibration test failed", "step", step, "error", err)
		result = TestResult{
			Step:    step,
			Status:  "error",
			Message: err.Error(),
			RanAt:   time.Now(),
		}
	}
	result.Step = step
	if result.RanAt.IsZero() {
		result.RanAt = time.Now()
	}

	m.mu.Lock()
	m.results[step] = result
	m.mu.Unlock()

	return result, nil
}

// Advance moves to the next step. Past the last step it completes the
// wizard, derives the profile and persists it; further calls keep returning
// the completed status without error.
func (m *Manager) Advance() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return m.statusLocked()
	}

	if m.stepIdx < len(Steps)-1 {
		m.stepIdx++
		return m.statusLocked()
	}

	if m.stepIdx == len(Steps)-1 {
		m.stepIdx = len(Steps)
		p := m.buildProfileLocked()
		m.profile = &p
		m.saveProfileLocked()
		m.logger.Info("calibration completed", "calibrated_at", p.CalibratedAt)
	}
	return m.statusLocked()
}

// Latest returns the most recent completed profile, if any.
func (m *Manager) Latest() (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return Profile{}, false
	}
	return *m.profile, true
}

func (m *Manager) statusLocked() Status {
	s := Status{
		Started:    m.started,
		TotalSteps: len(Steps),
		StepIndex:  m.stepIdx,
	}
	if !m.started {
		return s
	}
	if m.stepIdx >= len(Steps) {
		s.Completed = true
		s.Progress = 100
	} else {
		s.CurrentStep = Steps[m.stepIdx]
		s.Progress = float64(m.stepIdx+1) / float64(len(Steps)) * 100
	}
	if len(m.results) > 0 {
		s.Results = make(map[StepID]TestResult, len(m.results))
		for k, v := range m.results {
			s.Results[k] = v
		}
	}
	return s
}

// buildProfileLocked derives thresholds from recorded test results, falling
// back to the baseline for anything a test did not cover.
func (m *Manager) buildProfileLocked() Profile {
	p := defaultProfile()
	p.CalibratedAt = time.Now().UTC()

	if r, ok := m.results[StepFaceDetection]; ok && r.Details != nil {
		if setting, ok := r.Details["recommended_setting"].(string); ok {
			switch setting {
			case "aggressive":
				p.FaceScaleFactor = 1.02
				p.FaceMinNeighbors = 2
			case "balanced":
				p.FaceScaleFactor = 1.05
				p.FaceMinNeighbors = 3
			}
		}
	}
	if r, ok := m.results[StepAudio]; ok && r.Details != nil {
		if db, ok := toFloat(r.Details["volume_db"]); ok {
			// Threshold sits above the measured room floor.
			p.AudioThresholdDB = db + 10
		}
	}
	return p
}

func (m *Manager) loadProfile() {
	if m.path == "" {
		return
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("could not load calibration profile", "path", m.path, "error", err)
		}
		return
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		m.logger.Warn("invalid calibration profile file", "path", m.path, "error", err)
		return
	}
	m.profile = &p
	m.logger.Info("loaded calibration profile", "path", m.path, "calibrated_at", p.CalibratedAt)
}

func (m *Manager) saveProfileLocked() {
	if m.path == "" || m.profile == nil {
		return
	}
	data, err := json.MarshalIndent(m.profile, "", "  ")
	if err != nil {
		m.logger.Warn("could not encode calibration profile", "error", err)
		return
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		m.logger.Warn("could not save calibration profile", "path", m.path, "error", err)
	}
}

func validStep(step StepID) bool {
	for _, s := range Steps {
		if s == step {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
