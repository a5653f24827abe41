package calibration

import (
	"context"
	"time"
)

// StaticChecker is a checker with canned results, used when no real capture
// layer is wired in and in tests. Results mirror what the detector
// self-checks report under good conditions.
type StaticChecker struct {
	// Failures maps steps to an error the check should return.
	Failures map[StepID]error
}

func NewStaticChecker() *StaticChecker {
	return &StaticChecker{}
}

func (c *StaticChecker) RunCheck(_ context.Context, step StepID) (TestResult, error) {
	if err, ok := c.Failures[step]; ok && err != nil {
		return TestResult{}, err
	}

	result := TestResult{
		Step:   step,
		Status: "ok",
		Passed: true,
		RanAt:  time.Now(),
	}

	switch step {
	case StepCameraPosition:
		result.Details = map[string]any{
			"faces_detected": 1,
			"framing_ok":     true,
		}
		result.Recommendations = []string{"Camera framing looks good"}
	case StepLighting:
		result.Details = map[string]any{
			"brightness": 120.0,
			"contrast":   45.0,
		}
		result.Recommendations = []string{"Lighting conditions are optimal"}
	case StepFaceDetection:
		result.Details = map[string]any{
			"recommended_setting": "balanced",
			"detection_accuracy":  "good",
		}
		result.Recommendations = []string{"Face detection is working well"}
	case StepAudio:
		result.Details = map[string]any{
			"volume_db":     -32.0,
			"audio_quality": "good",
		}
		result.Recommendations = []string{"Audio levels are optimal"}
	case StepFinalSettings:
		result.Recommendations = []string{"Review the derived thresholds and finish the wizard"}
	}

	return result, nil
}
