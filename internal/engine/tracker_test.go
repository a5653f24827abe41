package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/proctorly/invigil/internal/domain"
)

func TestViolationTracker_RecordAndCount(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("increments within window", func(t *testing.T) {
		tr := NewViolationTracker(60 * time.Second)

		assert.Equal(t, 1, tr.RecordAndCount(domain.KindTabSwitch, base))
		assert.Equal(t, 2, tr.RecordAndCount(domain.KindTabSwitch, base.Add(10*time.Second)))
		assert.Equal(t, 3, tr.RecordAndCount(domain.KindTabSwitch, base.Add(20*time.Second)))
	})

	t.Run("gap past window starts fresh at one", func(t *testing.T) {
		tr := NewViolationTracker(60 * time.Second)

		tr.RecordAndCount(domain.KindFaceMissing, base)
		tr.RecordAndCount(domain.KindFaceMissing, base.Add(30*time.Second))

		got := tr.RecordAndCount(domain.KindFaceMissing, base.Add(30*time.Second).Add(61*time.Second))
		assert.Equal(t, 1, got)
	})

	t.Run("gap of exactly the window keeps the count", func(t *testing.T) {
		tr := NewViolationTracker(60 * time.Second)

		tr.RecordAndCount(domain.KindFaceMissing, base)
		got := tr.RecordAndCount(domain.KindFaceMissing, base.Add(60*time.Second))
		assert.Equal(t, 2, got)
	})

	t.Run("window slides on each occurrence", func(t *testing.T) {
		tr := NewViolationTracker(60 * time.Second)

		// Each event lands 50s after the previous one; the gap never
		// exceeds the window, so the count keeps growing even though the
		// first and the last are far apart.
		now := base
		for i := 1; i <= 4; i++ {
			assert.Equal(t, i, tr.RecordAndCount(domain.KindHeadMovement, now))
			now = now.Add(50 * time.Second)
		}
	})

	t.Run("kinds are tracked independently", func(t *testing.T) {
		tr := NewViolationTracker(60 * time.Second)

		tr.RecordAndCount(domain.KindTabSwitch, base)
		tr.RecordAndCount(domain.KindTabSwitch, base.Add(time.Second))

		assert.Equal(t, 1, tr.RecordAndCount(domain.KindFaceMissing, base.Add(2*time.Second)))
		assert.Equal(t, 3, tr.RecordAndCount(domain.KindTabSwitch, base.Add(3*time.Second)))
	})
}

func TestViolationTracker_Count(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := NewViolationTracker(60 * time.Second)

	assert.Equal(t, 0, tr.Count(domain.KindTabSwitch, base))

	tr.RecordAndCount(domain.KindTabSwitch, base)
	tr.RecordAndCount(domain.KindTabSwitch, base.Add(time.Second))

	assert.Equal(t, 2, tr.Count(domain.KindTabSwitch, base.Add(2*time.Second)))

	// Count is read-only: asking again changes nothing.
	assert.Equal(t, 2, tr.Count(domain.KindTabSwitch, base.Add(2*time.Second)))

	// Lapsed window reads as zero without recording anything.
	assert.Equal(t, 0, tr.Count(domain.KindTabSwitch, base.Add(2*time.Minute)))
}

func TestViolationTracker_Reset(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := NewViolationTracker(60 * time.Second)

	tr.RecordAndCount(domain.KindTabSwitch, base)
	tr.RecordAndCount(domain.KindFaceMissing, base)
	tr.Reset()

	assert.Equal(t, 0, tr.Count(domain.KindTabSwitch, base))
	assert.Equal(t, 1, tr.RecordAndCount(domain.KindFaceMissing, base))
}
