package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/survival-companion/backend-go/internal/apperror"
	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/position"
	"github.com/survival-companion/backend-go/internal/spatial"
	"github.com/survival-companion/backend-go/pkg/logger"
)

// an interval long enough that only explicit sample calls add points
const manualSampling = time.Hour

func newTrailService(t *testing.T, interval time.Duration) (*TrailService, *memoryTrails, *position.Source, *fakeClock) {
	t.Helper()
	repo := &memoryTrails{}
	src := newSource(10, 20)
	clock := newFakeClock()
	svc := NewTrailService(repo, src, TrailConfig{SampleInterval: interval, MinDistanceMeters: 5}, logger.NewNop())
	svc.now = clock.Now
	t.Cleanup(func() { svc.Close() })
	return svc, repo, src, clock
}

func pathLength(points []models.TrailPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += spatial.HaversineDistance(points[i-1].Latitude, points[i-1].Longitude, points[i].Latitude, points[i].Longitude)
	}
	return total
}

func TestTrailService_StartCapturesInitialPoint(t *testing.T) {
	svc, _, _, clock := newTrailService(t, manualSampling)

	summary, err := svc.Start("")
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.ID)
	assert.True(t, strings.HasPrefix(summary.Name, "Trail "))
	assert.Equal(t, 1, summary.PointCount)
	assert.Equal(t, clock.Now(), summary.StartedAt)
	require.NotNil(t, summary.LastPoint)
	assert.Equal(t, 10.0, summary.LastPoint.Latitude)

	status := svc.Status()
	assert.True(t, status.Recording)
	require.NotNil(t, status.Trail)
	assert.Equal(t, summary.ID, status.Trail.ID)
}

func TestTrailService_SecondStartIsRejected(t *testing.T) {
	svc, _, src, _ := newTrailService(t, manualSampling)

	first, err := svc.Start("Ridge")
	require.NoError(t, err)
	moveBy(src, 0, 20)
	require.True(t, svc.sample(false))

	_, err = svc.Start("Valley")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrAlreadyRecording)
	assert.True(t, apperror.IsStateConflict(err))

	status := svc.Status()
	assert.Equal(t, first.ID, status.Trail.ID)
	assert.Equal(t, "Ridge", status.Trail.Name)
	assert.Equal(t, 2, status.Trail.PointCount)
}

func TestTrailService_DistanceGatedSampling(t *testing.T) {
	svc, _, src, _ := newTrailService(t, manualSampling)
	_, err := svc.Start("gate")
	require.NoError(t, err)

	// a one-point trail accepts the first sample even without movement
	assert.True(t, svc.sample(false))

	moveBy(src, 90, 3)
	assert.False(t, svc.sample(false), "3 m is below the threshold")

	moveBy(src, 90, 4)
	assert.True(t, svc.sample(false), "7 m from the last point qualifies")

	moveBy(src, 0, 5.5)
	assert.True(t, svc.sample(false))

	moveBy(src, 180, 1)
	assert.False(t, svc.sample(false))

	trail, recording, ok := svc.Latest()
	require.True(t, ok)
	assert.True(t, recording)
	assert.Len(t, trail.Points, 4)
	assert.Equal(t, 2, trail.SkippedSamples)
	assert.InDelta(t, pathLength(trail.Points), trail.TotalDistanceMeters, 1e-6)
	assert.InDelta(t, 12.5, trail.TotalDistanceMeters, 0.01)
}

func TestTrailService_DistanceIsMonotonic(t *testing.T) {
	svc, _, src, _ := newTrailService(t, manualSampling)
	_, err := svc.Start("walk")
	require.NoError(t, err)

	steps := []float64{0, 2, 8, 1, 1, 15, 4.9, 30, 0.5}
	previous := 0.0
	for i, step := range steps {
		moveBy(src, float64(i*40), step)
		svc.sample(false)

		trail, _, _ := svc.Latest()
		require.GreaterOrEqual(t, trail.TotalDistanceMeters, previous)
		previous = trail.TotalDistanceMeters
		require.InDelta(t, pathLength(trail.Points), trail.TotalDistanceMeters, 1e-6)
	}
}

func TestTrailService_StopForcesFinalSample(t *testing.T) {
	svc, repo, src, clock := newTrailService(t, manualSampling)
	_, err := svc.Start("short")
	require.NoError(t, err)
	moveBy(src, 0, 10)
	require.True(t, svc.sample(false))
	moveBy(src, 0, 10)
	require.True(t, svc.sample(false))

	moveBy(src, 0, 1)
	clock.Advance(90 * time.Second)
	res, err := svc.Stop()
	require.NoError(t, err)

	assert.True(t, res.Persisted)
	assert.Equal(t, 4, res.Trail.PointCount)
	require.NotNil(t, res.Trail.EndedAt)
	assert.Equal(t, clock.Now(), *res.Trail.EndedAt)
	assert.InDelta(t, 90.0, res.Trail.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 21.0, res.Trail.DistanceMeters, 0.01)

	assert.False(t, svc.Status().Recording)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, res.Trail.ID, repo.saved[0].ID)
	assert.Len(t, svc.List(), 1)

	_, err = svc.Stop()
	assert.ErrorIs(t, err, apperror.ErrNotRecording)
}

func TestTrailService_StopWhenIdle(t *testing.T) {
	svc, _, _, _ := newTrailService(t, manualSampling)
	_, err := svc.Stop()
	require.Error(t, err)
	assert.True(t, apperror.IsStateConflict(err))
	assert.Equal(t, models.TrailStatus{Recording: false}, svc.Status())
}

func TestTrailService_BackgroundSampler(t *testing.T) {
	svc, _, src, _ := newTrailService(t, 5*time.Millisecond)
	_, err := svc.Start("auto")
	require.NoError(t, err)
	done := svc.done

	require.Eventually(t, func() bool {
		moveBy(src, 45, 6)
		return svc.Status().Trail.PointCount >= 4
	}, 2*time.Second, 2*time.Millisecond)

	res, err := svc.Stop()
	require.NoError(t, err)

	select {
	case <-done:
	default:
		t.Fatal("sampler still running after Stop")
	}

	moveBy(src, 45, 50)
	time.Sleep(20 * time.Millisecond)
	trail, err := svc.Get(res.Trail.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Trail.PointCount, len(trail.Points))
}

func TestTrailService_IDsContinueAcrossRestarts(t *testing.T) {
	svc, repo, _, _ := newTrailService(t, manualSampling)
	for i := 0; i < 2; i++ {
		_, err := svc.Start("")
		require.NoError(t, err)
		_, err = svc.Stop()
		require.NoError(t, err)
	}
	_, err := svc.Delete(2)
	require.NoError(t, err)

	summary, err := svc.Start("")
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.ID)
	_, err = svc.Stop()
	require.NoError(t, err)

	reloaded := NewTrailService(repo, newSource(0, 0), TrailConfig{SampleInterval: manualSampling, MinDistanceMeters: 5}, logger.NewNop())
	assert.Len(t, reloaded.List(), 2)
	summary, err = reloaded.Start("")
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.ID)
	require.NoError(t, reloaded.Close())
}

func TestTrailService_GetDeleteLatest(t *testing.T) {
	svc, repo, _, _ := newTrailService(t, manualSampling)

	_, _, ok := svc.Latest()
	assert.False(t, ok)

	_, err := svc.Get(1)
	assert.True(t, apperror.IsNotFound(err))
	_, err = svc.Delete(1)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Start("one")
	require.NoError(t, err)
	_, err = svc.Stop()
	require.NoError(t, err)

	latest, recording, ok := svc.Latest()
	require.True(t, ok)
	assert.False(t, recording)
	assert.Equal(t, "one", latest.Name)

	_, err = svc.Start("two")
	require.NoError(t, err)
	latest, recording, _ = svc.Latest()
	assert.True(t, recording)
	assert.Equal(t, "two", latest.Name)
	assert.Nil(t, latest.EndedAt)

	res, err := svc.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, "one", res.Trail.Name)
	assert.Empty(t, repo.saved)
}

func TestTrailService_PersistenceFailure(t *testing.T) {
	svc, repo, _, _ := newTrailService(t, manualSampling)
	repo.fail = true

	_, err := svc.Start("")
	require.NoError(t, err)
	res, err := svc.Stop()
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.Len(t, svc.List(), 1)
}

func TestTrailService_ExportGPX(t *testing.T) {
	svc, _, src, _ := newTrailService(t, manualSampling)
	_, err := svc.Start("Summit & back")
	require.NoError(t, err)
	moveBy(src, 0, 25)
	res, err := svc.Stop()
	require.NoError(t, err)

	data, err := svc.ExportGPX(res.Trail.ID)
	require.NoError(t, err)

	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `version="1.1"`)
	assert.Contains(t, doc, "<name>Summit &amp; back</name>")
	assert.Equal(t, 2, strings.Count(doc, "<trkpt "))

	_, err = svc.ExportGPX(42)
	assert.True(t, apperror.IsNotFound(err))
}

func TestTrailService_CloseFinalizesActiveTrail(t *testing.T) {
	svc, repo, _, _ := newTrailService(t, manualSampling)
	require.NoError(t, svc.Close())

	_, err := svc.Start("")
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.False(t, svc.IsRecording())
	assert.Len(t, repo.saved, 1)
	assert.NotNil(t, repo.saved[0].EndedAt)
}
