package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/survival-companion/backend-go/internal/apperror"
	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/pkg/logger"
)

func newWaypointService(t *testing.T, lat, lon float64) (*WaypointService, *memoryWaypoints, *fakeClock) {
	t.Helper()
	repo := &memoryWaypoints{}
	clock := newFakeClock()
	svc := NewWaypointService(repo, newSource(lat, lon), logger.NewNop())
	svc.now = clock.Now
	return svc, repo, clock
}

func TestWaypointService_CreateRequiresName(t *testing.T) {
	svc, repo, _ := newWaypointService(t, 10, 20)

	for _, name := range []string{"", "   "} {
		_, err := svc.Create(models.CreateWaypointRequest{Name: name})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	}
	assert.Empty(t, svc.List())
	assert.Zero(t, repo.saves)
}

func TestWaypointService_CreateDefaultsToCurrentPosition(t *testing.T) {
	svc, repo, clock := newWaypointService(t, -33.8688, 151.2093)

	res, err := svc.Create(models.CreateWaypointRequest{Name: " Camp ", Notes: "by the river"})
	require.NoError(t, err)

	wp := res.Waypoint
	assert.True(t, res.Persisted)
	assert.Equal(t, int64(1), wp.ID)
	assert.Equal(t, "Camp", wp.Name)
	assert.Equal(t, -33.8688, wp.Latitude)
	assert.Equal(t, 151.2093, wp.Longitude)
	assert.Equal(t, models.CategoryOther, wp.Category)
	assert.Len(t, wp.Geohash, 9)
	assert.Equal(t, clock.Now(), wp.CreatedAt)
	assert.Equal(t, []models.Waypoint{wp}, repo.saved)
}

func TestWaypointService_CreateWithCoordinatesAndCategory(t *testing.T) {
	svc, _, _ := newWaypointService(t, 0, 0)

	res, err := svc.Create(models.CreateWaypointRequest{
		Name:      "Spring",
		Latitude:  ptr(10.0),
		Longitude: ptr(20.0),
		Altitude:  ptr(412.0),
		Category:  "Water",
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Waypoint.Latitude)
	assert.Equal(t, 412.0, res.Waypoint.Altitude)
	assert.Equal(t, models.CategoryWater, res.Waypoint.Category)

	_, err = svc.Create(models.CreateWaypointRequest{Name: "X", Category: "treasure"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Create(models.CreateWaypointRequest{Name: "X", Latitude: ptr(95.0)})
	assert.True(t, apperror.IsValidation(err))
}

func TestWaypointService_IDsAreNeverReused(t *testing.T) {
	svc, _, _ := newWaypointService(t, 10, 20)

	var ids []int64
	for _, name := range []string{"a", "b", "c"} {
		res, err := svc.Create(models.CreateWaypointRequest{Name: name})
		require.NoError(t, err)
		ids = append(ids, res.Waypoint.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err := svc.Delete(3)
	require.NoError(t, err)
	_, err = svc.Delete(1)
	require.NoError(t, err)

	res, err := svc.Create(models.CreateWaypointRequest{Name: "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Waypoint.ID)
}

func TestWaypointService_LoadsExistingAndContinuesIDs(t *testing.T) {
	repo := &memoryWaypoints{saved: []models.Waypoint{{ID: 7, Name: "old"}, {ID: 2, Name: "older"}}}
	svc := NewWaypointService(repo, newSource(0, 0), logger.NewNop())

	assert.Len(t, svc.List(), 2)
	res, err := svc.Create(models.CreateWaypointRequest{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Waypoint.ID)
}

func TestWaypointService_MarkHere(t *testing.T) {
	svc, _, _ := newWaypointService(t, 45.5, -122.6)

	res, err := svc.MarkHere(models.MarkWaypointRequest{Category: "shelter"})
	require.NoError(t, err)
	assert.Equal(t, "Waypoint 1", res.Waypoint.Name)
	assert.Equal(t, 45.5, res.Waypoint.Latitude)
	assert.Equal(t, models.CategoryShelter, res.Waypoint.Category)

	res, err = svc.MarkHere(models.MarkWaypointRequest{Name: "Cave"})
	require.NoError(t, err)
	assert.Equal(t, "Cave", res.Waypoint.Name)
}

func TestWaypointService_UpdatePartial(t *testing.T) {
	svc, _, clock := newWaypointService(t, 10, 20)
	created, err := svc.Create(models.CreateWaypointRequest{Name: "Camp", Notes: "tent"})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	res, err := svc.Update(created.Waypoint.ID, models.UpdateWaypointRequest{Notes: ptr("tarp"), Latitude: ptr(10.5)})
	require.NoError(t, err)

	wp := res.Waypoint
	assert.Equal(t, "Camp", wp.Name)
	assert.Equal(t, "tarp", wp.Notes)
	assert.Equal(t, 10.5, wp.Latitude)
	assert.Equal(t, 20.0, wp.Longitude)
	assert.Equal(t, created.Waypoint.CreatedAt, wp.CreatedAt)
	assert.Equal(t, clock.Now(), wp.UpdatedAt)
	assert.NotEqual(t, created.Waypoint.Geohash, wp.Geohash)

	got, err := svc.Get(wp.ID)
	require.NoError(t, err)
	assert.Equal(t, wp, got)

	_, err = svc.Update(99, models.UpdateWaypointRequest{Notes: ptr("x")})
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Update(wp.ID, models.UpdateWaypointRequest{Name: ptr(" ")})
	assert.True(t, apperror.IsValidation(err))
}

func TestWaypointService_Delete(t *testing.T) {
	svc, repo, _ := newWaypointService(t, 10, 20)
	created, err := svc.Create(models.CreateWaypointRequest{Name: "Camp"})
	require.NoError(t, err)

	res, err := svc.Delete(created.Waypoint.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Waypoint, res.Waypoint)
	assert.Empty(t, svc.List())
	assert.Empty(t, repo.saved)

	_, err = svc.Delete(created.Waypoint.ID)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Get(created.Waypoint.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestWaypointService_PersistenceFailureStillApplies(t *testing.T) {
	svc, repo, _ := newWaypointService(t, 10, 20)
	repo.fail = true

	res, err := svc.Create(models.CreateWaypointRequest{Name: "Camp"})
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.Len(t, svc.List(), 1)

	repo.fail = false
	res, err = svc.Update(res.Waypoint.ID, models.UpdateWaypointRequest{Notes: ptr("ok")})
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.Len(t, repo.saved, 1)
}

func TestWaypointService_ListSortedByDistance(t *testing.T) {
	svc, _, _ := newWaypointService(t, 10, 20)

	for _, c := range []struct {
		name     string
		lat, lon float64
	}{
		{"far", 10.1, 20.0},
		{"near", 10.001, 20.0},
		{"middle", 10.01, 20.0},
	} {
		_, err := svc.Create(models.CreateWaypointRequest{Name: c.name, Latitude: ptr(c.lat), Longitude: ptr(c.lon)})
		require.NoError(t, err)
	}

	sorted := svc.ListSortedByDistanceFrom(models.Position{Latitude: 10, Longitude: 20})
	require.Len(t, sorted, 3)
	assert.Equal(t, "near", sorted[0].Name)
	assert.Equal(t, "middle", sorted[1].Name)
	assert.Equal(t, "far", sorted[2].Name)
	assert.LessOrEqual(t, sorted[0].DistanceMeters, sorted[1].DistanceMeters)
	assert.Equal(t, "N", sorted[0].BearingDirection)
	assert.Equal(t, "m", sorted[0].Distance.Unit)
	assert.Equal(t, "km", sorted[2].Distance.Unit)

	stored := svc.List()
	assert.Equal(t, "far", stored[0].Name)
	assert.Equal(t, "near", stored[1].Name)

	assert.Len(t, svc.Nearest(models.Position{Latitude: 10, Longitude: 20}, 2), 2)
}

func TestWaypointService_CampScenario(t *testing.T) {
	src := newSource(0, 0)
	svc := NewWaypointService(&memoryWaypoints{}, src, logger.NewNop())

	_, err := svc.Create(models.CreateWaypointRequest{Name: "Camp", Latitude: ptr(10.0), Longitude: ptr(20.0)})
	require.NoError(t, err)

	moveTo(src, 10.001, 20.001)
	got := svc.ListSortedByDistanceFrom(src.Current())
	require.Len(t, got, 1)
	assert.Equal(t, "Camp", got[0].Name)
	assert.InDelta(t, 156.2, got[0].DistanceMeters, 1.0)
	assert.Equal(t, "SW", got[0].BearingDirection)
	assert.Equal(t, "156 m", got[0].Distance.Display)
}
