package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/survival-companion/backend-go/pkg/logger"
)

func TestEmergencyService_Lifecycle(t *testing.T) {
	src := newSource(-33.8688, 151.2093)
	clock := newFakeClock()
	svc := NewEmergencyService(src, logger.NewNop())
	svc.now = clock.Now

	assert.False(t, svc.Status().Active)

	status := svc.Activate()
	assert.True(t, status.Active)
	require.NotNil(t, status.ActivatedAt)
	assert.Contains(t, status.Message, "-33.86880")

	clock.Advance(time.Minute)
	moveTo(src, -33.87, 151.21)
	again := svc.Activate()
	assert.Equal(t, *status.ActivatedAt, *again.ActivatedAt)
	assert.Equal(t, -33.87, again.Position.Latitude)

	off := svc.Deactivate()
	assert.False(t, off.Active)
	assert.InDelta(t, 60.0, off.ElapsedSeconds, 1e-9)
	assert.False(t, svc.Status().Active)
	assert.False(t, svc.Deactivate().Active)
}
