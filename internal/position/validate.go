package position

import (
	"github.com/survival-companion/backend-go/internal/apperror"
	"github.com/survival-companion/backend-go/internal/models"
)

// ValidateUpdate checks the supplied fields of a manual override
func ValidateUpdate(u models.PositionUpdate) error {
	if u.Latitude != nil && (*u.Latitude < -90 || *u.Latitude > 90) {
		return apperror.Validation("position", "latitude", "latitude must be between -90 and 90")
	}
	if u.Longitude != nil && (*u.Longitude < -180 || *u.Longitude > 180) {
		return apperror.Validation("position", "longitude", "longitude must be between -180 and 180")
	}
	if u.Accuracy != nil && *u.Accuracy < 0 {
		return apperror.Validation("position", "accuracy", "accuracy must not be negative")
	}
	if u.Speed != nil && *u.Speed < 0 {
		return apperror.Validation("position", "speed", "speed must not be negative")
	}
	if u.Satellites != nil && (*u.Satellites < 0 || *u.Satellites > maxSatellites) {
		return apperror.Validation("position", "satellites", "satellites must be between 0 and 24")
	}
	if u.FixQuality != nil {
		switch *u.FixQuality {
		case models.FixNone, models.Fix2D, models.Fix3D:
		default:
			return apperror.Validation("position", "fix_quality", "fix_quality must be one of none, 2d, 3d")
		}
	}
	return nil
}
