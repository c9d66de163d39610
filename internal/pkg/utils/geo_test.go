package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("identical points have zero distance", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(-74.0060, 40.7128, -74.0060, 40.7128))
		assert.Equal(t, 0.0, HaversineDistance(0, 0, 0, 0))
		assert.Equal(t, 0.0, HaversineDistance(179.9, -89.9, 179.9, -89.9))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := HaversineDistance(-74.0060, 40.7128, -118.2437, 34.0522)
		d2 := HaversineDistance(-118.2437, 34.0522, -74.0060, 40.7128)
		assert.Equal(t, d1, d2)
	})

	t.Run("new york to los angeles", func(t *testing.T) {
		d := HaversineDistance(-74.0060, 40.7128, -118.2437, 34.0522)
		// ~3,936 km, allow 1%
		assert.InDelta(t, 3936000, d, 39360)
	})

	t.Run("near-equal points stay finite", func(t *testing.T) {
		d := HaversineDistance(2.1734, 41.3851, 2.1734, 41.38510000001)
		assert.False(t, d != d, "distance must not be NaN")
		assert.GreaterOrEqual(t, d, 0.0)
		assert.Less(t, d, 1.0)
	})

	t.Run("antipodal points", func(t *testing.T) {
		d := HaversineDistance(0, 0, 180, 0)
		// half the Earth's circumference
		assert.InDelta(t, 20015086, d, 100000)
	})
}

func TestMilesToMeters(t *testing.T) {
	assert.Equal(t, 1609, MilesToMeters(1))
	assert.Equal(t, 16093, MilesToMeters(10))
	assert.Equal(t, 0, MilesToMeters(0))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(40.7128, -74.0060))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.5))
}

func TestValidateRadiusMeters(t *testing.T) {
	assert.True(t, ValidateRadiusMeters(1609, 50000))
	assert.False(t, ValidateRadiusMeters(0, 50000))
	assert.False(t, ValidateRadiusMeters(60000, 50000))
}
