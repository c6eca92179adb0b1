package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, Haversine(45.0, -122.5, 45.0, -122.5))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := Haversine(40.7128, -74.0060, 48.8566, 2.3522)
		d2 := Haversine(48.8566, 2.3522, 40.7128, -74.0060)
		assert.Equal(t, d1, d2)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := Haversine(0, 0, 1, 0)
		assert.InDelta(t, 111195, d, 50)
	})

	t.Run("one degree of longitude shrinks with latitude", func(t *testing.T) {
		atEquator := Haversine(0, 0, 0, 1)
		at60 := Haversine(60, 0, 60, 1)
		assert.InDelta(t, 111195, atEquator, 50)
		assert.InDelta(t, 55597, at60, 50)
	})
}

func TestNewBoundingBox(t *testing.T) {
	t.Run("contains the circle", func(t *testing.T) {
		box := NewBoundingBox(45.0, -122.5, 500)

		assert.True(t, box.Contains(45.0, -122.5))
		// ~400 m east
		assert.True(t, box.Contains(45.0, -122.5+400.0/(metersPerDegreeLat*math.Cos(toRadians(45.0)))))
		// ~2 km north is outside
		assert.False(t, box.Contains(45.0+2000.0/metersPerDegreeLat, -122.5))
	})

	t.Run("longitude span widens with latitude", func(t *testing.T) {
		equator := NewBoundingBox(0, 0, 500)
		north := NewBoundingBox(60, 0, 500)

		assert.Greater(t, north.MaxLon-north.MinLon, equator.MaxLon-equator.MinLon)
		assert.InDelta(t, equator.MaxLat-equator.MinLat, north.MaxLat-north.MinLat, 1e-9)
	})

	t.Run("clamps latitude at the poles", func(t *testing.T) {
		box := NewBoundingBox(89.999, 0, 5000)

		assert.Equal(t, 90.0, box.MaxLat)
		assert.Equal(t, 180.0, box.MaxLon)
		assert.Equal(t, -180.0, box.MinLon)
	})
}

func TestPlanarProxy(t *testing.T) {
	// Ordering must agree with true distance for nearby points.
	near := PlanarProxy(45.0, -122.5, 45.001, -122.5)
	far := PlanarProxy(45.0, -122.5, 45.004, -122.502)

	assert.Less(t, near, far)
	assert.Equal(t, 0.0, PlanarProxy(45.0, -122.5, 45.0, -122.5))
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		want bool
	}{
		{"typical point", 45.52, -122.68, true},
		{"boundary north pole", 90, 0, true},
		{"boundary antimeridian", 0, -180, true},
		{"latitude too large", 90.0001, 0, false},
		{"latitude too small", -90.0001, 0, false},
		{"longitude too large", 0, 180.0001, false},
		{"longitude too small", 0, -180.0001, false},
		{"NaN latitude", math.NaN(), 0, false},
		{"NaN longitude", 0, math.NaN(), false},
		{"infinite latitude", math.Inf(1), 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidCoordinates(tc.lat, tc.lon))
		})
	}
}
