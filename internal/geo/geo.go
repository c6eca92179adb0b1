// Package geo provides the small set of geodesic helpers used by the
// duplicate locator: great-circle distance, bounding boxes for index range
// scans, and a cheap planar ordering proxy.
package geo

import "math"

const (
	earthRadiusMeters = 6371000.0

	// metersPerDegreeLat is the approximate length of one degree of
	// latitude. Longitude degrees shrink by cos(latitude).
	metersPerDegreeLat = 111320.0
)

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine returns the great-circle distance in meters between two WGS84
// points. Symmetric in its arguments.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// BoundingBox is an axis-aligned region in WGS84 degrees.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Contains reports whether the point lies inside the box, borders included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// NewBoundingBox returns the smallest axis-aligned box that encloses the
// circle of radiusMeters around (lat, lon). The longitude delta widens with
// latitude; near the poles it degrades to the full longitude span rather
// than dividing by a vanishing cosine. Latitude bounds are clamped to
// [-90, 90].
func NewBoundingBox(lat, lon, radiusMeters float64) BoundingBox {
	latDelta := radiusMeters / metersPerDegreeLat

	lonDelta := 180.0
	if cosLat := math.Cos(toRadians(lat)); cosLat > 1e-6 {
		lonDelta = radiusMeters / (metersPerDegreeLat * cosLat)
		if lonDelta > 180.0 {
			lonDelta = 180.0
		}
	}

	return BoundingBox{
		MinLat: math.Max(lat-latDelta, -90.0),
		MaxLat: math.Min(lat+latDelta, 90.0),
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}

// PlanarProxy returns a squared-degrees distance between two points, with
// the longitude axis scaled by cos(latitude) of the reference point. Only
// useful as an ordering key over short distances; for a real distance use
// Haversine.
func PlanarProxy(refLat, refLon, lat, lon float64) float64 {
	dLat := lat - refLat
	dLon := (lon - refLon) * math.Cos(toRadians(refLat))
	return dLat*dLat + dLon*dLon
}

// ValidCoordinates reports whether (lat, lon) is a usable WGS84 position:
// finite and inside [-90, 90] x [-180, 180].
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90.0 && lat <= 90.0 && lon >= -180.0 && lon <= 180.0
}
