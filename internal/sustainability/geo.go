package sustainability

import "math"

// earthRadiusKm is the mean Earth radius used by the Haversine formula.
const earthRadiusKm = 6371

// Distance returns the great-circle distance between two coordinates in
// kilometers. Symmetric, and zero for identical points. Out-of-range
// coordinates pass through the trigonometry unvalidated; callers check
// ranges at the boundary.
func Distance(origin, destination Coordinate) float64 {
	phi1 := radians(origin.Lat)
	phi2 := radians(destination.Lat)
	deltaPhi := radians(destination.Lat - origin.Lat)
	deltaLambda := radians(destination.Long - origin.Long)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
