package commute

import (
	"math"
	"strings"

	"talent-match/internal/domain/profile"
)

// Infeasible marks a trip that cannot be made with the requested mode.
const Infeasible = -1.0

const (
	earthRadiusKm     = 6371.0
	unknownDistanceKm = 400.0
)

// sameLocalityMinutes holds the assumed in-town trip length per mode.
var sameLocalityMinutes = map[profile.CommuteMode]float64{
	profile.CommuteDriving:   20,
	profile.CommuteTransit:   30,
	profile.CommuteBicycling: 40,
	profile.CommuteWalking:   90,
}

// modeSpeedKmh is the assumed average speed per mode. Modes with a
// distance cap become infeasible past it.
var modeSpeedKmh = map[profile.CommuteMode]float64{
	profile.CommuteDriving:   70,
	profile.CommuteTransit:   50,
	profile.CommuteBicycling: 15,
	profile.CommuteWalking:   5,
}

var modeDistanceCapKm = map[profile.CommuteMode]float64{
	profile.CommuteBicycling: 30,
	profile.CommuteWalking:   10,
}

// localEstimate is the deterministic fallback used whenever the network
// provider is absent or failing. It never errors.
func localEstimate(origin, destination profile.Location, mode profile.CommuteMode) float64 {
	if _, ok := modeSpeedKmh[mode]; !ok {
		mode = profile.CommuteDriving
	}

	if sameLocality(origin, destination) {
		return sameLocalityMinutes[mode]
	}

	distance := unknownDistanceKm
	if origin.HasCoords && destination.HasCoords {
		distance = haversineKm(origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	}

	if cap, ok := modeDistanceCapKm[mode]; ok && distance > cap {
		return Infeasible
	}

	return distance / modeSpeedKmh[mode] * 60.0
}

func sameLocality(a, b profile.Location) bool {
	la := strings.ToLower(strings.TrimSpace(a.Locality))
	lb := strings.ToLower(strings.TrimSpace(b.Locality))
	return la != "" && la == lb
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
