package domain

import (
	"math"
	"time"
)

const earthRadiusKm = 6371.0

// impactWindowHalf is the heuristic spread around the closest approach time.
const impactWindowHalf = 6 * time.Hour

// HaversineKm returns the great-circle distance in kilometers between two
// WGS-84 coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// ClosestPoint describes the track point nearest to a target location.
type ClosestPoint struct {
	Time       string  `json:"time"`
	DistanceKm float64 `json:"distance_km"`
	TyphoonLat float64 `json:"typhoon_lat"`
	TyphoonLon float64 `json:"typhoon_lon"`
	Location   string  `json:"typLoc,omitempty"`
}

// ImpactWindow is the heuristic ±6-hour range around the closest approach
// time. It is not a forecast.
type ImpactWindow struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Center string `json:"center"`
}

// ProximitySummary pairs the nearest track point with its impact window.
// Both fields are nil when no closest point could be determined.
type ProximitySummary struct {
	Closest      *ClosestPoint `json:"closest"`
	ImpactWindow *ImpactWindow `json:"impact_window"`
}

// NearestApproach scans points in their time order and keeps the minimum
// haversine distance to the target; the first minimum wins on ties. An empty
// point list yields a summary with nil Closest. The impact window is omitted
// when the closest point's timestamp does not parse.
func NearestApproach(points []TrackPoint, targetLat, targetLon float64) ProximitySummary {
	var best *TrackPoint
	bestDist := 0.0
	for i := range points {
		dist := HaversineKm(targetLat, targetLon, points[i].Lat, points[i].Lon)
		if best == nil || dist < bestDist {
			best = &points[i]
			bestDist = dist
		}
	}

	if best == nil {
		return ProximitySummary{}
	}

	summary := ProximitySummary{
		Closest: &ClosestPoint{
			Time:       FormatBulletinTime(best.Timestamp),
			DistanceKm: math.Round(bestDist*10) / 10,
			TyphoonLat: best.Lat,
			TyphoonLon: best.Lon,
			Location:   best.Location,
		},
	}

	if center, ok := ParseBulletinTime(best.Timestamp); ok {
		summary.ImpactWindow = &ImpactWindow{
			Start:  center.Add(-impactWindowHalf).Format(HumanTimeLayout),
			End:    center.Add(impactWindowHalf).Format(HumanTimeLayout),
			Center: center.Format(HumanTimeLayout),
		}
	}

	return summary
}
