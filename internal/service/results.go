package service

import "github.com/couchcryptid/typhoon-info-service/internal/domain"

// DateRange echoes the dates a query actually covered, as YYYY-MM-DD strings.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LatestPoint is the most recent track point of the most relevant typhoon,
// with the timestamp rendered human-readably.
type LatestPoint struct {
	Time      string  `json:"time"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Location  string  `json:"typLoc,omitempty"`
	WindSpeed string  `json:"typWs,omitempty"`
	Pressure  string  `json:"typPs,omitempty"`
}

// GeocodedLocation pairs the caller's raw location string with the resolved
// approximate center coordinate.
type GeocodedLocation struct {
	Input string  `json:"input"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// LiveSummary is the response of the live-typhoon query.
type LiveSummary struct {
	HasActiveTyphoon bool                     `json:"has_active_typhoon"`
	Message          string                   `json:"message,omitempty"`
	Typhoon          *domain.TyphoonSummary   `json:"typhoon,omitempty"`
	LatestPoint      *LatestPoint             `json:"latest_point,omitempty"`
	Location         *GeocodedLocation        `json:"location,omitempty"`
	Proximity        *domain.ProximitySummary `json:"proximity,omitempty"`
	RangeUsed        DateRange                `json:"data_range_used"`
	Disclaimer       string                   `json:"disclaimer,omitempty"`
}

// SearchResult is the response of the past-typhoon search. OK is false for
// invalid caller input, with Message explaining why; that is a normal outcome
// path, not an error.
type SearchResult struct {
	OK      bool                    `json:"ok"`
	Message string                  `json:"message,omitempty"`
	Query   string                  `json:"query,omitempty"`
	Year    *int                    `json:"year,omitempty"`
	Results []domain.TyphoonSummary `json:"results"`
	Hint    string                  `json:"hint,omitempty"`
}

// TrackResult is the response of the past-track query.
type TrackResult struct {
	OK             bool                `json:"ok"`
	Message        string              `json:"message,omitempty"`
	SequenceNumber int                 `json:"typSeq"`
	Range          *DateRange          `json:"range,omitempty"`
	Count          int                 `json:"count"`
	Points         []domain.TrackPoint `json:"points"`
	Disclaimer     string              `json:"disclaimer,omitempty"`
}
