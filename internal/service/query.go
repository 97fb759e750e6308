// Package service answers typhoon queries by combining the upstream client,
// the geocoder, and the nearest-approach computation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/typhoon-info-service/internal/domain"
	"github.com/couchcryptid/typhoon-info-service/internal/geo"
)

// ErrNotConfigured is returned by every operation when the service was
// constructed without an upstream client (DATA_GO_KR_SERVICE_KEY unset).
var ErrNotConfigured = errors.New("typhoon data client is not configured: set DATA_GO_KR_SERVICE_KEY")

// TyphoonClient is the upstream read interface the service depends on.
type TyphoonClient interface {
	ListUniqueTyphoons(ctx context.Context, from, to time.Time) ([]domain.TyphoonSummary, error)
	GetTrackPoints(ctx context.Context, seq int, from, to time.Time) ([]domain.TrackPoint, error)
}

// BulletinPublisher emits observed typhoon bulletins to downstream consumers.
type BulletinPublisher interface {
	PublishBulletin(ctx context.Context, summary domain.TyphoonSummary, point domain.TrackPoint) error
}

// Options are the query window knobs, in days/years relative to today.
type Options struct {
	RecentDaysBack    int // live-summary listing window start
	RecentDaysForward int // live-summary listing window end
	TrackDaysBack     int // expanded track window start
	TrackDaysForward  int // expanded track window end
	SearchYearsBack   int // how many calendar years a search scans
	SearchMaxResults  int
}

func (o Options) withDefaults() Options {
	if o.RecentDaysBack <= 0 {
		o.RecentDaysBack = 3
	}
	if o.RecentDaysForward <= 0 {
		o.RecentDaysForward = 1
	}
	if o.TrackDaysBack <= 0 {
		o.TrackDaysBack = 7
	}
	if o.TrackDaysForward <= 0 {
		o.TrackDaysForward = 2
	}
	if o.SearchYearsBack <= 0 {
		o.SearchYearsBack = 9
	}
	if o.SearchMaxResults <= 0 {
		o.SearchMaxResults = 20
	}
	return o
}

// Default window when a past-track query omits its date range.
const (
	trackDefaultDaysBack    = 30
	trackDefaultDaysForward = 1
)

// searchYearFloor is the oldest calendar year a name search will scan.
const searchYearFloor = 1950

const (
	liveDisclaimer = "Closest-approach times are simple estimates from bulletin coordinates. Check the latest KMA typhoon advisories for authoritative landfall and passage times."

	trackDisclaimer = "Points come from public-data portal typhoon bulletins and may differ from the best track."

	searchHint = "Call get_past_typhoon_track with a result's typSeq to fetch its track points."
)

// Service implements the three query operations. A nil client is the typed
// not-configured state; operations then fail with ErrNotConfigured instead of
// panicking at startup.
type Service struct {
	client    TyphoonClient
	geocoder  *geo.Geocoder
	publisher BulletinPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
	opts      Options
}

// New creates a Service. client may be nil (not configured); publisher may be
// nil (publishing disabled); a nil clock uses real time.
func New(client TyphoonClient, geocoder *geo.Geocoder, publisher BulletinPublisher, clock clockwork.Clock, logger *slog.Logger, opts Options) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		client:    client,
		geocoder:  geocoder,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		opts:      opts.withDefaults(),
	}
}

// LiveSummary reports the current or nearest typhoon within a recent window,
// and, when a location geocodes, how close the track comes to it.
func (s *Service) LiveSummary(ctx context.Context, location string) (*LiveSummary, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	today := s.clock.Now()
	from := today.AddDate(0, 0, -s.opts.RecentDaysBack)
	to := today.AddDate(0, 0, s.opts.RecentDaysForward)
	rangeUsed := DateRange{From: from.Format(time.DateOnly), To: to.Format(time.DateOnly)}

	typhoons, err := s.client.ListUniqueTyphoons(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if len(typhoons) == 0 {
		return &LiveSummary{
			HasActiveTyphoon: false,
			Message:          "no typhoon bulletins found within the recent query window",
			RangeUsed:        rangeUsed,
		}, nil
	}

	// The listing is sorted by recency, so the first summary is the most relevant.
	most := typhoons[0]

	// Track points are announcement-based, so search an expanded window to
	// catch bulletins issued outside the narrow listing window.
	points, err := s.client.GetTrackPoints(ctx, most.SequenceNumber,
		today.AddDate(0, 0, -s.opts.TrackDaysBack),
		today.AddDate(0, 0, s.opts.TrackDaysForward))
	if err != nil {
		return nil, err
	}

	out := &LiveSummary{
		HasActiveTyphoon: true,
		Typhoon:          &most,
		RangeUsed:        rangeUsed,
		Disclaimer:       liveDisclaimer,
	}

	if len(points) > 0 {
		last := points[len(points)-1]
		out.LatestPoint = &LatestPoint{
			Time:      domain.FormatBulletinTime(last.Timestamp),
			Lat:       last.Lat,
			Lon:       last.Lon,
			Location:  last.Location,
			WindSpeed: last.WindSpeed,
			Pressure:  last.Pressure,
		}
	}

	if location != "" {
		if coord, ok := s.geocoder.Geocode(location); ok {
			out.Location = &GeocodedLocation{Input: location, Lat: coord.Lat, Lon: coord.Lon}
			if len(points) > 0 {
				proximity := domain.NearestApproach(points, coord.Lat, coord.Lon)
				out.Proximity = &proximity
			}
		}
	}

	if s.publisher != nil && len(points) > 0 {
		if err := s.publisher.PublishBulletin(ctx, most, points[len(points)-1]); err != nil {
			s.logger.Warn("bulletin publish failed", "typSeq", most.SequenceNumber, "error", err)
		}
	}

	return out, nil
}

// SearchPastTyphoons finds past typhoons by name fragment and/or year. With
// no explicit year, calendar years are scanned backward from the current year
// and the scan stops at the first year yielding a match.
func (s *Service) SearchPastTyphoons(ctx context.Context, query string, year *int) (*SearchResult, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	q := strings.TrimSpace(query)
	if q == "" && year == nil {
		return &SearchResult{OK: false, Message: "either query or year is required"}, nil
	}

	var years []int
	if year != nil {
		years = []int{*year}
	} else {
		currentYear := s.clock.Now().Year()
		floor := currentYear - s.opts.SearchYearsBack
		if floor < searchYearFloor {
			floor = searchYearFloor
		}
		for y := currentYear; y >= floor; y-- {
			years = append(years, y)
		}
	}

	qLower := strings.ToLower(q)
	var matches []domain.TyphoonSummary
	for _, y := range years {
		from := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC)
		typhoons, err := s.client.ListUniqueTyphoons(ctx, from, to)
		if err != nil {
			return nil, err
		}

		for _, t := range typhoons {
			if q == "" ||
				strings.Contains(t.NameLocal, q) ||
				strings.Contains(strings.ToLower(t.NameInternational), qLower) {
				matches = append(matches, t)
			}
		}

		if len(matches) > 0 && year == nil {
			break
		}
	}

	if len(matches) > s.opts.SearchMaxResults {
		matches = matches[:s.opts.SearchMaxResults]
	}

	return &SearchResult{
		OK:      true,
		Query:   q,
		Year:    year,
		Results: matches,
		Hint:    searchHint,
	}, nil
}

// PastTrack returns the track points for a typhoon sequence number. Without
// an explicit range it tries a near-term window first, then scans whole
// calendar years backward until one yields points.
func (s *Service) PastTrack(ctx context.Context, seq int, fromDate, toDate string) (*TrackResult, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	if seq <= 0 {
		return &TrackResult{OK: false, SequenceNumber: seq, Message: "typSeq must be a positive integer"}, nil
	}

	explicit := fromDate != "" && toDate != ""
	var from, to time.Time
	if explicit {
		var err error
		from, err = time.Parse(domain.QueryDateLayout, fromDate)
		if err != nil {
			return &TrackResult{OK: false, SequenceNumber: seq, Message: "from date must use YYYYMMDD"}, nil
		}
		to, err = time.Parse(domain.QueryDateLayout, toDate)
		if err != nil {
			return &TrackResult{OK: false, SequenceNumber: seq, Message: "to date must use YYYYMMDD"}, nil
		}
	} else {
		today := s.clock.Now()
		from = today.AddDate(0, 0, -trackDefaultDaysBack)
		to = today.AddDate(0, 0, trackDefaultDaysForward)
	}

	points, err := s.client.GetTrackPoints(ctx, seq, from, to)
	if err != nil {
		return nil, err
	}

	if len(points) == 0 && !explicit {
		currentYear := s.clock.Now().Year()
		for y := currentYear; y > currentYear-s.opts.SearchYearsBack; y-- {
			yearFrom := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
			yearTo := time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC)
			points, err = s.client.GetTrackPoints(ctx, seq, yearFrom, yearTo)
			if err != nil {
				return nil, err
			}
			if len(points) > 0 {
				from, to = yearFrom, yearTo
				break
			}
		}
	}

	return &TrackResult{
		OK:             true,
		SequenceNumber: seq,
		Range:          &DateRange{From: from.Format(time.DateOnly), To: to.Format(time.DateOnly)},
		Count:          len(points),
		Points:         points,
		Disclaimer:     trackDisclaimer,
	}, nil
}
