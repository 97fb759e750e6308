// Package domain models Korea Meteorological Administration (KMA) typhoon
// bulletin data as published on the public-data portal (data.go.kr).
//
// # Data Source
//
// Bulletins come from the TyphoonInfoService endpoint at
// https://apis.data.go.kr/1360000/TyphoonInfoService/getTyphoonInfo. Each
// record is one published typhoon-position announcement for a specific
// timestamp. A typhoon's whole lifecycle is grouped by its sequence number
// ("typSeq"); all bulletins sharing that number describe the same typhoon.
//
// # Upstream Conventions
//
// Timestamps:
//
//	Bulletin timestamps ("typTm") use YYYYMMDDHHMM in KST,
//	e.g. "201709031600" = 2017-09-03 16:00. Query date ranges use YYYYMMDD.
//
// Coordinates:
//
//	"typLat"/"typLon" are decimal degrees serialized as strings or numbers
//	depending on the record. Records whose coordinates fail to parse are
//	dropped from track results rather than aborting the page.
//
// Envelope quirks:
//
//	The items container holds an array of records, or a single bare object
//	when the page has exactly one record. Counts and numeric fields arrive
//	as either JSON numbers or strings. Missing counts default to zero and
//	missing item lists to empty; these are normal upstream variations, not
//	errors.
//
// # Impact Window
//
// The impact window produced by [NearestApproach] is a heuristic ±6-hour
// range around the closest recorded approach point to a location. It is
// derived purely from published positions and is not a forecast.
package domain
