package domain

// TyphoonSummary aggregates every bulletin sharing a sequence number within a
// query range. FirstSeen and LastSeen are the min/max bulletin timestamps
// observed across all merged pages; unparsable timestamps never widen the
// bounds.
type TyphoonSummary struct {
	SequenceNumber    int    `json:"typSeq"`
	NameLocal         string `json:"typName"`
	NameInternational string `json:"typEn"`
	FirstSeen         string `json:"firstTypTm"` // YYYYMMDDHHMM
	LastSeen          string `json:"lastTypTm"`  // YYYYMMDDHHMM
}

// TrackPoint is one parsed bulletin position belonging to a typhoon. Points
// within a track are ordered ascending by timestamp. Direction, speed,
// pressure, and wind speed are carried verbatim from the bulletin.
type TrackPoint struct {
	Timestamp        string  `json:"typTm"` // YYYYMMDDHHMM
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	Direction        string  `json:"typDir,omitempty"`
	Speed            string  `json:"typSp,omitempty"`
	Pressure         string  `json:"typPs,omitempty"`
	WindSpeed        string  `json:"typWs,omitempty"`
	Location         string  `json:"typLoc,omitempty"`
	BulletinIssuedAt string  `json:"tmFc,omitempty"`
	BulletinSequence string  `json:"tmSeq,omitempty"`
}
