package geo

// Coordinate is an approximate WGS-84 region center.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Entry maps a region name to its center coordinate. Table order matters:
// the first entry whose name is contained in the input wins.
type Entry struct {
	Name   string
	Center Coordinate
}

// DefaultTable returns the built-in Korean region centers: the special and
// metropolitan cities, the provinces, and a few frequently queried cities.
// Province-level centers are rough; district-level precision is out of scope.
func DefaultTable() []Entry {
	return []Entry{
		// Special/metropolitan cities.
		{Name: "서울", Center: Coordinate{Lat: 37.5665, Lon: 126.9780}},
		{Name: "부산", Center: Coordinate{Lat: 35.1796, Lon: 129.0756}},
		{Name: "대구", Center: Coordinate{Lat: 35.8714, Lon: 128.6014}},
		{Name: "인천", Center: Coordinate{Lat: 37.4563, Lon: 126.7052}},
		{Name: "광주", Center: Coordinate{Lat: 35.1595, Lon: 126.8526}},
		{Name: "대전", Center: Coordinate{Lat: 36.3504, Lon: 127.3845}},
		{Name: "울산", Center: Coordinate{Lat: 35.5384, Lon: 129.3114}},
		{Name: "세종", Center: Coordinate{Lat: 36.4800, Lon: 127.2890}},

		// Provinces.
		{Name: "경기", Center: Coordinate{Lat: 37.4138, Lon: 127.5183}},
		{Name: "강원", Center: Coordinate{Lat: 37.8228, Lon: 128.1555}},
		{Name: "충북", Center: Coordinate{Lat: 36.6357, Lon: 127.4912}},
		{Name: "충남", Center: Coordinate{Lat: 36.5184, Lon: 126.8000}},
		{Name: "전북", Center: Coordinate{Lat: 35.7175, Lon: 127.1530}},
		{Name: "전남", Center: Coordinate{Lat: 34.8161, Lon: 126.4630}},
		{Name: "경북", Center: Coordinate{Lat: 36.4919, Lon: 128.8889}},
		{Name: "경남", Center: Coordinate{Lat: 35.4606, Lon: 128.2132}},
		{Name: "제주", Center: Coordinate{Lat: 33.4996, Lon: 126.5312}},

		// Frequently queried cities.
		{Name: "제주시", Center: Coordinate{Lat: 33.4996, Lon: 126.5312}},
		{Name: "서귀포", Center: Coordinate{Lat: 33.2541, Lon: 126.5601}},
	}
}
