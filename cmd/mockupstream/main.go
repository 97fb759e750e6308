// Command mockupstream serves a local stand-in for the data.go.kr
// TyphoonInfoService so the query service can be developed without a real
// service key. It emits the upstream JSON envelope with a synthetic typhoon
// whose bulletins span the requested date range, paginated the same way the
// real API paginates.
//
// Usage:
//
//	go run ./cmd/mockupstream -addr :9090
//	UPSTREAM_BASE_URL=http://localhost:9090/getTyphoonInfo \
//	  DATA_GO_KR_SERVICE_KEY=dev go run ./cmd/server
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

type item struct {
	TypSeq  string `json:"typSeq"`
	TypName string `json:"typName"`
	TypEn   string `json:"typEn"`
	TypTm   string `json:"typTm"`
	TypLat  string `json:"typLat"`
	TypLon  string `json:"typLon"`
	TypDir  string `json:"typDir"`
	TypSp   string `json:"typSp"`
	TypPs   string `json:"typPs"`
	TypWs   string `json:"typWs"`
	TypLoc  string `json:"typLoc"`
	TmFc    string `json:"tmFc"`
	TmSeq   string `json:"tmSeq"`
}

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	seq := flag.Int("seq", 7, "typhoon sequence number to emit")
	name := flag.String("name", "나리", "typhoon name (Korean)")
	nameEn := flag.String("name-en", "NARI", "typhoon name (international)")
	flag.Parse()

	http.HandleFunc("/getTyphoonInfo", func(w http.ResponseWriter, r *http.Request) {
		handleTyphoonInfo(w, r, *seq, *name, *nameEn)
	})

	log.Printf("mock TyphoonInfoService listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

func handleTyphoonInfo(w http.ResponseWriter, r *http.Request, seq int, name, nameEn string) {
	q := r.URL.Query()
	if q.Get("serviceKey") == "" {
		http.Error(w, "SERVICE_KEY_IS_NOT_REGISTERED_ERROR", http.StatusUnauthorized)
		return
	}

	pageNo := intParam(q.Get("pageNo"), 1)
	numOfRows := intParam(q.Get("numOfRows"), 10)

	from, err := time.Parse("20060102", q.Get("fromTmFc"))
	if err != nil {
		from = time.Now().UTC().AddDate(0, 0, -3)
	}
	to, err := time.Parse("20060102", q.Get("toTmFc"))
	if err != nil {
		to = time.Now().UTC()
	}

	all := synthesizeTrack(seq, name, nameEn, from, to)

	start := (pageNo - 1) * numOfRows
	end := start + numOfRows
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	page := all[start:end]

	log.Printf("getTyphoonInfo from=%s to=%s page=%d rows=%d -> %d of %d items",
		q.Get("fromTmFc"), q.Get("toTmFc"), pageNo, numOfRows, len(page), len(all))

	writeEnvelope(w, page, len(all), pageNo, numOfRows)
}

// synthesizeTrack emits a 6-hourly track moving north-northeast from the
// Philippine Sea toward Jeju, one bulletin per step across the range.
func synthesizeTrack(seq int, name, nameEn string, from, to time.Time) []item {
	var items []item
	lat, lon := 22.0, 129.0
	pressure, wind := 960, 38.0

	for t := from; !t.After(to); t = t.Add(6 * time.Hour) {
		items = append(items, item{
			TypSeq:  strconv.Itoa(seq),
			TypName: name,
			TypEn:   nameEn,
			TypTm:   t.Format("200601021504"),
			TypLat:  fmt.Sprintf("%.1f", lat),
			TypLon:  fmt.Sprintf("%.1f", lon),
			TypDir:  "NNE",
			TypSp:   "22",
			TypPs:   strconv.Itoa(pressure),
			TypWs:   fmt.Sprintf("%.0f", wind),
			TypLoc:  "제주 남쪽 해상",
			TmFc:    t.Format("200601021504"),
			TmSeq:   strconv.Itoa(len(items) + 1),
		})
		lat += 0.8
		lon -= 0.2
		if pressure < 990 {
			pressure += 2
		}
		if wind > 20 {
			wind -= 0.5
		}
	}
	return items
}

func writeEnvelope(w http.ResponseWriter, items []item, totalCount, pageNo, numOfRows int) {
	type body struct {
		Items      any `json:"items"`
		TotalCount int `json:"totalCount"`
		PageNo     int `json:"pageNo"`
		NumOfRows  int `json:"numOfRows"`
	}
	type header struct {
		ResultCode string `json:"resultCode"`
		ResultMsg  string `json:"resultMsg"`
	}
	type response struct {
		Header header `json:"header"`
		Body   body   `json:"body"`
	}

	// The real API sends an empty string for items when a page is empty,
	// and a bare object instead of an array when it has exactly one.
	var wrapped any
	switch len(items) {
	case 0:
		wrapped = ""
	case 1:
		wrapped = map[string]any{"item": items[0]}
	default:
		wrapped = map[string]any{"item": items}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]response{
		"response": {
			Header: header{ResultCode: "00", ResultMsg: "NORMAL_SERVICE"},
			Body: body{
				Items:      wrapped,
				TotalCount: totalCount,
				PageNo:     pageNo,
				NumOfRows:  numOfRows,
			},
		},
	})
}

func intParam(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
