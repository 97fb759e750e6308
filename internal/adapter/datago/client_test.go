package datago

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/typhoon-info-service/internal/cache"
	"github.com/couchcryptid/typhoon-info-service/internal/domain"
	"github.com/couchcryptid/typhoon-info-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServiceKey = "test-key"

func testClient(baseURL string, maxPages, pageSize int) *Client {
	return NewClient(
		testServiceKey,
		baseURL,
		5*time.Second,
		maxPages,
		pageSize,
		cache.New[*Page](time.Minute, nil),
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

// pageBody builds a data.go.kr response envelope for tests.
func pageBody(t *testing.T, totalCount int, items any) []byte {
	t.Helper()
	body := map[string]any{
		"response": map[string]any{
			"header": map[string]any{"resultCode": "00", "resultMsg": "NORMAL_SERVICE"},
			"body": map[string]any{
				"items":      map[string]any{"item": items},
				"totalCount": totalCount,
			},
		},
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return data
}

func bulletin(seq, name, nameEn, tm, lat, lon string) map[string]any {
	return map[string]any{
		"typSeq": seq, "typName": name, "typEn": nameEn, "typTm": tm,
		"typLat": lat, "typLon": lon, "typLoc": "제주 남쪽 해상",
	}
}

func TestFetchPage_SendsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, testServiceKey, q.Get("serviceKey"))
		assert.Equal(t, "JSON", q.Get("dataType"))
		assert.Equal(t, "20250601", q.Get("fromTmFc"))
		assert.Equal(t, "20250630", q.Get("toTmFc"))
		assert.Equal(t, "1", q.Get("pageNo"))
		assert.Equal(t, "100", q.Get("numOfRows"))
		_, _ = w.Write(pageBody(t, 0, nil))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	page, err := c.FetchPage(context.Background(), "20250601", "20250630", 1, 100)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)
}

func TestFetchPage_CachesParsedPage(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write(pageBody(t, 1, []any{bulletin("5", "메아리", "MEARI", "202506150600", "22.5", "128.1")}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)

	first, err := c.FetchPage(context.Background(), "20250601", "20250630", 1, 100)
	require.NoError(t, err)
	second, err := c.FetchPage(context.Background(), "20250601", "20250630", 1, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second fetch is served from the cache")
	assert.Same(t, first, second)

	// A different composite key misses the cache.
	_, err = c.FetchPage(context.Background(), "20250601", "20250630", 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchPage_HTTPErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("SERVICE ERROR"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	_, err := c.FetchPage(context.Background(), "20250601", "20250630", 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchPage_InvalidJSONIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	_, err := c.FetchPage(context.Background(), "20250601", "20250630", 1, 100)
	assert.Error(t, err)
}

func TestListUniqueTyphoons_MergesAcrossPages(t *testing.T) {
	pages := map[string][]byte{
		"1": pageBody(t, 150, []any{
			bulletin("5", "메아리", "MEARI", "202506150600", "22.5", "128.1"),
			bulletin("6", "독수리", "DOKSURI", "202506200000", "20.1", "130.5"),
		}),
		"2": pageBody(t, 150, []any{
			bulletin("5", "메아리", "MEARI", "202506140000", "21.0", "127.0"),
			bulletin("5", "메아리", "MEARI", "202506160000", "24.0", "129.0"),
		}),
	}
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNo := r.URL.Query().Get("pageNo")
		requested = append(requested, pageNo)
		_, _ = w.Write(pages[pageNo])
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	got, err := c.ListUniqueTyphoons(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, requested, "totalCount=150 at pageSize=100 stops after page 2")
	require.Len(t, got, 2)

	// Sorted descending by last-seen: typhoon 6 (06-20) before typhoon 5 (06-16).
	assert.Equal(t, 6, got[0].SequenceNumber)
	assert.Equal(t, 5, got[1].SequenceNumber)

	// Bounds widened across pages.
	assert.Equal(t, "202506140000", got[1].FirstSeen)
	assert.Equal(t, "202506160000", got[1].LastSeen)
	assert.Equal(t, "메아리", got[1].NameLocal)
	assert.Equal(t, "MEARI", got[1].NameInternational)
}

func TestListUniqueTyphoons_FirstSeenNeverAfterLastSeen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pageBody(t, 3, []any{
			bulletin("9", "난마돌", "NANMADOL", "202209170000", "30.0", "128.0"),
			bulletin("9", "난마돌", "NANMADOL", "202209150000", "27.0", "129.0"),
			bulletin("9", "난마돌", "NANMADOL", "202209160000", "28.5", "128.5"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	got, err := c.ListUniqueTyphoons(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)

	first, ok := domain.ParseBulletinTime(got[0].FirstSeen)
	require.True(t, ok)
	last, ok := domain.ParseBulletinTime(got[0].LastSeen)
	require.True(t, ok)
	assert.False(t, first.After(last))
}

func TestListUniqueTyphoons_SkipsBlankAndNonNumericSeq(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pageBody(t, 3, []any{
			bulletin("", "이름없음", "", "202506150600", "22.5", "128.1"),
			bulletin("abc", "이상함", "ODD", "202506150600", "22.5", "128.1"),
			bulletin("5", "메아리", "MEARI", "202506150600", "22.5", "128.1"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	got, err := c.ListUniqueTyphoons(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].SequenceNumber)
}

func TestListUniqueTyphoons_UnparsableTimestampsSortLast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pageBody(t, 2, []any{
			bulletin("3", "무제", "UNTITLED", "not-a-time", "22.5", "128.1"),
			bulletin("4", "메아리", "MEARI", "202506150600", "22.5", "128.1"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	got, err := c.ListUniqueTyphoons(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].SequenceNumber)
	assert.Equal(t, 3, got[1].SequenceNumber, "summary without a parsed timestamp sorts last")
}

func TestListUniqueTyphoons_UnparsableTimestampNeverWidensBounds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pageBody(t, 3, []any{
			bulletin("5", "메아리", "MEARI", "202506150600", "22.5", "128.1"),
			bulletin("5", "메아리", "MEARI", "bogus", "22.5", "128.1"),
			bulletin("5", "메아리", "MEARI", "202506160000", "24.0", "129.0"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	got, err := c.ListUniqueTyphoons(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "202506150600", got[0].FirstSeen)
	assert.Equal(t, "202506160000", got[0].LastSeen)
}

func TestListUniqueTyphoons_EmptyPageStops(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		// totalCount says there is more, but the page comes back empty.
		_, _ = w.Write(pageBody(t, 500, nil))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	got, err := c.ListUniqueTyphoons(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, calls)
}

func TestListUniqueTyphoons_MaxPagesCap(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		seq := strconv.Itoa(calls)
		_, _ = w.Write(pageBody(t, 1_000_000, []any{
			bulletin(seq, "태풍"+seq, "T"+seq, "202506150600", "22.5", "128.1"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 3, 100)
	_, err := c.ListUniqueTyphoons(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestListUniqueTyphoons_TransportErrorAborts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(pageBody(t, 150, []any{
			bulletin("5", "메아리", "MEARI", "202506150600", "22.5", "128.1"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	_, err := c.ListUniqueTyphoons(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err, "a failed page aborts the whole aggregation")
}

func TestGetTrackPoints_FiltersAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pageBody(t, 4, []any{
			bulletin("5", "메아리", "MEARI", "202506160000", "24.0", "129.0"),
			bulletin("6", "독수리", "DOKSURI", "202506150600", "20.0", "131.0"),
			bulletin("5", "메아리", "MEARI", "202506150600", "22.5", "128.1"),
			bulletin("5", "메아리", "MEARI", "202506151200", "23.2", "128.5"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	got, err := c.GetTrackPoints(context.Background(), 5, time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)

	require.Len(t, got, 3, "other sequence numbers are filtered out")
	assert.Equal(t, "202506150600", got[0].Timestamp)
	assert.Equal(t, "202506151200", got[1].Timestamp)
	assert.Equal(t, "202506160000", got[2].Timestamp)
	assert.Equal(t, 22.5, got[0].Lat)
	assert.Equal(t, 128.1, got[0].Lon)
	assert.Equal(t, "제주 남쪽 해상", got[0].Location)
}

func TestGetTrackPoints_DropsUnparsableCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pageBody(t, 3, []any{
			bulletin("5", "메아리", "MEARI", "202506150600", "", "128.1"),
			bulletin("5", "메아리", "MEARI", "202506151200", "23.2", "N/A"),
			bulletin("5", "메아리", "MEARI", "202506160000", "24.0", "129.0"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	got, err := c.GetTrackPoints(context.Background(), 5, time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "202506160000", got[0].Timestamp)
}

func TestGetTrackPoints_UnparsableTimestampSortsFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pageBody(t, 2, []any{
			bulletin("5", "메아리", "MEARI", "202506150600", "22.5", "128.1"),
			bulletin("5", "메아리", "MEARI", "unknown", "23.0", "128.4"),
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 20, 100)
	got, err := c.GetTrackPoints(context.Background(), 5, time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "unknown", got[0].Timestamp)
}
