package datago

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// envelope mirrors the data.go.kr response structure:
// response.body.{totalCount,items.item}. Field-level irregularities default
// safely; only a structurally invalid body is an error.
type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      itemList `json:"items"`
			TotalCount flexInt  `json:"totalCount"`
			PageNo     flexInt  `json:"pageNo"`
			NumOfRows  flexInt  `json:"numOfRows"`
		} `json:"body"`
	} `json:"response"`
}

// Item is one raw bulletin record. Every field tolerates both string and
// number encodings; upstream mixes them between records.
type Item struct {
	TypSeq  flexString `json:"typSeq"`
	TypName flexString `json:"typName"`
	TypEn   flexString `json:"typEn"`
	TypTm   flexString `json:"typTm"`
	TypLat  flexString `json:"typLat"`
	TypLon  flexString `json:"typLon"`
	TypDir  flexString `json:"typDir"`
	TypSp   flexString `json:"typSp"`
	TypPs   flexString `json:"typPs"`
	TypWs   flexString `json:"typWs"`
	TypLoc  flexString `json:"typLoc"`
	TmFc    flexString `json:"tmFc"`
	TmSeq   flexString `json:"tmSeq"`
}

// Page is one parsed page of bulletin records.
type Page struct {
	TotalCount int
	Items      []Item
}

// itemList coerces the upstream "items" container: an array of records, a
// single bare record when the page has exactly one, or an empty string/null
// when the page has none.
type itemList struct {
	Items []Item
}

func (l *itemList) UnmarshalJSON(data []byte) error {
	l.Items = nil

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		return nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil
	}

	raw := bytes.TrimSpace(wrapper.Item)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '[' {
		var items []Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		l.Items = items
		return nil
	}

	var single Item
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil
	}
	l.Items = []Item{single}
	return nil
}

// flexString accepts JSON strings, numbers, and booleans, holding the text
// form. Any other shape decodes to the empty string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = flexString(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		*f = ""
		return nil
	}
	*f = flexString(data)
	return nil
}

// flexInt accepts JSON numbers and numeric strings, defaulting to zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = 0
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	}

	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	// Some payloads serialize counts as floats.
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(v))
	}
	return nil
}
