package datago

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_ItemArray(t *testing.T) {
	body := []byte(`{"response":{"header":{"resultCode":"00","resultMsg":"NORMAL_SERVICE"},"body":{"items":{"item":[{"typSeq":"5","typName":"메아리","typEn":"MEARI","typTm":"202506150600"},{"typSeq":5,"typTm":"202506151200"}]},"totalCount":2,"pageNo":1,"numOfRows":100}}}`)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))

	assert.Equal(t, 2, int(env.Response.Body.TotalCount))
	require.Len(t, env.Response.Body.Items.Items, 2)
	assert.Equal(t, "메아리", string(env.Response.Body.Items.Items[0].TypName))
	assert.Equal(t, "5", string(env.Response.Body.Items.Items[1].TypSeq), "numeric typSeq coerced to text")
}

func TestEnvelope_SingleBareItem(t *testing.T) {
	body := []byte(`{"response":{"body":{"items":{"item":{"typSeq":"7","typName":"독수리"}},"totalCount":"1"}}}`)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))

	assert.Equal(t, 1, int(env.Response.Body.TotalCount), "string totalCount coerced")
	require.Len(t, env.Response.Body.Items.Items, 1)
	assert.Equal(t, "독수리", string(env.Response.Body.Items.Items[0].TypName))
}

func TestEnvelope_EmptyItems(t *testing.T) {
	for _, body := range []string{
		`{"response":{"body":{"items":"","totalCount":0}}}`,
		`{"response":{"body":{"items":null,"totalCount":0}}}`,
		`{"response":{"body":{"items":{},"totalCount":0}}}`,
		`{"response":{"body":{"items":{"item":null},"totalCount":0}}}`,
		`{"response":{"body":{}}}`,
	} {
		var env envelope
		require.NoError(t, json.Unmarshal([]byte(body), &env), "body %s", body)
		assert.Empty(t, env.Response.Body.Items.Items, "body %s", body)
		assert.Zero(t, int(env.Response.Body.TotalCount))
	}
}

func TestEnvelope_MalformedFieldsDefault(t *testing.T) {
	body := []byte(`{"response":{"body":{"items":{"item":[{"typSeq":{"nested":"object"},"typLat":12.3,"typLon":"130.1"}]},"totalCount":"many"}}}`)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))

	assert.Zero(t, int(env.Response.Body.TotalCount), "non-numeric count defaults to zero")
	require.Len(t, env.Response.Body.Items.Items, 1)
	item := env.Response.Body.Items.Items[0]
	assert.Empty(t, string(item.TypSeq), "object-valued field defaults to empty")
	assert.Equal(t, "12.3", string(item.TypLat))
	assert.Equal(t, "130.1", string(item.TypLon))
}

func TestFlexInt_FloatCount(t *testing.T) {
	var f flexInt
	require.NoError(t, json.Unmarshal([]byte(`150.0`), &f))
	assert.Equal(t, 150, int(f))
}
