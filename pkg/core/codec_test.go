package core_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga-ut/gh-db/pkg/core"
)

func TestBody_RoundTrip(t *testing.T) {
	cases := []core.Data{
		{},
		{"name": "ana", "age": 31.0, "nickname": nil},
		{"id": 99.0, "unicode": "ünï", "quote": `"x"`},
	}
	for _, d := range cases {
		body, err := core.EncodeBody(d)
		require.NoError(t, err)

		got, err := core.DecodeBody(body, false)
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestEncodeBody_NilIsEmptyObject(t *testing.T) {
	body, err := core.EncodeBody(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", body)
}

func TestEncodeBody_RejectsNonScalars(t *testing.T) {
	for _, v := range []any{true, []string{"a"}, map[string]any{"x": 1}, struct{}{}} {
		_, err := core.EncodeBody(core.Data{"k": v})
		assert.ErrorIs(t, err, core.ErrUnsupportedValue, "value %T", v)
	}
}

func TestEncodeBody_RejectsNonFinite(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), math.Inf(-1), float32(math.Inf(1))} {
		_, err := core.EncodeBody(core.Data{"k": v})
		assert.ErrorIs(t, err, core.ErrUnsupportedValue, "value %v", v)
	}
}

func TestDecodeBody_TrailingWhitespace(t *testing.T) {
	got, err := core.DecodeBody("{\"a\":\"x\"}\n  ", false)
	require.NoError(t, err)
	assert.Equal(t, core.Data{"a": "x"}, got)
}

func TestDecodeBody_Strict(t *testing.T) {
	got, err := core.DecodeBody(`{"big": 9007199254740993}`, true)
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), got["big"])
}

func TestDecodeBody_Malformed(t *testing.T) {
	for _, body := range []string{"", "not json", "[1,2]", "null", `"str"`, `{"a":1} {"b":2}`, `{"a":{"b":1}}`, `{"a":1}}`, `{"a":1}]`, `{"a":1} x`} {
		_, err := core.DecodeBody(body, false)
		assert.Error(t, err, "body %q", body)
	}
}

func TestRecord_MapIDWins(t *testing.T) {
	rec := core.Record{ID: 7, Data: core.Data{"id": "shadowed", "a": 1}}
	m := rec.Map()
	assert.Equal(t, 7, m["id"])
	assert.Equal(t, 1, m["a"])
	assert.Equal(t, "shadowed", rec.Data["id"], "Map must not mutate the payload")
}

func TestCreateInput_Labels(t *testing.T) {
	in := core.CreateInput{Subject: "users", Tags: []string{"admin", "users", "", "admin", "beta"}}
	assert.Equal(t, []string{"users", "admin", "beta"}, in.Labels())
}

func TestRequestError_Sentinels(t *testing.T) {
	notFound := &core.RequestError{Status: 404, Phase: core.PhaseGet}
	assert.ErrorIs(t, notFound, core.ErrNotFound)
	assert.NotErrorIs(t, notFound, core.ErrForbidden)
	assert.Equal(t, "get request failed with 404", notFound.Error())

	forbidden := &core.RequestError{Status: 403, Phase: core.PhaseUpdate}
	assert.ErrorIs(t, forbidden, core.ErrForbidden)

	transport := &core.RequestError{Phase: core.PhaseList, Err: errors.New("dial tcp: refused")}
	assert.Contains(t, transport.Error(), "dial tcp")
	assert.True(t, core.IsPhase(transport, core.PhaseList))
	assert.False(t, core.IsPhase(transport, core.PhaseGet))
}

func TestQuery_Normalize(t *testing.T) {
	q, err := core.Query{Subject: "s"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, core.Query{Subject: "s", PerPage: 30, Page: 1, Sort: "created", Direction: "desc"}, q)

	_, err = core.Query{}.Normalize()
	assert.ErrorIs(t, err, core.ErrEmptySubject)

	_, err = core.Query{Subject: "s", Direction: "up"}.Normalize()
	assert.ErrorIs(t, err, core.ErrInvalidQuery)

	_, err = core.Query{Subject: "s", PerPage: -1}.Normalize()
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
}
