package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope_ClassDiscriminant(t *testing.T) {
	body := []byte(`{
		"totalCount": "2",
		"imdata": [
			{"l1PhysIf": {"attributes": {"dn": "topology/pod-1/node-101/sys/phys-[eth1/1]", "operSt": "up"}}},
			{"l1PhysIf": {"attributes": {"dn": "topology/pod-1/node-101/sys/phys-[eth1/2]", "operSt": "down"}}}
		]
	}`)

	recs, err := DecodeEnvelope(body)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "l1PhysIf", recs[0].Class)
	assert.Equal(t, "up", recs[0].Attr("operSt"))
	assert.Equal(t, "down", recs[1].Attr("operSt"))
	assert.Equal(t, "", recs[0].Attr("missing"))
}

func TestDecodeEnvelope_Children(t *testing.T) {
	body := []byte(`{"imdata": [
		{"topSystem": {
			"attributes": {"id": "101", "role": "leaf"},
			"children": [
				{"healthInst": {"attributes": {"cur": "95"}}},
				{"eqptCh": {"attributes": {"model": "X"}, "children": [
					{"healthInst": {"attributes": {"cur": "90"}}}
				]}}
			]
		}}
	]}`)

	recs, err := DecodeEnvelope(body)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	top := recs[0]
	assert.Equal(t, "topSystem", top.Class)
	require.Len(t, top.Children, 2)
	assert.Equal(t, "healthInst", top.Children[0].Class)
	assert.Equal(t, "95", top.Children[0].Attr("cur"))
	// Grandchildren decode too; depth limits apply at normalization, not here.
	require.Len(t, top.Children[1].Children, 1)
	assert.Equal(t, "90", top.Children[1].Children[0].Attr("cur"))
}

func TestDecodeEnvelope_StringifiesNumbersAndBools(t *testing.T) {
	body := []byte(`{"imdata": [
		{"fabricHealthTotal": {"attributes": {"cur": 95, "chng": -2.5, "twScore": true}}}
	]}`)

	recs, err := DecodeEnvelope(body)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "95", recs[0].Attr("cur"))
	assert.Equal(t, "-2.5", recs[0].Attr("chng"))
	assert.Equal(t, "true", recs[0].Attr("twScore"))
}

func TestDecodeEnvelope_SkipsMalformedEntries(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{
			name: "entry with two class keys is skipped",
			body: `{"imdata": [
				{"a": {"attributes": {}}, "b": {"attributes": {}}},
				{"faultInst": {"attributes": {"dn": "x"}}}
			]}`,
			want: 1,
		},
		{
			name: "entry that is not an object is skipped",
			body: `{"imdata": [42, {"faultInst": {"attributes": {"dn": "x"}}}]}`,
			want: 1,
		},
		{
			name: "empty imdata",
			body: `{"totalCount": "0", "imdata": []}`,
			want: 0,
		},
		{
			name: "missing imdata",
			body: `{"totalCount": "0"}`,
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := DecodeEnvelope([]byte(tc.body))
			require.NoError(t, err)
			assert.Len(t, recs, tc.want)
		})
	}
}

func TestDecodeEnvelope_BadOuterJSON(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"imdata": [`))
	assert.Error(t, err)
}
