package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemFieldsJSONRoundTripPreservesOrder(t *testing.T) {
	items := ItemFields{
		{Name: "door", Value: "Pass"},
		{Name: "brake", Value: "Fail"},
		{Name: "pressure", Value: 32.5},
		{Name: "note", Value: "left rear tire worn"},
	}

	data, err := json.Marshal(items)
	require.NoError(t, err)

	var decoded ItemFields
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, items, decoded)
	assert.Equal(t, []string{"door", "brake", "pressure", "note"}, decoded.Names())
}

func TestItemFieldsUnmarshalPreservesDocumentOrder(t *testing.T) {
	// Keys deliberately not in lexical order; a map-based decode would
	// scramble them.
	raw := `{"zebra":"ng","alpha":"ok","mid":"no"}`

	var items ItemFields
	require.NoError(t, json.Unmarshal([]byte(raw), &items))

	assert.Equal(t, []string{"zebra", "alpha", "mid"}, items.Names())
}

func TestItemFieldsUnmarshalNull(t *testing.T) {
	var items ItemFields
	require.NoError(t, json.Unmarshal([]byte("null"), &items))
	assert.Nil(t, items)
}

func TestItemFieldsUnmarshalRejectsNonObject(t *testing.T) {
	var items ItemFields
	assert.Error(t, json.Unmarshal([]byte(`["door"]`), &items))
}

func TestItemFieldsGet(t *testing.T) {
	items := ItemFields{
		{Name: "door", Value: "Pass"},
		{Name: "brake", Value: "Fail"},
	}

	v, ok := items.Get("brake")
	assert.True(t, ok)
	assert.Equal(t, "Fail", v)

	_, ok = items.Get("missing")
	assert.False(t, ok)
}

func TestIsMetadataField(t *testing.T) {
	for _, name := range []string{"id", "bu", "type", "site", "inspector", "remark", "images", "timestamp", "createdAt", "docId"} {
		assert.True(t, IsMetadataField(name), name)
	}
	assert.False(t, IsMetadataField("brake"))
	assert.False(t, IsMetadataField("Inspector"), "metadata names are case sensitive")
}

func TestNaturalKey(t *testing.T) {
	a := Asset{BU: "th", Type: "car", Identifier: "TR-104"}
	tx := InspectionTransaction{BU: "th", Type: "car", AssetID: "TR-104"}

	assert.Equal(t, "th|car|TR-104", a.NaturalKey())
	assert.Equal(t, a.NaturalKey(), tx.NaturalKey())
}
