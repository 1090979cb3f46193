package booking

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRooms_Array(t *testing.T) {
	raw := []byte(`[{"room_type_id":3,"room_type":"Double","quantity":2,"nights":5,"unit_price":80,"total":800},
		{"room_type":"Suite","quantity":1,"nights":5,"total":"1250.50"}]`)
	rooms := DecodeRooms(raw)
	require.Len(t, rooms, 2)
	assert.Equal(t, uint(3), rooms[0].RoomTypeID)
	assert.Equal(t, "Double", rooms[0].RoomType)
	assert.True(t, rooms[0].Total.Equal(decimal.NewFromInt(800)))
	assert.True(t, rooms[1].Total.Equal(decimal.RequireFromString("1250.50")))
}

func TestDecodeRooms_DoubleEncodedString(t *testing.T) {
	raw := []byte(`"[{\"room_type\":\"Twin\",\"total\":300}]"`)
	rooms := DecodeRooms(raw)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Twin", rooms[0].RoomType)
	assert.True(t, rooms[0].Total.Equal(decimal.NewFromInt(300)))
}

func TestDecode_MalformedYieldsEmpty(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("null"), []byte("{not json"), []byte(`{"a":1}`), []byte(`"not an array"`), []byte(`[1,"x",null]`)} {
		rooms := DecodeRooms(raw)
		assert.NotNil(t, rooms, string(raw))
		assert.Empty(t, rooms, string(raw))
	}
}

func TestDecodeActivities_TotalCost(t *testing.T) {
	acts := DecodeActivities([]byte(`[{"name":"Tagus cruise","participants":2,"total_cost":90.25}]`))
	require.Len(t, acts, 1)
	assert.True(t, acts[0].Total.Equal(decimal.RequireFromString("90.25")))

	// total wins when both are present
	acts = DecodeActivities([]byte(`[{"name":"Fado night","total":40,"total_cost":55}]`))
	require.Len(t, acts, 1)
	assert.True(t, acts[0].Total.Equal(decimal.NewFromInt(40)))
}

func TestDecodeTransportAndTransfers(t *testing.T) {
	tr := DecodeTransport([]byte(`[{"type":"flight","description":"LIS-FNC","total":210}]`))
	require.Len(t, tr, 1)
	assert.Equal(t, "flight", tr[0].Type)

	xf := DecodeTransfers([]byte(`[{"from":"Airport","to":"Hotel","passengers":2,"total":"35"}]`))
	require.Len(t, xf, 1)
	assert.Equal(t, 2, xf[0].Passengers)
	assert.True(t, xf[0].Total.Equal(decimal.NewFromInt(35)))
}

func TestEncodeRoundTripsThroughDecode(t *testing.T) {
	in := []RoomLine{{RoomType: "Double", Quantity: 1, Nights: 2, Total: decimal.RequireFromString("199.99")}}
	out := DecodeRooms(Encode(in))
	require.Len(t, out, 1)
	assert.True(t, out[0].Total.Equal(in[0].Total))

	assert.Equal(t, "[]", string(Encode[RoomLine](nil)))
}

func TestLineItemsNormalize(t *testing.T) {
	l := LineItems{}.Normalize()
	assert.NotNil(t, l.Rooms)
	assert.NotNil(t, l.Transport)
	assert.NotNil(t, l.Activities)
	assert.NotNil(t, l.Transfers)

	all := DecodeLineItems(nil, []byte(`[{"total":1}]`), nil, nil)
	assert.Len(t, all.Transport, 1)
	assert.Empty(t, all.Rooms)
}

func TestLineItemsUnmarshal_MatchesStoredDecoding(t *testing.T) {
	body := []byte(`{
		"room_arrangement":[{"room_type":"Double","quantity":1,"nights":4,"total_cost":400}],
		"transport":[{"type":"train","total":"45.50"}],
		"activities":[{"name":"Sintra tour","participants":2,"total":100}],
		"transfers":[{"from":"LIS","to":"Hotel","passengers":2,"total_cost":30}]
	}`)

	var req LineItems
	require.NoError(t, json.Unmarshal(body, &req))
	require.Len(t, req.Rooms, 1)
	assert.Equal(t, "Double", req.Rooms[0].RoomType)
	assert.Equal(t, 4, req.Rooms[0].Nights)
	assert.True(t, req.Rooms[0].Total.Equal(decimal.NewFromInt(400)))
	assert.True(t, req.Transport[0].Total.Equal(decimal.RequireFromString("45.50")))
	assert.True(t, req.Activities[0].Total.Equal(decimal.NewFromInt(100)))
	assert.True(t, req.Transfers[0].Total.Equal(decimal.NewFromInt(30)))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	stored := DecodeLineItems(raw["room_arrangement"], raw["transport"], raw["activities"], raw["transfers"])
	assert.Equal(t, stored, req)

	// activities are stored under total_cost and read back unchanged
	again := DecodeActivities(Encode(req.Activities))
	require.Len(t, again, 1)
	assert.True(t, again[0].Total.Equal(decimal.NewFromInt(100)))
}

func TestLineItemsUnmarshal_RejectsNonObjects(t *testing.T) {
	var items LineItems
	assert.Error(t, json.Unmarshal([]byte(`{"room_arrangement":[42]}`), &items))
	assert.Error(t, json.Unmarshal([]byte(`{"activities":["tour"]}`), &items))

	var rooms []RoomLine
	require.NoError(t, json.Unmarshal([]byte(`[null,{"total":5}]`), &rooms))
	require.Len(t, rooms, 2)
	assert.True(t, rooms[0].Total.IsZero())
	assert.True(t, rooms[1].Total.Equal(decimal.NewFromInt(5)))
}
