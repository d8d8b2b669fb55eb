package balance

import (
	"testing"

	"github.com/farxc/sigecon/internal/store"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCollection(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "array", raw: `[{"id":1,"valor":100.00},{"id":2,"valor":"50,00"}]`, want: 2},
		{name: "double encoded", raw: `"[{\"id\":1,\"valor\":100.5}]"`, want: 1},
		{name: "empty array", raw: `[]`, want: 0},
		{name: "null", raw: `null`, want: 0},
		{name: "empty", raw: ``, want: 0},
		{name: "object", raw: `{"id":1}`, want: 0},
		{name: "malformed", raw: `[{"id":1,`, want: 0},
		{name: "malformed double encoded", raw: `"[{\"id\":"`, want: 0},
		{name: "string that is not an array", raw: `"hello"`, want: 0},
		{name: "wrong element type", raw: `[1,2,3]`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeCollection[store.SubNote]([]byte(tt.raw))
			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDecodeCollection_Values(t *testing.T) {
	got := DecodeCollection[store.SubNote]([]byte(`[{"id":1,"valor":100.00},{"id":2,"valor":"50,00"}]`))
	require.Len(t, got, 2)
	assert.Equal(t, "100.00", got[0].Value.Fixed())
	assert.Equal(t, "50.00", got[1].Value.Fixed())
}

func TestFromAggregate(t *testing.T) {
	agg := store.AggregatedCreditNote{
		CreditNote:  store.CreditNote{ID: 5, Value: amount("1000")},
		SubNotes:    types.JSONText(`"[{\"id\":1,\"nc_id\":5,\"valor\":100},{\"id\":2,\"nc_id\":5,\"valor\":50}]"`),
		Commitments: types.JSONText(`[{"id":9,"nc_id":5,"valor":200,"datainclusao":"2024-03-10T14:30:00.123456+00:00"}]`),
		Recoveries:  types.JSONText(`not json`),
	}

	snap := FromAggregate(agg, nil)
	assert.Len(t, snap.SubNotes, 2)
	require.Len(t, snap.Commitments, 1)
	assert.Equal(t, int64(9), snap.Commitments[0].ID)
	assert.Empty(t, snap.Recoveries)

	p := Project(snap)
	assert.Equal(t, "950.00", p.Balance.Fixed())
	assert.Empty(t, p.Commitments[0].Entries)
}
