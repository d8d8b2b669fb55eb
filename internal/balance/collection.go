package balance

import (
	"bytes"
	"encoding/json"

	"github.com/farxc/sigecon/internal/store"
)

// DecodeCollection decodes a JSON array column into a slice. A column that was
// encoded twice (a JSON string holding the array) is unwrapped first. Anything
// that is not an array decodes to an empty, non-nil slice.
func DecodeCollection[T any](raw []byte) []T {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return []T{}
		}
		raw = bytes.TrimSpace([]byte(inner))
	}
	if len(raw) == 0 || raw[0] != '[' {
		return []T{}
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

// FromAggregate builds a snapshot from a credit note row whose children were
// folded into JSON columns. entries may be nil and filled in later.
func FromAggregate(agg store.AggregatedCreditNote, entries map[int64][]store.Entry) Snapshot {
	return Snapshot{
		Note:        agg.CreditNote,
		SubNotes:    DecodeCollection[store.SubNote](agg.SubNotes),
		Commitments: DecodeCollection[store.Commitment](agg.Commitments),
		Entries:     entries,
		Recoveries:  DecodeCollection[store.Recovery](agg.Recoveries),
	}
}
