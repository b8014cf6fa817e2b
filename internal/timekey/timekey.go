// Package timekey implements the ordering-key comparator used
// throughout traversal (spec §3, design note in §9): "unknown"
// endpoints are permissive for traversal admission but never update a
// best-known time. Every component that compares edge timing goes
// through this package instead of reimplementing the rules inline.
package timekey

import (
	"time"

	"github.com/rohankatakam/incgraph/internal/model"
)

// Key is an edge's ordering key: (ts_epoch, record_id), either half
// possibly unknown.
type Key struct {
	TS       *float64
	RecordID *int64
}

// Unknown is the zero Key: no timestamp, no record id.
var Unknown = Key{}

// IsUnknown reports whether k carries no timestamp at all. A Key with
// only a RecordID (no ts) is still "unknown" for ordering purposes,
// matching the original's edge_time_key: comparisons degrade to
// permissive whenever either ts is absent.
func (k Key) IsUnknown() bool {
	return k.TS == nil
}

// Of derives the ordering key for an edge.
func Of(e *model.Edge) Key {
	return Key{TS: e.TS, RecordID: e.RecordID}
}

// Ordering is the three/four-valued result of Compare.
type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Incomparable
	Greater
)

// Compare returns the ordering of a relative to b. Comparison is
// defined only when both TS values are present; ties are broken by
// RecordID, with an unknown RecordID on either side comparing equal
// to any (spec §3).
func Compare(a, b Key) Ordering {
	if a.TS == nil || b.TS == nil {
		return Incomparable
	}
	if *a.TS < *b.TS {
		return Less
	}
	if *a.TS > *b.TS {
		return Greater
	}
	if a.RecordID == nil || b.RecordID == nil {
		return Equal
	}
	if *a.RecordID < *b.RecordID {
		return Less
	}
	if *a.RecordID > *b.RecordID {
		return Greater
	}
	return Equal
}

// GE reports whether edge is admissible for forward traversal from a
// node whose best-known time is bound: edge >= bound. Unknown values
// on either side are permissive (spec §4.2: "edges with unknown timing
// are always traversable").
func GE(edge, bound Key) bool {
	if bound.TS == nil || edge.TS == nil {
		return true
	}
	if *edge.TS > *bound.TS {
		return true
	}
	if *edge.TS < *bound.TS {
		return false
	}
	if edge.RecordID == nil || bound.RecordID == nil {
		return true
	}
	return *edge.RecordID >= *bound.RecordID
}

// LE reports whether edge is admissible for reverse traversal toward a
// node whose best-known time is bound: edge <= bound.
func LE(edge, bound Key) bool {
	if bound.TS == nil || edge.TS == nil {
		return true
	}
	if *edge.TS < *bound.TS {
		return true
	}
	if *edge.TS > *bound.TS {
		return false
	}
	if edge.RecordID == nil || bound.RecordID == nil {
		return true
	}
	return *edge.RecordID <= *bound.RecordID
}

// BetterForward reports whether candidate is strictly earlier than
// current under forward relaxation (spec §4.2: "chronologically
// earliest wins"). An absent current (vertex not reached yet) is never
// "improved" - first arrival is the caller's firstVisit case - and a
// current with no timestamp is already unbounded, so nothing improves
// on it. An absent candidate is "no new information" and is never an
// improvement.
func BetterForward(current *Key, candidate Key) bool {
	if current == nil {
		return false
	}
	if current.TS == nil {
		return false
	}
	if candidate.TS == nil {
		return false
	}
	return Compare(candidate, *current) == Less
}

// BetterReverse reports whether candidate is strictly later than
// current under reverse relaxation (latest reachable time wins).
func BetterReverse(current *Key, candidate Key) bool {
	if current == nil {
		return false
	}
	if current.TS == nil {
		return false
	}
	if candidate.TS == nil {
		return false
	}
	return Compare(candidate, *current) == Greater
}

// ParseTS parses an edge's raw `ts` field, which may be an ISO-8601
// string or an epoch number (spec §3), into epoch seconds.
func ParseTS(raw any) *float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case string:
		if v == "" {
			return nil
		}
		t, err := parseISO8601(v)
		if err != nil {
			return nil
		}
		f := float64(t.UnixNano()) / 1e9
		return &f
	default:
		return nil
	}
}

// SortLess orders two keys with unknown timestamps sorting last, then
// by ts, then by record id (unknown record id sorting last within a
// tied timestamp) - the ordering the subgraph index uses to sort each
// vertex's outgoing and incoming edge lists once, up front.
func SortLess(a, b Key) bool {
	aUnknown, bUnknown := a.TS == nil, b.TS == nil
	if aUnknown != bUnknown {
		return !aUnknown
	}
	if !aUnknown && *a.TS != *b.TS {
		return *a.TS < *b.TS
	}
	aRidUnknown, bRidUnknown := a.RecordID == nil, b.RecordID == nil
	if aRidUnknown != bRidUnknown {
		return !aRidUnknown
	}
	if !aRidUnknown {
		return *a.RecordID < *b.RecordID
	}
	return false
}

func parseISO8601(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}
