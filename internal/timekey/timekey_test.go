package timekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func i(v int64) *int64     { return &v }

func TestCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b Key
		want Ordering
	}{
		{"unknown ts incomparable", Key{}, Key{TS: f(1)}, Incomparable},
		{"less by ts", Key{TS: f(1)}, Key{TS: f(2)}, Less},
		{"greater by ts", Key{TS: f(3)}, Key{TS: f(2)}, Greater},
		{"tie no rid", Key{TS: f(1)}, Key{TS: f(1)}, Equal},
		{"tie rid less", Key{TS: f(1), RecordID: i(1)}, Key{TS: f(1), RecordID: i(2)}, Less},
		{"tie rid unknown either side equal", Key{TS: f(1), RecordID: i(1)}, Key{TS: f(1)}, Equal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Compare(c.a, c.b))
		})
	}
}

func TestGELE(t *testing.T) {
	bound := Key{TS: f(5)}
	assert.True(t, GE(Key{TS: f(5)}, bound), "equal should be GE")
	assert.False(t, GE(Key{TS: f(4)}, bound), "earlier should not be GE")
	assert.True(t, GE(Key{}, bound), "unknown edge should be permissive for GE")
	assert.True(t, GE(Key{TS: f(1)}, Key{}), "unknown bound should be permissive for GE")

	assert.True(t, LE(Key{TS: f(5)}, bound), "equal should be LE")
	assert.False(t, LE(Key{TS: f(6)}, bound), "later should not be LE")
}

func TestBetterForward(t *testing.T) {
	cur := Key{TS: f(5)}
	assert.True(t, BetterForward(&cur, Key{TS: f(3)}), "earlier candidate should improve forward best")
	assert.False(t, BetterForward(&cur, Key{TS: f(7)}), "later candidate should not improve forward best")
	assert.False(t, BetterForward(nil, Key{TS: f(1)}), "nil current (unseeded) should not be 'improved'")

	unset := Key{}
	assert.False(t, BetterForward(&unset, Key{TS: f(1)}), "already-unbounded current should not be improved")
}

func TestParseTS(t *testing.T) {
	assert.Nil(t, ParseTS(nil))

	got := ParseTS(float64(100.5))
	require.NotNil(t, got)
	assert.Equal(t, 100.5, *got)

	got = ParseTS("2021-01-01T00:00:00Z")
	require.NotNil(t, got, "expected parsed epoch")
	assert.Equal(t, float64(1609459200), *got)

	assert.Nil(t, ParseTS("not-a-time"), "malformed ts should parse to nil")
}
