package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampScan(t *testing.T) {
	want := time.Date(2024, 3, 9, 14, 30, 5, 123456000, time.UTC)

	inputs := []any{
		want.In(time.FixedZone("CET", 3600)),
		"2024-03-09T14:30:05.123456Z",
		[]byte("2024-03-09 15:30:05.123456+01:00"),
		"2024-03-09T14:30:05.123456",
	}
	for _, in := range inputs {
		var ts Timestamp
		require.NoError(t, ts.Scan(in), "%v", in)
		assert.True(t, want.Equal(ts.Time), "%v -> %v", in, ts.Time)
	}

	var ts Timestamp
	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
}
