package renewal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lease-engine/renewal"
)

func TestSummarize_SpreadRun(t *testing.T) {
	// GIVEN: Five leases with the same ideal date, one slot per day
	// THEN: Offsets 0, +1, -1, +2, -2 → mean |offset| = 6/5 = 1.2

	result, err := renewal.Optimize(leases("2024-05-10", "2024-05-10", "2024-05-10", "2024-05-10", "2024-05-10"), 1)
	require.NoError(t, err)

	s := renewal.Summarize(result, 1)

	assert.Equal(t, 5, s.LeaseCount)
	assert.Equal(t, 5, s.DaysUsed)
	assert.Equal(t, 1, s.OnIdealDate)
	assert.Equal(t, 0, s.Fallbacks)
	assert.Equal(t, 0, s.OverbookedDays)
	assert.Equal(t, 1, s.PeakLoad)
	assert.Equal(t, "2025-05-08", s.PeakDate)
	assert.Equal(t, 2, s.MaxAbsOffset)
	assert.True(t, s.MeanAbsOffset.Equal(decimal.RequireFromString("1.2")), "got %s", s.MeanAbsOffset)
	assert.True(t, s.MeanLoad.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "[2025-05-08, 2025-05-12]", s.Span.String())
	assert.Equal(t, 5, s.Span.Len())
}

func TestSummarize_Overbooked(t *testing.T) {
	result, err := renewal.Optimize(leases("2024-06-01", "2024-06-01", "2024-06-01"), 0)
	require.NoError(t, err)

	s := renewal.Summarize(result, 0)

	assert.Equal(t, 3, s.Fallbacks)
	assert.Equal(t, 0, s.OnIdealDate)
	assert.Equal(t, 1, s.OverbookedDays)
	assert.Equal(t, 3, s.PeakLoad)
	assert.True(t, s.MeanLoad.Equal(decimal.NewFromInt(3)))
}

func TestSummarize_Empty(t *testing.T) {
	result, err := renewal.Optimize(nil, 3)
	require.NoError(t, err)

	s := renewal.Summarize(result, 3)

	assert.Zero(t, s.LeaseCount)
	assert.True(t, s.MeanAbsOffset.IsZero())
	assert.True(t, s.MeanLoad.IsZero())
	assert.True(t, s.Span.Start.IsZero())
	assert.Empty(t, s.PeakDate)
}
