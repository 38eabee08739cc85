package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestMonthSegmentsCrossMonths(t *testing.T) {
	segs := MonthSegments(d(2024, time.January, 15), d(2024, time.March, 15))
	require.Len(t, segs, 3)

	assert.Equal(t, 2024, segs[0].Year)
	assert.Equal(t, 1, segs[0].Month)
	assert.Equal(t, 17, segs[0].DaysCovered)
	assert.Equal(t, 31, segs[0].DaysInMonth)

	assert.Equal(t, 2, segs[1].Month)
	assert.Equal(t, 29, segs[1].DaysCovered) // leap february
	assert.Equal(t, 29, segs[1].DaysInMonth)

	assert.Equal(t, 3, segs[2].Month)
	assert.Equal(t, 15, segs[2].DaysCovered)
	assert.Equal(t, d(2024, time.March, 1), segs[2].Start)
	assert.Equal(t, d(2024, time.March, 15), segs[2].End)
}

func TestMonthSegmentsSingleMonth(t *testing.T) {
	segs := MonthSegments(d(2024, time.July, 1), d(2024, time.July, 31))
	require.Len(t, segs, 1)
	assert.Equal(t, 31, segs[0].DaysCovered)
}

func TestMonthSegmentsYearBoundary(t *testing.T) {
	segs := MonthSegments(d(2023, time.December, 20), d(2024, time.January, 10))
	require.Len(t, segs, 2)
	assert.Equal(t, 2023, segs[0].Year)
	assert.Equal(t, 12, segs[0].Month)
	assert.Equal(t, 12, segs[0].DaysCovered)
	assert.Equal(t, 2024, segs[1].Year)
	assert.Equal(t, 1, segs[1].Month)
	assert.Equal(t, 10, segs[1].DaysCovered)
}

func TestBuildAllocationsProrates(t *testing.T) {
	inv := &Invoice{
		ContractAccount:   "CC-001",
		InvoiceNumber:     "F-2024-001",
		PeriodStart:       d(2024, time.January, 15),
		PeriodEnd:         d(2024, time.March, 15),
		AmountTTC:         nd("610"),
		BilledConsumption: nd("122"),
	}

	allocs := BuildAllocations(inv)
	require.Len(t, allocs, 3)

	for _, a := range allocs {
		assert.Equal(t, 61, a.PeriodTotalDays)
		assert.Equal(t, "CC-001", a.ContractAccount)
		assert.Equal(t, "F-2024-001", a.InvoiceNumber)
	}

	// 610 over 61 days: 17 + 29 + 15 day shares.
	assert.Equal(t, "170", allocs[0].AmountTTC.Decimal.String())
	assert.Equal(t, "290", allocs[1].AmountTTC.Decimal.String())
	assert.Equal(t, "150", allocs[2].AmountTTC.Decimal.String())

	// Energy amount was null on the source row: null in every month.
	for _, a := range allocs {
		assert.False(t, a.AmountEnergy.Valid)
		assert.True(t, a.Consumption.Valid)
	}

	sum := decimal.Zero
	days := 0
	for _, a := range allocs {
		sum = sum.Add(a.AmountTTC.Decimal)
		days += a.DaysCovered
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("610")), "shares must sum to the invoice total, got %s", sum)
	assert.Equal(t, 61, days)
}

func TestBuildAllocationsInvalidPeriod(t *testing.T) {
	inv := &Invoice{
		PeriodStart: d(2024, time.March, 15),
		PeriodEnd:   d(2024, time.January, 15),
	}
	assert.Nil(t, BuildAllocations(inv))

	assert.Nil(t, BuildAllocations(&Invoice{}))
}
