package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

const allocScale = 3

// MonthSegment is the part of a billing period falling inside one calendar
// month.
type MonthSegment struct {
	Year        int
	Month       int
	Start       time.Time
	End         time.Time
	DaysInMonth int
	DaysCovered int
}

func monthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthEnd(d time.Time) time.Time {
	return monthStart(d).AddDate(0, 1, -1)
}

// MonthSegments walks the period month by month: each segment starts where
// the previous one ended and never crosses a month boundary. Both endpoints
// are inclusive.
func MonthSegments(start, end time.Time) []MonthSegment {
	var out []MonthSegment
	cur := start
	for !cur.After(end) {
		me := monthEnd(cur)
		segEnd := me
		if end.Before(me) {
			segEnd = end
		}
		out = append(out, MonthSegment{
			Year:        cur.Year(),
			Month:       int(cur.Month()),
			Start:       cur,
			End:         segEnd,
			DaysInMonth: int(me.Sub(monthStart(cur)).Hours()/24) + 1,
			DaysCovered: int(segEnd.Sub(cur).Hours()/24) + 1,
		})
		cur = segEnd.AddDate(0, 0, 1)
	}
	return out
}

// BuildAllocations prorates the invoice amounts over its months by days
// covered. The total day count is computed once from the full period, so the
// per-month ratios sum to 1. A null source value stays null in every month
// rather than becoming zero. Inverted or missing periods produce nothing.
func BuildAllocations(inv *Invoice) []MonthlyAllocation {
	if inv.PeriodStart.IsZero() || inv.PeriodEnd.IsZero() || inv.PeriodEnd.Before(inv.PeriodStart) {
		return nil
	}
	totalDays := int(inv.PeriodEnd.Sub(inv.PeriodStart).Hours()/24) + 1
	if totalDays <= 0 {
		return nil
	}
	total := decimal.NewFromInt(int64(totalDays))

	var out []MonthlyAllocation
	for _, seg := range MonthSegments(inv.PeriodStart, inv.PeriodEnd) {
		ratio := decimal.NewFromInt(int64(seg.DaysCovered)).Div(total)
		out = append(out, MonthlyAllocation{
			Year:            seg.Year,
			Month:           seg.Month,
			PeriodStart:     inv.PeriodStart,
			PeriodEnd:       inv.PeriodEnd,
			PeriodTotalDays: totalDays,
			DaysCovered:     seg.DaysCovered,
			Consumption:     prorate(inv.BilledConsumption, ratio),
			AmountEnergy:    prorate(inv.AmountEnergy, ratio),
			AmountTTC:       prorate(inv.AmountTTC, ratio),
			ContractAccount: inv.ContractAccount,
			InvoiceNumber:   inv.InvoiceNumber,
		})
	}
	return out
}

func prorate(v decimal.NullDecimal, ratio decimal.Decimal) decimal.NullDecimal {
	if !v.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: v.Decimal.Mul(ratio).Round(allocScale), Valid: true}
}
