// Package report derives read-only summaries from the ledger and booking
// store. Everything is recomputed from the current snapshots on each call;
// the datasets are small enough that caching would only add invalidation
// bugs.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/service"
)

// PendingWidgetLimit caps the pending-review summary widget.
const PendingWidgetLimit = 4

// PendingReview returns the unreconciled transactions, newest first, capped
// at limit, along with the full pending count. Sorting is stable so equal
// dates keep input order.
func PendingReview(transactions []model.Transaction, limit int) ([]model.Transaction, int) {
	pending := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !t.IsReconciled {
			pending = append(pending, t)
		}
	}
	total := len(pending)

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Date.After(pending[j].Date)
	})

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, total
}

// Occupancy holds the front-desk insight pair shown on the dashboard.
type Occupancy struct {
	NextArrival   *model.Booking
	NextDeparture *model.Booking
}

// OccupancyInsights finds the next arrival (earliest check-in among active
// bookings from today on) and the next departure (earliest check-out among
// in-house guests). Ties keep input order.
func OccupancyInsights(bookings []model.Booking, today time.Time) Occupancy {
	var arrivals, departures []model.Booking
	for _, b := range bookings {
		if b.IsActive() && !b.CheckIn.Before(today) {
			arrivals = append(arrivals, b)
		}
		if b.Status == model.StatusCheckedIn && !b.CheckOut.Before(today) {
			departures = append(departures, b)
		}
	}

	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].CheckIn.Before(arrivals[j].CheckIn)
	})
	sort.SliceStable(departures, func(i, j int) bool {
		return departures[i].CheckOut.Before(departures[j].CheckOut)
	})

	var occ Occupancy
	if len(arrivals) > 0 {
		occ.NextArrival = &arrivals[0]
	}
	if len(departures) > 0 {
		occ.NextDeparture = &departures[0]
	}
	return occ
}

// IsPaid reports whether any income transaction references the booking by
// id. The correlation is substring matching on the description, not a
// foreign key; booking ids are opaque generated tokens, so natural collisions
// are not a practical concern.
func IsPaid(transactions []model.Transaction, bookingID string) bool {
	if bookingID == "" {
		return false
	}
	for _, t := range transactions {
		if t.Type == model.TypeIncome && strings.Contains(t.Description, bookingID) {
			return true
		}
	}
	return false
}

// Totals sums the ledger into income, expense, and net profit.
func Totals(transactions []model.Transaction) (income, expense, net float64) {
	for _, t := range transactions {
		switch t.Type {
		case model.TypeIncome:
			income += t.Amount
		case model.TypeExpense:
			expense += t.Amount
		}
	}
	return income, expense, income - expense
}

// MonthTotal is one month's income and expense sums.
type MonthTotal struct {
	Month   time.Time // first of the month, UTC
	Income  float64
	Expense float64
}

// MonthlySeries buckets transactions by calendar month, chronologically.
func MonthlySeries(transactions []model.Transaction) []MonthTotal {
	byMonth := make(map[time.Time]*MonthTotal)
	for _, t := range transactions {
		key := time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		mt, ok := byMonth[key]
		if !ok {
			mt = &MonthTotal{Month: key}
			byMonth[key] = mt
		}
		switch t.Type {
		case model.TypeIncome:
			mt.Income += t.Amount
		case model.TypeExpense:
			mt.Expense += t.Amount
		}
	}

	series := make([]MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		series = append(series, *mt)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})
	return series
}

// CategoryTotal is one category's share of a transaction type.
type CategoryTotal struct {
	Category string
	Amount   float64
	Count    int
}

// CategoryBreakdown sums transactions of the given type per category,
// largest first.
func CategoryBreakdown(transactions []model.Transaction, txType model.TransactionType) []CategoryTotal {
	byCategory := make(map[string]*CategoryTotal)
	var order []string
	for _, t := range transactions {
		if t.Type != txType {
			continue
		}
		ct, ok := byCategory[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category}
			byCategory[t.Category] = ct
			order = append(order, t.Category)
		}
		ct.Amount += t.Amount
		ct.Count++
	}

	breakdown := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		breakdown = append(breakdown, *byCategory[cat])
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Amount > breakdown[j].Amount
	})
	return breakdown
}

// InRange filters transactions to those dated within [start, end] inclusive.
func InRange(transactions []model.Transaction, start, end time.Time) []model.Transaction {
	var out []model.Transaction
	for _, t := range transactions {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Summarize builds the aggregate summary an exported report carries. Only
// transactions within the range contribute.
func Summarize(transactions []model.Transaction, start, end time.Time) ([]model.Transaction, *service.ReportSummary) {
	inRange := InRange(transactions, start, end)
	income, expense, net := Totals(inRange)

	byCategory := make(map[string]service.CategorySummary, len(inRange))
	for _, t := range inRange {
		cs := byCategory[t.Category]
		cs.Count++
		cs.Amount += t.Amount
		byCategory[t.Category] = cs
	}

	return inRange, &service.ReportSummary{
		DateRange:    service.DateRange{Start: start, End: end},
		TotalIncome:  income,
		TotalExpense: expense,
		NetProfit:    net,
		ByCategory:   byCategory,
	}
}
