package services

import (
	"time"

	"github.com/sunghoonkim81/sul-calendar-web/models"
	"github.com/sunghoonkim81/sul-calendar-web/utils"
)

// UserDays is a snapshot of one user's stored records keyed by YYYY-MM-DD.
type UserDays map[string]models.DayRecord

const (
	SubstanceCoffee  = "coffee"
	SubstanceAlcohol = "alcohol"
)

// streakBound caps the backward walk so a user with no consumption on record
// at all still terminates at a finite streak.
const streakBound = 365

// Streak counts consecutive days without the given substance, walking
// backward from asOf. A day with no record counts as abstinent. The walk
// stops at the first day the substance flag is set, or at the bound.
func Streak(days UserDays, substance string, asOf time.Time) int {
	count := 0
	d := asOf
	for count < streakBound {
		if rec, ok := days[utils.FormatDay(d)]; ok && consumed(rec, substance) {
			break
		}
		count++
		d = d.AddDate(0, 0, -1)
	}
	return count
}

func consumed(rec models.DayRecord, substance string) bool {
	switch substance {
	case SubstanceCoffee:
		return rec.Coffee
	case SubstanceAlcohol:
		return rec.Alcohol
	}
	return false
}

// MonthTotals aggregates one user's month: how many days each flag was set
// and the summed amount per beverage kind.
type MonthTotals struct {
	CoffeeDays   int            `json:"coffee_days"`
	AlcoholDays  int            `json:"alcohol_days"`
	AmountTotals map[string]int `json:"amount_totals"`
}

// AggregateMonth folds over every date of the month; dates without a record
// contribute nothing.
func AggregateMonth(days UserDays, year, month int) MonthTotals {
	totals := MonthTotals{AmountTotals: map[string]int{}}
	for _, ds := range utils.MonthDays(year, month) {
		rec, ok := days[ds]
		if !ok {
			continue
		}
		if rec.Coffee {
			totals.CoffeeDays++
		}
		if rec.Alcohol {
			totals.AlcoholDays++
		}
		for kind, qty := range rec.Amounts.Data() {
			totals.AmountTotals[kind] += qty
		}
	}
	return totals
}
