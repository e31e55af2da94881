package services

import (
	"context"
	"testing"
	"time"

	"github.com/sunghoonkim81/sul-calendar-web/models"

	"github.com/stretchr/testify/require"
)

func TestMonthViewSingleCoffeeDay(t *testing.T) {
	db := testDB(t)
	records := NewRecordService(db)
	cal := NewCalendarService(db, NewRankingService(db))
	cal.now = func() time.Time { return time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC) }

	writeDay(t, records, "A", "2025-02-10", DayPatch{Coffee: boolPtr(true)})

	view, err := cal.MonthView(context.Background(), "A", 2025, 2)
	require.NoError(t, err)

	require.Len(t, view.Days, 1)
	require.Equal(t, DayView{Coffee: true, Alcohol: false, Amounts: map[string]int{}}, view.Days["2025-02-10"])
	require.Equal(t, 1, view.Stats.CoffeeMonth)
	require.Equal(t, 0, view.Stats.AlcoholMonth)
	// 11..15 are abstinent, the 10th is not
	require.Equal(t, 5, view.Stats.CoffeeStreak)
	require.Equal(t, 365, view.Stats.AlcoholStreak)
	require.Equal(t, []RankEntry{{User: "A", Value: 1}}, view.Stats.CoffeeRank)
	require.Empty(t, view.Stats.AlcoholRank)
}

func TestMonthViewRestrictsDaysToMonth(t *testing.T) {
	db := testDB(t)
	records := NewRecordService(db)
	cal := NewCalendarService(db, NewRankingService(db))

	writeDay(t, records, "A", "2025-01-31", DayPatch{Alcohol: boolPtr(true)})
	writeDay(t, records, "A", "2025-02-01", DayPatch{Alcohol: boolPtr(true)})

	view, err := cal.MonthView(context.Background(), "A", 2025, 2)
	require.NoError(t, err)
	require.Len(t, view.Days, 1)
	require.Contains(t, view.Days, "2025-02-01")
}

func TestMonthViewAmountTotals(t *testing.T) {
	db := testDB(t)
	records := NewRecordService(db)
	cal := NewCalendarService(db, NewRankingService(db))

	writeDay(t, records, "A", "2025-02-10", DayPatch{Amounts: map[string]int{models.KindSoju: 2, models.KindBeer: 1}})
	writeDay(t, records, "A", "2025-02-11", DayPatch{Amounts: map[string]int{models.KindSoju: 1}})

	view, err := cal.MonthView(context.Background(), "A", 2025, 2)
	require.NoError(t, err)
	require.Equal(t, map[string]int{models.KindSoju: 3, models.KindBeer: 1}, view.Stats.AmountTotals)
	require.Equal(t, []RankEntry{{User: "A", Value: 3}}, view.Stats.AmountRanks[models.KindSoju])
}

func TestMonthViewUnknownUserIsEmptyNotError(t *testing.T) {
	db := testDB(t)
	cal := NewCalendarService(db, NewRankingService(db))

	view, err := cal.MonthView(context.Background(), "nobody", 2025, 2)
	require.NoError(t, err)
	require.Empty(t, view.Days)
	require.Equal(t, 365, view.Stats.CoffeeStreak)
	require.Equal(t, 365, view.Stats.AlcoholStreak)
}

func TestMonthViewInvalidPeriod(t *testing.T) {
	db := testDB(t)
	cal := NewCalendarService(db, NewRankingService(db))

	for _, tc := range []struct{ year, month int }{{2025, 0}, {2025, 13}, {0, 2}} {
		_, err := cal.MonthView(context.Background(), "A", tc.year, tc.month)
		require.Error(t, err)
		require.True(t, IsInvalidInput(err))
	}
}
