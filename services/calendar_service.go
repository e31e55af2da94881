package services

import (
	"context"
	"errors"
	"time"

	"github.com/sunghoonkim81/sul-calendar-web/models"
	"github.com/sunghoonkim81/sul-calendar-web/utils"

	"gorm.io/gorm"
)

// CalendarService is the read path: one call assembles everything the month
// screen needs for a user.
type CalendarService struct {
	db      *gorm.DB
	ranking *RankingService

	// now is swappable so streak math can be pinned in tests.
	now func() time.Time
}

func NewCalendarService(db *gorm.DB, ranking *RankingService) *CalendarService {
	return &CalendarService{db: db, ranking: ranking, now: time.Now}
}

type MonthStats struct {
	CoffeeStreak  int                    `json:"coffee_streak"`
	AlcoholStreak int                    `json:"alcohol_streak"`
	CoffeeMonth   int                    `json:"coffee_month"`
	AlcoholMonth  int                    `json:"alcohol_month"`
	AmountTotals  map[string]int         `json:"amount_totals"`
	CoffeeRank    []RankEntry            `json:"coffee_rank"`
	AlcoholRank   []RankEntry            `json:"alcohol_rank"`
	AmountRanks   map[string][]RankEntry `json:"amount_ranks"`
}

type MonthView struct {
	Days  map[string]DayView `json:"days"`
	Stats MonthStats         `json:"stats"`
}

// MonthView returns the user's stored records within the month plus their
// streaks, monthly totals, and the cross-user rankings. A user with no
// records is a valid, empty state, not an error.
func (s *CalendarService) MonthView(ctx context.Context, username string, year, month int) (*MonthView, error) {
	username = NormalizeUser(username)
	if month < 1 || month > 12 {
		return nil, &InvalidInputError{Field: "month", Reason: "want 1..12"}
	}
	if year < 1 {
		return nil, &InvalidInputError{Field: "year", Reason: "want a positive year"}
	}

	days := UserDays{}
	var user models.User
	err := s.db.WithContext(ctx).Where("name = ?", username).First(&user).Error
	switch {
	case err == nil:
		days, err = loadUserDays(s.db.WithContext(ctx), user.ID)
		if err != nil {
			return nil, &StorageUnavailableError{Op: "load day records", Err: err}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first visit, nothing stored yet
	default:
		return nil, &StorageUnavailableError{Op: "load user", Err: err}
	}

	first, last := utils.MonthBounds(year, month)
	view := &MonthView{Days: map[string]DayView{}}
	for ds, rec := range days {
		if ds >= first && ds <= last {
			view.Days[ds] = newDayView(rec)
		}
	}

	ranks, err := s.ranking.Rankings(ctx, year, month)
	if err != nil {
		return nil, err
	}

	totals := AggregateMonth(days, year, month)
	now := s.now()
	view.Stats = MonthStats{
		CoffeeStreak:  Streak(days, SubstanceCoffee, now),
		AlcoholStreak: Streak(days, SubstanceAlcohol, now),
		CoffeeMonth:   totals.CoffeeDays,
		AlcoholMonth:  totals.AlcoholDays,
		AmountTotals:  totals.AmountTotals,
		CoffeeRank:    ranks.Coffee,
		AlcoholRank:   ranks.Alcohol,
		AmountRanks:   ranks.Amounts,
	}
	return view, nil
}
