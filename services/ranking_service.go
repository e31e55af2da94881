package services

import (
	"context"
	"sort"

	"github.com/sunghoonkim81/sul-calendar-web/models"
	"github.com/sunghoonkim81/sul-calendar-web/utils"

	"gorm.io/gorm"
)

// rankingSize truncates every leaderboard to its top entries.
const rankingSize = 10

type RankEntry struct {
	User  string `json:"user"`
	Value int    `json:"value"`
}

// MonthRankings holds one leaderboard per metric: coffee days, alcohol days,
// and the summed amount of each ranked beverage kind.
type MonthRankings struct {
	Coffee  []RankEntry            `json:"coffee"`
	Alcohol []RankEntry            `json:"alcohol"`
	Amounts map[string][]RankEntry `json:"amounts"`
}

type RankingService struct {
	db *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{db: db}
}

// Rankings builds the month's leaderboards across all users. The sentinel
// default user and zero-value rows are hidden, boards are sorted descending
// by value with ties broken alphabetically by user name, and each board is
// cut to the top 10.
func (s *RankingService) Rankings(ctx context.Context, year, month int) (*MonthRankings, error) {
	if month < 1 || month > 12 {
		return nil, &InvalidInputError{Field: "month", Reason: "want 1..12"}
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("name asc").Find(&users).Error; err != nil {
		return nil, &StorageUnavailableError{Op: "list users", Err: err}
	}

	first, last := utils.MonthBounds(year, month)
	var recs []models.DayRecord
	if err := s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", first, last).
		Find(&recs).Error; err != nil {
		return nil, &StorageUnavailableError{Op: "list day records", Err: err}
	}

	byUser := map[uint]UserDays{}
	for _, r := range recs {
		if byUser[r.UserID] == nil {
			byUser[r.UserID] = UserDays{}
		}
		byUser[r.UserID][r.Date] = r
	}

	type scored struct {
		user   string
		totals MonthTotals
	}
	var rows []scored
	for _, u := range users {
		if u.Name == models.DefaultUser {
			continue
		}
		rows = append(rows, scored{user: u.Name, totals: AggregateMonth(byUser[u.ID], year, month)})
	}

	// rows are already in name order, so the stable sort keeps ties
	// alphabetical.
	board := func(value func(MonthTotals) int) []RankEntry {
		out := []RankEntry{}
		for _, r := range rows {
			if v := value(r.totals); v > 0 {
				out = append(out, RankEntry{User: r.user, Value: v})
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
		if len(out) > rankingSize {
			out = out[:rankingSize]
		}
		return out
	}

	ranks := &MonthRankings{
		Coffee:  board(func(t MonthTotals) int { return t.CoffeeDays }),
		Alcohol: board(func(t MonthTotals) int { return t.AlcoholDays }),
		Amounts: map[string][]RankEntry{},
	}
	for _, kind := range models.BeverageKinds {
		ranks.Amounts[kind] = board(func(t MonthTotals) int { return t.AmountTotals[kind] })
	}
	return ranks, nil
}
