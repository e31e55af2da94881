package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Beverage kinds tracked with per-day amounts. Amounts live in a JSON column
// keyed by kind, so new kinds can be introduced without a migration; the
// kinds listed here are the ones that get their own monthly ranking.
const (
	KindSoju      = "soju"
	KindBeer      = "beer"
	KindWhisky    = "whisky"
	KindWine      = "wine"
	KindMakgeolli = "makgeolli"
)

var BeverageKinds = []string{KindSoju, KindBeer, KindWhisky, KindWine, KindMakgeolli}

// DayRecord is one user's entry for one calendar day. A row only exists when
// something was consumed that day; an all-false, zero-amount record is
// deleted rather than stored.
type DayRecord struct {
	gorm.Model
	UserID  uint   `gorm:"not null;uniqueIndex:idx_day_records_user_date"`
	Date    string `gorm:"not null;uniqueIndex:idx_day_records_user_date"` // YYYY-MM-DD
	Coffee  bool
	Alcohol bool
	Amounts datatypes.JSONType[map[string]int]
}
