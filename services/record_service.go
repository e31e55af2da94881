package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sunghoonkim81/sul-calendar-web/models"
	"github.com/sunghoonkim81/sul-calendar-web/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DayPatch carries the optional fields of a day-record write. A nil field
// leaves the stored value untouched; a present field overwrites it, a present
// zero included. Amounts holds only the kinds present in the request.
type DayPatch struct {
	Coffee  *bool
	Alcohol *bool
	Amounts map[string]int
}

// DayView is the wire shape of a stored day record.
type DayView struct {
	Coffee  bool           `json:"coffee"`
	Alcohol bool           `json:"alcohol"`
	Amounts map[string]int `json:"amounts,omitempty"`
}

func newDayView(rec models.DayRecord) DayView {
	return DayView{
		Coffee:  rec.Coffee,
		Alcohol: rec.Alcohol,
		Amounts: rec.Amounts.Data(),
	}
}

// NormalizeUser trims the supplied name and substitutes the sentinel default
// identity when nothing usable remains.
func NormalizeUser(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.DefaultUser
	}
	return name
}

// RecordService owns the write path: every mutation of a day record goes
// through ApplyUpdate, which normalizes the record and keeps the store
// sparse. Writes to the same (user, date) key are serialized by a per-key
// mutex so concurrent read-modify-write cycles cannot lose updates.
type RecordService struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{db: db, locks: make(map[string]*sync.Mutex)}
}

func (s *RecordService) lockKey(user, date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := user + "\x00" + date
	l := s.locks[k]
	if l == nil {
		l = &sync.Mutex{}
		s.locks[k] = l
	}
	return l
}

// ApplyUpdate applies a patch to the (user, date) record and persists the
// result before returning. The user is created on first write. When the
// normalized record ends up all-false with no amounts it is deleted instead
// of stored, and removed=true is returned with a nil view.
func (s *RecordService) ApplyUpdate(ctx context.Context, username, date string, patch DayPatch) (*DayView, bool, error) {
	username = NormalizeUser(username)
	if _, err := utils.ParseDay(date); err != nil {
		return nil, false, &InvalidInputError{Field: "date", Reason: "want YYYY-MM-DD"}
	}

	lock := s.lockKey(username, date)
	lock.Lock()
	defer lock.Unlock()

	var view *DayView
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := getOrCreateUser(tx, username)
		if err != nil {
			return err
		}

		var rec models.DayRecord
		exists := true
		err = tx.Where("user_id = ? AND date = ?", user.ID, date).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			exists = false
			rec = models.DayRecord{UserID: user.ID, Date: date}
		} else if err != nil {
			return err
		}

		if patch.Coffee != nil {
			rec.Coffee = *patch.Coffee
		}

		amounts := rec.Amounts.Data()
		if amounts == nil {
			amounts = map[string]int{}
		}
		for kind, qty := range patch.Amounts {
			if qty < 0 {
				qty = 0
			}
			amounts[kind] = qty
		}

		total := 0
		for _, qty := range amounts {
			total += qty
		}

		// Explicit alcohol wins; otherwise an amounts-given write derives it.
		switch {
		case patch.Alcohol != nil:
			rec.Alcohol = *patch.Alcohol
		case len(patch.Amounts) > 0:
			rec.Alcohol = total > 0
		}

		// Explicit zeros are never stored.
		for kind, qty := range amounts {
			if qty == 0 {
				delete(amounts, kind)
			}
		}

		if !rec.Coffee && !rec.Alcohol && len(amounts) == 0 {
			removed = true
			if !exists {
				return nil
			}
			return tx.Unscoped().
				Where("user_id = ? AND date = ?", user.ID, date).
				Delete(&models.DayRecord{}).Error
		}

		rec.Amounts = datatypes.NewJSONType(amounts)
		if exists {
			err = tx.Save(&rec).Error
		} else {
			err = tx.Create(&rec).Error
		}
		if err != nil {
			return err
		}
		v := newDayView(rec)
		view = &v
		return nil
	})
	if err != nil {
		return nil, false, &StorageUnavailableError{Op: "write day record", Err: err}
	}
	return view, removed, nil
}

func getOrCreateUser(tx *gorm.DB, name string) (*models.User, error) {
	var user models.User
	err := tx.Where("name = ?", name).FirstOrCreate(&user, models.User{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// loadUserDays snapshots every stored record of one user, keyed by date. The
// statistics functions are pure folds over this snapshot and never touch the
// store themselves.
func loadUserDays(db *gorm.DB, userID uint) (UserDays, error) {
	var recs []models.DayRecord
	if err := db.Where("user_id = ?", userID).Find(&recs).Error; err != nil {
		return nil, err
	}
	days := make(UserDays, len(recs))
	for _, r := range recs {
		days[r.Date] = r
	}
	return days, nil
}
