package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Meal types served on a day.
const (
	MealMorning = "morning"
	MealEvening = "evening"
	MealNight   = "night"
)

// MealTypes lists all meal types in serving order.
var MealTypes = []string{MealMorning, MealEvening, MealNight}

// ValidMealType reports whether the string is a known meal type.
func ValidMealType(mealType string) bool {
	return mealType == MealMorning || mealType == MealEvening || mealType == MealNight
}

// MealSchedule is the authoritative plan for one calendar date.
type MealSchedule struct {
	DefaultModel
	Date      types.Date `json:"date" gorm:"uniqueIndex"`
	IsHoliday bool       `json:"isHoliday"`
	Meals     []MealSlot `json:"meals" gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
}

// MealSlot is one meal type on a scheduled date. The weight is the relative
// cost multiplier used to prorate shared expenses.
type MealSlot struct {
	DefaultModel
	ScheduleID  uuid.UUID       `json:"-" gorm:"uniqueIndex:meal_slot_schedule_type"`
	Schedule    MealSchedule    `json:"-"`
	MealType    string          `json:"mealType" gorm:"uniqueIndex:meal_slot_schedule_type"`
	IsAvailable bool            `json:"isAvailable"`
	Menu        string          `json:"menu"`
	Weight      decimal.Decimal `json:"weight" gorm:"type:DECIMAL(20,8)"`
}

// BeforeSave refuses changes to schedules of finalized months.
func (s *MealSchedule) BeforeSave(tx *gorm.DB) error {
	return requireOpenMonth(tx, s.Date.Month())
}

// BeforeDelete refuses deleting schedules of finalized months.
func (s *MealSchedule) BeforeDelete(tx *gorm.DB) error {
	return requireOpenMonth(tx, s.Date.Month())
}

// BeforeSave validates the slot and refuses changes in finalized months.
func (s *MealSlot) BeforeSave(tx *gorm.DB) error {
	s.Menu = strings.TrimSpace(s.Menu)

	if !ValidMealType(s.MealType) {
		return ErrInvalidMealType
	}

	if !s.Weight.IsPositive() {
		return ErrWeightNotPositive
	}

	var schedule MealSchedule
	err := tx.First(&schedule, s.ScheduleID).Error
	if err != nil {
		return err
	}

	return requireOpenMonth(tx, schedule.Date.Month())
}

// GenerateSchedules creates one schedule per date in the range, with all
// three meal types available at weight 1. Dates that already have a schedule
// are left untouched, the operation is idempotent. Dates in finalized months
// are skipped; if every date in the range is locked, ErrMonthFinalized is
// returned.
//
// It returns the number of schedules created.
func GenerateSchedules(db *gorm.DB, startDate, endDate types.Date) (int, error) {
	if endDate.Before(startDate) {
		return 0, ErrInvalidRange
	}

	created := 0
	locked := 0
	total := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		for date := startDate; !date.After(endDate); date = date.AddDays(1) {
			total++

			finalized, err := MonthFinalized(tx, date.Month())
			if err != nil {
				return err
			}
			if finalized {
				locked++
				continue
			}

			var count int64
			err = tx.Model(&MealSchedule{}).Where("date = ?", date).Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			schedule := MealSchedule{Date: date}
			for _, mealType := range MealTypes {
				schedule.Meals = append(schedule.Meals, MealSlot{
					MealType:    mealType,
					IsAvailable: true,
					Weight:      decimal.NewFromInt(1),
				})
			}

			err = tx.Create(&schedule).Error
			if err != nil {
				return err
			}
			created++
		}

		if locked == total {
			return ErrMonthFinalized
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// SchedulesInRange returns all schedules with a date inside the range,
// slots included, ordered by date.
func SchedulesInRange(db *gorm.DB, startDate, endDate types.Date) ([]MealSchedule, error) {
	if endDate.Before(startDate) {
		return nil, ErrInvalidRange
	}

	var schedules []MealSchedule
	err := db.Preload("Meals").
		Where("date >= ? AND date <= ?", startDate, endDate).
		Order("date ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}

	return schedules, nil
}

// SlotFor returns the slot for a meal type on a date.
//
// ErrMealUnavailable is returned when the date has no schedule, the date is a
// holiday, the meal type has no slot or the slot is not available.
func SlotFor(db *gorm.DB, date types.Date, mealType string) (MealSlot, error) {
	if !ValidMealType(mealType) {
		return MealSlot{}, ErrInvalidMealType
	}

	var schedule MealSchedule
	err := db.Preload("Meals").Where("date = ?", date).First(&schedule).Error
	if err != nil {
		if ErrorIsNotFound(err) {
			return MealSlot{}, ErrMealUnavailable
		}
		return MealSlot{}, err
	}

	if schedule.IsHoliday {
		return MealSlot{}, ErrMealUnavailable
	}

	for _, slot := range schedule.Meals {
		if slot.MealType == mealType {
			if !slot.IsAvailable {
				return MealSlot{}, ErrMealUnavailable
			}
			return slot, nil
		}
	}

	return MealSlot{}, ErrMealUnavailable
}
