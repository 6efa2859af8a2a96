package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Registration records a member's intent to eat a meal on a date.
//
// There is at most one registration per (member, date, meal type);
// registering again updates the quantity of the existing row.
type Registration struct {
	DefaultModel
	UserID        uuid.UUID  `json:"userId" gorm:"uniqueIndex:registration_member_meal"`
	User          User       `json:"-"`
	Date          types.Date `json:"date" gorm:"uniqueIndex:registration_member_meal"`
	MealType      string     `json:"mealType" gorm:"uniqueIndex:registration_member_meal"`
	NumberOfMeals int        `json:"numberOfMeals"`
}

// BeforeSave validates the registration and refuses writes in finalized months.
func (r *Registration) BeforeSave(tx *gorm.DB) error {
	if !ValidMealType(r.MealType) {
		return ErrInvalidMealType
	}

	if r.NumberOfMeals < 1 {
		return ErrInvalidQuantity
	}

	return requireOpenMonth(tx, r.Date.Month())
}

// BeforeDelete refuses cancellation once the month is finalized. The deadline
// does not matter here, cancelling an existing registration is always allowed.
func (r *Registration) BeforeDelete(tx *gorm.DB) error {
	return requireOpenMonth(tx, r.Date.Month())
}

// RegisterMeal creates a registration for the member, or updates the quantity
// if one already exists for the same date and meal type.
//
// New registrations require the slot to be available and the deadline not to
// have passed. The deadline check is skipped for existing registrations, only
// their quantity changes.
func RegisterMeal(db *gorm.DB, userID uuid.UUID, date types.Date, mealType string, numberOfMeals int, now time.Time) (Registration, error) {
	if numberOfMeals < 1 {
		return Registration{}, ErrInvalidQuantity
	}

	_, err := SlotFor(db, date, mealType)
	if err != nil {
		return Registration{}, err
	}

	var existing Registration
	err = db.Where(&Registration{UserID: userID, Date: date, MealType: mealType}).First(&existing).Error
	if err == nil {
		err = db.Model(&existing).Update("NumberOfMeals", numberOfMeals).Error
		if err != nil {
			return Registration{}, err
		}
		return existing, nil
	}
	if !ErrorIsNotFound(err) {
		return Registration{}, err
	}

	if !Deadline.CanRegister(date, mealType, now) {
		return Registration{}, ErrDeadlinePassed
	}

	registration := Registration{
		UserID:        userID,
		Date:          date,
		MealType:      mealType,
		NumberOfMeals: numberOfMeals,
	}

	// Two near-simultaneous registrations for the same meal must not create
	// duplicate rows, the unique index turns the loser into a quantity update.
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "meal_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"number_of_meals", "updated_at"}),
	}).Create(&registration).Error
	if err != nil {
		return Registration{}, err
	}

	// On a lost race the insert updated the winner's row and the ID generated
	// in BeforeCreate does not exist. Re-read so the caller always gets the
	// stored row.
	var saved Registration
	err = db.Where(&Registration{UserID: userID, Date: date, MealType: mealType}).First(&saved).Error
	if err != nil {
		return Registration{}, err
	}

	return saved, nil
}

// UpdateQuantity changes the number of meals of an existing registration.
// It is not blocked by the registration deadline.
func UpdateQuantity(db *gorm.DB, registration *Registration, numberOfMeals int) error {
	if numberOfMeals < 1 {
		return ErrInvalidQuantity
	}

	return db.Model(registration).Update("NumberOfMeals", numberOfMeals).Error
}

// CancelRegistration removes a registration. Cancellation is permitted
// regardless of the deadline, but not once the month is finalized.
//
// The row is removed for real: the member may register again later, and a
// soft deleted row would still occupy the unique index.
func CancelRegistration(db *gorm.DB, registration *Registration) error {
	return db.Unscoped().Delete(registration).Error
}

// RegistrationsInRange returns all registrations for dates inside the range.
func RegistrationsInRange(db *gorm.DB, startDate, endDate types.Date) ([]Registration, error) {
	if endDate.Before(startDate) {
		return nil, ErrInvalidRange
	}

	var registrations []Registration
	err := db.Where("date >= ? AND date <= ?", startDate, endDate).
		Order("date ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}

	return registrations, nil
}

// CountForMealType returns the total number of meals registered for a slot,
// used for kitchen headcounts.
func CountForMealType(db *gorm.DB, date types.Date, mealType string) (int, error) {
	var count decimal.NullDecimal
	err := db.Model(&Registration{}).
		Where("date = ? AND meal_type = ?", date, mealType).
		Select("SUM(number_of_meals)").
		Row().
		Scan(&count)
	if err != nil {
		return 0, err
	}

	return int(count.Decimal.IntPart()), nil
}

// TotalWeightedMeals returns the member's billing basis for the month: the
// sum of numberOfMeals multiplied by the weight of the registered slot.
//
// If upTo is set, only registrations up to and including that date count.
func TotalWeightedMeals(db *gorm.DB, userID uuid.UUID, month types.Month, upTo *types.Date) (decimal.Decimal, error) {
	return weightedMealSum(db, &userID, month, upTo)
}

// TotalWeightedMealsAllMembers returns the weighted meal units consumed by
// all members in the month.
func TotalWeightedMealsAllMembers(db *gorm.DB, month types.Month, upTo *types.Date) (decimal.Decimal, error) {
	return weightedMealSum(db, nil, month, upTo)
}

func weightedMealSum(db *gorm.DB, userID *uuid.UUID, month types.Month, upTo *types.Date) (decimal.Decimal, error) {
	endDate := month.LastDay()
	if upTo != nil && upTo.Before(endDate) {
		endDate = *upTo
	}

	query := db.Table("registrations").
		Joins("JOIN meal_schedules ON meal_schedules.date = registrations.date").
		Joins("JOIN meal_slots ON meal_slots.schedule_id = meal_schedules.id AND meal_slots.meal_type = registrations.meal_type").
		Where("registrations.date >= ? AND registrations.date <= ?", month.FirstDay(), endDate)

	if userID != nil {
		query = query.Where("registrations.user_id = ?", *userID)
	}

	var sum decimal.NullDecimal
	err := query.Select("SUM(registrations.number_of_meals * meal_slots.weight)").Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}
