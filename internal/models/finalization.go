package models

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Finalization is the immutable closing record for a month. It is created
// exactly once by FinalizeMonth and never updated, months move from open to
// finalized and there is no way back.
type Finalization struct {
	DefaultModel
	Month            types.Month     `json:"month" gorm:"uniqueIndex"`
	IsFinalized      bool            `json:"isFinalized"`
	MealRate         decimal.Decimal `json:"mealRate" gorm:"type:DECIMAL(20,8)"`         // Cost per weighted meal unit
	TotalMealsServed decimal.Decimal `json:"totalMealsServed" gorm:"type:DECIMAL(20,8)"` // Weighted meal units consumed by all members
	TotalExpenses    decimal.Decimal `json:"totalExpenses" gorm:"type:DECIMAL(20,8)"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits" gorm:"type:DECIMAL(20,8)"`
}

// UserFinalization is one member's share of a finalized month: the cost of
// their meals, the recurring fee and the closing balance that rolls forward
// into the next month.
type UserFinalization struct {
	DefaultModel
	FinalizationID  uuid.UUID       `json:"-"`
	Finalization    Finalization    `json:"-"`
	UserID          uuid.UUID       `json:"userId" gorm:"uniqueIndex:user_finalization_member_month"`
	User            User            `json:"-"`
	Month           types.Month     `json:"month" gorm:"uniqueIndex:user_finalization_member_month"`
	WeightedMeals   decimal.Decimal `json:"totalMeals" gorm:"type:DECIMAL(20,8)"`
	MealRate        decimal.Decimal `json:"mealRate" gorm:"type:DECIMAL(20,8)"`
	MealCost        decimal.Decimal `json:"mealCost" gorm:"type:DECIMAL(20,8)"`
	MosqueFee       decimal.Decimal `json:"mosqueFee" gorm:"type:DECIMAL(20,8)"`
	Deposits        decimal.Decimal `json:"deposits" gorm:"type:DECIMAL(20,8)"`
	PreviousBalance decimal.Decimal `json:"previousBalance" gorm:"type:DECIMAL(20,8)"`
	NewBalance      decimal.Decimal `json:"newBalance" gorm:"type:DECIMAL(20,8)"`
}

// Balance is a member's current balance, frozen once the month is finalized
// and an estimate based on the running meal rate before that.
type Balance struct {
	UserID  uuid.UUID       `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

// Decimal places for persisted rates and money amounts.
const (
	ratePrecision  = 4
	moneyPrecision = 2
)

// finalizeMu serializes finalization. Two concurrent calls for the same
// month must not both bill the members; the loser of this lock observes the
// winner's row and fails with ErrAlreadyFinalized. The unique index on
// finalizations.month backs this up across processes.
var finalizeMu sync.Mutex

// MonthFinalized reports whether a finalization record exists for the month.
func MonthFinalized(db *gorm.DB, month types.Month) (bool, error) {
	var count int64
	err := db.Model(&Finalization{}).Where("month = ? AND is_finalized = ?", month, true).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// requireOpenMonth returns ErrMonthFinalized if the month is already closed.
// All mutating model hooks for records dated inside a month go through this.
func requireOpenMonth(tx *gorm.DB, month types.Month) error {
	finalized, err := MonthFinalized(tx, month)
	if err != nil {
		return err
	}

	if finalized {
		return ErrMonthFinalized
	}

	return nil
}

// ErrorIsNotFound reports whether the error is a "no such record" error,
// either gorm's own or the friendly one the query callback rewrites it to.
func ErrorIsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrResourceNotFound)
}

// RunningMealRate returns the advisory meal rate for an open month: expenses
// up to asOf divided by the weighted meal units consumed up to asOf.
//
// When no meals have been consumed yet the rate is 0, not an error.
func RunningMealRate(db *gorm.DB, month types.Month, asOf types.Date) (decimal.Decimal, error) {
	expenses, err := TotalExpenses(db, month, &asOf)
	if err != nil {
		return decimal.Zero, err
	}

	meals, err := TotalWeightedMealsAllMembers(db, month, &asOf)
	if err != nil {
		return decimal.Zero, err
	}

	if meals.IsZero() {
		return decimal.Zero, nil
	}

	return expenses.DivRound(meals, ratePrecision), nil
}

// FinalizeMonth closes a month: it computes the final meal rate, bills every
// member, rolls the previous closing balances forward and persists the
// result as an immutable ledger entry.
//
// The whole operation runs in one transaction. Either every member is billed
// or none is.
func FinalizeMonth(db *gorm.DB, month types.Month) (Finalization, error) {
	finalizeMu.Lock()
	defer finalizeMu.Unlock()

	var finalization Finalization

	err := db.Transaction(func(tx *gorm.DB) error {
		finalized, err := MonthFinalized(tx, month)
		if err != nil {
			return err
		}
		if finalized {
			return ErrAlreadyFinalized
		}

		totalExpenses, err := TotalExpenses(tx, month, nil)
		if err != nil {
			return err
		}

		totalMeals, err := TotalWeightedMealsAllMembers(tx, month, nil)
		if err != nil {
			return err
		}

		rate := decimal.Zero
		if !totalMeals.IsZero() {
			rate = totalExpenses.DivRound(totalMeals, ratePrecision)
		}

		totalDeposits, err := TotalDepositsForMonth(tx, month)
		if err != nil {
			return err
		}

		var users []User
		err = tx.Find(&users).Error
		if err != nil {
			return err
		}

		finalization = Finalization{
			Month:            month,
			IsFinalized:      true,
			MealRate:         rate,
			TotalMealsServed: totalMeals,
			TotalExpenses:    totalExpenses,
			TotalDeposits:    totalDeposits,
		}
		err = tx.Create(&finalization).Error
		if err != nil {
			return err
		}

		for _, user := range users {
			weighted, err := TotalWeightedMeals(tx, user.ID, month, nil)
			if err != nil {
				return err
			}

			deposits, err := DepositTotal(tx, user.ID, month)
			if err != nil {
				return err
			}

			previous, err := PreviousBalance(tx, user.ID, month)
			if err != nil {
				return err
			}

			mealCost := rate.Mul(weighted).Round(moneyPrecision)
			newBalance := previous.Add(deposits).Sub(mealCost).Sub(user.MosqueFee)

			record := UserFinalization{
				FinalizationID:  finalization.ID,
				UserID:          user.ID,
				Month:           month,
				WeightedMeals:   weighted,
				MealRate:        rate,
				MealCost:        mealCost,
				MosqueFee:       user.MosqueFee,
				Deposits:        deposits,
				PreviousBalance: previous,
				NewBalance:      newBalance,
			}
			err = tx.Create(&record).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Finalization{}, err
	}

	return finalization, nil
}

// FinalizationForMonth returns the closing record for the month.
// Absence is signalled with a "not found" error, not a failure: the month
// simply has not been finalized yet.
func FinalizationForMonth(db *gorm.DB, month types.Month) (Finalization, error) {
	var finalization Finalization
	err := db.Where("month = ?", month).First(&finalization).Error
	return finalization, err
}

// UserFinalizationFor returns the member's row of a finalized month.
func UserFinalizationFor(db *gorm.DB, userID uuid.UUID, month types.Month) (UserFinalization, error) {
	var record UserFinalization
	err := db.Where("user_id = ? AND month = ?", userID, month).First(&record).Error
	return record, err
}

// PreviousBalance returns the member's closing balance from the immediately
// preceding month's finalization, or 0 when there is none (first month).
//
// This is a lookup into the immutable ledger, never a recomputation, so
// historical finalizations stay untouched by later data changes.
func PreviousBalance(db *gorm.DB, userID uuid.UUID, month types.Month) (decimal.Decimal, error) {
	record, err := UserFinalizationFor(db, userID, month.AddDate(0, -1))
	if err != nil {
		if ErrorIsNotFound(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return record.NewBalance, nil
}

// CurrentBalance returns the member's balance for the month: the frozen
// closing balance if the month is finalized, otherwise an estimate from the
// previous closing balance, this month's deposits and the running meal rate.
func CurrentBalance(db *gorm.DB, userID uuid.UUID, month types.Month, now time.Time) (decimal.Decimal, error) {
	record, err := UserFinalizationFor(db, userID, month)
	if err == nil {
		return record.NewBalance, nil
	}
	if !ErrorIsNotFound(err) {
		return decimal.Zero, err
	}

	previous, err := PreviousBalance(db, userID, month)
	if err != nil {
		return decimal.Zero, err
	}

	deposits, err := DepositTotal(db, userID, month)
	if err != nil {
		return decimal.Zero, err
	}

	asOf := types.DateOf(now)
	rate, err := RunningMealRate(db, month, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	weighted, err := TotalWeightedMeals(db, userID, month, &asOf)
	if err != nil {
		return decimal.Zero, err
	}

	cost := rate.Mul(weighted).Round(moneyPrecision)
	return previous.Add(deposits).Sub(cost), nil
}

// Balances returns the current balance of every member.
func Balances(db *gorm.DB, month types.Month, now time.Time) ([]Balance, error) {
	var users []User
	err := db.Find(&users).Error
	if err != nil {
		return nil, err
	}

	balances := make([]Balance, 0, len(users))
	for _, user := range users {
		balance, err := CurrentBalance(db, user.ID, month, now)
		if err != nil {
			return nil, err
		}

		balances = append(balances, Balance{UserID: user.ID, Balance: balance})
	}

	return balances, nil
}
