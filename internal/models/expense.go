package models

import (
	"strings"

	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is money spent for the mess, e.g. groceries or gas. Expenses feed
// the meal rate.
type Expense struct {
	DefaultModel
	Date        types.Date      `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Description string          `json:"description"`
	Person      string          `json:"person"`
}

// BeforeSave validates the amount and refuses writes in finalized months.
func (e *Expense) BeforeSave(tx *gorm.DB) error {
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	e.Person = strings.TrimSpace(e.Person)

	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return requireOpenMonth(tx, e.Date.Month())
}

// BeforeDelete refuses deletion once the month is finalized.
func (e *Expense) BeforeDelete(tx *gorm.DB) error {
	return requireOpenMonth(tx, e.Date.Month())
}

// ExpensesInRange returns all expenses with a date inside the range.
func ExpensesInRange(db *gorm.DB, startDate, endDate types.Date) ([]Expense, error) {
	if endDate.Before(startDate) {
		return nil, ErrInvalidRange
	}

	var expenses []Expense
	err := db.Where("date >= ? AND date <= ?", startDate, endDate).
		Order("date ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

// TotalExpenses returns the sum of all expenses in the month. If upTo is
// set, only expenses up to and including that date count.
func TotalExpenses(db *gorm.DB, month types.Month, upTo *types.Date) (decimal.Decimal, error) {
	endDate := month.LastDay()
	if upTo != nil && upTo.Before(endDate) {
		endDate = *upTo
	}

	var sum decimal.NullDecimal
	err := db.Model(&Expense{}).
		Where("date >= ? AND date <= ?", month.FirstDay(), endDate).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}
