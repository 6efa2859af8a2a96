package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deposit is money a member paid into the mess fund for a month. A member
// can have any number of deposits per month, their sum is the monthly total.
type Deposit struct {
	DefaultModel
	UserID      uuid.UUID       `json:"userId"`
	User        User            `json:"-"`
	Month       types.Month     `json:"month"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Notes       string          `json:"notes"`
	DepositDate types.Date      `json:"depositDate"`
}

// BeforeSave validates the deposit and refuses writes in finalized months.
func (d *Deposit) BeforeSave(tx *gorm.DB) error {
	d.Notes = strings.TrimSpace(d.Notes)

	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if d.DepositDate.IsZero() {
		d.DepositDate = types.DateOf(tx.NowFunc())
	}

	return requireOpenMonth(tx, d.Month)
}

// BeforeDelete refuses deletion once the month is finalized.
func (d *Deposit) BeforeDelete(tx *gorm.DB) error {
	return requireOpenMonth(tx, d.Month)
}

// DepositsForMonth returns all deposits booked for the month.
func DepositsForMonth(db *gorm.DB, month types.Month) ([]Deposit, error) {
	var deposits []Deposit
	err := db.Where("month = ?", month).Order("deposit_date ASC").Find(&deposits).Error
	if err != nil {
		return nil, err
	}

	return deposits, nil
}

// TotalDepositsForMonth returns the sum of all deposits for the month.
func TotalDepositsForMonth(db *gorm.DB, month types.Month) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(&Deposit{}).
		Where("month = ?", month).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

// DepositTotal returns the sum of the member's deposits for the month.
func DepositTotal(db *gorm.DB, userID uuid.UUID, month types.Month) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(&Deposit{}).
		Where("user_id = ? AND month = ?", userID, month).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}
