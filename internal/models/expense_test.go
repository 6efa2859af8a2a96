package models_test

import (
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestExpenseValidation() {
	err := models.DB.Create(&models.Expense{Date: types.NewDate(2024, 5, 10), Amount: decimal.Zero}).Error
	suite.Assert().ErrorIs(err, models.ErrInvalidAmount)
}

func (suite *TestSuiteStandard) TestTotalExpenses() {
	month := types.NewMonth(2024, 5)

	suite.createTestExpense(models.Expense{Date: types.NewDate(2024, 5, 5), Category: "bazar", Amount: decimal.NewFromInt(800)})
	suite.createTestExpense(models.Expense{Date: types.NewDate(2024, 5, 20), Category: "gas", Amount: decimal.NewFromInt(450)})
	suite.createTestExpense(models.Expense{Date: types.NewDate(2024, 6, 1), Category: "bazar", Amount: decimal.NewFromInt(999)})

	total, err := models.TotalExpenses(models.DB, month, nil)
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(1250), total)

	// Capped mid-month, the later expense does not count
	upTo := types.NewDate(2024, 5, 10)
	total, err = models.TotalExpenses(models.DB, month, &upTo)
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(800), total)
}

func (suite *TestSuiteStandard) TestExpensesInRange() {
	suite.createTestExpense(models.Expense{Date: types.NewDate(2024, 5, 5), Category: "bazar", Amount: decimal.NewFromInt(800)})
	suite.createTestExpense(models.Expense{Date: types.NewDate(2024, 5, 20), Category: "gas", Amount: decimal.NewFromInt(450)})

	expenses, err := models.ExpensesInRange(models.DB, types.NewDate(2024, 5, 1), types.NewDate(2024, 5, 10))
	suite.Require().Nil(err)
	suite.Require().Len(expenses, 1)
	suite.Assert().Equal("bazar", expenses[0].Category)

	_, err = models.ExpensesInRange(models.DB, types.NewDate(2024, 5, 10), types.NewDate(2024, 5, 1))
	suite.Assert().ErrorIs(err, models.ErrInvalidRange)
}
