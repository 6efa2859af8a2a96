package models_test

import (
	"time"

	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
)

// finalizationFixture sets up one month of activity:
//
//	expenses 3500, 50 weighted meals -> meal rate 70
//	A: 20 meals, 2000 deposited, 300 mosque fee
//	B: 30 meals, 1000 deposited, 200 mosque fee
func (suite *TestSuiteStandard) finalizationFixture() (a, b models.User, month types.Month) {
	month = types.NewMonth(2024, 5)
	date := types.NewDate(2024, 5, 10)

	a = suite.createTestUser(models.User{Name: "A", MosqueFee: decimal.NewFromInt(300)})
	b = suite.createTestUser(models.User{Name: "B", MosqueFee: decimal.NewFromInt(200)})

	suite.createTestSchedules(date, date)
	suite.createTestRegistration(a.ID, date, models.MealEvening, 20)
	suite.createTestRegistration(b.ID, date, models.MealEvening, 30)

	suite.createTestExpense(models.Expense{Date: date, Category: "bazar", Amount: decimal.NewFromInt(3500)})
	suite.createTestDeposit(models.Deposit{UserID: a.ID, Month: month, Amount: decimal.NewFromInt(2000)})
	suite.createTestDeposit(models.Deposit{UserID: b.ID, Month: month, Amount: decimal.NewFromInt(1000)})

	return
}

func (suite *TestSuiteStandard) TestFinalizeMonth() {
	a, b, month := suite.finalizationFixture()

	finalization, err := models.FinalizeMonth(models.DB, month)
	suite.Require().Nil(err)

	suite.Assert().True(finalization.IsFinalized)
	suite.assertDecimalEqual(decimal.NewFromInt(70), finalization.MealRate)
	suite.assertDecimalEqual(decimal.NewFromInt(50), finalization.TotalMealsServed)
	suite.assertDecimalEqual(decimal.NewFromInt(3500), finalization.TotalExpenses)
	suite.assertDecimalEqual(decimal.NewFromInt(3000), finalization.TotalDeposits)

	recordA, err := models.UserFinalizationFor(models.DB, a.ID, month)
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(20), recordA.WeightedMeals)
	suite.assertDecimalEqual(decimal.NewFromInt(1400), recordA.MealCost)
	suite.assertDecimalEqual(decimal.Zero, recordA.PreviousBalance)
	// 0 + 2000 - 1400 - 300
	suite.assertDecimalEqual(decimal.NewFromInt(300), recordA.NewBalance)

	recordB, err := models.UserFinalizationFor(models.DB, b.ID, month)
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(2100), recordB.MealCost)
	// 0 + 1000 - 2100 - 200
	suite.assertDecimalEqual(decimal.NewFromInt(-1300), recordB.NewBalance)
}

func (suite *TestSuiteStandard) TestFinalizeMonthTwice() {
	_, _, month := suite.finalizationFixture()

	_, err := models.FinalizeMonth(models.DB, month)
	suite.Require().Nil(err)

	_, err = models.FinalizeMonth(models.DB, month)
	suite.Assert().ErrorIs(err, models.ErrAlreadyFinalized)
}

// Once a month is finalized, nothing dated inside it may change anymore.
func (suite *TestSuiteStandard) TestFinalizedMonthIsLocked() {
	a, _, month := suite.finalizationFixture()
	date := types.NewDate(2024, 5, 10)

	var registration models.Registration
	suite.Require().Nil(models.DB.Where("user_id = ?", a.ID).First(&registration).Error)

	_, err := models.FinalizeMonth(models.DB, month)
	suite.Require().Nil(err)

	err = models.DB.Create(&models.Deposit{UserID: a.ID, Month: month, Amount: decimal.NewFromInt(100)}).Error
	suite.Assert().ErrorIs(err, models.ErrMonthFinalized)

	err = models.DB.Create(&models.Expense{Date: date, Amount: decimal.NewFromInt(100)}).Error
	suite.Assert().ErrorIs(err, models.ErrMonthFinalized)

	now := time.Time(date.AddDays(-2))
	_, err = models.RegisterMeal(models.DB, a.ID, date, models.MealMorning, 1, now)
	suite.Assert().ErrorIs(err, models.ErrMonthFinalized)

	// Cancellation is normally exempt from deadlines, but not from this
	err = models.CancelRegistration(models.DB, &registration)
	suite.Assert().ErrorIs(err, models.ErrMonthFinalized)

	// Generating schedules entirely inside the finalized month fails
	_, err = models.GenerateSchedules(models.DB, date.AddDays(1), date.AddDays(2))
	suite.Assert().ErrorIs(err, models.ErrMonthFinalized)
}

// The closing balance of one month is the opening balance of the next.
func (suite *TestSuiteStandard) TestBalanceRollsForward() {
	a, _, month := suite.finalizationFixture()

	_, err := models.FinalizeMonth(models.DB, month)
	suite.Require().Nil(err)

	next := month.AddDate(0, 1)
	previous, err := models.PreviousBalance(models.DB, a.ID, next)
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(300), previous)

	// An empty next month bills only the mosque fee
	_, err = models.FinalizeMonth(models.DB, next)
	suite.Require().Nil(err)

	record, err := models.UserFinalizationFor(models.DB, a.ID, next)
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(300), record.PreviousBalance)
	suite.assertDecimalEqual(decimal.Zero, record.MealCost)
	// 300 + 0 - 0 - 300
	suite.assertDecimalEqual(decimal.Zero, record.NewBalance)
}

// A month without meals has a rate of 0, not a division error.
func (suite *TestSuiteStandard) TestRunningMealRateZeroMeals() {
	month := types.NewMonth(2024, 5)

	rate, err := models.RunningMealRate(models.DB, month, month.LastDay())
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.Zero, rate)
}

func (suite *TestSuiteStandard) TestRunningMealRate() {
	suite.finalizationFixture()
	month := types.NewMonth(2024, 5)

	rate, err := models.RunningMealRate(models.DB, month, month.LastDay())
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(70), rate)
}

// The rate is rounded to four decimal places, meal costs to two.
func (suite *TestSuiteStandard) TestFinalizationRounding() {
	month := types.NewMonth(2024, 5)
	date := types.NewDate(2024, 5, 10)

	user := suite.createTestUser(models.User{Name: "A"})
	suite.createTestSchedules(date, date)
	suite.createTestRegistration(user.ID, date, models.MealEvening, 3)
	suite.createTestExpense(models.Expense{Date: date, Category: "bazar", Amount: decimal.NewFromInt(100)})

	finalization, err := models.FinalizeMonth(models.DB, month)
	suite.Require().Nil(err)

	// 100 / 3 = 33.3333
	suite.assertDecimalEqual(decimal.RequireFromString("33.3333"), finalization.MealRate)

	record, err := models.UserFinalizationFor(models.DB, user.ID, month)
	suite.Require().Nil(err)
	// 33.3333 * 3 = 99.9999, rounded to 100.00
	suite.assertDecimalEqual(decimal.RequireFromString("100"), record.MealCost)
}

func (suite *TestSuiteStandard) TestCurrentBalance() {
	a, _, month := suite.finalizationFixture()

	// Before finalization the balance is an estimate with the running rate:
	// 2000 - 70 * 20 = 600
	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	balance, err := models.CurrentBalance(models.DB, a.ID, month, now)
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(600), balance)

	_, err = models.FinalizeMonth(models.DB, month)
	suite.Require().Nil(err)

	// After finalization it is the frozen closing balance
	balance, err = models.CurrentBalance(models.DB, a.ID, month, now)
	suite.Require().Nil(err)
	suite.assertDecimalEqual(decimal.NewFromInt(300), balance)
}

func (suite *TestSuiteStandard) TestBalances() {
	a, b, month := suite.finalizationFixture()

	_, err := models.FinalizeMonth(models.DB, month)
	suite.Require().Nil(err)

	balances, err := models.Balances(models.DB, month, time.Now())
	suite.Require().Nil(err)
	suite.Require().Len(balances, 2)

	byUser := map[string]decimal.Decimal{}
	for _, balance := range balances {
		byUser[balance.UserID.String()] = balance.Balance
	}

	suite.assertDecimalEqual(decimal.NewFromInt(300), byUser[a.ID.String()])
	suite.assertDecimalEqual(decimal.NewFromInt(-1300), byUser[b.ID.String()])
}

func (suite *TestSuiteStandard) TestMonthFinalized() {
	_, _, month := suite.finalizationFixture()

	finalized, err := models.MonthFinalized(models.DB, month)
	suite.Require().Nil(err)
	suite.Assert().False(finalized)

	_, err = models.FinalizeMonth(models.DB, month)
	suite.Require().Nil(err)

	finalized, err = models.MonthFinalized(models.DB, month)
	suite.Require().Nil(err)
	suite.Assert().True(finalized)
}
