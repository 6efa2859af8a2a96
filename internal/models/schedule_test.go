package models_test

import (
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (suite *TestSuiteStandard) TestGenerateSchedules() {
	start := types.NewDate(2024, 5, 1)
	end := types.NewDate(2024, 5, 3)

	created, err := models.GenerateSchedules(models.DB, start, end)
	suite.Require().Nil(err)
	suite.Assert().Equal(3, created)

	schedules, err := models.SchedulesInRange(models.DB, start, end)
	suite.Require().Nil(err)
	suite.Require().Len(schedules, 3)

	for _, schedule := range schedules {
		suite.Assert().False(schedule.IsHoliday)
		suite.Require().Len(schedule.Meals, 3)

		for _, slot := range schedule.Meals {
			suite.Assert().Equal(schedule.ID, slot.ScheduleID)
			suite.Assert().True(slot.IsAvailable)
			suite.assertDecimalEqual(decimal.NewFromInt(1), slot.Weight)
		}
	}
}

// Generating over an already scheduled range must not duplicate or reset
// anything.
func (suite *TestSuiteStandard) TestGenerateSchedulesIdempotent() {
	start := types.NewDate(2024, 5, 1)
	end := types.NewDate(2024, 5, 3)

	_, err := models.GenerateSchedules(models.DB, start, end)
	suite.Require().Nil(err)

	// Mark the middle date as holiday, regeneration must keep it
	suite.Require().Nil(models.DB.Session(&gorm.Session{SkipHooks: true}).
		Model(&models.MealSchedule{}).Where("date = ?", start.AddDays(1)).Update("is_holiday", true).Error)

	created, err := models.GenerateSchedules(models.DB, start, end.AddDays(2))
	suite.Require().Nil(err)
	suite.Assert().Equal(2, created)

	schedules, err := models.SchedulesInRange(models.DB, start, end.AddDays(2))
	suite.Require().Nil(err)
	suite.Assert().Len(schedules, 5)
	suite.Assert().True(schedules[1].IsHoliday)
}

func (suite *TestSuiteStandard) TestGenerateSchedulesInvalidRange() {
	_, err := models.GenerateSchedules(models.DB, types.NewDate(2024, 5, 10), types.NewDate(2024, 5, 1))
	suite.Assert().ErrorIs(err, models.ErrInvalidRange)
}

func (suite *TestSuiteStandard) TestSchedulesInRangeInvalid() {
	_, err := models.SchedulesInRange(models.DB, types.NewDate(2024, 5, 10), types.NewDate(2024, 5, 1))
	suite.Assert().ErrorIs(err, models.ErrInvalidRange)
}

func (suite *TestSuiteStandard) TestSlotFor() {
	date := types.NewDate(2024, 5, 10)
	suite.createTestSchedules(date, date)

	slot, err := models.SlotFor(models.DB, date, models.MealMorning)
	suite.Require().Nil(err)
	suite.Assert().Equal(models.MealMorning, slot.MealType)

	_, err = models.SlotFor(models.DB, date, "brunch")
	suite.Assert().ErrorIs(err, models.ErrInvalidMealType)

	_, err = models.SlotFor(models.DB, date.AddDays(1), models.MealMorning)
	suite.Assert().ErrorIs(err, models.ErrMealUnavailable)
}

func (suite *TestSuiteStandard) TestMealSlotValidation() {
	date := types.NewDate(2024, 5, 10)
	suite.createTestSchedules(date, date)

	var schedule models.MealSchedule
	suite.Require().Nil(models.DB.Where("date = ?", date).First(&schedule).Error)

	err := models.DB.Create(&models.MealSlot{
		ScheduleID:  schedule.ID,
		MealType:    "brunch",
		IsAvailable: true,
		Weight:      decimal.NewFromInt(1),
	}).Error
	suite.Assert().ErrorIs(err, models.ErrInvalidMealType)

	err = models.DB.Create(&models.MealSlot{
		ScheduleID:  schedule.ID,
		MealType:    models.MealMorning,
		IsAvailable: true,
		Weight:      decimal.Zero,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrWeightNotPositive)
}
