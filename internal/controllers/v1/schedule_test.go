package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/sami157/dining-management/internal/controllers/v1"
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/internal/types"
	"github.com/sami157/dining-management/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGenerateAndListSchedules() {
	_, token := suite.signUp(models.RoleAdmin)

	body := v1.GenerateEditable{StartDate: types.NewDate(2100, 5, 1), EndDate: types.NewDate(2100, 5, 3)}
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/managers/schedules/generate", body, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var generated v1.GenerateResponse
	test.DecodeResponse(suite.T(), &r, &generated)
	suite.Assert().Equal(3, generated.Created)

	// Generating again creates nothing new
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/managers/schedules/generate", body, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)
	test.DecodeResponse(suite.T(), &r, &generated)
	suite.Assert().Equal(0, generated.Created)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/managers/schedules?startDate=2100-05-01&endDate=2100-05-31", "", test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.ScheduleListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Schedules, 3)
	suite.Assert().Len(list.Schedules[0].Meals, 3)
}

func (suite *TestSuiteStandard) TestGenerateSchedulesInvalid() {
	_, token := suite.signUp(models.RoleAdmin)

	// End before start
	body := v1.GenerateEditable{StartDate: types.NewDate(2100, 5, 10), EndDate: types.NewDate(2100, 5, 1)}
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/managers/schedules/generate", body, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// Garbage body
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/managers/schedules/generate", `{ "startDate": 7 }`, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateSchedule() {
	_, token := suite.signUp(models.RoleAdmin)
	date := types.NewDate(2100, 5, 1)
	suite.generateSchedules(token, date, date)

	var schedule models.MealSchedule
	suite.Require().Nil(models.DB.Where("date = ?", date).First(&schedule).Error)

	body := v1.ScheduleEditable{
		IsHoliday: false,
		Meals: []v1.MealSlotEditable{
			{MealType: models.MealMorning, IsAvailable: true, Menu: "Khichuri", Weight: decimal.NewFromInt(1)},
			{MealType: models.MealNight, IsAvailable: true, Menu: "Biryani", Weight: decimal.NewFromInt(2)},
		},
	}

	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/managers/schedules/%s", schedule.ID), body, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ScheduleResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Schedule.Meals, 2)

	// The old slots are gone for good, only the new ones remain
	var count int64
	suite.Require().Nil(models.DB.Unscoped().Model(&models.MealSlot{}).Where("schedule_id = ?", schedule.ID).Count(&count).Error)
	suite.Assert().Equal(int64(2), count)
}

func (suite *TestSuiteStandard) TestUpdateScheduleInvalid() {
	_, token := suite.signUp(models.RoleAdmin)
	date := types.NewDate(2100, 5, 1)
	suite.generateSchedules(token, date, date)

	var schedule models.MealSchedule
	suite.Require().Nil(models.DB.Where("date = ?", date).First(&schedule).Error)

	// Unknown meal type
	body := v1.ScheduleEditable{
		Meals: []v1.MealSlotEditable{{MealType: "brunch", IsAvailable: true, Weight: decimal.NewFromInt(1)}},
	}
	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/managers/schedules/%s", schedule.ID), body, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// Unknown schedule
	r = test.Request(suite.T(), http.MethodPut, "http://example.com/v1/managers/schedules/b3a8b4b4-0000-0000-0000-000000000000", body, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// Broken UUID
	r = test.Request(suite.T(), http.MethodPut, "http://example.com/v1/managers/schedules/not-a-uuid", body, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
