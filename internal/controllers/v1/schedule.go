package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sami157/dining-management/internal/auth"
	"github.com/sami157/dining-management/internal/httperror"
	"github.com/sami157/dining-management/internal/httputil"
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterScheduleRoutes registers the schedule administration routes with
// the RouterGroup that is passed. All of them require the admin role.
func RegisterScheduleRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", GetSchedules)

	r.OPTIONS("/generate", httputil.OptionsPost)
	r.POST("/generate", GenerateSchedules)

	r.OPTIONS("/:id", httputil.OptionsPut)
	r.PUT("/:id", UpdateSchedule)
}

type ScheduleListResponse struct {
	Schedules []models.MealSchedule `json:"schedules"` // Schedules in the requested range
}

type ScheduleResponse struct {
	Schedule models.MealSchedule `json:"schedule"`
}

type GenerateResponse struct {
	Created int `json:"created"` // Number of schedules that were created
}

type GenerateEditable struct {
	StartDate types.Date `json:"startDate" binding:"required" example:"2024-05-01"`
	EndDate   types.Date `json:"endDate" binding:"required" example:"2024-05-31"`
}

type MealSlotEditable struct {
	MealType    string          `json:"mealType" binding:"required" example:"morning"`
	IsAvailable bool            `json:"isAvailable" example:"true"`
	Menu        string          `json:"menu" example:"Khichuri with egg"`
	Weight      decimal.Decimal `json:"weight" example:"1"`
}

type ScheduleEditable struct {
	IsHoliday bool               `json:"isHoliday" example:"false"`
	Meals     []MealSlotEditable `json:"meals" binding:"required"`
}

// @Summary		List schedules
// @Description	Returns all schedules in the date range
// @Tags			Schedules
// @Produce		json
// @Success		200	{object}	ScheduleListResponse
// @Failure		400	{object}	httperror.Error
// @Param			startDate	query	string	true	"First date of the range"
// @Param			endDate		query	string	true	"Last date of the range"
// @Router			/managers/schedules [get]
func GetSchedules(c *gin.Context) {
	startDate, endDate, ok := bindRangeQuery(c)
	if !ok {
		return
	}

	schedules, err := models.SchedulesInRange(models.DB, startDate, endDate)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, ScheduleListResponse{Schedules: schedules})
}

// @Summary		Generate schedules
// @Description	Creates one schedule per date in the range. Existing dates are left untouched.
// @Tags			Schedules
// @Accept			json
// @Produce		json
// @Success		201	{object}	GenerateResponse
// @Failure		400	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Router			/managers/schedules/generate [post]
func GenerateSchedules(c *gin.Context) {
	var editable GenerateEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	created, err := models.GenerateSchedules(models.DB, editable.StartDate, editable.EndDate)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, GenerateResponse{Created: created})
}

// @Summary		Update schedule
// @Description	Replaces the holiday flag and the meal slots of a schedule
// @Tags			Schedules
// @Accept			json
// @Produce		json
// @Success		200	{object}	ScheduleResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the schedule"
// @Router			/managers/schedules/{id} [put]
func UpdateSchedule(c *gin.Context) {
	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var editable ScheduleEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	var schedule models.MealSchedule
	err = models.DB.First(&schedule, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		schedule.IsHoliday = editable.IsHoliday
		err := tx.Save(&schedule).Error
		if err != nil {
			return err
		}

		// Full replace of the slots. The delete must be a hard one, soft
		// deleted slots would still occupy the per-date unique index.
		err = tx.Unscoped().Where("schedule_id = ?", schedule.ID).Delete(&models.MealSlot{}).Error
		if err != nil {
			return err
		}

		for _, meal := range editable.Meals {
			slot := models.MealSlot{
				ScheduleID:  schedule.ID,
				MealType:    meal.MealType,
				IsAvailable: meal.IsAvailable,
				Menu:        meal.Menu,
				Weight:      meal.Weight,
			}
			err = tx.Create(&slot).Error
			if err != nil {
				return err
			}
		}

		return tx.Preload("Meals").First(&schedule, schedule.ID).Error
	})
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, ScheduleResponse{Schedule: schedule})
}

// AnnotatedMeal is one meal slot decorated with the requesting member's
// registration state.
type AnnotatedMeal struct {
	MealType        string          `json:"mealType"`
	IsAvailable     bool            `json:"isAvailable"`
	Menu            string          `json:"menu"`
	Weight          decimal.Decimal `json:"weight"`
	IsRegistered    bool            `json:"isRegistered"`
	CanRegister     bool            `json:"canRegister"`
	RegistrationID  *uuid.UUID      `json:"registrationId,omitempty"`
	NumberOfMeals   int             `json:"numberOfMeals"`
	RegisteredCount int             `json:"registeredCount"` // Total meals registered by all members
}

// AnnotatedSchedule is one schedule decorated for the requesting member.
type AnnotatedSchedule struct {
	ID        uuid.UUID       `json:"id"`
	Date      types.Date      `json:"date"`
	IsHoliday bool            `json:"isHoliday"`
	Meals     []AnnotatedMeal `json:"meals"`
}

type AvailableMealsResponse struct {
	Schedules []AnnotatedSchedule `json:"schedules"`
}

// @Summary		Available meals
// @Description	Returns the schedules in the range, each slot annotated with the requesting member's registration state
// @Tags			Meals
// @Produce		json
// @Success		200	{object}	AvailableMealsResponse
// @Failure		400	{object}	httperror.Error
// @Param			startDate	query	string	false	"First date of the range"
// @Param			endDate		query	string	false	"Last date of the range"
// @Param			month		query	string	false	"Month in YYYY-MM format, alternative to the date range"
// @Router			/users/meals/available [get]
func GetAvailableMeals(c *gin.Context) {
	user, _ := auth.UserFromContext(c)

	var startDate, endDate types.Date
	if monthString := c.Query("month"); monthString != "" {
		month, err := types.ParseMonth(monthString)
		if err != nil {
			c.JSON(status(httputil.ErrInvalidMonth), httperror.New(httputil.ErrInvalidMonth))
			return
		}
		startDate, endDate = month.FirstDay(), month.LastDay()
	} else {
		var ok bool
		startDate, endDate, ok = bindRangeQuery(c)
		if !ok {
			return
		}
	}

	schedules, err := models.SchedulesInRange(models.DB, startDate, endDate)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	registrations, err := models.RegistrationsInRange(models.DB, startDate, endDate)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	type slotKey struct {
		date     string
		mealType string
	}

	own := make(map[slotKey]models.Registration)
	counts := make(map[slotKey]int)
	for _, registration := range registrations {
		key := slotKey{registration.Date.String(), registration.MealType}
		counts[key] += registration.NumberOfMeals
		if registration.UserID == user.ID {
			own[key] = registration
		}
	}

	now := time.Now()
	annotated := make([]AnnotatedSchedule, 0, len(schedules))
	for _, schedule := range schedules {
		finalized, err := models.MonthFinalized(models.DB, schedule.Date.Month())
		if err != nil {
			c.JSON(status(err), httperror.New(err))
			return
		}

		entry := AnnotatedSchedule{
			ID:        schedule.ID,
			Date:      schedule.Date,
			IsHoliday: schedule.IsHoliday,
			Meals:     make([]AnnotatedMeal, 0, len(schedule.Meals)),
		}

		for _, slot := range schedule.Meals {
			key := slotKey{schedule.Date.String(), slot.MealType}

			meal := AnnotatedMeal{
				MealType:        slot.MealType,
				IsAvailable:     slot.IsAvailable,
				Menu:            slot.Menu,
				Weight:          slot.Weight,
				RegisteredCount: counts[key],
				CanRegister: !finalized &&
					slot.IsAvailable &&
					!schedule.IsHoliday &&
					models.Deadline.CanRegister(schedule.Date, slot.MealType, now),
			}

			if registration, ok := own[key]; ok {
				meal.IsRegistered = true
				meal.RegistrationID = &registration.ID
				meal.NumberOfMeals = registration.NumberOfMeals
			}

			entry.Meals = append(entry.Meals, meal)
		}

		annotated = append(annotated, entry)
	}

	c.JSON(http.StatusOK, AvailableMealsResponse{Schedules: annotated})
}
