package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sami157/dining-management/internal/auth"
	"github.com/sami157/dining-management/internal/httperror"
	"github.com/sami157/dining-management/internal/httputil"
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
)

// RegisterMealRoutes registers the member facing meal routes with the
// RouterGroup that is passed.
func RegisterMealRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/available", httputil.OptionsGet)
	r.GET("/available", GetAvailableMeals)

	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", RegisterMeal)

	r.OPTIONS("/register/:id", httputil.OptionsPatch)
	r.PATCH("/register/:id", UpdateRegistration)

	r.OPTIONS("/register/cancel/:id", httputil.OptionsDelete)
	r.DELETE("/register/cancel/:id", CancelRegistration)

	r.OPTIONS("/total/:email", httputil.OptionsGet)
	r.GET("/total/:email", GetTotalMeals)
}

// RegisterRegistrationRoutes registers the admin facing registration routes
// with the RouterGroup that is passed.
func RegisterRegistrationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", GetRegistrations)
}

type RegistrationResponse struct {
	Registration models.Registration `json:"registration"`
}

type RegistrationListResponse struct {
	Registrations []models.Registration `json:"registrations"`
}

type TotalMealsResponse struct {
	TotalMeals decimal.Decimal `json:"totalMeals"`
}

type RegistrationEditable struct {
	Date          types.Date `json:"date" binding:"required" example:"2024-05-12"`
	MealType      string     `json:"mealType" binding:"required" example:"evening"`
	NumberOfMeals int        `json:"numberOfMeals" example:"1"`
}

type QuantityEditable struct {
	NumberOfMeals int `json:"numberOfMeals" binding:"required" example:"2"`
}

// @Summary		Register for a meal
// @Description	Registers the requesting member for a meal. Registering again for the same meal updates the quantity.
// @Tags			Meals
// @Accept			json
// @Produce		json
// @Success		201	{object}	RegistrationResponse
// @Failure		400	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Router			/users/meals/register [post]
func RegisterMeal(c *gin.Context) {
	user, _ := auth.UserFromContext(c)

	var editable RegistrationEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	if editable.NumberOfMeals == 0 {
		editable.NumberOfMeals = 1
	}

	registration, err := models.RegisterMeal(models.DB, user.ID, editable.Date, editable.MealType, editable.NumberOfMeals, time.Now())
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, RegistrationResponse{Registration: registration})
}

// @Summary		Update registration
// @Description	Changes the number of meals of a registration. Members can only change their own.
// @Tags			Meals
// @Accept			json
// @Produce		json
// @Success		200	{object}	RegistrationResponse
// @Failure		400	{object}	httperror.Error
// @Failure		403	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the registration"
// @Router			/users/meals/register/{id} [patch]
func UpdateRegistration(c *gin.Context) {
	user, _ := auth.UserFromContext(c)

	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var editable QuantityEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	var registration models.Registration
	err = models.DB.First(&registration, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	if registration.UserID != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, httperror.New(auth.ErrAdminOnly))
		return
	}

	err = models.UpdateQuantity(models.DB, &registration, editable.NumberOfMeals)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, RegistrationResponse{Registration: registration})
}

// @Summary		Cancel registration
// @Description	Cancels a registration. Cancelling is allowed after the deadline, but not in a finalized month.
// @Tags			Meals
// @Produce		json
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		403	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the registration"
// @Router			/users/meals/register/cancel/{id} [delete]
func CancelRegistration(c *gin.Context) {
	user, _ := auth.UserFromContext(c)

	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var registration models.Registration
	err := models.DB.First(&registration, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	if registration.UserID != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, httperror.New(auth.ErrAdminOnly))
		return
	}

	err = models.CancelRegistration(models.DB, &registration)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		List registrations
// @Description	Returns all registrations in the date range
// @Tags			Registrations
// @Produce		json
// @Success		200	{object}	RegistrationListResponse
// @Failure		400	{object}	httperror.Error
// @Param			startDate	query	string	true	"First date of the range"
// @Param			endDate		query	string	true	"Last date of the range"
// @Router			/managers/registrations [get]
func GetRegistrations(c *gin.Context) {
	startDate, endDate, ok := bindRangeQuery(c)
	if !ok {
		return
	}

	registrations, err := models.RegistrationsInRange(models.DB, startDate, endDate)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, RegistrationListResponse{Registrations: registrations})
}

// @Summary		Total meals
// @Description	Returns the weighted meal total of a member for a month. Members can only request their own.
// @Tags			Meals
// @Produce		json
// @Success		200	{object}	TotalMealsResponse
// @Failure		400	{object}	httperror.Error
// @Failure		403	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			email	path	string	true	"Email of the member"
// @Param			month	query	string	true	"Month in YYYY-MM format"
// @Router			/users/meals/total/{email} [get]
func GetTotalMeals(c *gin.Context) {
	user, _ := auth.UserFromContext(c)

	email := c.Param("email")
	month, ok := bindMonthQuery(c)
	if !ok {
		return
	}

	target, err := models.UserByEmail(models.DB, email)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	if target.ID != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, httperror.New(auth.ErrAdminOnly))
		return
	}

	total, err := models.TotalWeightedMeals(models.DB, target.ID, month, nil)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, TotalMealsResponse{TotalMeals: total})
}
