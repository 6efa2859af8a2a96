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

// RegisterFinanceAdminRoutes registers the finance routes that require the
// admin role with the RouterGroup that is passed.
func RegisterFinanceAdminRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/finalize", httputil.OptionsPost)
	r.POST("/finalize", Finalize)

	r.OPTIONS("/balances", httputil.OptionsGet)
	r.GET("/balances", GetBalances)
}

// RegisterFinanceMemberRoutes registers the finance routes every signed in
// member can use with the RouterGroup that is passed.
func RegisterFinanceMemberRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/meal-rate", httputil.OptionsGet)
	r.GET("/meal-rate", GetMealRate)

	r.OPTIONS("/finalization/:month", httputil.OptionsGet)
	r.GET("/finalization/:month", GetFinalization)

	r.OPTIONS("/user-finalization", httputil.OptionsGet)
	r.GET("/user-finalization", GetUserFinalization)

	r.OPTIONS("/user-deposit", httputil.OptionsGet)
	r.GET("/user-deposit", GetUserDeposit)
}

type MealRateResponse struct {
	MealRate decimal.Decimal `json:"mealRate"` // Cost per weighted meal unit
}

type FinalizationResponse struct {
	Finalization *models.Finalization `json:"finalization"` // nil when the month has not been finalized
}

type UserFinalizationResponse struct {
	Finalization *models.UserFinalization `json:"finalization"` // nil when the month has not been finalized
}

type BalanceListResponse struct {
	Balances []models.Balance `json:"balances"`
}

type UserDepositResponse struct {
	Deposit decimal.Decimal `json:"deposit"` // Sum of the member's deposits for the month
}

type FinalizeEditable struct {
	Month types.Month `json:"month" binding:"required" example:"2024-05"`
}

// @Summary		Meal rate
// @Description	Returns the meal rate of a month: the final rate once finalized, a running estimate before
// @Tags			Finance
// @Produce		json
// @Success		200	{object}	MealRateResponse
// @Failure		400	{object}	httperror.Error
// @Param			month	query	string	true	"Month in YYYY-MM format"
// @Param			date	query	string	false	"Compute the running rate as of this date, defaults to today"
// @Router			/finance/meal-rate [get]
func GetMealRate(c *gin.Context) {
	month, ok := bindMonthQuery(c)
	if !ok {
		return
	}

	finalization, err := models.FinalizationForMonth(models.DB, month)
	if err == nil {
		c.JSON(http.StatusOK, MealRateResponse{MealRate: finalization.MealRate})
		return
	}
	if !models.ErrorIsNotFound(err) {
		c.JSON(status(err), httperror.New(err))
		return
	}

	asOf := types.DateOf(time.Now())
	if dateString := c.Query("date"); dateString != "" {
		asOf, err = types.ParseDate(dateString)
		if err != nil {
			c.JSON(status(httputil.ErrInvalidDate), httperror.New(httputil.ErrInvalidDate))
			return
		}
	}

	rate, err := models.RunningMealRate(models.DB, month, asOf)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, MealRateResponse{MealRate: rate})
}

// @Summary		Finalize month
// @Description	Closes a month: computes the final meal rate, bills every member and freezes the balances. Irreversible.
// @Tags			Finance
// @Accept			json
// @Produce		json
// @Success		201	{object}	FinalizationResponse
// @Failure		400	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Router			/finance/finalize [post]
func Finalize(c *gin.Context) {
	var editable FinalizeEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	finalization, err := models.FinalizeMonth(models.DB, editable.Month)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, FinalizationResponse{Finalization: &finalization})
}

// @Summary		Get finalization
// @Description	Returns the closing record of a month, or null when the month is still open
// @Tags			Finance
// @Produce		json
// @Success		200	{object}	FinalizationResponse
// @Failure		400	{object}	httperror.Error
// @Param			month	path	string	true	"Month in YYYY-MM format"
// @Router			/finance/finalization/{month} [get]
func GetFinalization(c *gin.Context) {
	month, ok := bindMonthURI(c)
	if !ok {
		return
	}

	finalization, err := models.FinalizationForMonth(models.DB, month)
	if err != nil {
		if models.ErrorIsNotFound(err) {
			// An open month is an answer, not an error.
			c.JSON(http.StatusOK, FinalizationResponse{Finalization: nil})
			return
		}
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, FinalizationResponse{Finalization: &finalization})
}

// @Summary		Get member finalization
// @Description	Returns the requesting member's share of a finalized month, or null when the month is still open
// @Tags			Finance
// @Produce		json
// @Success		200	{object}	UserFinalizationResponse
// @Failure		400	{object}	httperror.Error
// @Param			month	query	string	true	"Month in YYYY-MM format"
// @Router			/finance/user-finalization [get]
func GetUserFinalization(c *gin.Context) {
	user, _ := auth.UserFromContext(c)

	month, ok := bindMonthQuery(c)
	if !ok {
		return
	}

	record, err := models.UserFinalizationFor(models.DB, user.ID, month)
	if err != nil {
		if models.ErrorIsNotFound(err) {
			c.JSON(http.StatusOK, UserFinalizationResponse{Finalization: nil})
			return
		}
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, UserFinalizationResponse{Finalization: &record})
}

// @Summary		List balances
// @Description	Returns the balance of every member for a month, frozen if finalized, a running estimate otherwise
// @Tags			Finance
// @Produce		json
// @Success		200	{object}	BalanceListResponse
// @Failure		400	{object}	httperror.Error
// @Param			month	query	string	true	"Month in YYYY-MM format"
// @Router			/finance/balances [get]
func GetBalances(c *gin.Context) {
	month, ok := bindMonthQuery(c)
	if !ok {
		return
	}

	balances, err := models.Balances(models.DB, month, time.Now())
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, BalanceListResponse{Balances: balances})
}

// @Summary		Member deposit total
// @Description	Returns the sum of the requesting member's deposits for a month
// @Tags			Finance
// @Produce		json
// @Success		200	{object}	UserDepositResponse
// @Failure		400	{object}	httperror.Error
// @Param			month	query	string	true	"Month in YYYY-MM format"
// @Router			/finance/user-deposit [get]
func GetUserDeposit(c *gin.Context) {
	user, _ := auth.UserFromContext(c)

	month, ok := bindMonthQuery(c)
	if !ok {
		return
	}

	total, err := models.DepositTotal(models.DB, user.ID, month)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, UserDepositResponse{Deposit: total})
}
