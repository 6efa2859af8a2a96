package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sami157/dining-management/internal/httperror"
	"github.com/sami157/dining-management/internal/httputil"
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
)

// RegisterExpenseRoutes registers the expense administration routes with
// the RouterGroup that is passed.
func RegisterExpenseRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", GetExpenses)

	r.OPTIONS("/add", httputil.OptionsPost)
	r.POST("/add", CreateExpense)

	r.OPTIONS("/:id", httputil.OptionsPutDelete)
	r.PUT("/:id", UpdateExpense)
	r.DELETE("/:id", DeleteExpense)
}

type ExpenseListResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

type ExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

type ExpenseEditable struct {
	Date        types.Date      `json:"date" binding:"required" example:"2024-05-07"`
	Category    string          `json:"category" example:"bazar"`
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"840.50"`
	Description string          `json:"description" example:"Fish and vegetables"`
	Person      string          `json:"person" example:"Rahim"`
}

// @Summary		List expenses
// @Description	Returns all expenses in the date range
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	httperror.Error
// @Param			startDate	query	string	true	"First date of the range"
// @Param			endDate		query	string	true	"Last date of the range"
// @Router			/finance/expenses [get]
func GetExpenses(c *gin.Context) {
	startDate, endDate, ok := bindRangeQuery(c)
	if !ok {
		return
	}

	expenses, err := models.ExpensesInRange(models.DB, startDate, endDate)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Expenses: expenses})
}

// @Summary		Create expense
// @Description	Books an expense
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201	{object}	ExpenseResponse
// @Failure		400	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Router			/finance/expenses/add [post]
func CreateExpense(c *gin.Context) {
	var editable ExpenseEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	expense := models.Expense{
		Date:        editable.Date,
		Category:    editable.Category,
		Amount:      editable.Amount,
		Description: editable.Description,
		Person:      editable.Person,
	}

	err = models.DB.Create(&expense).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, ExpenseResponse{Expense: expense})
}

// @Summary		Update expense
// @Description	Updates an expense
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the expense"
// @Router			/finance/expenses/{id} [put]
func UpdateExpense(c *gin.Context) {
	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var editable ExpenseEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	expense.Date = editable.Date
	expense.Category = editable.Category
	expense.Amount = editable.Amount
	expense.Description = editable.Description
	expense.Person = editable.Person

	err = models.DB.Save(&expense).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, ExpenseResponse{Expense: expense})
}

// @Summary		Delete expense
// @Description	Deletes an expense
// @Tags			Expenses
// @Produce		json
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the expense"
// @Router			/finance/expenses/{id} [delete]
func DeleteExpense(c *gin.Context) {
	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var expense models.Expense
	err := models.DB.First(&expense, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	err = models.DB.Delete(&expense).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
