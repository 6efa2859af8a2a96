package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sami157/dining-management/internal/httperror"
	"github.com/sami157/dining-management/internal/httputil"
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/internal/types"
	"github.com/shopspring/decimal"
)

// RegisterDepositRoutes registers the deposit administration routes with
// the RouterGroup that is passed.
func RegisterDepositRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", GetDeposits)

	r.OPTIONS("/add", httputil.OptionsPost)
	r.POST("/add", CreateDeposit)

	r.OPTIONS("/:id", httputil.OptionsPutDelete)
	r.PUT("/:id", UpdateDeposit)
	r.DELETE("/:id", DeleteDeposit)
}

type DepositListResponse struct {
	Deposits []models.Deposit `json:"deposits"`
}

type DepositRecordResponse struct {
	Deposit models.Deposit `json:"deposit"`
}

type DepositEditable struct {
	UserID      uuid.UUID       `json:"userId" binding:"required"`
	Month       types.Month     `json:"month" binding:"required" example:"2024-05"`
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"1500"`
	Notes       string          `json:"notes" example:"Paid in cash"`
	DepositDate types.Date      `json:"depositDate" example:"2024-05-03"`
}

// @Summary		List deposits
// @Description	Returns all deposits of a month
// @Tags			Deposits
// @Produce		json
// @Success		200	{object}	DepositListResponse
// @Failure		400	{object}	httperror.Error
// @Param			month	query	string	true	"Month in YYYY-MM format"
// @Router			/finance/deposits [get]
func GetDeposits(c *gin.Context) {
	month, ok := bindMonthQuery(c)
	if !ok {
		return
	}

	deposits, err := models.DepositsForMonth(models.DB, month)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, DepositListResponse{Deposits: deposits})
}

// @Summary		Create deposit
// @Description	Books a deposit for a member
// @Tags			Deposits
// @Accept			json
// @Produce		json
// @Success		201	{object}	DepositRecordResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Router			/finance/deposits/add [post]
func CreateDeposit(c *gin.Context) {
	var editable DepositEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	// The member has to exist before money can be booked against them.
	var user models.User
	err = models.DB.First(&user, editable.UserID).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	deposit := models.Deposit{
		UserID:      editable.UserID,
		Month:       editable.Month,
		Amount:      editable.Amount,
		Notes:       editable.Notes,
		DepositDate: editable.DepositDate,
	}

	err = models.DB.Create(&deposit).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, DepositRecordResponse{Deposit: deposit})
}

// @Summary		Update deposit
// @Description	Updates a deposit
// @Tags			Deposits
// @Accept			json
// @Produce		json
// @Success		200	{object}	DepositRecordResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the deposit"
// @Router			/finance/deposits/{id} [put]
func UpdateDeposit(c *gin.Context) {
	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var editable DepositEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	var deposit models.Deposit
	err = models.DB.First(&deposit, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	deposit.UserID = editable.UserID
	deposit.Month = editable.Month
	deposit.Amount = editable.Amount
	deposit.Notes = editable.Notes
	deposit.DepositDate = editable.DepositDate

	err = models.DB.Save(&deposit).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, DepositRecordResponse{Deposit: deposit})
}

// @Summary		Delete deposit
// @Description	Deletes a deposit
// @Tags			Deposits
// @Produce		json
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		409	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the deposit"
// @Router			/finance/deposits/{id} [delete]
func DeleteDeposit(c *gin.Context) {
	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var deposit models.Deposit
	err := models.DB.First(&deposit, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	err = models.DB.Delete(&deposit).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
