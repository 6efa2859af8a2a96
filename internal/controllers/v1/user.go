package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sami157/dining-management/internal/httperror"
	"github.com/sami157/dining-management/internal/httputil"
	"github.com/sami157/dining-management/internal/models"
	"github.com/shopspring/decimal"
)

// RegisterUserRoutes registers the member administration routes with the
// RouterGroup that is passed. All of them require the admin role.
func RegisterUserRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", GetUsers)

	r.OPTIONS("/role/:id", httputil.OptionsPut)
	r.PUT("/role/:id", UpdateUserRole)

	r.OPTIONS("/fixedDeposit/:id", httputil.OptionsPut)
	r.PUT("/fixedDeposit/:id", UpdateUserFixedDeposit)

	r.OPTIONS("/mosqueFee/:id", httputil.OptionsPut)
	r.PUT("/mosqueFee/:id", UpdateUserMosqueFee)
}

type UserListResponse struct {
	Users []models.User `json:"users"` // List of members
}

type UserResponse struct {
	User models.User `json:"user"`
}

type RoleEditable struct {
	Role string `json:"role" binding:"required" example:"admin"`
}

type FixedDepositEditable struct {
	FixedDeposit decimal.Decimal `json:"fixedDeposit" example:"1000"`
}

type MosqueFeeEditable struct {
	MosqueFee decimal.Decimal `json:"mosqueFee" example:"300"`
}

// @Summary		List members
// @Description	Returns all members
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserListResponse
// @Failure		500	{object}	httperror.Error
// @Router			/users [get]
func GetUsers(c *gin.Context) {
	var users []models.User
	err := models.DB.Order("name ASC").Find(&users).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, UserListResponse{Users: users})
}

// @Summary		Change role
// @Description	Sets the role of a member
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the member"
// @Router			/users/role/{id} [put]
func UpdateUserRole(c *gin.Context) {
	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var editable RoleEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	var user models.User
	err = models.DB.First(&user, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	// Assign and save so that the validation hook sees the new value.
	user.Role = editable.Role
	err = models.DB.Save(&user).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: user})
}

// @Summary		Update fixed deposit
// @Description	Sets the recurring monthly deposit default of a member
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the member"
// @Router			/users/fixedDeposit/{id} [put]
func UpdateUserFixedDeposit(c *gin.Context) {
	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var editable FixedDepositEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	var user models.User
	err = models.DB.First(&user, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	user.FixedDeposit = editable.FixedDeposit
	err = models.DB.Save(&user).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: user})
}

// @Summary		Update mosque fee
// @Description	Sets the recurring monthly fee of a member
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			id	path	URIID	true	"ID of the member"
// @Router			/users/mosqueFee/{id} [put]
func UpdateUserMosqueFee(c *gin.Context) {
	id, ok := bindURIID(c)
	if !ok {
		return
	}

	var editable MosqueFeeEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	var user models.User
	err = models.DB.First(&user, id).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	user.MosqueFee = editable.MosqueFee
	err = models.DB.Save(&user).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: user})
}
