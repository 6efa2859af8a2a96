package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sami157/dining-management/internal/auth"
	"github.com/sami157/dining-management/internal/httperror"
	"github.com/sami157/dining-management/internal/httputil"
	"github.com/sami157/dining-management/internal/models"
	"github.com/shopspring/decimal"
)

// RegisterAuthRoutes registers the unauthenticated routes with the
// RouterGroup that is passed.
func RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/auth/login", httputil.OptionsPost)
	r.POST("/auth/login", Login)

	r.OPTIONS("/users/create", httputil.OptionsPost)
	r.POST("/users/create", CreateUser)
}

type LoginEditable struct {
	Email    string `json:"email" binding:"required" example:"member@example.com"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"` // Bearer token for subsequent requests
	User  models.User `json:"user"`
}

type UserCreateEditable struct {
	Name     string `json:"name" binding:"required" example:"Sami"`
	Email    string `json:"email" binding:"required" example:"member@example.com"`
	Password string `json:"password" binding:"required"`
	Mobile   string `json:"mobile" example:"01700000000"`
	Room     string `json:"room" example:"204"`
	Building string `json:"building" example:"North"`
}

// Recurring defaults for new members, admins adjust them per member later.
var (
	defaultFixedDeposit = decimal.NewFromInt(1000)
	defaultMosqueFee    = decimal.NewFromInt(300)
)

// @Summary		Log in
// @Description	Verifies the credentials and returns a bearer token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200	{object}	LoginResponse
// @Failure		400	{object}	httperror.Error
// @Failure		401	{object}	httperror.Error
// @Router			/auth/login [post]
func Login(c *gin.Context) {
	var editable LoginEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	user, err := models.UserByEmail(models.DB, editable.Email)
	if err != nil || !user.CheckPassword(editable.Password) {
		// Do not leak whether the email exists
		c.JSON(status(models.ErrInvalidCredentials), httperror.New(models.ErrInvalidCredentials))
		return
	}

	token, err := auth.NewToken(user.ID)
	if err != nil {
		c.JSON(status(models.ErrGeneral), httperror.New(models.ErrGeneral))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// @Summary		Register a member
// @Description	Creates a member account with the default recurring amounts
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201	{object}	UserResponse
// @Failure		400	{object}	httperror.Error
// @Router			/users/create [post]
func CreateUser(c *gin.Context) {
	var editable UserCreateEditable
	err := c.ShouldBindJSON(&editable)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	// The very first account becomes the admin, there is nobody else who
	// could promote it.
	role := models.RoleMember
	var count int64
	err = models.DB.Model(&models.User{}).Count(&count).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}
	if count == 0 {
		role = models.RoleAdmin
	}

	user := models.User{
		Name:         editable.Name,
		Email:        editable.Email,
		Mobile:       editable.Mobile,
		Room:         editable.Room,
		Building:     editable.Building,
		Role:         role,
		FixedDeposit: defaultFixedDeposit,
		MosqueFee:    defaultMosqueFee,
	}

	err = user.SetPassword(editable.Password)
	if err != nil {
		c.JSON(status(models.ErrGeneral), httperror.New(models.ErrGeneral))
		return
	}

	err = models.DB.Create(&user).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, UserResponse{User: user})
}
