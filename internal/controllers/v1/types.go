package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sami157/dining-management/internal/httperror"
	"github.com/sami157/dining-management/internal/httputil"
	"github.com/sami157/dining-management/internal/types"
)

type URIID struct {
	ID string `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIMonth struct {
	Month string `uri:"month" binding:"required" example:"2024-05"` // Year and month in YYYY-MM format
}

type QueryMonth struct {
	Month string `form:"month" example:"2024-05"` // Year and month in YYYY-MM format
}

type QueryRange struct {
	StartDate string `form:"startDate" binding:"required" example:"2024-05-01"` // First date of the range
	EndDate   string `form:"endDate" binding:"required" example:"2024-05-31"`   // Last date of the range
}

// bindURIID binds the :id path parameter. gin's URI binding cannot
// unmarshal into uuid.UUID, so the parameter is bound as a string and
// parsed. On failure it writes the error response and returns false.
func bindURIID(c *gin.Context) (uuid.UUID, bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(httputil.ErrInvalidUUID), httperror.New(httputil.ErrInvalidUUID))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(uri.ID)
	if err != nil {
		c.JSON(status(httputil.ErrInvalidUUID), httperror.New(httputil.ErrInvalidUUID))
		return uuid.Nil, false
	}

	return id, true
}

// bindMonthURI parses the :month path parameter. On failure it writes the
// error response and returns false.
func bindMonthURI(c *gin.Context) (types.Month, bool) {
	var uri URIMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(httputil.ErrInvalidMonth), httperror.New(httputil.ErrInvalidMonth))
		return types.Month{}, false
	}

	month, err := types.ParseMonth(uri.Month)
	if err != nil {
		c.JSON(status(httputil.ErrInvalidMonth), httperror.New(httputil.ErrInvalidMonth))
		return types.Month{}, false
	}

	return month, true
}

// bindMonthQuery parses the month query parameter. On failure it writes the
// error response and returns false.
func bindMonthQuery(c *gin.Context) (types.Month, bool) {
	var query QueryMonth
	err := c.ShouldBindQuery(&query)
	if err != nil || query.Month == "" {
		c.JSON(status(httputil.ErrInvalidMonth), httperror.New(httputil.ErrInvalidMonth))
		return types.Month{}, false
	}

	month, err := types.ParseMonth(query.Month)
	if err != nil {
		c.JSON(status(httputil.ErrInvalidMonth), httperror.New(httputil.ErrInvalidMonth))
		return types.Month{}, false
	}

	return month, true
}

// bindRangeQuery parses the startDate and endDate query parameters. On
// failure it writes the error response and returns false.
func bindRangeQuery(c *gin.Context) (types.Date, types.Date, bool) {
	var query QueryRange
	err := c.ShouldBindQuery(&query)
	if err != nil {
		c.JSON(status(httputil.ErrInvalidDate), httperror.New(httputil.ErrInvalidDate))
		return types.Date{}, types.Date{}, false
	}

	startDate, err := types.ParseDate(query.StartDate)
	if err != nil {
		c.JSON(status(httputil.ErrInvalidDate), httperror.New(httputil.ErrInvalidDate))
		return types.Date{}, types.Date{}, false
	}

	endDate, err := types.ParseDate(query.EndDate)
	if err != nil {
		c.JSON(status(httputil.ErrInvalidDate), httperror.New(httputil.ErrInvalidDate))
		return types.Date{}, types.Date{}, false
	}

	return startDate, endDate, true
}
