// Package auth implements bearer token authentication.
//
// Tokens are HS256 JWTs carrying only the member ID. The acting member and
// their role are always loaded from the database when a request comes in,
// client-supplied identity is never trusted for write operations.
package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sami157/dining-management/internal/httperror"
	"github.com/sami157/dining-management/internal/models"
)

// Lifetime of issued tokens.
const tokenLifetime = 7 * 24 * time.Hour

// contextUser is the gin context key the authenticated member is stored under.
const contextUser = "dining-current-user"

var (
	ErrMissingToken = errors.New("this endpoint requires a bearer token")
	ErrInvalidToken = errors.New("the bearer token is invalid or expired")
	ErrAdminOnly    = errors.New("this endpoint requires the admin role")
)

func secret() []byte {
	if s, ok := os.LookupEnv("JWT_SECRET"); ok {
		return []byte(s)
	}

	// Development fallback, deployments must set JWT_SECRET
	return []byte("dining-management-dev-secret")
}

// NewToken issues a signed token for the member.
func NewToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// Middleware authenticates the request from the Authorization header and
// stores the acting member in the context. Requests without a valid token
// are rejected with 401.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperror.New(ErrMissingToken))
			return
		}

		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
			return secret(), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperror.New(ErrInvalidToken))
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperror.New(ErrInvalidToken))
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperror.New(ErrInvalidToken))
			return
		}

		var user models.User
		err = models.DB.First(&user, userID).Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperror.New(ErrInvalidToken))
			return
		}

		c.Set(contextUser, user)
		c.Next()
	}
}

// RequireAdmin rejects requests from members without the admin role. The
// role check is always done against the database record, the frontend's own
// role gating is a UI convenience only.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperror.New(ErrMissingToken))
			return
		}

		if user.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, httperror.New(ErrAdminOnly))
			return
		}

		c.Next()
	}
}

// UserFromContext returns the authenticated member for the request.
func UserFromContext(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(contextUser)
	if !exists {
		return models.User{}, false
	}

	user, ok := value.(models.User)
	return user, ok
}
