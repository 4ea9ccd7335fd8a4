package middleware

import (
	"net/http"
	"strings"

	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUserKey is the gin context key holding the authenticated *models.User.
const CurrentUserKey = "currentUser"

// AuthMiddleware verifies the Bearer access token and puts the current user
// into the request context. Access tokens are stateless: only signature,
// expiry and the type claim are checked.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not authenticated")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			if util.IsExpired(err) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Access token expired")
			} else {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid token")
			}
			c.Abort()
			return
		}

		if claims.TokenType != util.TokenAccess {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid token type")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "User not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load user")
			}
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}

// RequireAdmin gates a route group to admin users. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not authenticated")
			c.Abort()
			return
		}
		if !user.IsAdmin {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser fetches the authenticated user placed by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
