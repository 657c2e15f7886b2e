package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/clipperhub/barbershop-platform/internal/config"
	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/models"
	"github.com/clipperhub/barbershop-platform/internal/tokenstore"
)

const (
	ContextActor   = "actor"
	ContextTokenID = "tokenID"
)

// Actor returns the authenticated account stored by AuthMiddleware.
func Actor(c *gin.Context) *models.Account {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil
	}
	actor, _ := v.(*models.Account)
	return actor
}

// AuthMiddleware verifies the bearer token, rejects revoked token IDs, and
// loads the actor row so deleted or deactivated accounts lose access
// immediately rather than at token expiry.
func AuthMiddleware(cfg *config.Config, db *gorm.DB, revoked *tokenstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization header.")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid token.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims.")
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			abortUnauthorized(c, "Invalid token payload.")
			return
		}
		jti, _ := claims["jti"].(string)

		if revoked != nil && jti != "" {
			if gone, err := revoked.IsRevoked(c.Request.Context(), jti); err == nil && gone {
				abortUnauthorized(c, "Token has been revoked.")
				return
			}
		}

		var actor models.Account
		if err := db.WithContext(c.Request.Context()).
			Where("id = ? AND deleted_at IS NULL", uint(sub)).
			First(&actor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortUnauthorized(c, "Account no longer active.")
				return
			}
			httperr.Internal(c, "Authentication failed.")
			c.Abort()
			return
		}
		if !actor.IsActive {
			abortUnauthorized(c, "Account is deactivated.")
			return
		}

		c.Set(ContextActor, &actor)
		c.Set(ContextTokenID, jti)

		c.Next()
	}
}

// RequireRoles gates a route group to the given roles.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor == nil {
			abortUnauthorized(c, "Authentication required.")
			return
		}
		for _, r := range roles {
			if domain.Role(actor.Role) == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "You do not have permission to perform this action.")
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	httperr.Write(c, http.StatusUnauthorized, msg, nil)
	c.Abort()
}
