package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go-cvnetwork-backend/config"
	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/audit"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
		return cookie
	}
	return ""
}

// resolveUser validates the token and loads fresh user data. The role claim
// in the token is never trusted; the database is the authority.
func resolveUser(c *gin.Context, cfg *config.Config, authUC domain.AuthUsecase, tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("missing subject")
	}

	user, err := authUC.GetCurrentUser(c.Request.Context(), sub)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	if user.IsDeactivated {
		return nil, fmt.Errorf("account deactivated")
	}
	return user, nil
}

// setIdentity stores the caller on both the gin context and the request
// context so usecases can read it through plain context.Context.
func setIdentity(c *gin.Context, user *domain.User) {
	c.Set(string(domain.KeyUserID), user.ID)
	c.Set(string(domain.KeyUserEmail), user.Email)
	c.Set(string(domain.KeyUserRole), user.Role)

	ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, user.ID)
	ctx = context.WithValue(ctx, domain.KeyUserEmail, user.Email)
	ctx = context.WithValue(ctx, domain.KeyUserRole, user.Role)
	c.Request = c.Request.WithContext(ctx)
}

func AuthMiddleware(cfg *config.Config, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		user, err := resolveUser(c, cfg, authUC, tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a valid token is present
// and lets the request through anonymously otherwise. Used by routes that
// behave differently for logged-in viewers (CV views, message sending).
func OptionalAuthMiddleware(cfg *config.Config, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString != "" {
			if user, err := resolveUser(c, cfg, authUC, tokenString); err == nil {
				setIdentity(c, user)
			}
		}
		c.Next()
	}
}

// RequireAdmin gates a route group to admin accounts. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		if role != domain.RoleAdmin {
			audit.Default().Log(audit.Event{
				Event:  audit.EventUnauthorizedAccess,
				UserID: c.GetString(string(domain.KeyUserID)),
				IP:     c.ClientIP(),
			})
			response.Error(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
