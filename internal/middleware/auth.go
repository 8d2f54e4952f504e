package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
	jwtsvc "customscrm/internal/pkg/jwt"
	"customscrm/internal/pkg/response"
	"customscrm/internal/repository"
)

const principalKey = "principal"

// JWTAuth validates the bearer token and resolves the principal against the
// current user and company rows, so a block issued after the token was
// minted takes effect immediately.
func JWTAuth(jwt *jwtsvc.Service, users *repository.UserRepository, companies *repository.CompanyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown user")
			c.Abort()
			return
		}
		if user.IsBlocked || !user.IsActive {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Account is blocked")
			c.Abort()
			return
		}
		if !user.InCompany() {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Company membership required")
			c.Abort()
			return
		}

		company, err := companies.GetByID(c.Request.Context(), *user.CompanyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.Error(c, http.StatusForbidden, "FORBIDDEN", "Company not found")
			} else {
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve company")
			}
			c.Abort()
			return
		}
		if company.IsBlocked || !company.IsActive {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Company is blocked")
			c.Abort()
			return
		}

		c.Set(principalKey, access.Principal{
			UserID:       user.ID,
			CompanyID:    company.ID,
			Role:         user.Role,
			ActivityType: user.ActivityType,
		})
		c.Set("user_id", user.ID)
		c.Set("role", string(user.Role))

		c.Next()
	}
}

// TokenOnly validates the bearer token without requiring company membership.
// Used by the company-setup endpoints a fresh registration goes through.
func TokenOnly(jwt *jwtsvc.Service, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown user")
			c.Abort()
			return
		}
		if user.IsBlocked {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Account is blocked")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}

// Principal returns the principal set by JWTAuth.
func Principal(c *gin.Context) access.Principal {
	v, _ := c.Get(principalKey)
	p, _ := v.(access.Principal)
	return p
}

// RequireDirector gates director-only route groups.
func RequireDirector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Principal(c).Role != domain.RoleDirector {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
