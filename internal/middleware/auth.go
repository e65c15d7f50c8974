package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/service"
)

const (
	// Context keys set by the auth middlewares.
	CtxAdminID     = "adminID"
	CtxCandidateID = "candidateID"
)

// RequireAdmin verifies the bearer token and admits only admin tokens.
func RequireAdmin(tokens service.TokenService) gin.HandlerFunc {
	return requireRole(tokens, service.RoleAdmin, CtxAdminID)
}

// RequireCandidate verifies the bearer token and admits only candidate tokens.
func RequireCandidate(tokens service.TokenService) gin.HandlerFunc {
	return requireRole(tokens, service.RoleCandidate, CtxCandidateID)
}

func requireRole(tokens service.TokenService, role, ctxKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			log.Debug().Err(err).Msg("token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Insufficient role"})
			return
		}
		c.Set(ctxKey, claims.SubjectID)
		c.Next()
	}
}

// AdminID reads the admin id set by RequireAdmin.
func AdminID(c *gin.Context) uint {
	return c.GetUint(CtxAdminID)
}

// CandidateID reads the candidate id set by RequireCandidate.
func CandidateID(c *gin.Context) uint {
	return c.GetUint(CtxCandidateID)
}
