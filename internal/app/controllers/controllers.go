package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/app/services"
)

// actorFromContext resolves the authenticated identity placed in the gin
// context by the JWT middleware. A missing identity aborts with 401.
func actorFromContext(ctx *gin.Context) (services.Actor, bool) {
	userID, exists := ctx.Get("userID")
	if !exists {
		abortUnauthenticated(ctx)
		return services.Actor{}, false
	}
	role, exists := ctx.Get("role")
	if !exists {
		abortUnauthenticated(ctx)
		return services.Actor{}, false
	}

	userIDStr, okID := userID.(string)
	roleStr, okRole := role.(string)
	if !okID || !okRole || userIDStr == "" {
		abortUnauthenticated(ctx)
		return services.Actor{}, false
	}

	return services.Actor{ID: userIDStr, Role: models.RoleType(roleStr)}, true
}

func abortUnauthenticated(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
		WithDetails("User information not found")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
