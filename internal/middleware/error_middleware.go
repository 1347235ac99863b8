package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/pkg/apperrors"
)

// HandleAPIError maps application errors onto HTTP responses. Integrity
// violations carry their individual messages in the error details so a client
// sees every failed check at once.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError

	switch {
	case errors.Is(err, apperrors.ErrIntegrityViolation):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeIntegrityViolation, "Individual assessment integrity violation")
		if errors.As(err, &customErr) && customErr.Details != nil {
			errorDetail = errorDetail.WithDetails(customErr.Details["errors"])
		}
		c.JSON(400, dto.APIResponse{Error: errorDetail})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid objective status transition")
		if errors.As(err, &customErr) && customErr.Message != "" {
			errorDetail = errorDetail.WithDetails(customErr.Message)
		}
		c.JSON(400, dto.APIResponse{Error: errorDetail})
	case apperrors.IsAny(err,
		apperrors.ErrResourceNotFound,
		apperrors.ErrObjectiveNotFound,
		apperrors.ErrArtifactNotFound,
		apperrors.ErrAssessmentNotFound,
		apperrors.ErrProjectNotFound,
		apperrors.ErrUserNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
		if errors.As(err, &customErr) && customErr.Message != "" {
			errorDetail = errorDetail.WithDetails(customErr.Message)
		}
		c.JSON(403, dto.APIResponse{Error: errorDetail})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case apperrors.IsAny(err, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotFound, apperrors.ErrTokenRevoked):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, err.Error()),
		})
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists"),
		})
	case apperrors.IsAny(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		if errors.As(err, &customErr) && customErr.Message != "" {
			errorDetail = errorDetail.WithDetails(customErr.Message)
		}
		c.JSON(400, dto.APIResponse{Error: errorDetail})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
