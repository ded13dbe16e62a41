package handlers

import (
	"errors"

	"freightlink/internal/utils"
	"freightlink/internal/validators"

	"github.com/gin-gonic/gin"
)

// respondError translates the service error taxonomy into HTTP responses.
// Every handler funnels failures through here so a given error class always
// maps to the same status code.
func respondError(c *gin.Context, err error, resource string) {
	var validationErrs validators.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, validationErrs.Details())
	case errors.Is(err, utils.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, utils.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, utils.ErrNoMatch):
		utils.ErrorResponse(c, 404, "NO_MATCH", err.Error())
	case errors.Is(err, utils.ErrMatchTimeout):
		utils.ErrorResponse(c, 504, "MATCH_TIMEOUT", err.Error())
	case errors.Is(err, utils.ErrInvalidDurationUnit):
		utils.BadRequestResponse(c, err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}
