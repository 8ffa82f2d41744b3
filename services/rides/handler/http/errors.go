package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/utils"
	"github.com/riopardo/rides/services/rides"
)

// errorResponse maps a use case error to its HTTP status and writes it
func errorResponse(c echo.Context, err error) error {
	var (
		validationErr *rides.ValidationError
		forbiddenErr  *rides.ForbiddenError
		transitionErr *rides.TransitionError
		conflictErr   *rides.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		return utils.ErrorWithDetailsResponse(c, http.StatusBadRequest, validationErr.Error(), validationErr)
	case errors.As(err, &forbiddenErr):
		return utils.ErrorWithDetailsResponse(c, http.StatusForbidden, forbiddenErr.Error(), forbiddenErr)
	case errors.Is(err, rides.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.As(err, &transitionErr):
		return utils.ErrorWithDetailsResponse(c, http.StatusConflict, transitionErr.Error(), transitionErr)
	case errors.As(err, &conflictErr):
		return utils.ErrorWithDetailsResponse(c, http.StatusConflict, conflictErr.Error(), conflictErr)
	case errors.Is(err, rides.ErrVersionConflict):
		return utils.ErrorResponseHandler(c, http.StatusConflict, err.Error())
	}

	logger.ErrorCtx(c.Request().Context(), "Ride request failed",
		logger.String("method", c.Request().Method),
		logger.String("path", c.Path()),
		logger.Err(err))
	return utils.InternalServerErrorResponse(c, "")
}
