package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/api/middleware"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
)

// respondError maps a service error onto a status code. Unclassified errors
// are logged and reported without detail.
func respondError(c *gin.Context, message string, err error) {
	meta := services.ErrorMeta(err)

	var status int
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrImagesDisabled):
		status = http.StatusServiceUnavailable
	default:
		logger.Error(message, " [", c.GetString("request_id"), " ", c.Request.Method, " ", c.Request.URL.Path, "]: ", err)
		utils.SendInternalError(c, message, errors.New("internal server error"))
		return
	}

	utils.SendErrorWithMeta(c, status, message, err, meta)
}

func currentActor(c *gin.Context) services.Actor {
	return services.Actor{
		UserID:  c.GetInt(middleware.ContextUserID),
		Email:   c.GetString(middleware.ContextEmail),
		IsAdmin: c.GetBool(middleware.ContextIsAdmin),
	}
}

// parseID reads a positive integer path parameter, responding 400 when it
// is malformed.
func parseID(c *gin.Context, param, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		utils.SendValidationError(c, "Invalid "+label)
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request data", err)
		return false
	}
	return true
}
