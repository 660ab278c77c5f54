package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    interface{}            `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Count   *int                   `json:"count,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendList responds with a collection and its length.
func SendList(c *gin.Context, message string, data interface{}, count int) {
	SendListWithMeta(c, message, data, count, nil)
}

func SendListWithMeta(c *gin.Context, message string, data interface{}, count int, meta map[string]interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Count:   &count,
		Meta:    meta,
	})
}

func SendError(c *gin.Context, statusCode int, message string, err error) {
	SendErrorWithMeta(c, statusCode, message, err, nil)
}

func SendErrorWithMeta(c *gin.Context, statusCode int, message string, err error, meta map[string]interface{}) {
	response := APIResponse{
		Success: false,
		Message: message,
		Meta:    meta,
	}

	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(statusCode, response)
}

func SendValidationError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message, nil)
}

func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message, nil)
}

func SendForbidden(c *gin.Context, message string) {
	SendError(c, http.StatusForbidden, message, nil)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message, nil)
}

func SendInternalError(c *gin.Context, message string, err error) {
	SendError(c, http.StatusInternalServerError, message, err)
}
