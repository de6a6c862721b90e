package handler

import (
	"errors"
	"net/http"

	"message-api/internal/transport/httpdto"
	api_errors "message-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto a status code. Anything that is not
// a known client error is handed to the error middleware as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, api_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), httpdto.CodeNotFound))
	case errors.Is(err, api_errors.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), httpdto.CodeInvalidReference))
	case errors.Is(err, api_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), httpdto.CodeInvalidRequest))
	case errors.Is(err, api_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), httpdto.CodeConflict))
	default:
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
	}
}
