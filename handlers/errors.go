package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/faizan/catalog/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and hidden behind a generic 500.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	var (
		validation  *service.ValidationError
		notFound    *service.NotFoundError
		consistency *service.ConsistencyError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFound.Error()})
	case errors.Is(err, service.ErrEmptyPopulation):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.As(err, &consistency):
		loggerFrom(c, log).WithError(err).WithField("irrecoverable", consistency.Irrecoverable()).Error("write could not be completed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "write could not be completed"})
	case errors.Is(err, context.DeadlineExceeded):
		loggerFrom(c, log).WithError(err).Warn("request timed out")
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"})
	default:
		loggerFrom(c, log).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}
