package server

import (
	"errors"
	"net/http"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnexpectedState):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidIdentifier), errors.Is(err, domain.ErrUnknownState):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEntityUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrDiscoveryPublish):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorHandler maps domain errors to status codes. echo errors keep their own.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		c.Echo().DefaultHTTPErrorHandler(err, c)
		return
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errorBody{Error: err.Error()})
}
