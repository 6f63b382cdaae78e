package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskboard/task-api/internal/api/handler"
	"github.com/taskboard/task-api/internal/api/metrics"
	"github.com/taskboard/task-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors and answers 500 "Server error".
//   - Renders {"success": false, "message": ..., "errors": [...]}.
//
// With exposeDetail set, the underlying error text is added as "error".
func NewHTTPErrorHandler(log zerolog.Logger, exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if exposeDetail && code >= http.StatusInternalServerError {
			body.Error = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body := handler.ErrorResponse{Message: "Validation failed"}
		for _, f := range verr.Fields {
			body.Errors = append(body.Errors, handler.FieldErrorResponse{Field: f.Field, Message: f.Message})
		}
		return http.StatusBadRequest, body
	}

	// Echo's own errors (router 404/405, middleware rejections, bad bodies).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code == http.StatusNotFound && errors.Is(err, echo.ErrNotFound) {
			msg = "Route not found"
		}
		return he.Code, handler.ErrorResponse{Message: msg}
	}

	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Message: "Task not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Message: "User not found"}
	case errors.Is(err, domain.ErrForbidden):
		metrics.AuthorizationDeniedTotal.WithLabelValues("task").Inc()
		return http.StatusForbidden, handler.ErrorResponse{Message: forbiddenMessage(c.Request().Method)}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, handler.ErrorResponse{Message: "Not authorized"}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Message: "Server error"}
}

func forbiddenMessage(method string) string {
	switch method {
	case http.MethodPut, http.MethodPatch:
		return "Not authorized to update this task"
	case http.MethodDelete:
		return "Not authorized to delete this task"
	default:
		return "Not authorized to access this task"
	}
}
