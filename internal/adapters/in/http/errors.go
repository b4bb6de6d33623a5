package http

import (
	"errors"
	"net/http"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	ReasonNotFound         = "NOT_FOUND"
	ReasonMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ReasonInvalidArgument  = "INVALID_ARGUMENT"
	ReasonInvalidState     = "INVALID_STATE"
	ReasonAlreadyPaid      = "ALREADY_PAID"
	ReasonConflict         = "CONFLICT"
	ReasonUnavailable      = "UNAVAILABLE"
	ReasonInternal         = "INTERNAL"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// classify maps an error to its HTTP status and reason. AlreadyPaid is checked
// before the generic conflict it wraps.
func classify(err error) (int, string) {
	var httpErr *echo.HTTPError
	var validationErr *requestValidationError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ReasonInvalidArgument
	case errors.Is(err, order.ErrAlreadyPaid):
		return http.StatusConflict, ReasonAlreadyPaid
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, ReasonConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, ReasonNotFound
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusBadRequest, ReasonInvalidState
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, ReasonInvalidArgument
	case errors.Is(err, errs.ErrUnavailable):
		return http.StatusServiceUnavailable, ReasonUnavailable
	case errors.As(err, &httpErr):
		return httpErr.Code, reasonForStatus(httpErr.Code)
	default:
		return http.StatusInternalServerError, ReasonInternal
	}
}

func reasonForStatus(code int) string {
	switch code {
	case http.StatusNotFound:
		return ReasonNotFound
	case http.StatusMethodNotAllowed:
		return ReasonMethodNotAllowed
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return ReasonInvalidArgument
	case http.StatusServiceUnavailable:
		return ReasonUnavailable
	default:
		return ReasonInternal
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	code, reason := classify(err)

	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}
	if code == http.StatusInternalServerError {
		message = "internal error"
	}

	return code, ErrorResponse{Code: code, Reason: reason, Message: message}
}
