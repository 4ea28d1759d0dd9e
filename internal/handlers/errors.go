package handlers

import (
	"errors"
	"net/http"

	"checky/internal/common"
	"checky/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// fieldErrors carries per-field validation failures.
type fieldErrors map[string]string

func (fieldErrors) Error() string { return "validation failed" }

func (fieldErrors) Unwrap() error { return common.ErrValidation }

// respondError maps an error onto the JSON error envelope. Errors without a
// client-facing status are returned to echo so HTTPErrorHandler logs the
// cause before rendering a generic 500.
func respondError(c echo.Context, err error) error {
	if isInternal(err) {
		return err
	}
	return writeError(c, err)
}

func isInternal(err error) bool {
	var fe fieldErrors
	var httpErr *echo.HTTPError
	if errors.As(err, &fe) || errors.As(err, &httpErr) {
		return false
	}
	status, _ := statusFor(err)
	return status == http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	var fe fieldErrors
	if errors.As(err, &fe) {
		return common.SendValidationError(c, fe)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, common.CreateErrorResponse(httpCode(httpErr.Code), message, nil))
	}

	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.JSON(status, common.CreateErrorResponse(code, message, nil))
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusBadRequest, "ALREADY_EXISTS"
	case errors.Is(err, common.ErrInsufficientStock):
		return http.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, common.ErrInvalidEnumValue):
		return http.StatusBadRequest, "INVALID_ENUM_VALUE"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	return "INTERNAL_ERROR"
}

// HTTPErrorHandler renders errors that escape handlers, including echo's own
// routing errors, in the same envelope.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if isInternal(err) {
			logger.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err))
		}
		if rerr := writeError(c, err); rerr != nil {
			logger.Warn("failed to write error response", zap.Error(rerr))
		}
	}
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			return fieldErrors(details)
		}
		return err
	}
	return nil
}

func tenantID(c echo.Context) (uuid.UUID, error) {
	id, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, common.ErrUnauthorized
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

// queryInt reads an optional integer query parameter.
func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	var v int
	if err := echo.QueryParamsBinder(c).Int(name, &v).BindError(); err != nil {
		return 0, common.Invalid("%s must be an integer", name)
	}
	return v, nil
}

// queryBool reads an optional boolean query parameter; nil when absent.
func queryBool(c echo.Context, name string) (*bool, error) {
	if c.QueryParam(name) == "" {
		return nil, nil
	}
	var v bool
	if err := echo.QueryParamsBinder(c).Bool(name, &v).BindError(); err != nil {
		return nil, common.Invalid("%s must be true or false", name)
	}
	return &v, nil
}
