package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// All handlers reply 200 at the transport layer; the envelope's Status
// field carries the outcome so cached and live responses serialize the
// same way.
func envelope(c echo.Context, status int, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return envelope(c, statusCode, data)
}

func SuccessResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusOK, data)
}

func BadRequestResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusBadRequest, data)
}

func NotFoundResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusNotFound, data)
}

func InternalServerErrorResponse(c echo.Context) error {
	return envelope(c, http.StatusInternalServerError, "internal error")
}

// AppErrorResponse unwraps an AppError chain into the envelope; anything
// else is reported as an internal error without leaking detail.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return InternalServerErrorResponse(c)
	}
	return envelope(c, appErr.Status, []*AppError{appErr})
}
