package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"carbonCare/pkg/logger"

	jsonres "carbonCare/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every unhandled error as {"error": message}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
		if he.Internal != nil {
			logger.Debug("HTTP error", "status", code, he.Internal)
		}
	} else {
		logger.Error("Unhandled error", "method", c.Request().Method, "path", c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, jsonres.ErrorBody{Error: message})
	}
	if err != nil {
		logger.Error("Failed to write error response", err)
	}
}
