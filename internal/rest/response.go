package rest

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"error"`
}

// bindMessage unwraps echo's binding errors into a readable message.
func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			return fmt.Sprintf("Invalid request body: %v", he.Internal)
		}
		return fmt.Sprintf("Invalid request body: %v", he.Message)
	}
	return fmt.Sprintf("Invalid request body: %v", err)
}
