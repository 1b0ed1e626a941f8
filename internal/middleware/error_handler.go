package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/OmarEmad62/ATC-01111780082/internal/dto"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"message": ..., "error": ...}.
// The error detail is only exposed for server-side failures.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := dto.ErrorResponse{Message: "Server error", Error: err.Error()}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		resp = dto.ErrorResponse{Message: http.StatusText(code)}
		if m, ok := he.Message.(string); ok {
			resp.Message = m
		}
		if he.Internal != nil && code >= http.StatusInternalServerError {
			resp.Error = he.Internal.Error()
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, resp)
}
