package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	xlogger "SolPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns handler panics into 500 responses, logging the stack through
// the application logger so panic output lands in the same stream as
// everything else.
func Recover(log *xlogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				log.Error("panic recovered",
					xlogger.Error(err),
					xlogger.String("path", c.Request().URL.Path),
					xlogger.String("stack", string(debug.Stack())),
				)
				_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
					"status":  http.StatusInternalServerError,
					"message": "Internal Server Error",
				})
			}()
			return next(c)
		}
	}
}
