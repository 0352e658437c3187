package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/storefront/internal/adapters/http/dto"
	"github.com/jsamuelsen/storefront/internal/platform/logging"
)

// Recovery returns middleware that turns a panic into a 500 error envelope
// and logs it with its stack. It must be first in the chain.
//
// onPanic, when set, is called with the recovered value and stack before
// the response is written; it is a hook for crash reporting.
func Recovery(logger *slog.Logger, onPanic ...func(recovered any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			//nolint:errorlint,err113 // http.ErrAbortHandler is a sentinel panic value
			if r == http.ErrAbortHandler {
				panic(r)
			}

			stack := debug.Stack()
			for _, fn := range onPanic {
				fn(r, stack)
			}

			ctx := c.Request.Context()
			traceID := dto.GetTraceID(c)

			logging.FromContextOr(ctx, logger).ErrorContext(ctx, "panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(stack)),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.String("trace_id", traceID),
			)

			dto.AbortWithErrorCode(c, http.StatusInternalServerError, dto.ErrorCodeInternal, "an internal error occurred")
		}()

		c.Next()
	}
}
