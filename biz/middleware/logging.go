package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/calliope-music/calliope/pkg/common"
)

// Logging returns a middleware that logs request and response information.
func Logging() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()

		c.Next(ctx)

		latency := time.Since(start)
		method := string(c.Request.Method())
		path := string(c.Request.URI().Path())
		statusCode := c.Response.StatusCode()
		clientIP := c.ClientIP()

		if userID, ok := common.GetUserID(ctx); ok {
			hlog.CtxInfof(ctx, "[%s] user=%d %s %s %d %v",
				clientIP, userID, method, path, statusCode, latency)
			return
		}
		hlog.CtxInfof(ctx, "[%s] %s %s %d %v",
			clientIP, method, path, statusCode, latency)
	}
}
