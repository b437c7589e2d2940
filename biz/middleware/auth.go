package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/calliope-music/calliope/biz/service"
	"github.com/calliope-music/calliope/pkg/common"
)

// SessionCookie is the cookie carrying the login session token.
const SessionCookie = "calliope_session"

// sessionToken extracts the caller's token from the session cookie or an
// Authorization: Bearer header.
func sessionToken(c *app.RequestContext) string {
	if cookie := c.Cookie(SessionCookie); len(cookie) > 0 {
		return string(cookie)
	}
	header := string(c.GetHeader("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Auth returns a middleware that resolves the caller's session and, when
// valid, adds the user ID to the context. It does NOT enforce
// authentication; handlers that need it use RequireAuth or check the
// context themselves.
func Auth(svc *service.Service) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if token := sessionToken(c); token != "" {
			if userID, ok := svc.Authenticate(ctx, token); ok {
				ctx = common.ContextWithUserID(ctx, userID)
				ctx = common.ContextWithSessionToken(ctx, token)
			}
		}
		c.Next(ctx)
	}
}

// RequireAuth returns a middleware that enforces authentication. Requests
// without a valid session are rejected with 401.
func RequireAuth(svc *service.Service) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		// Auth usually ran earlier in the chain and already resolved
		// the session.
		if _, ok := common.GetUserID(ctx); ok {
			c.Next(ctx)
			return
		}
		token := sessionToken(c)
		if token == "" {
			abortUnauthenticated(c, "missing session")
			return
		}
		userID, ok := svc.Authenticate(ctx, token)
		if !ok {
			abortUnauthenticated(c, "invalid or expired session")
			return
		}
		ctx = common.ContextWithUserID(ctx, userID)
		ctx = common.ContextWithSessionToken(ctx, token)
		c.Next(ctx)
	}
}

func abortUnauthenticated(c *app.RequestContext, msg string) {
	c.JSON(consts.StatusUnauthorized, common.CommonResponse{
		Code:  consts.StatusUnauthorized,
		Error: "authentication required",
		Msg:   msg,
	})
	c.Abort()
}
