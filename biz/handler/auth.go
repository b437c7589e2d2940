package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/calliope-music/calliope/biz/dal/model"
	"github.com/calliope-music/calliope/biz/middleware"
	"github.com/calliope-music/calliope/biz/service"
	"github.com/calliope-music/calliope/pkg/common"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Surname:  u.Surname,
	}
}

// Register creates a new account.
func (h *Handler) Register(ctx context.Context, c *app.RequestContext) {
	var req RegisterRequest
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}

	user, err := h.svc.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toUserResponse(user))
}

// Login verifies credentials and starts a session. The token is returned
// in the body and set as a cookie for browser clients.
func (h *Handler) Login(ctx context.Context, c *app.RequestContext) {
	var req LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}

	user, token, err := h.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, token, 0, "/", "",
		protocol.CookieSameSiteLaxMode, false, true)
	respondOK(c, map[string]interface{}{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// Logout revokes the caller's session. Logging out twice is harmless.
func (h *Handler) Logout(ctx context.Context, c *app.RequestContext) {
	token := common.GetSessionToken(ctx)
	if err := h.svc.Logout(ctx, token); err != nil {
		respondServiceError(c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "",
		protocol.CookieSameSiteLaxMode, false, true)
	respondOK(c, nil)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	user, err := h.svc.GetUser(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toUserResponse(user))
}

// DeleteAccount removes the account with all songs, playlists and media
// files.
func (h *Handler) DeleteAccount(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	if err := h.svc.DeleteAccount(ctx, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "",
		protocol.CookieSameSiteLaxMode, false, true)
	respondOK(c, nil)
}
