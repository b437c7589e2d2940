// Package handler contains the HTTP request handlers.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/calliope-music/calliope/biz/service"
	"github.com/calliope-music/calliope/pkg/common"
	"github.com/calliope-music/calliope/pkg/storage"
)

// Handler bundles the service layer for all HTTP endpoints.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a Handler around the given service.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Ping is a trivial liveness probe.
func (h *Handler) Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Msg:  "pong",
	})
}

func respondOK(c *app.RequestContext, data interface{}) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Msg:  http.StatusText(consts.StatusOK),
		Data: data,
	})
}

func respondError(c *app.RequestContext, status int, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, common.CommonResponse{
		Code:  status,
		Msg:   msg,
		Error: msg,
	})
}

// respondServiceError maps service and storage errors onto HTTP statuses.
func respondServiceError(c *app.RequestContext, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		c.JSON(consts.StatusBadRequest, common.CommonResponse{
			Code:  consts.StatusBadRequest,
			Msg:   validation.Error(),
			Error: validation.Error(),
			Data:  validation.Fields,
		})
		return
	}

	var security *storage.SecurityError
	switch {
	case errors.As(err, &security):
		respondError(c, consts.StatusForbidden, security)
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, service.ErrSongNotFound),
		errors.Is(err, service.ErrPlaylistNotFound):
		respondError(c, consts.StatusNotFound, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, consts.StatusUnauthorized, err)
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrDuplicateSong),
		errors.Is(err, service.ErrDuplicateTitle),
		errors.Is(err, service.ErrSongAlreadyInList):
		respondError(c, consts.StatusConflict, err)
	default:
		respondError(c, consts.StatusInternalServerError, errors.New("internal error"))
	}
}

// pathID parses a numeric route parameter such as :id.
func pathID(c *app.RequestContext, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}
