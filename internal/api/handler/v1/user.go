package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contestify/contest-api/internal/api/handler/v1/request"
	"github.com/contestify/contest-api/internal/api/handler/v1/response"
	"github.com/contestify/contest-api/internal/api/middleware"
	"github.com/contestify/contest-api/internal/domain"
)

type UserService interface {
	GetProfile(ctx context.Context, principal string) (domain.User, error)
	UpdateProfile(ctx context.Context, principal, name, photo string) (domain.User, error)
	ChangeRole(ctx context.Context, principal, email string, role domain.Role) (domain.User, error)
	ListUsers(ctx context.Context, principal string, page int) (domain.Page[domain.User], error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the current user's profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /users/me [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, err := h.svc.GetProfile(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMe -> h.svc.GetProfile -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateMe godoc
// @Summary      Update the current user's name or photo
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      request.UpdateProfileRequest  true  "request body"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Router       /users/me [patch]
// @Security BearerAuth
func (h *UserHandler) HandleUpdateMe(ctx *gin.Context) {
	var req request.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(ctx.Request.Context(), middleware.Principal(ctx), req.Name, req.Photo)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateMe -> h.svc.UpdateProfile -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}
