package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contestify/contest-api/internal/api/handler/v1/request"
	"github.com/contestify/contest-api/internal/api/handler/v1/response"
	"github.com/contestify/contest-api/internal/api/middleware"
	"github.com/contestify/contest-api/internal/domain"
)

// AdminHandler serves moderation endpoints. Role checks happen in the
// services so every entry point shares them.
type AdminHandler struct {
	users    UserService
	contests ContestService
}

func NewAdminHandler(users UserService, contests ContestService) *AdminHandler {
	return &AdminHandler{
		users:    users,
		contests: contests,
	}
}

// HandleListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        page  query     int  false  "page number"
// @Success      200   {object}  response.UserPage
// @Failure      403   {object}  response.Err
// @Router       /admin/users [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListUsers(ctx *gin.Context) {
	var q request.PageQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	page, err := h.users.ListUsers(ctx.Request.Context(), middleware.Principal(ctx), q.Page)
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.users.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// HandleChangeRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        email    path      string                     true  "user email"
// @Param        request  body      request.ChangeRoleRequest  true  "request body"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /admin/users/{email}/role [patch]
// @Security BearerAuth
func (h *AdminHandler) HandleChangeRole(ctx *gin.Context) {
	var req request.ChangeRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := h.users.ChangeRole(ctx.Request.Context(), middleware.Principal(ctx), ctx.Param("email"), domain.Role(req.Role))
	if err != nil {
		err = fmt.Errorf("v1.HandleChangeRole -> h.users.ChangeRole -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListContests godoc
// @Summary      List contests of any status
// @Tags         admin
// @Produce      json
// @Param        page      query     int     false  "page number"
// @Param        search    query     string  false  "name contains"
// @Param        category  query     string  false  "exact category"
// @Param        status    query     string  false  "status"  Enums(pending, approved, rejected, completed)
// @Success      200       {object}  response.ContestPage
// @Failure      403       {object}  response.Err
// @Router       /admin/contests [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListContests(ctx *gin.Context) {
	var q request.ListContestsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	page, err := h.contests.ListAll(ctx.Request.Context(), middleware.Principal(ctx), q.ToFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleListContests -> h.contests.ListAll -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// HandleApproveContest godoc
// @Summary      Approve a pending contest
// @Tags         admin
// @Produce      json
// @Param        contestID  path      int  true  "contest id"
// @Success      200        {object}  domain.Contest
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      422        {object}  response.Err
// @Router       /admin/contests/{contestID}/approve [patch]
// @Security BearerAuth
func (h *AdminHandler) HandleApproveContest(ctx *gin.Context) {
	id, ok := parseID(ctx, "contestID")
	if !ok {
		return
	}

	contest, err := h.contests.Approve(ctx.Request.Context(), id, middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleApproveContest -> h.contests.Approve -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, contest)
}

// HandleRejectContest godoc
// @Summary      Reject a contest
// @Tags         admin
// @Produce      json
// @Param        contestID  path      int  true  "contest id"
// @Success      200        {object}  domain.Contest
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      422        {object}  response.Err
// @Router       /admin/contests/{contestID}/reject [patch]
// @Security BearerAuth
func (h *AdminHandler) HandleRejectContest(ctx *gin.Context) {
	id, ok := parseID(ctx, "contestID")
	if !ok {
		return
	}

	contest, err := h.contests.Reject(ctx.Request.Context(), id, middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleRejectContest -> h.contests.Reject -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, contest)
}
