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

type ContestService interface {
	Create(ctx context.Context, contest domain.Contest, principal string) (domain.Contest, error)
	List(ctx context.Context, filter domain.ContestFilter) (domain.Page[domain.Contest], error)
	ListAll(ctx context.Context, principal string, filter domain.ContestFilter) (domain.Page[domain.Contest], error)
	Get(ctx context.Context, id uint, principal string) (domain.Contest, error)
	Update(ctx context.Context, id uint, patch domain.ContestPatch, principal string) (domain.Contest, error)
	Delete(ctx context.Context, id uint, principal string) error
	Approve(ctx context.Context, id uint, principal string) (domain.Contest, error)
	Reject(ctx context.Context, id uint, principal string) (domain.Contest, error)
	ListByCreator(ctx context.Context, email, principal string) ([]domain.Contest, error)
	ListParticipated(ctx context.Context, principal string) ([]domain.Contest, error)
	ListWon(ctx context.Context, principal string) ([]domain.Contest, error)
}

type ContestHandler struct {
	svc ContestService
}

func NewContestHandler(svc ContestService) *ContestHandler {
	return &ContestHandler{
		svc: svc,
	}
}

// HandleListContests godoc
// @Summary      List contests
// @Description  Paginated catalogue. Only approved contests are listed unless a status is given.
// @Tags         contests
// @Produce      json
// @Param        page      query     int     false  "page number"
// @Param        search    query     string  false  "name contains, case-insensitive"
// @Param        category  query     string  false  "exact category"
// @Param        status    query     string  false  "status"  Enums(pending, approved, rejected, completed)
// @Success      200       {object}  response.ContestPage
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Router       /contests [get]
// @Security BearerAuth
func (h *ContestHandler) HandleListContests(ctx *gin.Context) {
	var q request.ListContestsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	page, err := h.svc.List(ctx.Request.Context(), q.ToFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleListContests -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// HandleCreateContest godoc
// @Summary      Create a contest
// @Description  Creates a pending contest owned by the caller. Requires the creator or admin role.
// @Tags         contests
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateContestRequest  true  "contest details"
// @Success      201      {object}  domain.Contest
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /contests [post]
// @Security BearerAuth
func (h *ContestHandler) HandleCreateContest(ctx *gin.Context) {
	var req request.CreateContestRequest
	if !bindJSON(ctx, &req) {
		return
	}

	contest, err := h.svc.Create(ctx.Request.Context(), req.ToDomain(), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateContest -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusCreated, contest)
}

// HandleGetContest godoc
// @Summary      Get a contest
// @Tags         contests
// @Produce      json
// @Param        contestID  path      int  true  "contest id"
// @Success      200        {object}  domain.Contest
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Router       /contests/{contestID} [get]
// @Security BearerAuth
func (h *ContestHandler) HandleGetContest(ctx *gin.Context) {
	id, ok := parseID(ctx, "contestID")
	if !ok {
		return
	}

	contest, err := h.svc.Get(ctx.Request.Context(), id, middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetContest -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, contest)
}

// HandleUpdateContest godoc
// @Summary      Update a pending contest
// @Tags         contests
// @Accept       json
// @Produce      json
// @Param        contestID  path      int                           true  "contest id"
// @Param        request    body      request.UpdateContestRequest  true  "fields to change"
// @Success      200        {object}  domain.Contest
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      422        {object}  response.Err
// @Router       /contests/{contestID} [patch]
// @Security BearerAuth
func (h *ContestHandler) HandleUpdateContest(ctx *gin.Context) {
	id, ok := parseID(ctx, "contestID")
	if !ok {
		return
	}

	var req request.UpdateContestRequest
	if !bindJSON(ctx, &req) {
		return
	}

	contest, err := h.svc.Update(ctx.Request.Context(), id, req.ToPatch(), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateContest -> h.svc.Update -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, contest)
}

// HandleDeleteContest godoc
// @Summary      Delete a contest
// @Description  Creators may delete while pending. Admins may delete at any status, submissions included.
// @Tags         contests
// @Param        contestID  path  int  true  "contest id"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Router       /contests/{contestID} [delete]
// @Security BearerAuth
func (h *ContestHandler) HandleDeleteContest(ctx *gin.Context) {
	id, ok := parseID(ctx, "contestID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id, middleware.Principal(ctx)); err != nil {
		err = fmt.Errorf("v1.HandleDeleteContest -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListByCreator godoc
// @Summary      List contests created by a user
// @Tags         contests
// @Produce      json
// @Param        email  path      string  true  "creator email, must be the caller"
// @Success      200    {array}   domain.Contest
// @Failure      403    {object}  response.Err
// @Router       /contests/creator/{email} [get]
// @Security BearerAuth
func (h *ContestHandler) HandleListByCreator(ctx *gin.Context) {
	contests, err := h.svc.ListByCreator(ctx.Request.Context(), ctx.Param("email"), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListByCreator -> h.svc.ListByCreator -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, orEmpty(contests))
}

// HandleListParticipated godoc
// @Summary      List contests the caller registered for
// @Tags         contests
// @Produce      json
// @Success      200  {array}   domain.Contest
// @Router       /contests/participated [get]
// @Security BearerAuth
func (h *ContestHandler) HandleListParticipated(ctx *gin.Context) {
	contests, err := h.svc.ListParticipated(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListParticipated -> h.svc.ListParticipated -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, orEmpty(contests))
}

// HandleListWon godoc
// @Summary      List contests the caller won
// @Tags         contests
// @Produce      json
// @Success      200  {array}   domain.Contest
// @Router       /contests/won [get]
// @Security BearerAuth
func (h *ContestHandler) HandleListWon(ctx *gin.Context) {
	contests, err := h.svc.ListWon(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListWon -> h.svc.ListWon -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, orEmpty(contests))
}

// orEmpty keeps empty lists serialised as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
