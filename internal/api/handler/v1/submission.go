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

type SubmissionService interface {
	Submit(ctx context.Context, submission domain.Submission, principal string) (domain.Submission, error)
	ListForContest(ctx context.Context, contestID uint, principal string) ([]domain.Submission, error)
	ListForCreator(ctx context.Context, principal string) ([]domain.Submission, error)
	ListMine(ctx context.Context, principal string) ([]domain.Submission, error)
	DeclareWinner(ctx context.Context, submissionID uint, principal string) (domain.WinnerDeclaration, error)
}

type SubmissionHandler struct {
	svc SubmissionService
}

func NewSubmissionHandler(svc SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		svc: svc,
	}
}

// HandleSubmit godoc
// @Summary      Submit work to a contest
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        contestID  path      int                    true  "contest id"
// @Param        request    body      request.SubmitRequest  true  "request body"
// @Success      201        {object}  domain.Submission
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      422        {object}  response.Err
// @Router       /contests/{contestID}/submissions [post]
// @Security BearerAuth
func (h *SubmissionHandler) HandleSubmit(ctx *gin.Context) {
	id, ok := parseID(ctx, "contestID")
	if !ok {
		return
	}

	var req request.SubmitRequest
	if !bindJSON(ctx, &req) {
		return
	}

	submission, err := h.svc.Submit(ctx.Request.Context(), domain.Submission{
		ContestID: id,
		Content:   req.Content,
	}, middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleSubmit -> h.svc.Submit -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusCreated, submission)
}

// HandleListForContest godoc
// @Summary      List submissions of a contest
// @Tags         submissions
// @Produce      json
// @Param        contestID  path      int  true  "contest id"
// @Success      200        {array}   domain.Submission
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Router       /contests/{contestID}/submissions [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleListForContest(ctx *gin.Context) {
	id, ok := parseID(ctx, "contestID")
	if !ok {
		return
	}

	submissions, err := h.svc.ListForContest(ctx.Request.Context(), id, middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListForContest -> h.svc.ListForContest -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, orEmpty(submissions))
}

// HandleListForCreator godoc
// @Summary      List submissions across the caller's contests
// @Tags         submissions
// @Produce      json
// @Success      200  {array}  domain.Submission
// @Router       /submissions/creator [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleListForCreator(ctx *gin.Context) {
	submissions, err := h.svc.ListForCreator(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListForCreator -> h.svc.ListForCreator -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, orEmpty(submissions))
}

// HandleListMine godoc
// @Summary      List the caller's submissions
// @Tags         submissions
// @Produce      json
// @Success      200  {array}  domain.Submission
// @Router       /submissions/me [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleListMine(ctx *gin.Context) {
	submissions, err := h.svc.ListMine(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListMine -> h.svc.ListMine -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, orEmpty(submissions))
}

// HandleDeclareWinner godoc
// @Summary      Declare a submission the winner
// @Description  Completes the contest with the submission's author as winner.
// @Tags         submissions
// @Produce      json
// @Param        submissionID  path      int  true  "submission id"
// @Success      200           {object}  domain.WinnerDeclaration
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      422           {object}  response.Err
// @Router       /submissions/{submissionID}/winner [patch]
// @Security BearerAuth
func (h *SubmissionHandler) HandleDeclareWinner(ctx *gin.Context) {
	id, ok := parseID(ctx, "submissionID")
	if !ok {
		return
	}

	declaration, err := h.svc.DeclareWinner(ctx.Request.Context(), id, middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleDeclareWinner -> h.svc.DeclareWinner -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, declaration)
}
