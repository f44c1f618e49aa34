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

type RegistrationService interface {
	CreateCheckout(ctx context.Context, contestID uint, principal string) (string, error)
	ConfirmPayment(ctx context.Context, sessionID, principal string) (domain.ConfirmResult, error)
	ListPayments(ctx context.Context, principal string) ([]domain.Payment, error)
}

type PaymentHandler struct {
	svc RegistrationService
}

func NewPaymentHandler(svc RegistrationService) *PaymentHandler {
	return &PaymentHandler{
		svc: svc,
	}
}

// HandleCreateCheckout godoc
// @Summary      Start registration for a contest
// @Description  Opens a payment checkout session for the entry fee and returns its URL. Nothing is recorded until the payment is confirmed.
// @Tags         payments
// @Produce      json
// @Param        contestID  path      int  true  "contest id"
// @Success      200        {object}  response.CheckoutResponse
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      422        {object}  response.Err
// @Router       /contests/{contestID}/checkout [post]
// @Security BearerAuth
func (h *PaymentHandler) HandleCreateCheckout(ctx *gin.Context) {
	id, ok := parseID(ctx, "contestID")
	if !ok {
		return
	}

	url, err := h.svc.CreateCheckout(ctx.Request.Context(), id, middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCheckout -> h.svc.CreateCheckout -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, response.CheckoutResponse{URL: url})
}

// HandleConfirmPayment godoc
// @Summary      Confirm a checkout session
// @Description  Registers the caller once the session is paid. Safe to call repeatedly.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      request.ConfirmPaymentRequest  true  "request body"
// @Success      200      {object}  domain.ConfirmResult
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /payments/confirm [post]
// @Security BearerAuth
func (h *PaymentHandler) HandleConfirmPayment(ctx *gin.Context) {
	var req request.ConfirmPaymentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := h.svc.ConfirmPayment(ctx.Request.Context(), req.SessionID, middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleConfirmPayment -> h.svc.ConfirmPayment -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleListMyPayments godoc
// @Summary      List the caller's payments
// @Tags         payments
// @Produce      json
// @Success      200  {array}  domain.Payment
// @Router       /payments/me [get]
// @Security BearerAuth
func (h *PaymentHandler) HandleListMyPayments(ctx *gin.Context) {
	payments, err := h.svc.ListPayments(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyPayments -> h.svc.ListPayments -> %w", err)
		response.RenderErr(ctx, response.ErrFromService(err))
		return
	}

	ctx.JSON(http.StatusOK, orEmpty(payments))
}
