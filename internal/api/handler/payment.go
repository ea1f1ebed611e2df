package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/proninteam/collect_go_server/internal/api/middleware"
	"github.com/proninteam/collect_go_server/internal/model/dto"
	"github.com/proninteam/collect_go_server/internal/pkg/response"
	"github.com/proninteam/collect_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Create 创建付款
// POST /api/v1/collects/:id/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	collectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的活动ID")
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "付款失败", []string{err.Error()})
		return
	}

	item, err := h.paymentService.Create(c.Request.Context(), userID, collectID, &req)
	if err != nil {
		var tooSmall *service.AmountTooSmallError
		switch {
		case errors.Is(err, service.ErrCollectNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCollectClosed):
			response.CollectClosedError(c, err.Error())
		case errors.As(err, &tooSmall):
			response.ParamError(c, tooSmall.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, "付款成功", item)
}
