package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/proninteam/collect_go_server/internal/api/middleware"
	"github.com/proninteam/collect_go_server/internal/pkg/response"
	"github.com/proninteam/collect_go_server/internal/service"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{
		likeService: likeService,
	}
}

// Create 点赞付款
// POST /api/v1/collects/:id/payments/:pid/like
func (h *LikeHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	collectID, paymentID, ok := parsePaymentPath(c)
	if !ok {
		return
	}

	item, err := h.likeService.Like(c.Request.Context(), userID, collectID, paymentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrAlreadyLiked):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, "点赞成功", item)
}

// Delete 取消点赞
// DELETE /api/v1/collects/:id/payments/:pid/like/delete
func (h *LikeHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	collectID, paymentID, ok := parsePaymentPath(c)
	if !ok {
		return
	}

	if err := h.likeService.Unlike(c.Request.Context(), userID, collectID, paymentID); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrLikeNotFound):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "点赞已取消", nil)
}

// parsePaymentPath 解析 /collects/:id/payments/:pid 路径参数
func parsePaymentPath(c *gin.Context) (int64, int64, bool) {
	collectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的活动ID")
		return 0, 0, false
	}

	paymentID, err := strconv.ParseInt(c.Param("pid"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的付款ID")
		return 0, 0, false
	}

	return collectID, paymentID, true
}
