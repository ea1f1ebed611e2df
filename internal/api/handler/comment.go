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

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Create 发表评论
// POST /api/v1/collects/:id/payments/:pid/comment
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	collectID, paymentID, ok := parsePaymentPath(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "评论失败", []string{err.Error()})
		return
	}

	item, err := h.commentService.Create(c.Request.Context(), userID, collectID, paymentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, "评论成功", item)
}

// Delete 删除评论
// DELETE /api/v1/collects/:id/payments/:pid/comment/:cid
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("cid"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), userID, commentID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCommentPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评论删除成功", nil)
}
