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

type CollectHandler struct {
	collectService *service.CollectService
}

func NewCollectHandler(collectService *service.CollectService) *CollectHandler {
	return &CollectHandler{
		collectService: collectService,
	}
}

// Create 创建收款活动
// POST /api/v1/collects
func (h *CollectHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateCollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "活动创建失败", []string{err.Error()})
		return
	}

	item, err := h.collectService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Created(c, "活动创建成功", item)
}

// Get 获取活动详情
// GET /api/v1/collects/:id
func (h *CollectHandler) Get(c *gin.Context) {
	collectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的活动ID")
		return
	}

	detail, err := h.collectService.Get(c.Request.Context(), collectID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, detail)
}

// Update 编辑活动描述性字段
// PATCH /api/v1/collects/:id
func (h *CollectHandler) Update(c *gin.Context) {
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

	var req dto.UpdateCollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "活动修改失败", []string{err.Error()})
		return
	}

	detail, err := h.collectService.Update(c.Request.Context(), userID, collectID, &req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "活动修改成功", detail)
}

// Delete 删除活动
// DELETE /api/v1/collects/:id
func (h *CollectHandler) Delete(c *gin.Context) {
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

	if err := h.collectService.Delete(c.Request.Context(), userID, collectID); err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "活动删除成功", nil)
}

// Activate 重新激活活动
// PATCH /api/v1/collects/:id/activate
func (h *CollectHandler) Activate(c *gin.Context) {
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

	var req dto.ReactivateCollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "活动激活失败", []string{err.Error()})
		return
	}

	item, err := h.collectService.Reactivate(c.Request.Context(), userID, collectID, &req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "活动激活成功", item)
}

// Deactivate 手动停止收款
// PATCH /api/v1/collects/:id/deactivate
func (h *CollectHandler) Deactivate(c *gin.Context) {
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

	item, err := h.collectService.Deactivate(c.Request.Context(), userID, collectID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "活动已停止收款", item)
}

func (h *CollectHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCollectNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrCollectPermission):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrCollectActive),
		errors.Is(err, service.ErrCollectNotActive):
		response.InvalidStateError(c, err.Error())
	case errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrStopDateNotFuture),
		errors.Is(err, service.ErrStopDateNotLater),
		errors.Is(err, service.ErrTargetExceedsCap),
		errors.Is(err, service.ErrAmountBelowMin):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
