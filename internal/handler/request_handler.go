package handler

import (
	"github.com/gin-gonic/gin"

	"guard_bot_server/internal/service"
)

// RequestHandler 入群申请管理端 Handler
// 查询走 ModerationService，决策走 LifecycleService（与事件流同一条路径，
// 保证管理端操作同样受恰好一次语义约束）
type RequestHandler struct {
	moderation service.ModerationService
	lifecycle  service.LifecycleService
}

// NewRequestHandler 创建 RequestHandler
func NewRequestHandler(moderation service.ModerationService, lifecycle service.LifecycleService) *RequestHandler {
	return &RequestHandler{
		moderation: moderation,
		lifecycle:  lifecycle,
	}
}

// decisionRequest 决策请求参数
type decisionRequest struct {
	RequesterId string `json:"requesterId" binding:"required"`
	Action      string `json:"action" binding:"required,oneof=approve decline"` // approve / decline
}

// PendingRequests 待处理申请列表
// GET /requests/pending
func (h *RequestHandler) PendingRequests(c *gin.Context) {
	list, err := h.moderation.PendingRequests(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, list)
}

// RequestDetail 申请详情
// GET /requests/:requesterId
func (h *RequestHandler) RequestDetail(c *gin.Context) {
	requesterId := c.Param("requesterId")
	detail, err := h.moderation.RequestDetail(c.Request.Context(), requesterId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, detail)
}

// ResponseLog 申请人的回复记录
// GET /requests/:requesterId/responses
func (h *RequestHandler) ResponseLog(c *gin.Context) {
	requesterId := c.Param("requesterId")
	records, err := h.moderation.ResponseLog(c.Request.Context(), requesterId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, records)
}

// Decide 管理端处理申请（通过/拒绝）
// POST /requests/decision
// actorId 取自 JWT 上下文，生命周期引擎会做管理员身份校验
func (h *RequestHandler) Decide(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	actorId := c.GetString("user_id")
	if err := h.lifecycle.OnDecision(c.Request.Context(), actorId, req.RequesterId, req.Action, ""); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
