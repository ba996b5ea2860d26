package admin

import (
	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSettings 获取设置，默认返回订单配置
func (h *Handler) GetSettings(c *gin.Context) {
	key := c.DefaultQuery("key", constants.SettingKeyOrderConfig)

	value, err := h.SettingService.GetByKey(key)
	if err != nil {
		respondError(c, response.CodeInternal, "获取设置失败", err)
		return
	}
	if value == nil {
		response.Success(c, gin.H{})
		return
	}
	response.Success(c, value)
}

// UpdateSettingsRequest 更新设置请求
type UpdateSettingsRequest struct {
	Key   string                 `json:"key" binding:"required"`
	Value map[string]interface{} `json:"value" binding:"required"`
}

// UpdateSettings 更新设置
// 订单配置（税率、配送费、待确认超时）改动即时生效，下一单即按新值计算。
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	value, err := h.SettingService.Update(req.Key, req.Value)
	if err != nil {
		respondError(c, response.CodeInternal, "保存设置失败", err)
		return
	}
	response.Success(c, value)
}
