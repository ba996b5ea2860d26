package partner

import (
	"errors"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

func respondPartnerError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrPartnerNotFound):
		respondError(c, response.CodeNotFound, "配送员档案不存在", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// GetProfile 配送员档案
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	profile, err := h.DeliveryService.GetProfile(uid)
	if err != nil {
		respondPartnerError(c, err, "获取档案失败")
		return
	}
	response.Success(c, profile)
}

// UpdateVehicleRequest 更新车辆类型请求
type UpdateVehicleRequest struct {
	VehicleType string `json:"vehicle_type" binding:"required"`
}

// UpdateVehicleType 更新车辆类型
func (h *Handler) UpdateVehicleType(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	profile, err := h.DeliveryService.UpdateVehicleType(uid, req.VehicleType)
	if err != nil {
		respondPartnerError(c, err, "更新车辆类型失败")
		return
	}
	response.Success(c, profile)
}

// SetAvailabilityRequest 上线/下线请求
type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability 上线或下线接单
func (h *Handler) SetAvailability(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	profile, err := h.DeliveryService.SetAvailability(uid, *req.Available)
	if err != nil {
		respondPartnerError(c, err, "更新接单状态失败")
		return
	}
	response.Success(c, profile)
}

// UpdateLocationRequest 位置上报请求
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// UpdateLocation 上报当前位置
func (h *Handler) UpdateLocation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.DeliveryService.UpdateLocation(uid, *req.Latitude, *req.Longitude); err != nil {
		respondPartnerError(c, err, "上报位置失败")
		return
	}
	response.Success(c, gin.H{"updated": true})
}
