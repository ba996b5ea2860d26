package public

import (
	"io"
	"time"

	"github.com/zipcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

const eventHeartbeatInterval = 25 * time.Second

// StreamOrderEvents 订单事件流（SSE）
// 订单顾客本人、订单门店的运营、已指派的配送员可订阅，
// 每次状态变更推送完整订单快照，空闲期间定时发心跳保持连接。
func (h *Handler) StreamOrderEvents(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderRepo.GetByID(orderID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}
	if order == nil {
		respondError(c, response.CodeNotFound, "订单不存在", nil)
		return
	}
	if !h.OrderService.CanAccessOrderEvents(order, uid, getUserRole(c)) {
		respondError(c, response.CodeForbidden, "无权订阅该订单", nil)
		return
	}
	if !h.Publisher.Enabled() {
		respondError(c, response.CodeInternal, "实时推送不可用", nil)
		return
	}

	sub := h.Publisher.Subscribe(c.Request.Context(), orderID)
	if sub == nil {
		respondError(c, response.CodeInternal, "实时推送不可用", nil)
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	// 先推一帧当前快照，订阅方不需要单独拉详情
	c.SSEvent("snapshot", order)
	c.Writer.Flush()

	heartbeat := time.NewTicker(eventHeartbeatInterval)
	defer heartbeat.Stop()
	messages := sub.Channel()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, open := <-messages:
			if !open {
				return false
			}
			c.SSEvent("order", msg.Payload)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
