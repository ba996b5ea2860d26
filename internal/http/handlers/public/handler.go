package public

import "github.com/zipcart/internal/provider"

// Handler 顾客侧接口处理器入口
// 说明：该处理器用于门店浏览、购物车、下单与订单追踪等顾客 API。
type Handler struct {
	*provider.Container
}

// New 创建顾客侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
