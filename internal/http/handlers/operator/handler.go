package operator

import (
	handlershared "github.com/zipcart/internal/http/handlers/shared"
	"github.com/zipcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 门店运营接口处理器入口
// 说明：该处理器仅用于运营侧订单队列与库存 API，所有操作限定在运营名下的门店。
type Handler struct {
	*provider.Container
}

// New 创建运营侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}
