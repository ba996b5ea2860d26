package partner

import (
	handlershared "github.com/zipcart/internal/http/handlers/shared"
	"github.com/zipcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 配送员接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建配送员处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}
