package public

import (
	"errors"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "请求参数错误"},
	{target: service.ErrStoreNotFound, code: response.CodeNotFound, msg: "门店不存在"},
	{target: service.ErrStoreInactive, code: response.CodeBadRequest, msg: "门店暂停营业"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "商品不存在"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "商品暂不可售"},
	{target: service.ErrCartStoreMismatch, code: response.CodeConflict, msg: "购物车只能包含同一门店的商品"},
}

var placeOrderErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "请求参数错误"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, msg: "购物车为空"},
	{target: service.ErrCartStoreMismatch, code: response.CodeConflict, msg: "购物车只能包含同一门店的商品"},
	{target: service.ErrStoreNotFound, code: response.CodeNotFound, msg: "门店不存在"},
	{target: service.ErrStoreInactive, code: response.CodeBadRequest, msg: "门店暂停营业"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "商品暂不可售"},
	{target: service.ErrOrderNumberExhausted, code: response.CodeInternal, msg: "订单号生成失败"},
}

var orderReadErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "请求参数错误"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "订单不存在"},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal, msg: "订单更新失败"},
}

// respondPlaceOrderError 下单失败的专用映射：缺货错误返回 409 并附上缺货明细。
func respondPlaceOrderError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		response.ErrorWithData(c, response.CodeConflict, "部分商品库存不足", gin.H{
			"shortages": stockErr.Shortages,
		})
		return
	}
	respondWithMappedError(c, err, placeOrderErrorRules, response.CodeInternal, "下单失败")
}
