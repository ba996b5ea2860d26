package service

import (
	"errors"
	"fmt"
	"strings"
)

// 业务错误统一在此声明，HTTP 层用 errors.Is 映射响应码。
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("wrong password")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDisabled       = errors.New("user disabled")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrForbidden          = errors.New("forbidden")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrStoreNotFound       = errors.New("store not found")
	ErrStoreInactive       = errors.New("store inactive")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSlugTaken           = errors.New("slug already in use")
	ErrCategoryInUse       = errors.New("category still has products")

	ErrCartStoreMismatch = errors.New("cart items must come from a single store")
	ErrEmptyCart         = errors.New("cart is empty")

	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderConflict     = errors.New("order modified concurrently")
	ErrOrderCreateFailed = errors.New("order create failed")
	ErrOrderFetchFailed  = errors.New("order fetch failed")
	ErrOrderUpdateFailed = errors.New("order update failed")
	ErrOrderNumberExhausted = errors.New("order number generation exhausted")

	ErrInventoryNotFound = errors.New("inventory not found")
	ErrInventoryConflict = errors.New("inventory update rejected")

	ErrPartnerNotFound     = errors.New("delivery partner not found")
	ErrPartnerUnavailable  = errors.New("delivery partner not accepting orders")
	ErrOrderAlreadyClaimed = errors.New("order already claimed")
	ErrNotAssignedPartner  = errors.New("order assigned to another partner")

	ErrNotificationNotFound = errors.New("notification not found")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
	ErrTooManyAttempts      = errors.New("too many attempts")

	ErrQueueUnavailable = errors.New("queue unavailable")
)

// StockShortage 单行库存缺口明细
type StockShortage struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// InsufficientStockError 下单预占失败错误，携带全部缺货行
// 任何一行缺货都会整单回滚，错误里列出每一个失败行而不是只报第一个。
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	if e == nil || len(e.Shortages) == 0 {
		return "insufficient stock"
	}
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", s.ProductName, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// InvalidTransitionError 非法状态流转错误
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}
