package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/zipcart/internal/config"
	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/logger"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/queue"
	"github.com/zipcart/internal/realtime"
	"github.com/zipcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
// 下单是一个完整事务：地址快照、库存预占、订单与订单项落库、清空购物车
// 要么全部成功要么全部回滚，失败时购物车保持原样。
type OrderService struct {
	orderRepo      repository.OrderRepository
	cartRepo       repository.CartRepository
	addressRepo    repository.AddressRepository
	inventoryRepo  repository.InventoryRepository
	productRepo    repository.ProductRepository
	storeRepo      repository.StoreRepository
	partnerRepo    repository.DeliveryPartnerRepository
	queueClient    *queue.Client
	publisher      *realtime.Publisher
	settingService *SettingService
	orderCfg       config.OrderConfig
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, addressRepo repository.AddressRepository, inventoryRepo repository.InventoryRepository, productRepo repository.ProductRepository, storeRepo repository.StoreRepository, partnerRepo repository.DeliveryPartnerRepository, queueClient *queue.Client, publisher *realtime.Publisher, settingService *SettingService, orderCfg config.OrderConfig) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		addressRepo:    addressRepo,
		inventoryRepo:  inventoryRepo,
		productRepo:    productRepo,
		storeRepo:      storeRepo,
		partnerRepo:    partnerRepo,
		queueClient:    queueClient,
		publisher:      publisher,
		settingService: settingService,
		orderCfg:       orderCfg,
	}
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	StreetAddress       string
	City                string
	State               string
	ZipCode             string
	Label               string
	Latitude            *float64
	Longitude           *float64
	TipAmount           models.Money
	SpecialInstructions string
}

// PlaceOrder 从购物车创建订单
// 库存预占逐行执行，任何一行预占失败都收集进缺货清单并整单回滚，
// 错误里报告全部失败行而不是只报第一个。
func (s *OrderService) PlaceOrder(userID uint, input PlaceOrderInput) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if input.TipAmount.Decimal.IsNegative() {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.StreetAddress) == "" ||
		strings.TrimSpace(input.City) == "" ||
		strings.TrimSpace(input.State) == "" {
		return nil, ErrInvalidInput
	}

	lines, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	storeID := lines[0].StoreID
	for _, line := range lines {
		if line.StoreID != storeID {
			return nil, ErrCartStoreMismatch
		}
	}

	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if !store.IsActive {
		return nil, ErrStoreInactive
	}

	productIDs := make([]uint, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	productMap := make(map[uint]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}
	for _, line := range lines {
		p, ok := productMap[line.ProductID]
		if !ok || !p.IsActive {
			return nil, ErrProductNotAvailable
		}
	}

	taxRate := s.resolveTaxRate()
	deliveryFee := s.resolveDeliveryFee()
	now := time.Now()
	estimated := now.Add(45 * time.Minute)

	var order *models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		addressRepo := s.addressRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		address := &models.Address{
			UserID:        userID,
			StreetAddress: strings.TrimSpace(input.StreetAddress),
			City:          strings.TrimSpace(input.City),
			State:         strings.TrimSpace(input.State),
			ZipCode:       strings.TrimSpace(input.ZipCode),
			Label:         strings.TrimSpace(input.Label),
			Latitude:      input.Latitude,
			Longitude:     input.Longitude,
			CreatedAt:     now,
		}
		if address.Label == "" {
			address.Label = "delivery"
		}
		if err := addressRepo.Create(address); err != nil {
			return err
		}

		var shortages []StockShortage
		for _, line := range lines {
			affected, err := inventoryRepo.Reserve(storeID, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				inventory, err := inventoryRepo.GetByStoreAndProduct(storeID, line.ProductID)
				if err != nil {
					return err
				}
				available := 0
				if inventory != nil {
					available = inventory.Available()
				}
				shortages = append(shortages, StockShortage{
					ProductID:   line.ProductID,
					ProductName: line.Name,
					Requested:   line.Quantity,
					Available:   available,
				})
			}
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Shortages: shortages}
		}

		subtotal := decimal.Zero
		taxTotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product := productMap[line.ProductID]
			lineBase := line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
			lineTax := decimal.Zero
			if product.IsTaxable {
				lineTax = lineBase.Mul(taxRate).Round(2)
			}
			subtotal = subtotal.Add(lineBase)
			taxTotal = taxTotal.Add(lineTax)
			items = append(items, models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.Name,
				UnitPrice:   line.UnitPrice,
				Quantity:    line.Quantity,
				TaxAmount:   models.NewMoneyFromDecimal(lineTax),
				TotalPrice:  models.NewMoneyFromDecimal(lineBase.Add(lineTax)),
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		subtotal = subtotal.Round(2)
		taxTotal = taxTotal.Round(2)
		tip := input.TipAmount.Decimal.Round(2)
		total := subtotal.Add(taxTotal).Add(deliveryFee).Add(tip).Round(2)

		number, err := s.generateOrderNumber(orderRepo)
		if err != nil {
			return err
		}

		order = &models.Order{
			OrderNumber:           number,
			UserID:                userID,
			StoreID:               storeID,
			AddressID:             address.ID,
			Status:                constants.OrderStatusPending,
			Currency:              constants.SiteCurrencyDefault,
			Subtotal:              models.NewMoneyFromDecimal(subtotal),
			TaxAmount:             models.NewMoneyFromDecimal(taxTotal),
			DeliveryFee:           models.NewMoneyFromDecimal(deliveryFee),
			TipAmount:             models.NewMoneyFromDecimal(tip),
			TotalAmount:           models.NewMoneyFromDecimal(total),
			SpecialInstructions:   strings.TrimSpace(input.SpecialInstructions),
			EstimatedDeliveryTime: &estimated,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		return cartRepo.ClearByUser(userID)
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, stockErr
		}
		if errors.Is(err, ErrOrderNumberExhausted) {
			return nil, err
		}
		logger.Errorw("order_place_failed",
			"user_id", userID,
			"store_id", storeID,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	full := s.afterStatusChange(order.ID, constants.OrderStatusPending)
	s.enqueuePendingTimeout(order.ID, order.OrderNumber)
	if full != nil {
		return full, nil
	}
	return order, nil
}

// CancelExpiredOrder 超时取消：仍处于 pending 的订单才会被取消
// 已被运营推进或取消的订单直接跳过，任务可安全重试。
func (s *OrderService) CancelExpiredOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return order, nil
	}
	cancelled, err := s.cancelPendingOrder(order, constants.CancelReasonTimeout)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		// 并发写入者抢先流转，超时取消不再适用
		return s.orderRepo.GetByID(orderID)
	}
	return s.afterStatusChange(orderID, constants.OrderStatusCancelled), nil
}

// SweepExpiredOrders 周期兜底：批量取消超过确认时限的 pending 订单
// 延迟任务丢失或队列中断时由该清扫补偿，返回本轮实际取消的数量。
func (s *OrderService) SweepExpiredOrders(now time.Time) (int, error) {
	cutoff := now.Add(-time.Duration(s.resolvePendingTimeoutMinutes()) * time.Minute)
	orders, _, err := s.orderRepo.ListAdmin(repository.OrderListFilter{
		Status:    constants.OrderStatusPending,
		CreatedTo: &cutoff,
		PageSize:  200,
	})
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for _, order := range orders {
		fresh, err := s.CancelExpiredOrder(order.ID)
		if err != nil {
			logger.Warnw("order_sweep_cancel_failed", "order_id", order.ID, "error", err)
			continue
		}
		if fresh != nil && fresh.Status == constants.OrderStatusCancelled {
			cancelled++
		}
	}
	return cancelled, nil
}

// cancelPendingOrder 条件取消 pending 订单并释放全部预占
// 返回 false 表示前置状态已失效（没有任何行被更新）。
func (s *OrderService) cancelPendingOrder(order *models.Order, reason string) (bool, error) {
	if order == nil {
		return false, ErrOrderNotFound
	}
	now := time.Now()
	conflicted := false
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		affected, err := orderRepo.UpdateStatusIf(order.ID, constants.OrderStatusPending, constants.OrderStatusCancelled, map[string]interface{}{
			"cancel_reason": reason,
			"cancelled_at":  now,
			"updated_at":    now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			conflicted = true
			return nil
		}
		for _, item := range order.Items {
			released, err := inventoryRepo.Release(order.StoreID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if released == 0 {
				return ErrInventoryConflict
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return !conflicted, nil
}

// afterStatusChange 状态落库后的扩散：发布实时事件并投递通知任务
// 扩散失败只记日志，不影响已提交的状态写入。
func (s *OrderService) afterStatusChange(orderID uint, status string) *models.Order {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil || order == nil {
		logger.Warnw("order_fetch_after_status_change_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
		return nil
	}
	if s.publisher.Enabled() {
		if err := s.publisher.PublishOrder(context.Background(), order); err != nil {
			logger.Warnw("order_event_publish_failed",
				"order_id", orderID,
				"status", status,
				"error", err,
			)
		}
	}
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
			OrderID: orderID,
			Status:  status,
		}); err != nil {
			logger.Warnw("order_enqueue_status_notify_failed",
				"order_id", orderID,
				"status", status,
				"error", err,
			)
		}
	}
	return order
}

func (s *OrderService) enqueuePendingTimeout(orderID uint, orderNumber string) {
	if !s.queueClient.Enabled() {
		return
	}
	minutes := s.resolvePendingTimeoutMinutes()
	if err := s.queueClient.EnqueueOrderPendingTimeout(queue.OrderPendingTimeoutPayload{
		OrderID: orderID,
	}, time.Duration(minutes)*time.Minute); err != nil {
		logger.Errorw("order_enqueue_pending_timeout_failed",
			"order_id", orderID,
			"order_number", orderNumber,
			"error", err,
		)
	}
}

// generateOrderNumber 生成订单号：前缀 + 9 位随机数字
// 唯一索引兜底，碰撞时有限次重试。
func (s *OrderService) generateOrderNumber(orderRepo repository.OrderRepository) (string, error) {
	maxRetries := s.orderCfg.NumberMaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	limit := big.NewInt(1)
	for i := 0; i < constants.OrderNumberSuffixWidth; i++ {
		limit = limit.Mul(limit, big.NewInt(10))
	}
	for attempt := 0; attempt < maxRetries; attempt++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		number := fmt.Sprintf("%s%0*d", constants.OrderNumberPrefix, constants.OrderNumberSuffixWidth, n)
		count, err := orderRepo.CountByOrderNumber(number)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", ErrOrderNumberExhausted
}

func (s *OrderService) resolveTaxRate() decimal.Decimal {
	percent := s.orderCfg.TaxRatePercent
	if s.settingService != nil {
		if v, err := s.settingService.GetOrderTaxRatePercent(percent); err == nil {
			percent = v
		}
	}
	if percent < 0 {
		percent = 0
	}
	return decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100))
}

func (s *OrderService) resolveDeliveryFee() decimal.Decimal {
	fee := decimal.Zero
	if raw := strings.TrimSpace(s.orderCfg.DeliveryFee); raw != "" {
		if parsed, err := decimal.NewFromString(raw); err == nil && !parsed.IsNegative() {
			fee = parsed
		}
	}
	if s.settingService != nil {
		if v, err := s.settingService.GetOrderDeliveryFee(fee); err == nil {
			fee = v
		}
	}
	return fee.Round(2)
}

func (s *OrderService) resolvePendingTimeoutMinutes() int {
	minutes := s.orderCfg.PendingTimeoutMinutes
	if minutes <= 0 {
		minutes = 30
	}
	if s.settingService != nil {
		if v, err := s.settingService.GetOrderPendingTimeoutMinutes(minutes); err == nil && v > 0 {
			minutes = v
		}
	}
	return minutes
}
