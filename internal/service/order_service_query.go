package service

import (
	"strings"
	"time"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
)

// 订单读取按角色切分：顾客只看自己的订单，运营只看自己门店的队列，
// 配送员看待接单池和自己名下的单，管理端不受限。

// GetOrderForUser 顾客订单详情
func (s *OrderService) GetOrderForUser(userID, orderID uint) (*models.Order, error) {
	if userID == 0 || orderID == 0 {
		return nil, ErrInvalidInput
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.syncExpired(order)
}

// GetOrderByNumberForUser 顾客订单详情（按订单号）
func (s *OrderService) GetOrderByNumberForUser(userID uint, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if userID == 0 || orderNumber == "" {
		return nil, ErrInvalidInput
	}
	order, err := s.orderRepo.GetByOrderNumberAndUser(orderNumber, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.syncExpired(order)
}

// ListOrdersForUser 顾客订单列表
func (s *OrderService) ListOrdersForUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrInvalidInput
	}
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// OrderTracking 顾客订单追踪视图
type OrderTracking struct {
	Order   *models.Order           `json:"order"`
	Partner *models.DeliveryPartner `json:"partner,omitempty"`
}

// GetOrderTracking 顾客追踪订单：订单快照加上配送员当前位置
func (s *OrderService) GetOrderTracking(userID, orderID uint) (*OrderTracking, error) {
	order, err := s.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	tracking := &OrderTracking{Order: order}
	if order.DeliveryPartnerID != nil {
		partner, err := s.partnerRepo.GetByID(*order.DeliveryPartnerID)
		if err != nil {
			return nil, ErrOrderFetchFailed
		}
		tracking.Partner = partner
	}
	return tracking, nil
}

// ListStoreQueue 运营的门店订单队列
func (s *OrderService) ListStoreQueue(operatorUserID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	store, err := s.storeRepo.GetByOperator(operatorUserID)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	if store == nil {
		return nil, 0, ErrForbidden
	}
	filter.StoreID = store.ID
	orders, total, err := s.orderRepo.ListByStore(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// GetOrderForOperator 运营订单详情（限本门店）
func (s *OrderService) GetOrderForOperator(operatorUserID, orderID uint) (*models.Order, error) {
	return s.loadOrderForOperator(operatorUserID, orderID)
}

// ListAvailableOrders 配送员待接单池：ready 且未指派，最新优先
func (s *OrderService) ListAvailableOrders(page, pageSize int) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListAvailableForPartners(page, pageSize)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListActiveForPartner 配送员进行中的订单
func (s *OrderService) ListActiveForPartner(partnerUserID uint, page, pageSize int) ([]models.Order, int64, error) {
	partner, err := s.requirePartner(partnerUserID)
	if err != nil {
		return nil, 0, err
	}
	orders, total, err := s.orderRepo.ListByPartner(repository.OrderListFilter{
		PartnerID: partner.ID,
		Status:    constants.OrderStatusPickedUp,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListHistoryForPartner 配送员历史订单
func (s *OrderService) ListHistoryForPartner(partnerUserID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	partner, err := s.requirePartner(partnerUserID)
	if err != nil {
		return nil, 0, err
	}
	filter.PartnerID = partner.ID
	orders, total, err := s.orderRepo.ListByPartner(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
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
	return order, nil
}

// CanAccessOrderEvents 订单事件流鉴权：
// 订单顾客本人、订单门店的运营、已指派的配送员三者可订阅。
func (s *OrderService) CanAccessOrderEvents(order *models.Order, userID uint, role string) bool {
	if order == nil || userID == 0 {
		return false
	}
	switch role {
	case constants.UserRoleCustomer:
		return order.UserID == userID
	case constants.UserRoleOperator:
		store, err := s.storeRepo.GetByOperator(userID)
		if err != nil || store == nil {
			return false
		}
		return order.StoreID == store.ID
	case constants.UserRolePartner:
		if order.DeliveryPartnerID == nil {
			return false
		}
		partner, err := s.partnerRepo.GetByUserID(userID)
		if err != nil || partner == nil {
			return false
		}
		return *order.DeliveryPartnerID == partner.ID
	default:
		return false
	}
}

// syncExpired 读取时懒同步：pending 订单超过时限直接取消
// 队列不可用时也能保证超时单不会永远悬挂。
func (s *OrderService) syncExpired(order *models.Order) (*models.Order, error) {
	if order == nil || order.Status != constants.OrderStatusPending {
		return order, nil
	}
	deadline := order.CreatedAt.Add(time.Duration(s.resolvePendingTimeoutMinutes()) * time.Minute)
	if deadline.After(time.Now()) {
		return order, nil
	}
	cancelled, err := s.cancelPendingOrder(order, constants.CancelReasonTimeout)
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if cancelled {
		if full := s.afterStatusChange(order.ID, constants.OrderStatusCancelled); full != nil {
			return full, nil
		}
	}
	fresh, err := s.orderRepo.GetByID(order.ID)
	if err != nil || fresh == nil {
		return order, nil
	}
	return fresh, nil
}
