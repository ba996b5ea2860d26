package service

import (
	"time"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"

	"gorm.io/gorm"
)

// 状态流转全部走带前置条件的单条 UPDATE：WHERE 带上期望的当前状态，
// 0 行受影响说明另一个写入者抢先，转换为冲突错误返回，绝不盲写。

// ConfirmOrder 运营确认订单（pending → confirmed）
func (s *OrderService) ConfirmOrder(operatorUserID, orderID uint) (*models.Order, error) {
	return s.operatorAdvance(operatorUserID, orderID, constants.OrderStatusConfirmed)
}

// StartPreparing 运营开始备货（confirmed → preparing）
func (s *OrderService) StartPreparing(operatorUserID, orderID uint) (*models.Order, error) {
	return s.operatorAdvance(operatorUserID, orderID, constants.OrderStatusPreparing)
}

// MarkReady 运营备货完成（preparing → ready）
func (s *OrderService) MarkReady(operatorUserID, orderID uint) (*models.Order, error) {
	return s.operatorAdvance(operatorUserID, orderID, constants.OrderStatusReady)
}

// CancelOrder 运营取消订单，仅允许 pending，取消同时释放全部库存预占
func (s *OrderService) CancelOrder(operatorUserID, orderID uint, reason string) (*models.Order, error) {
	order, err := s.loadOrderForOperator(operatorUserID, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(order.Status, constants.OrderStatusCancelled); err != nil {
		return nil, err
	}
	if reason == "" {
		reason = constants.CancelReasonOperator
	}
	cancelled, err := s.cancelPendingOrder(order, reason)
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if !cancelled {
		return nil, ErrOrderConflict
	}
	if full := s.afterStatusChange(orderID, constants.OrderStatusCancelled); full != nil {
		return full, nil
	}
	return s.orderRepo.GetByID(orderID)
}

// operatorAdvance 运营推进订单状态
func (s *OrderService) operatorAdvance(operatorUserID, orderID uint, target string) (*models.Order, error) {
	if !operatorTransitions[target] {
		return nil, ErrForbidden
	}
	order, err := s.loadOrderForOperator(operatorUserID, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(order.Status, target); err != nil {
		return nil, err
	}

	affected, err := s.orderRepo.UpdateStatusIf(order.ID, order.Status, target, map[string]interface{}{
		"updated_at": time.Now(),
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if affected == 0 {
		return nil, ErrOrderConflict
	}
	if full := s.afterStatusChange(orderID, target); full != nil {
		return full, nil
	}
	return s.orderRepo.GetByID(orderID)
}

// loadOrderForOperator 加载订单并校验运营归属：只允许操作自己门店的订单
func (s *OrderService) loadOrderForOperator(operatorUserID, orderID uint) (*models.Order, error) {
	if operatorUserID == 0 || orderID == 0 {
		return nil, ErrInvalidInput
	}
	store, err := s.storeRepo.GetByOperator(operatorUserID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if store == nil {
		return nil, ErrForbidden
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.StoreID != store.ID {
		return nil, ErrForbidden
	}
	return order, nil
}

// ClaimOrder 配送员抢单
// 单条 UPDATE 带 status = ready AND delivery_partner_id IS NULL 守卫，
// 并发抢单时先到者生效，后到者拿到冲突。
func (s *OrderService) ClaimOrder(partnerUserID, orderID uint) (*models.Order, error) {
	partner, err := s.requirePartner(partnerUserID)
	if err != nil {
		return nil, err
	}
	if !partner.IsAvailable {
		return nil, ErrPartnerUnavailable
	}

	affected, err := s.orderRepo.ClaimForDelivery(orderID, partner.ID)
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if affected == 0 {
		order, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return nil, ErrOrderFetchFailed
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		if order.DeliveryPartnerID != nil {
			return nil, ErrOrderAlreadyClaimed
		}
		return nil, ErrOrderConflict
	}
	if full := s.afterStatusChange(orderID, constants.OrderStatusPickedUp); full != nil {
		return full, nil
	}
	return s.orderRepo.GetByID(orderID)
}

// MarkDelivered 配送员送达
// 仅被指派的配送员可从 picked_up 推进；送达时消耗库存预占
// （quantity 与 reserved_quantity 同减）并累加配送单数。
func (s *OrderService) MarkDelivered(partnerUserID, orderID uint) (*models.Order, error) {
	partner, err := s.requirePartner(partnerUserID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		partnerRepo := s.partnerRepo.WithTx(tx)

		affected, err := orderRepo.MarkDeliveredByPartner(orderID, partner.ID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != partner.ID {
				return ErrNotAssignedPartner
			}
			return ErrOrderConflict
		}
		for _, item := range order.Items {
			consumed, err := inventoryRepo.Consume(order.StoreID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if consumed == 0 {
				return ErrInventoryConflict
			}
		}
		return partnerRepo.IncrementDeliveries(partner.ID)
	})
	if err != nil {
		switch err {
		case ErrNotAssignedPartner, ErrOrderConflict, ErrInventoryConflict:
			return nil, err
		}
		return nil, ErrOrderUpdateFailed
	}
	if full := s.afterStatusChange(orderID, constants.OrderStatusDelivered); full != nil {
		return full, nil
	}
	return s.orderRepo.GetByID(orderID)
}

func (s *OrderService) requirePartner(partnerUserID uint) (*models.DeliveryPartner, error) {
	if partnerUserID == 0 {
		return nil, ErrInvalidInput
	}
	partner, err := s.partnerRepo.GetByUserID(partnerUserID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if partner == nil {
		return nil, ErrPartnerNotFound
	}
	return partner, nil
}
