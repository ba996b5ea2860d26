package service

import (
	"fmt"
	"time"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
)

// NotificationService 站内通知服务
// 通知由队列任务异步落库，读取与已读标记走同步接口。
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	orderRepo        repository.OrderRepository
	storeRepo        repository.StoreRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	orderRepo repository.OrderRepository,
	storeRepo repository.StoreRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		orderRepo:        orderRepo,
		storeRepo:        storeRepo,
	}
}

var statusNotificationBodies = map[string]string{
	constants.OrderStatusPending:   "我们已收到您的订单，门店确认后即开始备货。",
	constants.OrderStatusConfirmed: "门店已确认您的订单。",
	constants.OrderStatusPreparing: "门店正在为您备货。",
	constants.OrderStatusReady:     "订单已备好，等待配送员取货。",
	constants.OrderStatusPickedUp:  "配送员已取货，正在路上。",
	constants.OrderStatusDelivered: "订单已送达，感谢您的惠顾。",
	constants.OrderStatusCancelled: "订单已取消。",
}

var statusNotificationTitles = map[string]string{
	constants.OrderStatusPending:   "订单已提交",
	constants.OrderStatusConfirmed: "订单已确认",
	constants.OrderStatusPreparing: "正在备货",
	constants.OrderStatusReady:     "等待取货",
	constants.OrderStatusPickedUp:  "配送中",
	constants.OrderStatusDelivered: "已送达",
	constants.OrderStatusCancelled: "订单已取消",
}

// NotifyOrderStatus 按订单状态生成站内通知
// 顾客始终收到一条；新下单同时通知门店运营。状态与当前订单不一致时按当前状态落库。
func (s *NotificationService) NotifyOrderStatus(orderID uint, status string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if status == "" || status != order.Status {
		status = order.Status
	}

	title, ok := statusNotificationTitles[status]
	if !ok {
		return fmt.Errorf("未知订单状态: %s", status)
	}
	body := fmt.Sprintf("订单 %s：%s", order.OrderNumber, statusNotificationBodies[status])

	notificationType := constants.NotificationTypeOrderStatus
	switch status {
	case constants.OrderStatusPending:
		notificationType = constants.NotificationTypeOrderPlaced
	case constants.OrderStatusCancelled:
		notificationType = constants.NotificationTypeOrderCancelled
	}

	now := time.Now()
	orderIDRef := order.ID
	notifications := []models.Notification{{
		UserID:    order.UserID,
		OrderID:   &orderIDRef,
		Type:      notificationType,
		Title:     title,
		Body:      body,
		CreatedAt: now,
	}}

	if status == constants.OrderStatusPending {
		store, err := s.storeRepo.GetByID(order.StoreID)
		if err != nil {
			return err
		}
		if store != nil && store.OperatorID != nil {
			notifications = append(notifications, models.Notification{
				UserID:    *store.OperatorID,
				OrderID:   &orderIDRef,
				Type:      constants.NotificationTypeOrderPlaced,
				Title:     "新订单待确认",
				Body:      fmt.Sprintf("订单 %s 已提交，请尽快确认。", order.OrderNumber),
				CreatedAt: now,
			})
		}
	}

	return s.notificationRepo.CreateBatch(notifications)
}

// List 当前用户的通知列表
func (s *NotificationService) List(userID uint, page, pageSize int, onlyUnread bool) ([]models.Notification, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.notificationRepo.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		OnlyUnread: onlyUnread,
	})
}

// MarkRead 标记已读，非本人或不存在的通知报未找到
func (s *NotificationService) MarkRead(userID, id uint) error {
	if userID == 0 || id == 0 {
		return ErrInvalidInput
	}
	rows, err := s.notificationRepo.MarkRead(userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// CountUnread 未读通知数
func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrInvalidInput
	}
	return s.notificationRepo.CountUnread(userID)
}
