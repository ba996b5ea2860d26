package queue

import (
	"encoding/json"

	"github.com/zipcart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify 订单状态通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskOrderPendingTimeout 待确认订单超时取消任务
	TaskOrderPendingTimeout = constants.TaskOrderPendingTimeout
)

// OrderStatusNotifyPayload 订单状态通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// OrderPendingTimeoutPayload 超时取消任务载荷
type OrderPendingTimeoutPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderStatusNotifyTask 创建订单状态通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewOrderPendingTimeoutTask 创建超时取消任务
func NewOrderPendingTimeoutTask(payload OrderPendingTimeoutPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPendingTimeout, body), nil
}
