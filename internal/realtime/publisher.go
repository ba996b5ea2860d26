package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"

	"github.com/redis/go-redis/v9"
)

// OrderEvent 订单变更事件
// 每次状态写入后发布完整订单快照，订阅方直接用快照更新本地状态，
// 不需要再回源查询。
type OrderEvent struct {
	OrderID     uint          `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	Status      string        `json:"status"`
	Order       *models.Order `json:"order"`
}

// Publisher 基于 Redis 发布/订阅的订单事件推送
type Publisher struct {
	client *redis.Client
	prefix string
}

// NewPublisher 创建事件发布器，client 为 nil 时所有操作为空操作
func NewPublisher(client *redis.Client, prefix string) *Publisher {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = constants.RedisPrefixDefault
	}
	return &Publisher{client: client, prefix: prefix}
}

// Enabled 判断是否可用
func (p *Publisher) Enabled() bool {
	return p != nil && p.client != nil
}

// ChannelForOrder 订单事件频道名
func (p *Publisher) ChannelForOrder(orderID uint) string {
	return fmt.Sprintf("%s:order:events:%d", p.prefix, orderID)
}

// PublishOrder 发布订单快照
func (p *Publisher) PublishOrder(ctx context.Context, order *models.Order) error {
	if !p.Enabled() || order == nil || order.ID == 0 {
		return nil
	}
	event := OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Order:       order,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.ChannelForOrder(order.ID), payload).Err()
}

// Subscribe 订阅订单事件，返回的 PubSub 由调用方负责关闭
func (p *Publisher) Subscribe(ctx context.Context, orderID uint) *redis.PubSub {
	if !p.Enabled() {
		return nil
	}
	return p.client.Subscribe(ctx, p.ChannelForOrder(orderID))
}
