package worker

import (
	"context"
	"testing"

	"github.com/zipcart/internal/provider"
	"github.com/zipcart/internal/queue"

	"github.com/hibiken/asynq"
)

func TestConsumerRegisterNilSafe(t *testing.T) {
	var consumer *Consumer
	consumer.Register(nil)
	NewConsumer(&provider.Container{}).Register(nil)
}

func TestHandleOrderStatusNotifyBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOrderStatusNotify, []byte("{not json"))
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}

func TestHandleOrderStatusNotifySkipsZeroOrderID(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOrderStatusNotify, []byte(`{"order_id":0,"status":"confirmed"}`))
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be swallowed, got: %v", err)
	}
}

func TestHandleOrderStatusNotifySkipsMissingService(t *testing.T) {
	// 通知服务缺失时吞掉任务，避免无意义重试
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOrderStatusNotify, []byte(`{"order_id":42,"status":"confirmed"}`))
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("missing service should be swallowed, got: %v", err)
	}
}

func TestHandleOrderPendingTimeoutBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOrderPendingTimeout, []byte("oops"))
	if err := consumer.handleOrderPendingTimeout(context.Background(), task); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}

func TestHandleOrderPendingTimeoutSkipsMissingService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOrderPendingTimeout, []byte(`{"order_id":7}`))
	if err := consumer.handleOrderPendingTimeout(context.Background(), task); err != nil {
		t.Fatalf("missing service should be swallowed, got: %v", err)
	}
}
