package service

import (
	"github.com/zipcart/internal/constants"
)

// allowedTransitions 订单状态只进不退
// pending → confirmed → preparing → ready → picked_up → delivered
// cancelled 仅能从 pending 进入，之后不可再流转。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusPreparing: true,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusReady: true,
	},
	constants.OrderStatusReady: {
		constants.OrderStatusPickedUp: true,
	},
	constants.OrderStatusPickedUp: {
		constants.OrderStatusDelivered: true,
	},
}

// operatorTransitions 门店运营可执行的流转
var operatorTransitions = map[string]bool{
	constants.OrderStatusConfirmed: true,
	constants.OrderStatusPreparing: true,
	constants.OrderStatusReady:     true,
	constants.OrderStatusCancelled: true,
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// checkTransition 校验流转表，非法边返回携带 from/to 的错误
func checkTransition(current, target string) error {
	if !isTransitionAllowed(current, target) {
		return &InvalidTransitionError{From: current, To: target}
	}
	return nil
}

// IsTerminalStatus 终态判断（delivered / cancelled）
func IsTerminalStatus(status string) bool {
	return status == constants.OrderStatusDelivered || status == constants.OrderStatusCancelled
}
