package service

import (
	"errors"
	"testing"

	"github.com/zipcart/internal/constants"
)

func TestTransitionTableForwardOnly(t *testing.T) {
	allowed := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed},
		{constants.OrderStatusPending, constants.OrderStatusCancelled},
		{constants.OrderStatusConfirmed, constants.OrderStatusPreparing},
		{constants.OrderStatusPreparing, constants.OrderStatusReady},
		{constants.OrderStatusReady, constants.OrderStatusPickedUp},
		{constants.OrderStatusPickedUp, constants.OrderStatusDelivered},
	}
	for _, edge := range allowed {
		if err := checkTransition(edge[0], edge[1]); err != nil {
			t.Fatalf("transition %s -> %s should be allowed: %v", edge[0], edge[1], err)
		}
	}

	denied := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusPickedUp},
		{constants.OrderStatusPending, constants.OrderStatusDelivered},
		{constants.OrderStatusConfirmed, constants.OrderStatusPending},
		{constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
		{constants.OrderStatusReady, constants.OrderStatusPreparing},
		{constants.OrderStatusDelivered, constants.OrderStatusPickedUp},
		{constants.OrderStatusCancelled, constants.OrderStatusConfirmed},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled},
	}
	for _, edge := range denied {
		err := checkTransition(edge[0], edge[1])
		if err == nil {
			t.Fatalf("transition %s -> %s should be rejected", edge[0], edge[1])
		}
		var transitionErr *InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got: %v", err)
		}
		if transitionErr.From != edge[0] || transitionErr.To != edge[1] {
			t.Fatalf("transition error carries wrong edge: %+v", transitionErr)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !IsTerminalStatus(constants.OrderStatusDelivered) {
		t.Fatalf("delivered should be terminal")
	}
	if !IsTerminalStatus(constants.OrderStatusCancelled) {
		t.Fatalf("cancelled should be terminal")
	}
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
		constants.OrderStatusPickedUp,
	} {
		if IsTerminalStatus(status) {
			t.Fatalf("%s should not be terminal", status)
		}
	}
}

func TestOperatorTransitionsExcludePartnerSteps(t *testing.T) {
	if operatorTransitions[constants.OrderStatusPickedUp] {
		t.Fatalf("picked_up is a partner transition")
	}
	if operatorTransitions[constants.OrderStatusDelivered] {
		t.Fatalf("delivered is a partner transition")
	}
	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
		constants.OrderStatusCancelled,
	} {
		if !operatorTransitions[status] {
			t.Fatalf("operator should be allowed to reach %s", status)
		}
	}
}
