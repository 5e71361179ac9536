package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCompleted, StatusCanceled,
	} {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}
	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("SHIPPING").Valid())
	assert.False(t, OrderStatus("pending").Valid(), "statuses are case sensitive")
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusShipped, false},
		{StatusConfirmed, StatusProcessing, true},
		{StatusConfirmed, StatusPending, false}, // no going backwards
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCanceled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCompleted, true},
		{StatusShipped, StatusCanceled, false}, // too late to cancel
		{StatusDelivered, StatusCompleted, true},
		{StatusCompleted, StatusPending, false},
		{StatusCanceled, StatusConfirmed, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	all := []OrderStatus{
		StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCompleted, StatusCanceled,
	}
	for _, next := range all {
		assert.False(t, StatusCompleted.CanTransitionTo(next))
		assert.False(t, StatusCanceled.CanTransitionTo(next))
	}
}
