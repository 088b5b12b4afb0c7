package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusTransitions(t *testing.T) {
	allowed := map[[2]PaymentStatus]bool{
		{StatusPending, StatusProcessing}:   true,
		{StatusPending, StatusRejected}:     true,
		{StatusProcessing, StatusCompleted}: true,
		{StatusProcessing, StatusRejected}:  true,
	}

	all := []PaymentStatus{StatusPending, StatusProcessing, StatusCompleted, StatusRejected}
	for _, from := range all {
		for _, to := range all {
			got := from.CanAdvanceTo(to)
			assert.Equalf(t, allowed[[2]PaymentStatus{from, to}], got, "%s -> %s", from, to)
		}
	}
}

func TestPaymentStatusNeverMovesBackward(t *testing.T) {
	rank := map[PaymentStatus]int{
		StatusPending:    0,
		StatusProcessing: 1,
		StatusCompleted:  2,
		StatusRejected:   2,
	}

	all := []PaymentStatus{StatusPending, StatusProcessing, StatusCompleted, StatusRejected}
	for _, from := range all {
		for _, to := range all {
			if from.CanAdvanceTo(to) {
				assert.Greaterf(t, rank[to], rank[from], "%s -> %s must move forward", from, to)
			}
		}
	}
}

func TestTerminalStatusesHaveNoOutgoingTransitions(t *testing.T) {
	all := []PaymentStatus{StatusPending, StatusProcessing, StatusCompleted, StatusRejected}
	for _, terminal := range []PaymentStatus{StatusCompleted, StatusRejected} {
		assert.True(t, terminal.Terminal())
		for _, to := range all {
			assert.Falsef(t, terminal.CanAdvanceTo(to), "%s -> %s", terminal, to)
		}
	}
}

func TestPaymentStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, PaymentStatus("shipped").Valid())
	assert.False(t, PaymentStatus("").Valid())
}
