package models

import "testing"

func TestNormalizeOrderStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want OrderStatus
	}{
		{"TRADED", OrderStatusTraded},
		{"Traded", OrderStatusTraded},
		{"Completed", OrderStatusTraded},
		{"COMPLETE", OrderStatusTraded},
		{"Complete", OrderStatusTraded},
		{"REJECTED", OrderStatusRejected},
		{"Rejected", OrderStatusRejected},
		{"CANCELLED", OrderStatusCancelled},
		{"Cancelled", OrderStatusCancelled},
		{"PENDING", OrderStatusPending},
		{"Pending", OrderStatusPending},
		{"TRANSIT", OrderStatusPending},
		{"Transit", OrderStatusPending},
		{"PART_TRADED", OrderStatusPending},
		{"", OrderStatusUnknown},
		{"whatever", OrderStatusUnknown},
	}
	for _, tt := range tests {
		if got := NormalizeOrderStatus(tt.raw); got != tt.want {
			t.Errorf("NormalizeOrderStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, st := range []OrderStatus{OrderStatusTraded, OrderStatusRejected, OrderStatusCancelled} {
		if !st.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", st)
		}
	}
	for _, st := range []OrderStatus{OrderStatusPending, OrderStatusUnknown} {
		if st.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", st)
		}
	}
}
