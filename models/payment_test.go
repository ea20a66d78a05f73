package models

import "testing"

func TestAmountToPaise(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{19.99, 1999},
		{0.07, 7},
		{2500, 250000},
		{1199.5, 119950},
		{0, 0},
	}
	for _, tt := range tests {
		if got := AmountToPaise(tt.amount); got != tt.want {
			t.Errorf("AmountToPaise(%v) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}
