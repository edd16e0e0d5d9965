// controllers/dashboard_controller_test.go
package controllers

import (
	"testing"

	"github.com/icrisstudio/studio_backend/utils"
)

func TestMonthlyWindowStart(t *testing.T) {
	now := int64(1_700_000_000_000)

	tests := []struct {
		name      string
		timeRange string
		want      int64
	}{
		{"empty defaults to twelve months", "", utils.TimeWindowStart("12m", now)},
		{"explicit all keeps the full history", "all", 0},
		{"explicit window passes through", "7d", utils.TimeWindowStart("7d", now)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := monthlyWindowStart(tt.timeRange, now); got != tt.want {
				t.Errorf("monthlyWindowStart(%q) = %d, want %d", tt.timeRange, got, tt.want)
			}
		})
	}
}

func TestMonthlyWindowStartDefaultIsBounded(t *testing.T) {
	now := int64(1_700_000_000_000)
	if got := monthlyWindowStart("", now); got == 0 {
		t.Error("monthlyWindowStart(\"\") = 0, want a bounded window")
	}
}
