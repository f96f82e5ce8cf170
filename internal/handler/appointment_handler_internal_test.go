package handler

import (
	"testing"
	"time"
)

func TestParseStartAt(t *testing.T) {
	tests := []struct {
		date, label string
		want        time.Time
		wantErr     bool
	}{
		{"2025-01-10", "10:00 AM", time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), false},
		{"2025-01-10", "10:00 am", time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), false},
		{"2025-01-10", "2:30 PM", time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC), false},
		{"2025-01-10", "14:30", time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC), false},
		{"2025-01-10", "12:00 AM", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), false},
		{"2025-13-40", "10:00 AM", time.Time{}, true},
		{"10/01/2025", "10:00 AM", time.Time{}, true},
		{"2025-01-10", "sometime", time.Time{}, true},
		{"2025-01-10", "", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := parseStartAt(tt.date, tt.label)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseStartAt(%q, %q): expected error", tt.date, tt.label)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseStartAt(%q, %q): %v", tt.date, tt.label, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseStartAt(%q, %q) = %v, want %v", tt.date, tt.label, got, tt.want)
		}
	}
}

func TestParseStartAtOrders(t *testing.T) {
	morning, _ := parseStartAt("2025-01-10", "9:00 AM")
	afternoon, _ := parseStartAt("2025-01-10", "1:00 PM")
	nextDay, _ := parseStartAt("2025-01-11", "8:00 AM")

	if !morning.Before(afternoon) {
		t.Error("9:00 AM should sort before 1:00 PM on the same day")
	}
	if !afternoon.Before(nextDay) {
		t.Error("earlier date should sort before later date regardless of time")
	}
}
