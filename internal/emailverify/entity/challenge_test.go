package entity

import (
	"testing"
	"time"
)

func TestChallenge_Expired(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Challenge{ExpiresAt: base.Add(300 * time.Second)}

	tests := []struct {
		name string
		at   time.Duration
		want bool
	}{
		{name: "before expiry", at: 10 * time.Second, want: false},
		{name: "exactly at expiry", at: 300 * time.Second, want: false},
		{name: "after expiry", at: 301 * time.Second, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Expired(base.Add(tt.at)); got != tt.want {
				t.Fatalf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateWindow_Elapsed(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := RateWindow{Count: 3, WindowStart: base}

	tests := []struct {
		name string
		at   time.Duration
		want bool
	}{
		{name: "inside window", at: 59 * time.Second, want: false},
		{name: "window boundary", at: 60 * time.Second, want: true},
		{name: "after window", at: 61 * time.Second, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Elapsed(base.Add(tt.at), time.Minute); got != tt.want {
				t.Fatalf("Elapsed() = %v, want %v", got, tt.want)
			}
		})
	}
}
