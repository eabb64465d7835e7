package calculator

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	got, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4 {
		t.Errorf("expected 4, got %.2f", got)
	}
	if _, err := SMA([]float64{1}, 3); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := SMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	if got, _ := RSI(rising, 14); got != 100 {
		t.Errorf("monotonic rise: expected 100, got %.2f", got)
	}

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(100 - i)
	}
	if got, _ := RSI(falling, 14); got > 0.0001 {
		t.Errorf("monotonic fall: expected ~0, got %.4f", got)
	}

	if got, _ := RSI([]float64{1, 2}, 14); got != 50 {
		t.Errorf("insufficient data: expected 50, got %.2f", got)
	}
}

func TestRangeAndPosition(t *testing.T) {
	high, low, err := Range([]float64{3, 9, 1, 4})
	if err != nil {
		t.Fatal(err)
	}
	if high != 9 || low != 1 {
		t.Errorf("expected 9/1, got %.0f/%.0f", high, low)
	}
	if _, _, err := Range(nil); err == nil {
		t.Error("expected error for empty input")
	}

	tests := []struct {
		current, high, low, want float64
	}{
		{5, 9, 1, 0.5},
		{0, 9, 1, 0},
		{20, 9, 1, 1},
		{4, 4, 4, 0.5},
	}
	for _, tt := range tests {
		got, err := Position(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Position(%v,%v,%v)=%v, want %v", tt.current, tt.high, tt.low, got, tt.want)
		}
	}
}
