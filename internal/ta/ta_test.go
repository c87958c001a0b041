package ta

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	if got := SMA(closes, 5); got != 3 {
		t.Errorf("SMA(5) = %v, want 3", got)
	}
	if got := SMA(closes, 2); got != 4.5 {
		t.Errorf("SMA(2) = %v, want 4.5", got)
	}
	if got := SMA(closes, 10); !math.IsNaN(got) {
		t.Errorf("SMA with short window should be NaN, got %v", got)
	}
	if got := SMA(closes, 0); !math.IsNaN(got) {
		t.Errorf("SMA(0) should be NaN, got %v", got)
	}
}

func TestRSI(t *testing.T) {
	// Strictly rising closes saturate RSI at 100.
	rising := []float64{10, 11, 12, 13, 14, 15}
	if got := RSI(rising, 5); got != 100 {
		t.Errorf("RSI of rising series = %v, want 100", got)
	}

	// Alternating equal gains and losses settle near 50.
	mixed := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10}
	got := RSI(mixed, 8)
	if math.Abs(got-50) > 10 {
		t.Errorf("RSI of balanced series = %v, want near 50", got)
	}

	if got := RSI([]float64{1, 2}, 5); !math.IsNaN(got) {
		t.Errorf("RSI with short series should be NaN, got %v", got)
	}
}
