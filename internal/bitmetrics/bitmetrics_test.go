package bitmetrics

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  uint8
	}{
		{"zero", 0, 0},
		{"max", 255, 255},
		{"above max", 256, 255},
		{"far above max", 1e9, 255},
		{"negative", -1, 0},
		{"far negative", -1e9, 0},
		{"truncates toward zero", 12.9, 12},
		{"negative fraction", -0.5, 0},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 255},
		{"negative inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.input); got != tt.want {
				t.Errorf("Clamp(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(-5); got != 0 {
		t.Errorf("ClampInt(-5) = %d, want 0", got)
	}
	if got := ClampInt(300); got != 255 {
		t.Errorf("ClampInt(300) = %d, want 255", got)
	}
	if got := ClampInt(128); got != 128 {
		t.Errorf("ClampInt(128) = %d, want 128", got)
	}
}

func TestHammingWeight(t *testing.T) {
	tests := []struct {
		value uint8
		want  int
	}{
		{0x00, 0},
		{0xFF, 8},
		{0xAA, 4},
		{0x55, 4},
		{0x01, 1},
		{0x80, 1},
		{0xF0, 4},
		{0x0F, 4},
		{0x07, 3},
	}

	for _, tt := range tests {
		if got := HammingWeight(tt.value); got != tt.want {
			t.Errorf("HammingWeight(%#02x) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

// Weight of every possible bus value stays within [0,8] and matches the
// weight derived from its binary rendering.
func TestHammingWeightExhaustive(t *testing.T) {
	for v := 0; v <= MaxValue; v++ {
		w := HammingWeight(uint8(v))
		if w < 0 || w > BusWidth {
			t.Fatalf("HammingWeight(%d) = %d out of range", v, w)
		}

		ones := 0
		for _, c := range Binary(uint8(v)) {
			if c == '1' {
				ones++
			}
		}
		if w != ones {
			t.Fatalf("HammingWeight(%d) = %d, binary rendering has %d ones", v, w, ones)
		}
	}
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		a, b uint8
		want int
	}{
		{0x00, 0x00, 0},
		{0x00, 0xFF, 8},
		{0xAA, 0x55, 8},
		{0xF0, 0x0F, 8},
		{0x01, 0x03, 1},
		{0x12, 0x12, 0},
	}

	for _, tt := range tests {
		if got := HammingDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("HammingDistance(%#02x, %#02x) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		// Symmetric by definition.
		if got := HammingDistance(tt.b, tt.a); got != tt.want {
			t.Errorf("HammingDistance(%#02x, %#02x) = %d, want %d", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestPowerProxy(t *testing.T) {
	tests := []struct {
		weight int
		want   float64
	}{
		{0, 0},
		{1, 1.2},
		{2, 2.4},
		{3, 3.6},
		{4, 4.8},
		{5, 6},
		{6, 7.2},
		{7, 8.4},
		{8, 9.6},
	}

	for _, tt := range tests {
		if got := PowerProxy(tt.weight); got != tt.want {
			t.Errorf("PowerProxy(%d) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}

// PowerProxy matches round(weight*1.2, 2) across the whole bus domain.
func TestPowerProxyMatchesWeight(t *testing.T) {
	for v := 0; v <= MaxValue; v++ {
		w := HammingWeight(uint8(v))
		want := math.Round(float64(w)*1.2*100) / 100
		if got := PowerProxy(w); got != want {
			t.Fatalf("PowerProxy(%d) = %v, want %v", w, got, want)
		}
	}
}

func TestBinary(t *testing.T) {
	tests := []struct {
		value uint8
		want  string
	}{
		{0, "00000000"},
		{255, "11111111"},
		{1, "00000001"},
		{128, "10000000"},
		{0xAA, "10101010"},
	}

	for _, tt := range tests {
		if got := Binary(tt.value); got != tt.want {
			t.Errorf("Binary(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
