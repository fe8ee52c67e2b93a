package market

import "testing"

func TestVolatilityCalculator(t *testing.T) {
	v := NewVolatilityCalculator(8)
	if v.IsReady() {
		t.Fatal("should not be ready without samples")
	}
	for _, p := range []float64{100, 101, 100.5, 102, 101.2} {
		v.AddPrice(p)
	}
	if !v.IsReady() {
		t.Fatal("expected ready")
	}
	if v.RealizedVol() <= 0 {
		t.Fatalf("expected positive vol got %f", v.RealizedVol())
	}

	// 常数路径波动为 0
	flat := NewVolatilityCalculator(8)
	for i := 0; i < 5; i++ {
		flat.AddPrice(100)
	}
	if flat.RealizedVol() != 0 {
		t.Fatalf("expected zero vol got %f", flat.RealizedVol())
	}
}
