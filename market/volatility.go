package market

import "math"

// VolatilityCalculator 基于滚动窗口的 mid 价序列估计已实现波动率。
// 模拟循环每步喂入一次 mid，汇总报表用它核对价格路径的实际波动。
type VolatilityCalculator struct {
	windowSize int
	prices     []float64
}

func NewVolatilityCalculator(windowSize int) *VolatilityCalculator {
	if windowSize < 2 {
		windowSize = 2
	}
	return &VolatilityCalculator{
		windowSize: windowSize,
		prices:     make([]float64, 0, windowSize),
	}
}

// AddPrice 追加一个 mid 价，超出窗口的旧值滚动丢弃。
func (v *VolatilityCalculator) AddPrice(mid float64) {
	v.prices = append(v.prices, mid)
	if len(v.prices) > v.windowSize {
		v.prices = v.prices[1:]
	}
}

// RealizedVol 返回窗口内对数收益率的标准差（每步波动）。
func (v *VolatilityCalculator) RealizedVol() float64 {
	if len(v.prices) < 2 {
		return 0
	}
	logReturns := make([]float64, 0, len(v.prices)-1)
	for i := 1; i < len(v.prices); i++ {
		if v.prices[i-1] > 0 && v.prices[i] > 0 {
			logReturns = append(logReturns, math.Log(v.prices[i]/v.prices[i-1]))
		}
	}
	if len(logReturns) < 1 {
		return 0
	}
	sum := 0.0
	for _, r := range logReturns {
		sum += r
	}
	mean := sum / float64(len(logReturns))
	sumSq := 0.0
	for _, r := range logReturns {
		d := r - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(logReturns)))
}

// IsReady 判断是否已有足够样本。
func (v *VolatilityCalculator) IsReady() bool {
	return len(v.prices) >= 2
}
