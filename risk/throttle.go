package risk

import (
	"math"

	"mm-sim-go/strategy"
)

// SizeThrottle 按仓位饱和度缩小双边报价数量：
// scale = max(MinScale, 1 - |position|/maxInventory)。
// 仓位越满报得越小，降低继续堆仓的速度。
type SizeThrottle struct {
	MinScale float64 // 最低保留比例，如 0.2
}

func (s SizeThrottle) Adjust(q strategy.Quote, st State) strategy.Quote {
	if st.MaxInventory <= 0 {
		return q
	}
	ratio := math.Min(1, math.Abs(st.Position)/st.MaxInventory)
	scale := math.Max(s.MinScale, 1-ratio)
	q.BidSize *= scale
	q.AskSize *= scale
	return q
}
