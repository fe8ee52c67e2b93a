package risk

import "mm-sim-go/strategy"

// State 报价调整时可见的账户状态。
type State struct {
	Position     float64
	MaxInventory float64
	CashPnL      float64
}

// Guard 是通用接口：在报价下发前调整（限流、熔断等都可实现）。
// 只收紧报价，不放宽，也绝不把压零的数量恢复成非零。
type Guard interface {
	Adjust(q strategy.Quote, st State) strategy.Quote
}

// Chain 顺序执行多个 Guard，前者的输出是后者的输入。
type Chain []Guard

func (c Chain) Adjust(q strategy.Quote, st State) strategy.Quote {
	for _, g := range c {
		if g == nil {
			continue
		}
		q = g.Adjust(q, st)
	}
	return q
}
