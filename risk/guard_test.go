package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mm-sim-go/risk"
	"mm-sim-go/strategy"
)

func baseQuote() strategy.Quote {
	return strategy.Quote{BidPrice: 99.95, BidSize: 10, AskPrice: 100.05, AskSize: 10}
}

func TestSizeThrottle_ScalesWithInventory(t *testing.T) {
	g := risk.SizeThrottle{MinScale: 0.2}

	// 空仓不缩量
	q := g.Adjust(baseQuote(), risk.State{Position: 0, MaxInventory: 100})
	assert.Equal(t, 10.0, q.BidSize)
	assert.Equal(t, 10.0, q.AskSize)

	// 半仓缩到 50%
	q = g.Adjust(baseQuote(), risk.State{Position: 50, MaxInventory: 100})
	assert.InDelta(t, 5.0, q.BidSize, 1e-12)
	assert.InDelta(t, 5.0, q.AskSize, 1e-12)

	// 满仓只剩 MinScale
	q = g.Adjust(baseQuote(), risk.State{Position: -100, MaxInventory: 100})
	assert.InDelta(t, 2.0, q.BidSize, 1e-12)
	assert.InDelta(t, 2.0, q.AskSize, 1e-12)
}

func TestSizeThrottle_KeepsSuppressedSideZero(t *testing.T) {
	g := risk.SizeThrottle{MinScale: 0.2}
	q := baseQuote()
	q.BidSize = 0
	out := g.Adjust(q, risk.State{Position: 100, MaxInventory: 100})
	assert.Equal(t, 0.0, out.BidSize)
}

func TestKillSwitch_TripsAndLatches(t *testing.T) {
	ks := &risk.KillSwitch{DrawdownLimit: 500}

	q := ks.Adjust(baseQuote(), risk.State{CashPnL: -200})
	assert.False(t, ks.Tripped())
	assert.Equal(t, 10.0, q.BidSize)

	q = ks.Adjust(baseQuote(), risk.State{CashPnL: -600})
	assert.True(t, ks.Tripped())
	assert.Equal(t, 0.0, q.BidSize)
	assert.Equal(t, 0.0, q.AskSize)

	// 盈亏恢复也保持熔断，直到 Reset
	q = ks.Adjust(baseQuote(), risk.State{CashPnL: 100})
	assert.Equal(t, 0.0, q.AskSize)

	ks.Reset()
	q = ks.Adjust(baseQuote(), risk.State{CashPnL: 100})
	assert.Equal(t, 10.0, q.AskSize)
}

func TestChain_AppliesInOrder(t *testing.T) {
	chain := risk.Chain{
		nil, // nil guard 跳过
		risk.SizeThrottle{MinScale: 0.5},
		&risk.KillSwitch{DrawdownLimit: 100},
	}

	q := chain.Adjust(baseQuote(), risk.State{Position: 50, MaxInventory: 100, CashPnL: 0})
	assert.InDelta(t, 5.0, q.BidSize, 1e-12)

	q = chain.Adjust(baseQuote(), risk.State{Position: 0, MaxInventory: 100, CashPnL: -1000})
	assert.Equal(t, 0.0, q.BidSize)
	assert.Equal(t, 0.0, q.AskSize)
}
