package inventory

import (
	"errors"
	"math"
	"testing"

	"mm-sim-go/market"
)

func TestAcceptFill_UpdatesPositionAndAvg(t *testing.T) {
	tr, err := NewTracker(100)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	if err := tr.AcceptFill(market.SideBuy, 100, 10); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if err := tr.AcceptFill(market.SideBuy, 110, 10); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if tr.Position() != 20 {
		t.Fatalf("expected position 20 got %f", tr.Position())
	}
	avg, ok := tr.AvgBuyPrice()
	if !ok || avg != 105 {
		t.Fatalf("expected avg buy 105 got %f ok=%v", avg, ok)
	}
	if _, ok := tr.AvgSellPrice(); ok {
		t.Fatal("avg sell should be undefined with no short exposure")
	}
}

func TestAcceptFill_ReduceKeepsAverage(t *testing.T) {
	tr, _ := NewTracker(100)
	_ = tr.AcceptFill(market.SideBuy, 100, 10)
	_ = tr.AcceptFill(market.SideBuy, 110, 10)

	// 减仓按原均价 105 实现盈亏，均价不变。
	if err := tr.AcceptFill(market.SideSell, 120, 5); err != nil {
		t.Fatalf("fill: %v", err)
	}
	avg, ok := tr.AvgBuyPrice()
	if !ok || avg != 105 {
		t.Fatalf("reducing trade must not move avg, got %f", avg)
	}
	if got := tr.RealizedPnL(); math.Abs(got-75) > 1e-12 { // (120-105)*5
		t.Fatalf("expected realized 75 got %f", got)
	}
}

func TestAcceptFill_FlipOpensOppositeSide(t *testing.T) {
	tr, _ := NewTracker(100)
	_ = tr.AcceptFill(market.SideSell, 100, 5) // 开空 5 @100
	_ = tr.AcceptFill(market.SideBuy, 98, 8)   // 平空 5，反手开多 3 @98

	if tr.Position() != 3 {
		t.Fatalf("expected position 3 got %f", tr.Position())
	}
	avgBuy, ok := tr.AvgBuyPrice()
	if !ok || avgBuy != 98 {
		t.Fatalf("expected long basis 98 got %f ok=%v", avgBuy, ok)
	}
	if _, ok := tr.AvgSellPrice(); ok {
		t.Fatal("short basis should be cleared after flip")
	}
	if got := tr.RealizedPnL(); math.Abs(got-10) > 1e-12 { // (100-98)*5
		t.Fatalf("expected realized 10 got %f", got)
	}
}

func TestAcceptFill_RejectsBeyondLimit(t *testing.T) {
	tr, _ := NewTracker(10)
	if err := tr.AcceptFill(market.SideBuy, 100, 10); err != nil {
		t.Fatalf("fill to limit should pass: %v", err)
	}
	err := tr.AcceptFill(market.SideBuy, 100, 1)
	if !errors.Is(err, ErrPositionLimit) {
		t.Fatalf("expected ErrPositionLimit got %v", err)
	}
	// 拒绝必须是 no-op
	if tr.Position() != 10 {
		t.Fatalf("rejected fill mutated position: %f", tr.Position())
	}
	// 减仓方向仍可成交
	if err := tr.AcceptFill(market.SideSell, 101, 5); err != nil {
		t.Fatalf("reducing side must stay open: %v", err)
	}
}

func TestAcceptFill_PositionStaysBounded(t *testing.T) {
	tr, _ := NewTracker(15)
	fills := []struct {
		side string
		size float64
	}{
		{market.SideBuy, 10}, {market.SideBuy, 10}, {market.SideSell, 25},
		{market.SideSell, 10}, {market.SideSell, 10}, {market.SideBuy, 40},
	}
	for _, f := range fills {
		_ = tr.AcceptFill(f.side, 100, f.size) // 拒绝是合法结果
		if p := tr.Position(); p > 15 || p < -15 {
			t.Fatalf("position out of bounds: %f", p)
		}
	}
}

func TestAcceptFill_Invalid(t *testing.T) {
	tr, _ := NewTracker(10)
	if err := tr.AcceptFill(market.SideBuy, 100, 0); !errors.Is(err, ErrInvalidFill) {
		t.Fatalf("expected ErrInvalidFill got %v", err)
	}
	if err := tr.AcceptFill("HOLD", 100, 1); !errors.Is(err, ErrInvalidFill) {
		t.Fatalf("expected ErrInvalidFill got %v", err)
	}
}

func TestValuation(t *testing.T) {
	tr, _ := NewTracker(100)
	_ = tr.AcceptFill(market.SideBuy, 100, 10)
	net, pnl := tr.Valuation(110)
	if net != 10 {
		t.Fatalf("expected net 10 got %f", net)
	}
	if math.Abs(pnl-100) > 1e-12 {
		t.Fatalf("expected unrealized 100 got %f", pnl)
	}
	// TotalPnL = 现金 + 库存市值 = -1000 + 10*110
	if got := tr.TotalPnL(110); math.Abs(got-100) > 1e-12 {
		t.Fatalf("expected total 100 got %f", got)
	}
}
