package market

import (
	"errors"
	"math"
	"testing"
)

func TestNewOrderBook_Invalid(t *testing.T) {
	cases := []struct {
		name          string
		mid, hs, dep  float64
		levels        int
	}{
		{"zero mid", 0, 0.05, 100, 5},
		{"negative halfSpread", 100, -0.05, 100, 5},
		{"zero depth", 100, 0.05, 0, 5},
		{"zero levels", 100, 0.05, 100, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewOrderBook(c.mid, c.hs, c.dep, c.levels)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSetMid_RegeneratesLadder(t *testing.T) {
	ob, err := NewOrderBook(100, 0.05, 100, 3)
	if err != nil {
		t.Fatalf("new book: %v", err)
	}
	if ob.BestBid() != 99.95 || ob.BestAsk() != 100.05 {
		t.Fatalf("unexpected best quotes: %f/%f", ob.BestBid(), ob.BestAsk())
	}

	// 吃掉一部分卖侧深度
	res := ob.ExecuteMarketOrder(SideBuy, 150)
	if res.FilledSize != 150 {
		t.Fatalf("expected fill 150 got %f", res.FilledSize)
	}
	if ob.TotalDepth(SideBuy) != 150 {
		t.Fatalf("expected remaining ask depth 150 got %f", ob.TotalDepth(SideBuy))
	}

	// 重建后簿子无记忆：上一次吃单的缺口不保留。
	// 这是刻意的简化（合成快照），不要把它"修"成持久化深度模型。
	ob.SetMid(101)
	if ob.TotalDepth(SideBuy) != 300 {
		t.Fatalf("regeneration should restore full depth, got %f", ob.TotalDepth(SideBuy))
	}
	if ob.BestAsk() != 101.05 {
		t.Fatalf("expected best ask 101.05 got %f", ob.BestAsk())
	}
}

func TestExecuteMarketOrder_SingleLevelFill(t *testing.T) {
	// half_spread=0.05、单档深度100：50 的市价买全部在 mid+0.05 成交。
	ob, _ := NewOrderBook(100, 0.05, 100, 1)
	res := ob.ExecuteMarketOrder(SideBuy, 50)
	if res.FilledSize != 50 {
		t.Fatalf("expected filled 50 got %f", res.FilledSize)
	}
	if res.AvgFillPrice != 100.05 {
		t.Fatalf("expected avg 100.05 got %f", res.AvgFillPrice)
	}
	if res.InsufficientLiquidity {
		t.Fatal("unexpected liquidity flag")
	}
	if res.LevelsTouched != 1 {
		t.Fatalf("expected 1 level touched got %d", res.LevelsTouched)
	}
}

func TestExecuteMarketOrder_PartialFill(t *testing.T) {
	// 150 打进单档 100 深度：成交 100，标记流动性不足。
	ob, _ := NewOrderBook(100, 0.05, 100, 1)
	res := ob.ExecuteMarketOrder(SideBuy, 150)
	if res.FilledSize != 100 {
		t.Fatalf("expected filled 100 got %f", res.FilledSize)
	}
	if !res.InsufficientLiquidity {
		t.Fatal("expected InsufficientLiquidity")
	}
	if res.AvgFillPrice != 100.05 {
		t.Fatalf("avg price over filled portion only, got %f", res.AvgFillPrice)
	}
}

func TestExecuteMarketOrder_WalksLevels(t *testing.T) {
	ob, _ := NewOrderBook(100, 0.05, 100, 3)
	res := ob.ExecuteMarketOrder(SideSell, 250)
	if res.FilledSize != 250 {
		t.Fatalf("expected filled 250 got %f", res.FilledSize)
	}
	if res.LevelsTouched != 3 {
		t.Fatalf("expected 3 levels got %d", res.LevelsTouched)
	}
	// 100@99.95 + 100@99.90 + 50@99.85
	want := (100*99.95 + 100*99.90 + 50*99.85) / 250
	if math.Abs(res.AvgFillPrice-want) > 1e-12 {
		t.Fatalf("expected avg %f got %f", want, res.AvgFillPrice)
	}
}

func TestExecuteMarketOrder_ImpactMonotonic(t *testing.T) {
	// 固定簿态下买单越大均价越差，卖单镜像。
	sizes := []float64{50, 150, 250, 450}
	prevBuy := 0.0
	prevSell := math.Inf(1)
	for _, sz := range sizes {
		ob, _ := NewOrderBook(100, 0.05, 100, 5)
		buy := ob.ExecuteMarketOrder(SideBuy, sz)
		if buy.AvgFillPrice < prevBuy {
			t.Fatalf("buy avg price should be non-decreasing in size: %f after %f", buy.AvgFillPrice, prevBuy)
		}
		prevBuy = buy.AvgFillPrice

		ob2, _ := NewOrderBook(100, 0.05, 100, 5)
		sell := ob2.ExecuteMarketOrder(SideSell, sz)
		if sell.AvgFillPrice > prevSell {
			t.Fatalf("sell avg price should be non-increasing in size: %f after %f", sell.AvgFillPrice, prevSell)
		}
		prevSell = sell.AvgFillPrice
	}
}

func TestExecuteMarketOrder_NeverOverfills(t *testing.T) {
	ob, _ := NewOrderBook(100, 0.05, 100, 2)
	res := ob.ExecuteMarketOrder(SideBuy, 10000)
	if res.FilledSize > 200 {
		t.Fatalf("filled beyond available depth: %f", res.FilledSize)
	}
	if res.FilledSize != 200 {
		t.Fatalf("expected max available 200 got %f", res.FilledSize)
	}
}
