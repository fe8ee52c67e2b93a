package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"mm-sim-go/market"
	"mm-sim-go/sim"
)

// 一次性的本地模拟：固定种子跑完整条价格路径，打印 PnL 三分量归因。
// 全部参数可通过命令行覆盖；不连接任何外部系统。
func main() {
	initialMid := flag.Float64("initialMid", 100.0, "initial mid price")
	halfSpread := flag.Float64("halfSpread", 0.05, "book half-spread per level")
	depth := flag.Float64("depth", 100.0, "depth per book level")
	levels := flag.Int("levels", 5, "book levels per side")
	quoteSpread := flag.Float64("quoteSpread", 0.05, "maker half-spread")
	quoteSize := flag.Float64("quoteSize", 10.0, "maker quote size")
	maxInventory := flag.Float64("maxInventory", 100.0, "position limit")
	skewFactor := flag.Float64("skewFactor", 0.5, "inventory skew factor")
	steps := flag.Int("steps", 1000, "number of steps to simulate")
	volatility := flag.Float64("vol", 0.01, "per-step volatility")
	arrivalRate := flag.Float64("arrivalRate", 0.5, "order arrival probability per step")
	dt := flag.Float64("dt", 1.0, "time step")
	seed := flag.Int64("seed", 42, "random seed")
	throttle := flag.Float64("throttle", 0, "risk: min size scale near limits (0 to disable)")
	drawdown := flag.Float64("drawdown", 0, "risk: cash drawdown kill switch (0 to disable)")
	tradesOut := flag.String("trades", "", "写出成交明细 CSV (供 cmd/report 回放)")
	flag.Parse()

	runner, err := sim.NewRunner(sim.Config{
		InitialMid:       *initialMid,
		HalfSpread:       *halfSpread,
		DepthPerLevel:    *depth,
		NumLevels:        *levels,
		QuoteSpread:      *quoteSpread,
		QuoteSize:        *quoteSize,
		MaxInventory:     *maxInventory,
		SkewFactor:       *skewFactor,
		NumSteps:         *steps,
		Volatility:       *volatility,
		ArrivalRate:      *arrivalRate,
		Dt:               *dt,
		Seed:             *seed,
		ThrottleMinScale: *throttle,
		DrawdownLimit:    *drawdown,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
	if err := runner.Run(*steps); err != nil {
		fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
		os.Exit(1)
	}

	if *tradesOut != "" {
		if err := writeTrades(*tradesOut, runner.PnL().Trades()); err != nil {
			fmt.Fprintf(os.Stderr, "write trades csv: %v\n", err)
			os.Exit(1)
		}
	}

	rep := runner.Report()
	fmt.Println("================ simulation summary ================")
	fmt.Printf("steps=%d trades=%d (buys=%d sells=%d)\n", rep.Steps, rep.TotalTrades, rep.Buys, rep.Sells)
	fmt.Printf("volume: bought=%.4f sold=%.4f\n", rep.BuyVolume, rep.SellVolume)
	fmt.Printf("mid: %.4f -> %.4f (%+.4f)\n", rep.InitialMid, rep.FinalMid, rep.PriceChange)
	fmt.Printf("final inventory: %.4f  realized vol: %.6f\n", rep.FinalInventory, rep.RealizedVol)
	fmt.Println("---------------- pnl decomposition ----------------")
	fmt.Printf("spread capture:    %+.4f\n", rep.SpreadCapture)
	fmt.Printf("inventory pnl:     %+.4f\n", rep.InventoryPnL)
	fmt.Printf("adverse selection: %+.4f\n", rep.AdverseSelection)
	fmt.Printf("total pnl:         %+.4f (cash=%+.4f marked=%+.4f)\n", rep.TotalPnL, rep.CashPnL, rep.MarkedPnL)
}

func writeTrades(path string, trades []market.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "step", "side", "price", "size", "mid_before", "mid_after"}); err != nil {
		return err
	}
	for _, tr := range trades {
		rec := []string{
			tr.ID,
			strconv.Itoa(tr.Step),
			tr.Side,
			strconv.FormatFloat(tr.Price, 'f', -1, 64),
			strconv.FormatFloat(tr.Size, 'f', -1, 64),
			strconv.FormatFloat(tr.MidBefore, 'f', -1, 64),
			strconv.FormatFloat(tr.MidAfter, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
