package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"mm-sim-go/market"
	"mm-sim-go/pnl"
)

// 离线归因：把 cmd/sim -trades 导出的成交明细重放一遍，
// 重新计算三分量 PnL 并核对对账误差。
func main() {
	path := flag.String("trades", "trades.csv", "成交明细 CSV 路径")
	flag.Parse()

	trades, err := readTrades(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取成交明细失败: %v\n", err)
		os.Exit(1)
	}
	if len(trades) == 0 {
		fmt.Fprintln(os.Stderr, "文件中没有成交记录")
		os.Exit(1)
	}

	tracker := pnl.NewTracker()
	for _, tr := range trades {
		if err := tracker.RecordTrade(tr); err != nil {
			fmt.Fprintf(os.Stderr, "重放第 %d 步成交失败: %v\n", tr.Step, err)
			os.Exit(1)
		}
	}

	sum := tracker.Summary()
	buys, sells := tracker.Counts()
	fmt.Println("================ replay report ================")
	fmt.Printf("trades=%d (buys=%d sells=%d) final inventory=%.4f\n",
		sum.TotalTrades, buys, sells, sum.FinalInventory)
	fmt.Printf("last mid: %.4f\n", tracker.LastMid())
	fmt.Println("-------------- pnl decomposition --------------")
	fmt.Printf("spread capture:    %+.4f\n", sum.SpreadCapture)
	fmt.Printf("inventory pnl:     %+.4f\n", sum.InventoryPnL)
	fmt.Printf("adverse selection: %+.4f\n", sum.AdverseSelection)
	fmt.Printf("total pnl:         %+.4f (cash=%+.4f marked=%+.4f)\n",
		sum.TotalPnL, tracker.CashPnL(), tracker.MarkedPnL())
	fmt.Printf("reconciliation error: %.3e\n", tracker.ReconciliationError())
}

func readTrades(path string) ([]market.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	if len(header) < 7 {
		return nil, fmt.Errorf("表头字段不足: %v", header)
	}

	var trades []market.Trade
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("第 %d 行解析失败: %w", line, err)
		}
		line++
		tr, err := parseTrade(rec)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行解析失败: %w", line, err)
		}
		trades = append(trades, tr)
	}
	return trades, nil
}

func parseTrade(rec []string) (market.Trade, error) {
	if len(rec) < 7 {
		return market.Trade{}, fmt.Errorf("字段不足: %v", rec)
	}
	step, err := strconv.Atoi(rec[1])
	if err != nil {
		return market.Trade{}, fmt.Errorf("step: %w", err)
	}
	fields := [4]float64{}
	for i, raw := range rec[3:7] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return market.Trade{}, fmt.Errorf("列 %d: %w", i+4, err)
		}
		fields[i] = v
	}
	return market.Trade{
		ID:        rec[0],
		Step:      step,
		Side:      rec[2],
		Price:     fields[0],
		Size:      fields[1],
		MidBefore: fields[2],
		MidAfter:  fields[3],
	}, nil
}
