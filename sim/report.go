package sim

import "mm-sim-go/pnl"

// Report 模拟结束后的汇总统计：PnL 分解快照加上路径层面的指标。
// 这里只产出数据，格式化/打印由 cmd 层负责。
type Report struct {
	pnl.Summary

	InitialMid  float64 `json:"initial_mid"`
	PriceChange float64 `json:"price_change"`
	CashPnL     float64 `json:"cash_pnl"`
	MarkedPnL   float64 `json:"marked_pnl"`
	BuyVolume   float64 `json:"buy_volume"`
	SellVolume  float64 `json:"sell_volume"`
	RealizedVol float64 `json:"realized_vol"`
	Steps       int     `json:"steps"`
}

func (r *Runner) Report() Report {
	rep := Report{
		Summary:     r.pnl.Summary(),
		InitialMid:  r.cfg.InitialMid,
		CashPnL:     r.pnl.CashPnL(),
		MarkedPnL:   r.pnl.MarkedPnL(),
		RealizedVol: r.vol.RealizedVol(),
		Steps:       r.step,
	}
	rep.BuyVolume, rep.SellVolume = r.inv.Volumes()
	rep.PriceChange = rep.FinalMid - rep.InitialMid
	return rep
}
