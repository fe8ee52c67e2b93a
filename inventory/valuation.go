package inventory

// Valuation 基于当前 mid 价计算净仓位与未实现盈亏。
// 未实现盈亏 = 仓位 × (mid − 当前方向在仓均价)。
func (t *Tracker) Valuation(mid float64) (net float64, pnl float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	net = t.position
	switch {
	case t.position > 0 && t.longSize > 0:
		pnl = (mid - t.longNotional/t.longSize) * t.position
	case t.position < 0 && t.shortSize > 0:
		pnl = (mid - t.shortNotional/t.shortSize) * t.position
	}
	return
}

// TotalPnL 现金流水加上按 mid 计价的库存市值，等价于
// 已平仓实现盈亏加未实现盈亏。
func (t *Tracker) TotalPnL(mid float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalSellValue - t.totalBuyValue + t.position*mid
}
