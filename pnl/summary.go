package pnl

// Summary is a read-only reporting snapshot. The tracker never formats
// or prints it; cmd consumers do.
type Summary struct {
	FinalMid         float64 `json:"final_mid"`
	TotalTrades      int     `json:"total_trades"`
	Buys             int     `json:"buys"`
	Sells            int     `json:"sells"`
	FinalInventory   float64 `json:"final_inventory"`
	TotalPnL         float64 `json:"total_pnl"`
	SpreadCapture    float64 `json:"spread_capture"`
	InventoryPnL     float64 `json:"inventory_pnl"`
	AdverseSelection float64 `json:"adverse_selection"`
}

func (t *Tracker) Summary() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Summary{
		FinalMid:         t.lastMid,
		TotalTrades:      t.buys + t.sells,
		Buys:             t.buys,
		Sells:            t.sells,
		FinalInventory:   t.position,
		TotalPnL:         t.spreadCapture + t.inventoryPnL + t.adverseSelection,
		SpreadCapture:    t.spreadCapture,
		InventoryPnL:     t.inventoryPnL,
		AdverseSelection: t.adverseSelection,
	}
}
