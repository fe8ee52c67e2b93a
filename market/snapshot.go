package market

// Snapshot 单个模拟步的快照，供流式推送与报表消费。
type Snapshot struct {
	Step          int     `json:"step"`
	Mid           float64 `json:"mid"`
	BidPrice      float64 `json:"bid_price"`
	AskPrice      float64 `json:"ask_price"`
	Inventory     float64 `json:"inventory"`
	CashPnL       float64 `json:"cash_pnl"`
	TotalPnL      float64 `json:"total_pnl"`
	TradeOccurred bool    `json:"trade_occurred"`
	TradeSide     string  `json:"trade_side,omitempty"`
	TradePrice    float64 `json:"trade_price,omitempty"`
	TradeSize     float64 `json:"trade_size,omitempty"`
}
