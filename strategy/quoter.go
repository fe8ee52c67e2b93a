package strategy

import (
	"errors"
	"fmt"
	"math"
)

// Quote 双边报价，每步从最新状态重算，不持久化。
type Quote struct {
	BidPrice float64
	BidSize  float64
	AskPrice float64
	AskSize  float64
}

// Inventory 提供当前净仓位与仓位上限。
type Inventory interface {
	Position() float64
	MaxInventory() float64
}

// QuoterConfig 控制报价半价差、数量与库存倾斜强度。
type QuoterConfig struct {
	QuoteSpread float64 // 报价半价差（绝对价格）
	QuoteSize   float64 // 双边报价数量
	SkewFactor  float64 // 库存倾斜因子
}

// Quoter 围绕 mid 生成双边报价并按库存倾斜。
type Quoter struct {
	cfg QuoterConfig
}

func NewQuoter(cfg QuoterConfig) (*Quoter, error) {
	if cfg.QuoteSpread <= 0 || cfg.QuoteSize <= 0 {
		return nil, errors.New("invalid quoter config")
	}
	if cfg.SkewFactor < 0 {
		return nil, errors.New("skew factor must be >= 0")
	}
	return &Quoter{cfg: cfg}, nil
}

// Quote 生成报价。skew = clamp(skewFactor·position/maxInventory, [-1,1])，
// 按 skew·quoteSpread 反对称外推：多头时买价下压、卖价上抬，空头镜像，
// 引导回到零仓位。仓位打满时压零同向报价数量，减仓方向继续报价。
// 只读，不改仓位。
func (q *Quoter) Quote(mid float64, inv Inventory) (Quote, error) {
	if mid <= 0 {
		return Quote{}, fmt.Errorf("invalid mid price: %f", mid)
	}

	pos := inv.Position()
	maxInv := inv.MaxInventory()
	skew := 0.0
	if maxInv > 0 {
		skew = q.cfg.SkewFactor * pos / maxInv
		skew = math.Max(-1, math.Min(1, skew))
	}
	shift := skew * q.cfg.QuoteSpread

	out := Quote{
		BidPrice: mid - q.cfg.QuoteSpread - shift,
		BidSize:  q.cfg.QuoteSize,
		AskPrice: mid + q.cfg.QuoteSpread + shift,
		AskSize:  q.cfg.QuoteSize,
	}
	if pos >= maxInv {
		out.BidSize = 0
	}
	if pos <= -maxInv {
		out.AskSize = 0
	}
	return out, nil
}

// Config 返回当前配置。
func (q *Quoter) Config() QuoterConfig {
	return q.cfg
}
