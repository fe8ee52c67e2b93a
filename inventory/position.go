package inventory

import (
	"errors"
	"fmt"
	"sync"

	"mm-sim-go/market"
)

var (
	ErrPositionLimit = errors.New("position limit exceeded")
	ErrInvalidFill   = errors.New("invalid fill")
)

// Tracker 维护做市商净仓位与持仓成本。
// 买卖两侧各保存一组 (数量, 名义额) 聚合作为在仓均价，
// 只有加仓方向的成交更新均价；减仓/反手按原均价实现盈亏，不动均价。
type Tracker struct {
	mu           sync.RWMutex
	maxInventory float64
	position     float64

	// 在仓成本（当前敞口的基础）
	longSize      float64
	longNotional  float64
	shortSize     float64
	shortNotional float64

	// 现金流水（全生命周期）
	totalBought    float64
	totalBuyValue  float64
	totalSold      float64
	totalSellValue float64

	realized float64 // 减仓实现的盈亏
}

// NewTracker 创建仓位跟踪器，maxInventory 必须为正。
func NewTracker(maxInventory float64) (*Tracker, error) {
	if maxInventory <= 0 {
		return nil, fmt.Errorf("%w: maxInventory must be > 0, got %f", ErrInvalidFill, maxInventory)
	}
	return &Tracker{maxInventory: maxInventory}, nil
}

// AcceptFill 接受一笔成交。越过 ±maxInventory 的成交整笔拒绝（no-op）：
// 主要的限仓手段是报价侧压零，这里只是兜底校验。
func (t *Tracker) AcceptFill(side string, price, size float64) error {
	if size <= 0 || price <= 0 {
		return fmt.Errorf("%w: side=%s price=%f size=%f", ErrInvalidFill, side, price, size)
	}
	if !market.ValidSide(side) {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidFill, side)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	delta := size
	if side == market.SideSell {
		delta = -size
	}
	newPos := t.position + delta
	if newPos > t.maxInventory || newPos < -t.maxInventory {
		return fmt.Errorf("%w: %f + %f outside ±%f", ErrPositionLimit, t.position, delta, t.maxInventory)
	}

	if side == market.SideBuy {
		t.totalBought += size
		t.totalBuyValue += price * size
		t.applyBuy(price, size)
	} else {
		t.totalSold += size
		t.totalSellValue += price * size
		t.applySell(price, size)
	}
	t.position = newPos
	return nil
}

func (t *Tracker) applyBuy(price, size float64) {
	if t.position >= 0 {
		// 加多仓
		t.longSize += size
		t.longNotional += price * size
		return
	}
	// 先平空，余量反手开多
	closed := size
	if closed > -t.position {
		closed = -t.position
	}
	avgShort := t.shortNotional / t.shortSize
	t.realized += (avgShort - price) * closed
	t.shortNotional -= avgShort * closed
	t.shortSize -= closed
	if t.shortSize <= 0 {
		t.shortSize = 0
		t.shortNotional = 0
	}
	if rest := size - closed; rest > 0 {
		t.longSize += rest
		t.longNotional += price * rest
	}
}

func (t *Tracker) applySell(price, size float64) {
	if t.position <= 0 {
		// 加空仓
		t.shortSize += size
		t.shortNotional += price * size
		return
	}
	// 先平多，余量反手开空
	closed := size
	if closed > t.position {
		closed = t.position
	}
	avgLong := t.longNotional / t.longSize
	t.realized += (price - avgLong) * closed
	t.longNotional -= avgLong * closed
	t.longSize -= closed
	if t.longSize <= 0 {
		t.longSize = 0
		t.longNotional = 0
	}
	if rest := size - closed; rest > 0 {
		t.shortSize += rest
		t.shortNotional += price * rest
	}
}

func (t *Tracker) Position() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.position
}

func (t *Tracker) MaxInventory() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.maxInventory
}

// AvgBuyPrice 返回当前多头在仓均价；无多头敞口时 ok=false。
func (t *Tracker) AvgBuyPrice() (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.longSize <= 0 {
		return 0, false
	}
	return t.longNotional / t.longSize, true
}

// AvgSellPrice 返回当前空头在仓均价；无空头敞口时 ok=false。
func (t *Tracker) AvgSellPrice() (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.shortSize <= 0 {
		return 0, false
	}
	return t.shortNotional / t.shortSize, true
}

// CashPnL 卖出收到的现金减去买入付出的现金。
func (t *Tracker) CashPnL() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalSellValue - t.totalBuyValue
}

// RealizedPnL 减仓相对原均价实现的盈亏。
func (t *Tracker) RealizedPnL() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.realized
}

// Volumes 返回累计买入/卖出数量。
func (t *Tracker) Volumes() (bought, sold float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalBought, t.totalSold
}
