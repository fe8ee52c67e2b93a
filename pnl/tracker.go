package pnl

import (
	"errors"
	"fmt"
	"sync"

	"mm-sim-go/market"
)

var ErrInvalidTrade = errors.New("invalid trade")

// Tracker decomposes maker PnL into spread capture, inventory risk and
// adverse selection. It is a pure function of the mark/trade sequence it
// is fed: no clock, no randomness, every total deterministic and
// reproducible bit-for-bit for the same event order.
//
// Attribution per trade:
//   - spread capture rewards executing at a price better than the mid at
//     trade time;
//   - adverse selection charges the newly traded size for the mid move
//     immediately after the fill (mirror sign of spread capture);
//   - inventory risk marks the PRIOR position over every mid move,
//     including the move inside the trade itself.
//
// Splitting the intra-trade move this way keeps the identity
// spread + inventory + adverse == cash flow + position*lastMid exact.
type Tracker struct {
	mu sync.RWMutex

	spreadCapture    float64
	inventoryPnL     float64
	adverseSelection float64

	cashBuys  float64
	cashSells float64

	position float64
	lastMid  float64
	marked   bool

	buys   int
	sells  int
	trades []market.Trade
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Mark records a mid-price observation. Must be called on every step,
// trade or not: inventory attribution depends on the full mark sequence.
func (t *Tracker) Mark(mid float64) error {
	if mid <= 0 {
		return fmt.Errorf("%w: mark mid %f", ErrInvalidTrade, mid)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markLocked(mid)
	return nil
}

func (t *Tracker) markLocked(mid float64) {
	if t.marked {
		t.inventoryPnL += t.position * (mid - t.lastMid)
	}
	t.lastMid = mid
	t.marked = true
}

// RecordTrade ingests one maker fill. Malformed trades fail fast and
// leave all state untouched.
func (t *Tracker) RecordTrade(tr market.Trade) error {
	if tr.Size <= 0 {
		return fmt.Errorf("%w: size %f", ErrInvalidTrade, tr.Size)
	}
	if tr.Price <= 0 || tr.MidBefore <= 0 || tr.MidAfter <= 0 {
		return fmt.Errorf("%w: price=%f midBefore=%f midAfter=%f", ErrInvalidTrade, tr.Price, tr.MidBefore, tr.MidAfter)
	}
	if !market.ValidSide(tr.Side) {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidTrade, tr.Side)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Catch up the prior position to the mid prevailing at trade time.
	t.markLocked(tr.MidBefore)

	move := tr.MidAfter - tr.MidBefore
	switch tr.Side {
	case market.SideBuy:
		t.spreadCapture += (tr.MidBefore - tr.Price) * tr.Size
		t.adverseSelection += move * tr.Size // mid dropping after a buy is a cost
		t.cashBuys += tr.Price * tr.Size
	case market.SideSell:
		t.spreadCapture += (tr.Price - tr.MidBefore) * tr.Size
		t.adverseSelection -= move * tr.Size // mid rising after a sell is a cost
		t.cashSells += tr.Price * tr.Size
	}

	// The prior position rides the intra-trade move as inventory risk; the
	// traded size's exposure over the same move is the adverse term above.
	t.inventoryPnL += t.position * move

	if tr.Side == market.SideBuy {
		t.position += tr.Size
		t.buys++
	} else {
		t.position -= tr.Size
		t.sells++
	}
	t.lastMid = tr.MidAfter
	t.trades = append(t.trades, tr)
	return nil
}

func (t *Tracker) SpreadCapture() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spreadCapture
}

func (t *Tracker) InventoryPnL() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.inventoryPnL
}

func (t *Tracker) AdverseSelection() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.adverseSelection
}

// TotalRealizedPnL is the sum of the three components.
func (t *Tracker) TotalRealizedPnL() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spreadCapture + t.inventoryPnL + t.adverseSelection
}

// CashPnL is the independently kept cash-flow ledger: cash received from
// sells minus cash paid for buys.
func (t *Tracker) CashPnL() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cashSells - t.cashBuys
}

// MarkedPnL is cash flow plus open position valued at the latest mark.
// The decomposition must reconcile against this.
func (t *Tracker) MarkedPnL() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cashSells - t.cashBuys + t.position*t.lastMid
}

// ReconciliationError returns decomposed total minus marked cash PnL.
// Anything beyond float rounding means an attribution bug.
func (t *Tracker) ReconciliationError() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	total := t.spreadCapture + t.inventoryPnL + t.adverseSelection
	return total - (t.cashSells - t.cashBuys + t.position*t.lastMid)
}

func (t *Tracker) Position() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.position
}

func (t *Tracker) LastMid() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastMid
}

// Counts returns the number of maker buys and sells recorded so far.
func (t *Tracker) Counts() (buys, sells int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.buys, t.sells
}

// Trades returns a copy of the append-only trade log.
func (t *Tracker) Trades() []market.Trade {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]market.Trade, len(t.trades))
	copy(out, t.trades)
	return out
}
