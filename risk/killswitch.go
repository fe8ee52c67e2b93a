package risk

import (
	"math"
	"sync"

	"mm-sim-go/strategy"
)

// KillSwitch 回撤熔断：现金亏损触及阈值后压零双边报价并锁死，
// 直到显式 Reset。触发状态可供监控读取。
type KillSwitch struct {
	DrawdownLimit float64

	mu      sync.Mutex
	tripped bool
}

func (k *KillSwitch) Adjust(q strategy.Quote, st State) strategy.Quote {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.tripped && st.CashPnL <= -math.Abs(k.DrawdownLimit) {
		k.tripped = true
	}
	if k.tripped {
		q.BidSize = 0
		q.AskSize = 0
	}
	return q
}

// Tripped 报告熔断是否已触发。
func (k *KillSwitch) Tripped() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tripped
}

// Reset 人工复位。
func (k *KillSwitch) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.tripped = false
}
