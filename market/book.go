package market

import (
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidConfig = errors.New("invalid book config")

// PriceLevel 单个价格档位。
type PriceLevel struct {
	Price float64
	Size  float64
}

// ExecResult 市价单吃单结果。部分成交通过 InsufficientLiquidity 标记返回，
// 不作为错误处理，调用方必须检查 FilledSize。
type ExecResult struct {
	FilledSize            float64
	AvgFillPrice          float64
	LevelsTouched         int
	InsufficientLiquidity bool
}

// OrderBook 围绕 mid 价合成买卖档位的模拟订单簿。
// 每次 SetMid 都按配置重建全部档位：簿内流动性是 mid 处可用深度的
// 合成快照，不保留上一次吃单留下的缺口（刻意简化，非状态机簿）。
type OrderBook struct {
	mu            sync.RWMutex
	mid           float64
	halfSpread    float64
	depthPerLevel float64
	numLevels     int
	bids          []PriceLevel // 按与 mid 的距离由近到远
	asks          []PriceLevel
}

// NewOrderBook 创建订单簿并生成首批档位。
func NewOrderBook(initialMid, halfSpread, depthPerLevel float64, numLevels int) (*OrderBook, error) {
	if initialMid <= 0 {
		return nil, fmt.Errorf("%w: initialMid must be > 0, got %f", ErrInvalidConfig, initialMid)
	}
	if halfSpread <= 0 {
		return nil, fmt.Errorf("%w: halfSpread must be > 0, got %f", ErrInvalidConfig, halfSpread)
	}
	if depthPerLevel <= 0 {
		return nil, fmt.Errorf("%w: depthPerLevel must be > 0, got %f", ErrInvalidConfig, depthPerLevel)
	}
	if numLevels < 1 {
		return nil, fmt.Errorf("%w: numLevels must be >= 1, got %d", ErrInvalidConfig, numLevels)
	}
	ob := &OrderBook{
		halfSpread:    halfSpread,
		depthPerLevel: depthPerLevel,
		numLevels:     numLevels,
	}
	ob.SetMid(initialMid)
	return ob, nil
}

// SetMid 更新中间价并重建档位。第 i 档买价为 mid-(i+1)*halfSpread，
// 卖侧镜像，每档深度为 depthPerLevel。
func (ob *OrderBook) SetMid(mid float64) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.mid = mid
	ob.bids = make([]PriceLevel, ob.numLevels)
	ob.asks = make([]PriceLevel, ob.numLevels)
	for i := 0; i < ob.numLevels; i++ {
		offset := float64(i+1) * ob.halfSpread
		ob.bids[i] = PriceLevel{Price: mid - offset, Size: ob.depthPerLevel}
		ob.asks[i] = PriceLevel{Price: mid + offset, Size: ob.depthPerLevel}
	}
}

func (ob *OrderBook) Mid() float64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.mid
}

// BestBid 返回最优买价。
func (ob *OrderBook) BestBid() float64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.bids[0].Price
}

// BestAsk 返回最优卖价。
func (ob *OrderBook) BestAsk() float64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.asks[0].Price
}

// TotalDepth 返回单侧可用总深度。
func (ob *OrderBook) TotalDepth(side string) float64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	levels := ob.asks
	if side == SideSell {
		levels = ob.bids
	}
	var total float64
	for _, lv := range levels {
		total += lv.Size
	}
	return total
}

// ExecuteMarketOrder 按市价吃单：买单自最优卖档逐档向外吃，卖单镜像。
// 价格冲击即逐档机制本身：单越大吃得越深，均价越差。
// 深度不足时按最大可成交量部分成交并置 InsufficientLiquidity。
func (ob *OrderBook) ExecuteMarketOrder(side string, size float64) ExecResult {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	var res ExecResult
	if size <= 0 {
		return res
	}
	levels := ob.asks
	if side == SideSell {
		levels = ob.bids
	}

	remaining := size
	var notional float64
	lastPrice := 0.0
	for i := range levels {
		if remaining <= 0 {
			break
		}
		lv := &levels[i]
		if lv.Size <= 0 {
			continue
		}
		take := lv.Size
		if take > remaining {
			take = remaining
		}
		lv.Size -= take
		remaining -= take
		res.FilledSize += take
		notional += take * lv.Price
		// 相同价位只算一档
		if lv.Price != lastPrice || res.LevelsTouched == 0 {
			res.LevelsTouched++
			lastPrice = lv.Price
		}
	}
	if res.FilledSize > 0 {
		res.AvgFillPrice = notional / res.FilledSize
	}
	if remaining > 0 {
		res.InsufficientLiquidity = true
	}
	return res
}
