package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mm-sim-go/inventory"
	"mm-sim-go/market"
	"mm-sim-go/pnl"
	"mm-sim-go/risk"
	"mm-sim-go/strategy"
)

// Config 描述一次完整模拟的全部标量参数。
type Config struct {
	// 订单簿
	InitialMid    float64
	HalfSpread    float64
	DepthPerLevel float64
	NumLevels     int

	// 做市商
	QuoteSpread  float64
	QuoteSize    float64
	MaxInventory float64
	SkewFactor   float64

	// 价格过程与订单流
	NumSteps    int
	Volatility  float64
	ArrivalRate float64
	Dt          float64
	Seed        int64

	// 风控（0 表示关闭对应 Guard）
	ThrottleMinScale float64
	DrawdownLimit    float64
}

// Runner 把 订单簿 -> 报价 -> 成交 -> PnL 归因串成一条模拟链路。
// 全部随机性集中在这里的 rng：核心组件只消费事件，固定种子下
// 整条轨迹可复现。
type Runner struct {
	cfg    Config
	book   *market.OrderBook
	quoter *strategy.Quoter
	inv    *inventory.Tracker
	pnl    *pnl.Tracker
	guards risk.Chain
	rng    *rand.Rand
	vol    *market.VolatilityCalculator
	pub    *market.Publisher
	log    *zap.Logger

	step    int
	history []market.Snapshot
}

// NewRunner 组装模拟链路；核心组件各自校验参数。
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if cfg.NumSteps < 1 {
		return nil, fmt.Errorf("numSteps must be >= 1, got %d", cfg.NumSteps)
	}
	if cfg.Volatility < 0 {
		return nil, fmt.Errorf("volatility must be >= 0, got %f", cfg.Volatility)
	}
	if cfg.ArrivalRate < 0 || cfg.ArrivalRate > 1 {
		return nil, fmt.Errorf("arrivalRate must be in [0,1], got %f", cfg.ArrivalRate)
	}
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("dt must be > 0, got %f", cfg.Dt)
	}

	book, err := market.NewOrderBook(cfg.InitialMid, cfg.HalfSpread, cfg.DepthPerLevel, cfg.NumLevels)
	if err != nil {
		return nil, err
	}
	quoter, err := strategy.NewQuoter(strategy.QuoterConfig{
		QuoteSpread: cfg.QuoteSpread,
		QuoteSize:   cfg.QuoteSize,
		SkewFactor:  cfg.SkewFactor,
	})
	if err != nil {
		return nil, err
	}
	inv, err := inventory.NewTracker(cfg.MaxInventory)
	if err != nil {
		return nil, err
	}

	var guards risk.Chain
	if cfg.ThrottleMinScale > 0 {
		guards = append(guards, risk.SizeThrottle{MinScale: cfg.ThrottleMinScale})
	}
	if cfg.DrawdownLimit > 0 {
		guards = append(guards, &risk.KillSwitch{DrawdownLimit: cfg.DrawdownLimit})
	}

	r := &Runner{
		cfg:    cfg,
		book:   book,
		quoter: quoter,
		inv:    inv,
		pnl:    pnl.NewTracker(),
		guards: guards,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		vol:    market.NewVolatilityCalculator(64),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.pnl.Mark(cfg.InitialMid); err != nil {
		return nil, err
	}
	return r, nil
}

// Option 配置 Runner 的可选依赖。
type Option func(*Runner)

func WithPublisher(p *market.Publisher) Option {
	return func(r *Runner) { r.pub = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// Step 推进一个时间步：报价 -> 订单到达与成交 -> 价格移动 -> 归因。
func (r *Runner) Step() (market.Snapshot, error) {
	r.step++
	midBefore := r.book.Mid()

	quote, err := r.quoter.Quote(midBefore, r.inv)
	if err != nil {
		return market.Snapshot{}, err
	}
	quote = r.guards.Adjust(quote, risk.State{
		Position:     r.inv.Position(),
		MaxInventory: r.inv.MaxInventory(),
		CashPnL:      r.inv.CashPnL(),
	})

	// 订单流：以 arrivalRate 概率到达一笔市价单，方向均匀。
	var (
		makerSide  string
		makerPrice float64
		makerSize  float64
	)
	if r.rng.Float64() < r.cfg.ArrivalRate {
		// 到达方随机放大/缩小吃单规模，溢出部分交给簿内其余流动性吸收。
		taker := r.cfg.QuoteSize * (0.5 + r.rng.Float64())
		if r.rng.Float64() < 0.5 {
			// 市价买打在做市商卖价上
			makerSide, makerPrice, makerSize = r.fillAgainst(market.SideBuy, quote.AskPrice, quote.AskSize, taker)
		} else {
			makerSide, makerPrice, makerSize = r.fillAgainst(market.SideSell, quote.BidPrice, quote.BidSize, taker)
		}
	}

	if makerSize > 0 {
		if err := r.inv.AcceptFill(makerSide, makerPrice, makerSize); err != nil {
			// 报价压零是主要限仓手段；到这里说明兜底校验拦下了越限单。
			r.log.Warn("fill rejected", zap.String("side", makerSide), zap.Error(err))
			makerSize = 0
		}
	}

	// 几何布朗运动推进 mid。
	newMid := midBefore + r.rng.NormFloat64()*r.cfg.Volatility*math.Sqrt(r.cfg.Dt)*midBefore
	if newMid <= 0 {
		// 病态参数下的保护：放弃这次移动而不是生成负价
		newMid = midBefore
	}
	r.book.SetMid(newMid)

	snap := market.Snapshot{
		Step:     r.step,
		Mid:      newMid,
		BidPrice: quote.BidPrice,
		AskPrice: quote.AskPrice,
	}
	if makerSize > 0 {
		trade := market.Trade{
			ID:        uuid.NewString(),
			Side:      makerSide,
			Price:     makerPrice,
			Size:      makerSize,
			MidBefore: midBefore,
			MidAfter:  newMid,
			Step:      r.step,
		}
		if err := r.pnl.RecordTrade(trade); err != nil {
			return market.Snapshot{}, err
		}
		if r.pub != nil {
			r.pub.PublishTrade(trade)
		}
		snap.TradeOccurred = true
		snap.TradeSide = makerSide
		snap.TradePrice = makerPrice
		snap.TradeSize = makerSize
	}
	if err := r.pnl.Mark(newMid); err != nil {
		return market.Snapshot{}, err
	}

	snap.Inventory = r.inv.Position()
	snap.CashPnL = r.inv.CashPnL()
	snap.TotalPnL = r.inv.TotalPnL(newMid)
	r.vol.AddPrice(newMid)
	r.history = append(r.history, snap)
	if r.pub != nil {
		r.pub.PublishSnapshot(snap)
	}
	return snap, nil
}

// fillAgainst 让到达的市价单先吃做市商报价，溢出走簿内档位。
// 返回做市商本笔成交（taker 买则做市商卖出）。
func (r *Runner) fillAgainst(takerSide string, quotePrice, quoteSize, takerQty float64) (side string, price float64, size float64) {
	side = market.SideSell
	if takerSide == market.SideSell {
		side = market.SideBuy
	}
	price = quotePrice
	size = math.Min(quoteSize, takerQty)

	// 驱动端按剩余容量裁剪成交量，保证不会触发 Tracker 的兜底拒绝。
	capacity := r.inv.MaxInventory() - r.inv.Position()
	if side == market.SideSell {
		capacity = r.inv.MaxInventory() + r.inv.Position()
	}
	size = math.Min(size, math.Max(capacity, 0))

	// 溢出部分由簿内合成流动性吸收；逐档滑价即价格冲击。
	if rest := takerQty - size; rest > 0 {
		res := r.book.ExecuteMarketOrder(takerSide, rest)
		if res.InsufficientLiquidity {
			r.log.Debug("ambient depth exhausted",
				zap.Float64("requested", rest),
				zap.Float64("filled", res.FilledSize),
				zap.Int("levels", res.LevelsTouched))
		}
	}
	return side, price, size
}

// Run 连续推进 n 步。
func (r *Runner) Run(n int) error {
	if n <= 0 {
		return errors.New("steps must be > 0")
	}
	for i := 0; i < n; i++ {
		if _, err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// History 返回逐步快照（只读副本）。
func (r *Runner) History() []market.Snapshot {
	out := make([]market.Snapshot, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Runner) Inventory() *inventory.Tracker { return r.inv }
func (r *Runner) PnL() *pnl.Tracker             { return r.pnl }
func (r *Runner) Book() *market.OrderBook       { return r.book }
