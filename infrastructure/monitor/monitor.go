package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mm-sim-go/market"
	"mm-sim-go/pnl"
)

// Monitor Prometheus监控指标收集器
type Monitor struct {
	registry *prometheus.Registry

	// 市场指标
	midPrice prometheus.Gauge
	bidPrice prometheus.Gauge
	askPrice prometheus.Gauge

	// 仓位指标
	position prometheus.Gauge
	cashPnL  prometheus.Gauge
	totalPnL prometheus.Gauge

	// PnL 分解
	spreadCapture    prometheus.Gauge
	inventoryPnL     prometheus.Gauge
	adverseSelection prometheus.Gauge

	// 成交指标
	tradesTotal *prometheus.CounterVec
	tradedSize  prometheus.Histogram
	stepsTotal  prometheus.Counter
}

// Config 监控配置
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Namespace: "mmsim",
		Subsystem: "run",
	}
}

// New 创建新的Monitor实例
func New(cfg Config) *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Monitor{
		registry: reg,

		midPrice: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "mid_price",
			Help:      "当前中间价",
		}),
		bidPrice: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "bid_price",
			Help:      "做市商买一价",
		}),
		askPrice: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ask_price",
			Help:      "做市商卖一价",
		}),
		position: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "position",
			Help:      "当前净仓位",
		}),
		cashPnL: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cash_pnl",
			Help:      "现金盈亏",
		}),
		totalPnL: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "total_pnl",
			Help:      "含库存市值的总盈亏",
		}),
		spreadCapture: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "spread_capture",
			Help:      "价差捕获分量",
		}),
		inventoryPnL: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "inventory_pnl",
			Help:      "库存风险分量",
		}),
		adverseSelection: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "adverse_selection",
			Help:      "逆向选择分量",
		}),
		tradesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "trades_total",
				Help:      "成交笔数（按方向）",
			},
			[]string{"side"},
		),
		tradedSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "trade_size",
			Help:      "单笔成交数量分布",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		stepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "steps_total",
			Help:      "已推进的模拟步数",
		}),
	}
	return m
}

// ObserveSnapshot 每个模拟步更新一次市场与仓位指标。
func (m *Monitor) ObserveSnapshot(s market.Snapshot) {
	m.stepsTotal.Inc()
	m.midPrice.Set(s.Mid)
	m.bidPrice.Set(s.BidPrice)
	m.askPrice.Set(s.AskPrice)
	m.position.Set(s.Inventory)
	m.cashPnL.Set(s.CashPnL)
	m.totalPnL.Set(s.TotalPnL)
}

// ObserveTrade 记录一笔成交。
func (m *Monitor) ObserveTrade(t market.Trade) {
	m.tradesTotal.WithLabelValues(t.Side).Inc()
	m.tradedSize.Observe(t.Size)
}

// ObserveDecomposition 刷新三个归因分量。
func (m *Monitor) ObserveDecomposition(s pnl.Summary) {
	m.spreadCapture.Set(s.SpreadCapture)
	m.inventoryPnL.Set(s.InventoryPnL)
	m.adverseSelection.Set(s.AdverseSelection)
}

// Handler 返回 /metrics 的 HTTP handler。
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
