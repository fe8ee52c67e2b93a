package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mm-sim-go/config"
	"mm-sim-go/infrastructure/logger"
	"mm-sim-go/infrastructure/monitor"
	"mm-sim-go/market"
	"mm-sim-go/sim"
	"mm-sim-go/stream"
)

// 常驻模式：连续跑模拟回合，经 /metrics 暴露指标，经 WebSocket 推送
// 逐步快照。配置文件热更新在回合间生效。
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(monitor.DefaultConfig())
	ws := stream.NewServer(log.Logger)
	pub := market.NewPublisher()

	// 热更新的配置在回合之间切换
	var liveCfg atomic.Pointer[config.AppConfig]
	liveCfg.Store(&cfg)

	g, ctx := errgroup.WithContext(ctx)

	metricsSrv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: metricsMux(mon)}
	streamSrv := &http.Server{Addr: cfg.Server.StreamAddr, Handler: streamMux(ws)}
	g.Go(func() error { return serve(ctx, metricsSrv) })
	g.Go(func() error { return serve(ctx, streamSrv) })

	g.Go(func() error {
		return ws.Pump(ctx, pub.SubscribeSnapshot(), pub.SubscribeTrade())
	})

	g.Go(func() error {
		w := config.Watcher{Path: *cfgPath, Cooldown: 5 * time.Second}
		return w.Start(ctx, func(next config.AppConfig) {
			liveCfg.Store(&next)
			log.Info("config reloaded, applies next episode")
		})
	})

	g.Go(func() error {
		return runEpisodes(ctx, &liveCfg, pub, mon, log.Logger)
	})

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warn("sd_notify failed", zap.Error(err))
	}
	log.Info("simd started",
		zap.String("metrics", cfg.Server.MetricsAddr),
		zap.String("stream", cfg.Server.StreamAddr))

	err = g.Wait()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("simd exited", zap.Error(err))
		os.Exit(1)
	}
	log.Info("simd stopped")
}

// runEpisodes 不断重跑模拟：每回合用最新配置组装一条新链路。
func runEpisodes(
	ctx context.Context,
	liveCfg *atomic.Pointer[config.AppConfig],
	pub *market.Publisher,
	mon *monitor.Monitor,
	log *zap.Logger,
) error {
	episode := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		episode++
		cfg := *liveCfg.Load()
		simCfg := cfg.ToSimConfig()
		// 回合之间换种子，否则每回合轨迹完全相同
		simCfg.Seed += int64(episode - 1)

		runner, err := sim.NewRunner(simCfg, sim.WithPublisher(pub), sim.WithLogger(log))
		if err != nil {
			return err
		}
		log.Info("episode started", zap.Int("episode", episode), zap.Int64("seed", simCfg.Seed))

		interval := time.Duration(cfg.Server.StepMs) * time.Millisecond
		if interval <= 0 {
			interval = 50 * time.Millisecond
		}
		ticker := time.NewTicker(interval)
		for step := 0; step < simCfg.NumSteps; step++ {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return ctx.Err()
			case <-ticker.C:
			}
			snap, err := runner.Step()
			if err != nil {
				ticker.Stop()
				return err
			}
			mon.ObserveSnapshot(snap)
			if snap.TradeOccurred {
				mon.ObserveTrade(market.Trade{Side: snap.TradeSide, Size: snap.TradeSize})
			}
			mon.ObserveDecomposition(runner.PnL().Summary())
		}
		ticker.Stop()

		rep := runner.Report()
		log.Info("episode finished",
			zap.Int("episode", episode),
			zap.Int("trades", rep.TotalTrades),
			zap.Float64("spread_capture", rep.SpreadCapture),
			zap.Float64("inventory_pnl", rep.InventoryPnL),
			zap.Float64("adverse_selection", rep.AdverseSelection),
			zap.Float64("total_pnl", rep.TotalPnL))
	}
}

func metricsMux(mon *monitor.Monitor) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", mon.Handler())
	return mux
}

func streamMux(ws *stream.Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.Handler())
	return mux
}

func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
