package config

import "errors"

// Validate ensures required fields are present and well-formed.
// Component constructors re-check their own invariants; this catches
// config mistakes before anything is wired up.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Book.InitialMid <= 0 {
		return errors.New("book.initialMid must be > 0")
	}
	if cfg.Book.HalfSpread <= 0 {
		return errors.New("book.halfSpread must be > 0")
	}
	if cfg.Book.DepthPerLevel <= 0 {
		return errors.New("book.depthPerLevel must be > 0")
	}
	if cfg.Book.NumLevels < 1 {
		return errors.New("book.numLevels must be >= 1")
	}
	if cfg.Maker.QuoteSpread <= 0 {
		return errors.New("maker.quoteSpread must be > 0")
	}
	if cfg.Maker.QuoteSize <= 0 {
		return errors.New("maker.quoteSize must be > 0")
	}
	if cfg.Maker.MaxInventory <= 0 {
		return errors.New("maker.maxInventory must be > 0")
	}
	if cfg.Maker.SkewFactor < 0 {
		return errors.New("maker.skewFactor must be >= 0")
	}
	if cfg.Sim.NumSteps < 1 {
		return errors.New("sim.numSteps must be >= 1")
	}
	if cfg.Sim.Volatility < 0 {
		return errors.New("sim.volatility must be >= 0")
	}
	if cfg.Sim.ArrivalRate < 0 || cfg.Sim.ArrivalRate > 1 {
		return errors.New("sim.arrivalRate must be in [0,1]")
	}
	if cfg.Sim.Dt <= 0 {
		return errors.New("sim.dt must be > 0")
	}
	if cfg.Risk.ThrottleMinScale < 0 || cfg.Risk.ThrottleMinScale > 1 {
		return errors.New("risk.throttleMinScale must be in [0,1]")
	}
	if cfg.Risk.DrawdownLimit < 0 {
		return errors.New("risk.drawdownLimit must be >= 0")
	}
	return nil
}
