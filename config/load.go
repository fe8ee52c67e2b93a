package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mm-sim-go/sim"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env    string       `yaml:"env"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Book   BookConfig   `yaml:"book"`
	Maker  MakerConfig  `yaml:"maker"`
	Sim    SimConfig    `yaml:"sim"`
	Risk   RiskConfig   `yaml:"risk"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json 或 console
}

type ServerConfig struct {
	MetricsAddr string `yaml:"metricsAddr"`
	StreamAddr  string `yaml:"streamAddr"`
	StepMs      int    `yaml:"stepMs"` // 守护模式下每步的推进间隔
}

type BookConfig struct {
	InitialMid    float64 `yaml:"initialMid"`
	HalfSpread    float64 `yaml:"halfSpread"`
	DepthPerLevel float64 `yaml:"depthPerLevel"`
	NumLevels     int     `yaml:"numLevels"`
}

type MakerConfig struct {
	QuoteSpread  float64 `yaml:"quoteSpread"`
	QuoteSize    float64 `yaml:"quoteSize"`
	MaxInventory float64 `yaml:"maxInventory"`
	SkewFactor   float64 `yaml:"skewFactor"`
}

type SimConfig struct {
	NumSteps    int     `yaml:"numSteps"`
	Volatility  float64 `yaml:"volatility"`
	ArrivalRate float64 `yaml:"arrivalRate"`
	Dt          float64 `yaml:"dt"`
	Seed        int64   `yaml:"seed"`
}

type RiskConfig struct {
	ThrottleMinScale float64 `yaml:"throttleMinScale"`
	DrawdownLimit    float64 `yaml:"drawdownLimit"`
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads .env (if any) and the YAML config, then
// overrides selected fields from MMSIM_* env vars.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	_ = godotenv.Load() // 没有 .env 不算错误
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("MMSIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse MMSIM_SEED: %w", err)
		}
		cfg.Sim.Seed = seed
	}
	if v := os.Getenv("MMSIM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MMSIM_METRICS_ADDR"); v != "" {
		cfg.Server.MetricsAddr = v
	}
	return cfg, Validate(cfg)
}

// ToSimConfig 把分组配置拍平成 sim.Runner 需要的标量集合。
func (c AppConfig) ToSimConfig() sim.Config {
	return sim.Config{
		InitialMid:       c.Book.InitialMid,
		HalfSpread:       c.Book.HalfSpread,
		DepthPerLevel:    c.Book.DepthPerLevel,
		NumLevels:        c.Book.NumLevels,
		QuoteSpread:      c.Maker.QuoteSpread,
		QuoteSize:        c.Maker.QuoteSize,
		MaxInventory:     c.Maker.MaxInventory,
		SkewFactor:       c.Maker.SkewFactor,
		NumSteps:         c.Sim.NumSteps,
		Volatility:       c.Sim.Volatility,
		ArrivalRate:      c.Sim.ArrivalRate,
		Dt:               c.Sim.Dt,
		Seed:             c.Sim.Seed,
		ThrottleMinScale: c.Risk.ThrottleMinScale,
		DrawdownLimit:    c.Risk.DrawdownLimit,
	}
}
