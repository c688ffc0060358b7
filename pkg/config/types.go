package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML parsing of values like "60s".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// ToDuration converts to a time.Duration.
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}

// Config is the top-level service configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Logging       LoggingConfig       `yaml:"logging"`
	Oracle        OracleConfig        `yaml:"oracle"`
	Registrations RegistrationsConfig `yaml:"registrations"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	AdminToken string `yaml:"admin_token"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// OracleConfig configures engine-level parameters.
type OracleConfig struct {
	TimeTolerance       Duration `yaml:"time_tolerance"`
	OrallyTimeTolerance Duration `yaml:"orally_time_tolerance"`
	StorkPublisher      string   `yaml:"stork_publisher"`
}

// RegistrationsConfig is the initial registration set loaded into the
// registry snapshot at startup. Every block is optional; later
// administrative updates go through the admin API.
type RegistrationsConfig struct {
	Chainlink    []ChainlinkRegistration `yaml:"chainlink"`
	Pyth         []PythRegistration      `yaml:"pyth"`
	Orally       []PairSymbol            `yaml:"orally"`
	Stork        []PairSymbol            `yaml:"stork"`
	Supra        []SupraRegistration     `yaml:"supra"`
	PoolKinds    []uint8                 `yaml:"pool_kinds"`
	TrustedPairs []AssetPair             `yaml:"trusted_pairs"`
	CurveKinds   []uint8                 `yaml:"curve_kinds"`
	CurveLPs     []CurveLPRegistration   `yaml:"curve_lps"`
	Vaults       []VaultRegistration     `yaml:"vaults"`
	UniswapV2LPs []string                `yaml:"uniswap_v2_lps"`
	PriceDrops   []PriceDropRegistration `yaml:"price_drops"`
}

// ChainlinkRegistration maps an asset to a named feed in the feed store.
type ChainlinkRegistration struct {
	Asset string `yaml:"asset"`
	Feed  string `yaml:"feed"`
}

// PythRegistration maps an asset to a Pyth price id.
type PythRegistration struct {
	Asset   string `yaml:"asset"`
	PriceID string `yaml:"price_id"`
}

// PairSymbol maps a directed asset pair to a provider symbol or pair string.
type PairSymbol struct {
	Base   string `yaml:"base"`
	Quote  string `yaml:"quote"`
	Symbol string `yaml:"symbol"`
}

// SupraRegistration maps a directed asset pair to a Supra feed id.
type SupraRegistration struct {
	Base   string `yaml:"base"`
	Quote  string `yaml:"quote"`
	FeedID uint32 `yaml:"feed_id"`
}

// AssetPair names two assets.
type AssetPair struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// CurveLPRegistration maps an LP token to its underlying assets.
type CurveLPRegistration struct {
	LP          string   `yaml:"lp"`
	Underlyings []string `yaml:"underlyings"`
}

// VaultRegistration describes an EIP-4626-style share token.
type VaultRegistration struct {
	Share              string `yaml:"share"`
	Underlying         string `yaml:"underlying"`
	ShareDecimals      uint8  `yaml:"share_decimals"`
	UnderlyingDecimals uint8  `yaml:"underlying_decimals"`
}

// PriceDropRegistration configures the administrator price-drop floor for a
// pair, as a decimal fraction string (e.g. "0.35").
type PriceDropRegistration struct {
	Base  string `yaml:"base"`
	Quote string `yaml:"quote"`
	Drop  string `yaml:"drop"`
}
