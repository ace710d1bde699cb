// Package config provides configuration management for the analyzer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	Levels      LevelsConfig   `mapstructure:"levels"`
	Report      ReportConfig   `mapstructure:"report"`
	Watch       WatchConfig    `mapstructure:"watch"`
	UI          UIConfig       `mapstructure:"ui"`
	Presets     map[string]string
	Credentials Credentials `mapstructure:"-"` // Loaded separately
}

// AnalysisConfig holds indicator parameters.
type AnalysisConfig struct {
	DefaultPeriod   string `mapstructure:"default_period"`   // data window, e.g. "1y"
	DefaultInterval string `mapstructure:"default_interval"` // "1d"

	SMAPeriods      []int   `mapstructure:"sma_periods"`
	EMAPeriods      []int   `mapstructure:"ema_periods"`
	RSIPeriod       int     `mapstructure:"rsi_period"`
	MACDFast        int     `mapstructure:"macd_fast"`
	MACDSlow        int     `mapstructure:"macd_slow"`
	MACDSignal      int     `mapstructure:"macd_signal"`
	BBPeriod        int     `mapstructure:"bb_period"`
	BBStdDev        float64 `mapstructure:"bb_std"`
	StochPeriod     int     `mapstructure:"stoch_period"`
	ADXPeriod       int     `mapstructure:"adx_period"`
	ATRPeriod       int     `mapstructure:"atr_period"`
	CCIPeriod       int     `mapstructure:"cci_period"`
	OBVPeriod       int     `mapstructure:"obv_period"`
	VWAPPeriod      int     `mapstructure:"vwap_period"`
	MFIPeriod       int     `mapstructure:"mfi_period"`
	CMFPeriod       int     `mapstructure:"cmf_period"`
	ROCPeriod       int     `mapstructure:"roc_period"`
	WilliamsRPeriod int     `mapstructure:"williams_r_period"`

	Workers int `mapstructure:"workers"`
}

// LevelsConfig holds level-detection parameters.
type LevelsConfig struct {
	FibonacciRatios []float64 `mapstructure:"fibonacci_ratios"`
	ExtensionRatios []float64 `mapstructure:"extension_ratios"`
	Window          int       `mapstructure:"window"`
	MaxLevels       int       `mapstructure:"max_levels"`
}

// ReportConfig holds the text-generation service settings.
type ReportConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Language    string  `mapstructure:"language"` // "en" or "de"
}

// WatchConfig holds the scheduled re-analysis settings.
type WatchConfig struct {
	Schedule string `mapstructure:"schedule"` // cron expression
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	Kite   KiteCredentials   `mapstructure:"kite"`
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// KiteCredentials holds Kite Connect API credentials for the candle provider.
type KiteCredentials struct {
	APIKey      string `mapstructure:"api_key"`
	AccessToken string `mapstructure:"access_token"`
}

// OpenAICredentials holds API credentials for the report service.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/index-analyzer"
	}
	return filepath.Join(home, ".config", "index-analyzer")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	if err := v.Unmarshal(cfg); err != nil {
		return err
	}
	cfg.Presets = v.GetStringMapString("presets")
	return nil
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KITE_API_KEY"); v != "" {
		cfg.Credentials.Kite.APIKey = v
	}
	if v := os.Getenv("KITE_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Kite.AccessToken = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("INDEX_ANALYZER_LLM_URL"); v != "" {
		cfg.Report.BaseURL = v
	}
	if v := os.Getenv("INDEX_ANALYZER_LLM_MODEL"); v != "" {
		cfg.Report.Model = v
	}
}

// Default returns a configuration with every default applied and no
// files read.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	a := &c.Analysis
	if a.DefaultPeriod == "" {
		a.DefaultPeriod = "1y"
	}
	if a.DefaultInterval == "" {
		a.DefaultInterval = "1d"
	}
	if len(a.EMAPeriods) == 0 {
		a.EMAPeriods = []int{9, 21, 50, 200}
	}
	if a.RSIPeriod == 0 {
		a.RSIPeriod = 14
	}
	if a.MACDFast == 0 {
		a.MACDFast = 12
	}
	if a.MACDSlow == 0 {
		a.MACDSlow = 26
	}
	if a.MACDSignal == 0 {
		a.MACDSignal = 9
	}
	if a.BBPeriod == 0 {
		a.BBPeriod = 20
	}
	if a.BBStdDev == 0 {
		a.BBStdDev = 2
	}
	if a.StochPeriod == 0 {
		a.StochPeriod = 14
	}
	if a.ADXPeriod == 0 {
		a.ADXPeriod = 14
	}
	if a.ATRPeriod == 0 {
		a.ATRPeriod = 14
	}
	if a.CCIPeriod == 0 {
		a.CCIPeriod = 20
	}
	if a.OBVPeriod == 0 {
		a.OBVPeriod = 20
	}
	if a.VWAPPeriod == 0 {
		a.VWAPPeriod = 14
	}
	if a.MFIPeriod == 0 {
		a.MFIPeriod = 14
	}
	if a.CMFPeriod == 0 {
		a.CMFPeriod = 20
	}
	if a.ROCPeriod == 0 {
		a.ROCPeriod = 12
	}
	if a.WilliamsRPeriod == 0 {
		a.WilliamsRPeriod = 14
	}
	if a.Workers == 0 {
		a.Workers = 4
	}

	l := &c.Levels
	if len(l.FibonacciRatios) == 0 {
		l.FibonacciRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0, 1.618, 2.618}
	}
	if len(l.ExtensionRatios) == 0 {
		l.ExtensionRatios = []float64{1.272, 1.414, 1.618, 2.0, 2.618}
	}
	if l.Window == 0 {
		l.Window = 20
	}
	if l.MaxLevels == 0 {
		l.MaxLevels = 5
	}

	r := &c.Report
	if r.BaseURL == "" {
		r.BaseURL = "http://127.0.0.1:1234/v1"
	}
	if r.Model == "" {
		r.Model = "qwen/qwen3-30b-a3b-2507"
	}
	if r.Temperature == 0 {
		r.Temperature = 0.3
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = 25000
	}
	if r.Language == "" {
		r.Language = "en"
	}

	if c.Watch.Schedule == "" {
		c.Watch.Schedule = "@every 15m"
	}
	if c.UI.DateFormat == "" {
		c.UI.DateFormat = "02-Jan-2006"
	}
	if len(c.Presets) == 0 {
		c.Presets = map[string]string{
			"sp500":   "^GSPC",
			"nasdaq":  "^IXIC",
			"dow":     "^DJI",
			"dax":     "^GDAXI",
			"ftse":    "^FTSE",
			"nikkei":  "^N225",
			"stoxx50": "^STOXX50E",
			"russell": "^RUT",
			"vix":     "^VIX",
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	a := c.Analysis
	for _, p := range append(append([]int{}, a.SMAPeriods...), a.EMAPeriods...) {
		if p < 1 {
			return fmt.Errorf("moving average period must be positive, got %d", p)
		}
	}
	if a.MACDFast >= a.MACDSlow {
		return fmt.Errorf("macd_fast (%d) must be less than macd_slow (%d)", a.MACDFast, a.MACDSlow)
	}
	if a.BBStdDev <= 0 {
		return fmt.Errorf("bb_std must be positive")
	}
	if c.Levels.Window < 2 {
		return fmt.Errorf("levels window must be at least 2")
	}
	if c.Levels.MaxLevels < 1 {
		return fmt.Errorf("max_levels must be at least 1")
	}
	if c.Report.Temperature < 0 || c.Report.Temperature > 2 {
		return fmt.Errorf("report temperature must be between 0 and 2")
	}
	if c.Report.Language != "en" && c.Report.Language != "de" {
		return fmt.Errorf("report language must be 'en' or 'de'")
	}
	return nil
}

// ResolveSymbol maps a preset name to its ticker, or returns the input
// unchanged when no preset matches.
func (c *Config) ResolveSymbol(name string) string {
	if ticker, ok := c.Presets[name]; ok {
		return ticker
	}
	return name
}
