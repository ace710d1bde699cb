package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Index Analyzer Configuration

[analysis]
# Data window and bar interval for candle fetches
default_period = "1y"
default_interval = "1d"

# Moving average periods. Simple MAs are disabled by default.
sma_periods = []
ema_periods = [9, 21, 50, 200]

rsi_period = 14
macd_fast = 12
macd_slow = 26
macd_signal = 9
bb_period = 20
bb_std = 2.0
stoch_period = 14
adx_period = 14
atr_period = 14
cci_period = 20
obv_period = 20
vwap_period = 14
mfi_period = 14
cmf_period = 20
roc_period = 12
williams_r_period = 14

# Indicator computation worker pool size
workers = 4

[levels]
fibonacci_ratios = [0.0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0, 1.618, 2.618]
extension_ratios = [1.272, 1.414, 1.618, 2.0, 2.618]
# Centered rolling window for local extrema detection
window = 20
# Maximum support/resistance levels kept per side
max_levels = 5

[report]
# Enable LLM report generation (requires a reachable endpoint)
enabled = false
# OpenAI-compatible endpoint (LM Studio, Ollama, OpenAI, ...)
base_url = "http://127.0.0.1:1234/v1"
model = "qwen/qwen3-30b-a3b-2507"
temperature = 0.3
max_tokens = 25000
# Report language: "en" or "de"
language = "en"

[watch]
# Cron schedule for watch mode
schedule = "@every 15m"

[ui]
color_enabled = true
date_format = "02-Jan-2006"

# Symbol presets usable in place of raw tickers
[presets]
sp500 = "^GSPC"
nasdaq = "^IXIC"
dow = "^DJI"
dax = "^GDAXI"
ftse = "^FTSE"
nikkei = "^N225"
stoxx50 = "^STOXX50E"
russell = "^RUT"
vix = "^VIX"
`

const credentialsTemplate = `# Index Analyzer Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[kite]
api_key = ""
access_token = ""

[openai]
api_key = ""
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
