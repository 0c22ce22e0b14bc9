package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "bankledger.yaml"

// Environment variables that override file values when set.
const (
	EnvBankName = "BANKLEDGER_BANK_NAME"
	EnvPeriod   = "BANKLEDGER_PERIOD"
	EnvLogLevel = "BANKLEDGER_LOG_LEVEL"
	EnvOutput   = "BANKLEDGER_OUTPUT"
)

// Config represents the top-level bankledger.yaml configuration.
type Config struct {
	Bank            BankConfig        `yaml:"bank"`
	OpeningBalances map[string]string `yaml:"opening_balances,omitempty"`
	Tolerance       string            `yaml:"tolerance"`
	Output          string            `yaml:"output"`
	LogLevel        string            `yaml:"log_level"`
}

// BankConfig is report metadata. The ledger never reads it.
type BankConfig struct {
	Name   string `yaml:"name"`
	Period string `yaml:"period"`
}

// Load reads a bankledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(bankName, period string) *Config {
	return &Config{
		Bank: BankConfig{
			Name:   bankName,
			Period: period,
		},
		Tolerance: "0.01",
		Output:    "financial-report.xlsx",
		LogLevel:  "info",
	}
}

// LoadEnv loads a .env file into the process environment. An empty path
// tries ./.env and ignores its absence.
func LoadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from BANKLEDGER_* environment variables.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvBankName); ok {
		c.Bank.Name = v
	}
	if v, ok := os.LookupEnv(EnvPeriod); ok {
		c.Bank.Period = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvOutput); ok {
		c.Output = v
	}
}

// ToleranceValue parses the equation tolerance. Empty means 0.01.
func (c *Config) ToleranceValue() (decimal.Decimal, error) {
	if strings.TrimSpace(c.Tolerance) == "" {
		return decimal.New(1, -2), nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(c.Tolerance))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing tolerance %q: %w", c.Tolerance, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("tolerance %s must not be negative", d)
	}
	return d, nil
}

// Openings parses opening balances. Values are signed and may use commas as
// thousands separators.
func (c *Config) Openings() (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(c.OpeningBalances))
	for name, raw := range c.OpeningBalances {
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
		if err != nil {
			return nil, fmt.Errorf("parsing opening balance for %q: %w", name, err)
		}
		out[name] = d
	}
	return out, nil
}
