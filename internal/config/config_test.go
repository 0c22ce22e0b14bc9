package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Bank Sejahtera", "January 2025")
	cfg.OpeningBalances = map[string]string{
		"Bank":    "25000000",
		"Capital": "25,000,000",
	}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Bank, got.Bank)
	assert.Equal(t, cfg.Tolerance, got.Tolerance)
	assert.Equal(t, cfg.Output, got.Output)
	assert.Equal(t, cfg.LogLevel, got.LogLevel)
	assert.Equal(t, cfg.OpeningBalances, got.OpeningBalances)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Bank", "Q1 2025")

	assert.Equal(t, "My Bank", cfg.Bank.Name)
	assert.Equal(t, "Q1 2025", cfg.Bank.Period)
	assert.Equal(t, "0.01", cfg.Tolerance)
	assert.Equal(t, "financial-report.xlsx", cfg.Output)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.OpeningBalances)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_UnquotedNumbersAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	yml := "bank:\n  name: Test Bank\nopening_balances:\n  Cash: 1500000\n  Payable: -250.50\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Bank", cfg.Bank.Name)
	assert.Equal(t, "0.01", cfg.Tolerance, "unset fields keep defaults")

	openings, err := cfg.Openings()
	require.NoError(t, err)
	assert.True(t, openings["Cash"].Equal(decimal.NewFromInt(1500000)))
	assert.True(t, openings["Payable"].Equal(decimal.RequireFromString("-250.50")))
}

func TestOpenings_Invalid(t *testing.T) {
	cfg := Default("", "")
	cfg.OpeningBalances = map[string]string{"Cash": "lots"}
	_, err := cfg.Openings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Cash"`)
}

func TestToleranceValue(t *testing.T) {
	cfg := Default("", "")
	tol, err := cfg.ToleranceValue()
	require.NoError(t, err)
	assert.True(t, tol.Equal(decimal.RequireFromString("0.01")))

	cfg.Tolerance = ""
	tol, err = cfg.ToleranceValue()
	require.NoError(t, err)
	assert.True(t, tol.Equal(decimal.RequireFromString("0.01")))

	cfg.Tolerance = "-1"
	_, err = cfg.ToleranceValue()
	assert.Error(t, err)

	cfg.Tolerance = "tiny"
	_, err = cfg.ToleranceValue()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBankName, "Env Bank")
	t.Setenv(EnvPeriod, "FY2025")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvOutput, "out.xlsx")

	cfg := Default("File Bank", "Q1")
	cfg.ApplyEnv()

	assert.Equal(t, "Env Bank", cfg.Bank.Name)
	assert.Equal(t, "FY2025", cfg.Bank.Period)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out.xlsx", cfg.Output)
}

func TestLoadEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvPeriod+"=March 2025\n"), 0o644))

	t.Setenv(EnvPeriod, "")
	require.NoError(t, os.Unsetenv(EnvPeriod))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "March 2025", os.Getenv(EnvPeriod))
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Bank", "2025")
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Bank")
	assert.Contains(t, contents, "tolerance:")
	assert.Contains(t, contents, "0.01")
	assert.Contains(t, contents, "log_level: info")
	assert.NotContains(t, contents, "opening_balances")
}
