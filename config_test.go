package xapay

import (
	"strings"
	"testing"
)

func validConfig() Config {
	issuer, _ := AccountFromHex(strings.Repeat("01", AccountLen))
	operator, _ := AccountFromHex(strings.Repeat("02", AccountLen))
	currency, _ := CurrencyFromCode("JPY")
	return Config{Issuer: issuer, Operator: operator, Currency: currency, Decimals: DefaultDecimals}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero issuer", func(c *Config) { c.Issuer = Account{} }},
		{"zero operator", func(c *Config) { c.Operator = Account{} }},
		{"zero currency", func(c *Config) { c.Currency = Currency{} }},
		{"negative decimals", func(c *Config) { c.Decimals = -1 }},
		{"excessive decimals", func(c *Config) { c.Decimals = 19 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		t.Setenv("XAPAY_ISSUER_ID", strings.Repeat("01", AccountLen))
		t.Setenv("XAPAY_OPERATOR_ID", strings.Repeat("02", AccountLen))
		t.Setenv("XAPAY_CURRENCY", "USD")
		t.Setenv("XAPAY_DECIMALS", "2")

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Currency.Code() != "USD" {
			t.Errorf("Currency = %q, want USD", cfg.Currency.Code())
		}
		if cfg.Decimals != 2 {
			t.Errorf("Decimals = %d, want 2", cfg.Decimals)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("XAPAY_ISSUER_ID", strings.Repeat("01", AccountLen))
		t.Setenv("XAPAY_OPERATOR_ID", strings.Repeat("02", AccountLen))
		t.Setenv("XAPAY_CURRENCY", "")
		t.Setenv("XAPAY_DECIMALS", "")

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Currency.Code() != "JPY" {
			t.Errorf("Currency = %q, want JPY default", cfg.Currency.Code())
		}
		if cfg.Decimals != DefaultDecimals {
			t.Errorf("Decimals = %d, want %d", cfg.Decimals, DefaultDecimals)
		}
	})

	t.Run("missing issuer", func(t *testing.T) {
		t.Setenv("XAPAY_ISSUER_ID", "")
		t.Setenv("XAPAY_OPERATOR_ID", strings.Repeat("02", AccountLen))
		if _, err := LoadFromEnv(); err == nil {
			t.Error("expected error for missing issuer")
		}
	})
}
