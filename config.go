package xapay

import (
	"fmt"
	"os"
)

// DefaultDecimals is the atomic-unit scale used when none is configured.
const DefaultDecimals = 6

// Config is the engine's static identity configuration: the single
// stablecoin the engine accounts for and the single operator allowed to
// submit payment instructions.
type Config struct {
	// Issuer is the stablecoin issuer's account id.
	Issuer Account

	// Currency is the stablecoin currency code.
	Currency Currency

	// Operator is the account authorized to submit instructions.
	Operator Account

	// Decimals is the atomic-unit scale for amount literals.
	Decimals int
}

// Validate checks that the configuration is complete.
func (c Config) Validate() error {
	if c.Issuer.IsZero() {
		return fmt.Errorf("issuer: cannot be zero")
	}
	if c.Operator.IsZero() {
		return fmt.Errorf("operator: cannot be zero")
	}
	if c.Currency == (Currency{}) {
		return fmt.Errorf("currency: cannot be zero")
	}
	if c.Decimals < 0 || c.Decimals > 18 {
		return fmt.Errorf("decimals: out of range: %d", c.Decimals)
	}
	return nil
}

// LoadFromEnv reads the engine configuration from the environment:
// XAPAY_ISSUER_ID and XAPAY_OPERATOR_ID as hex account ids,
// XAPAY_CURRENCY as a three-letter code (default "JPY"), and
// XAPAY_DECIMALS (default 6). Address-text forms are a host concern.
func LoadFromEnv() (Config, error) {
	cfg := Config{Decimals: DefaultDecimals}

	issuerHex := os.Getenv("XAPAY_ISSUER_ID")
	if issuerHex == "" {
		return Config{}, fmt.Errorf("XAPAY_ISSUER_ID must be set")
	}
	issuer, err := AccountFromHex(issuerHex)
	if err != nil {
		return Config{}, fmt.Errorf("invalid XAPAY_ISSUER_ID: %w", err)
	}
	cfg.Issuer = issuer

	operatorHex := os.Getenv("XAPAY_OPERATOR_ID")
	if operatorHex == "" {
		return Config{}, fmt.Errorf("XAPAY_OPERATOR_ID must be set")
	}
	operator, err := AccountFromHex(operatorHex)
	if err != nil {
		return Config{}, fmt.Errorf("invalid XAPAY_OPERATOR_ID: %w", err)
	}
	cfg.Operator = operator

	code := os.Getenv("XAPAY_CURRENCY")
	if code == "" {
		code = "JPY"
	}
	currency, err := CurrencyFromCode(code)
	if err != nil {
		return Config{}, fmt.Errorf("invalid XAPAY_CURRENCY: %w", err)
	}
	cfg.Currency = currency

	if v := os.Getenv("XAPAY_DECIMALS"); v != "" {
		var d int
		if _, err := fmt.Sscanf(v, "%d", &d); err != nil {
			return Config{}, fmt.Errorf("invalid XAPAY_DECIMALS: %w", err)
		}
		cfg.Decimals = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
