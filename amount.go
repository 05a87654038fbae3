package xapay

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Amount is a non-negative monetary amount in atomic units of the configured
// stablecoin. Arithmetic is overflow-checked; ledger exactness depends on
// never touching native floating point.
type Amount int64

// AmountBytes is the fixed width of the persisted amount encoding.
const AmountBytes = 8

// ParseAmount parses a decimal literal ("100", "1.5") into atomic units at
// the given scale. The parse is exact: fractional digits beyond the scale,
// negative values, and overflow are all rejected.
func ParseAmount(literal string, decimals int) (Amount, error) {
	if literal == "" {
		return 0, fmt.Errorf("%w: empty literal", ErrInvalidAmount)
	}
	if decimals < 0 || decimals > 18 {
		return 0, fmt.Errorf("%w: unsupported scale %d", ErrInvalidAmount, decimals)
	}
	if strings.HasPrefix(literal, "-") || strings.HasPrefix(literal, "+") {
		return 0, fmt.Errorf("%w: signed literal %q", ErrInvalidAmount, literal)
	}

	whole, frac := literal, ""
	if i := strings.IndexByte(literal, '.'); i >= 0 {
		whole, frac = literal[:i], literal[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, literal)
	}
	if len(frac) > decimals {
		return 0, fmt.Errorf("%w: %q exceeds scale %d", ErrInvalidAmount, literal, decimals)
	}

	// Concatenating the whole part with the scale-padded fraction yields the
	// atomic-unit digit string directly.
	var value int64
	for _, digits := range []string{whole, frac + strings.Repeat("0", decimals-len(frac))} {
		for i := 0; i < len(digits); i++ {
			d := digits[i]
			if d < '0' || d > '9' {
				return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, literal)
			}
			if value > (math.MaxInt64-int64(d-'0'))/10 {
				return 0, fmt.Errorf("%w: %q", ErrAmountOverflow, literal)
			}
			value = value*10 + int64(d-'0')
		}
	}
	return Amount(value), nil
}

// Add returns a+b, rejecting overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	if b > math.MaxInt64-a {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}

// Sub returns a-b, rejecting results below zero.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, ErrInsufficientBalance
	}
	return a - b, nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// Encode returns the fixed 8-byte big-endian encoding persisted in the
// ledger store.
func (a Amount) Encode() []byte {
	buf := make([]byte, AmountBytes)
	binary.BigEndian.PutUint64(buf, uint64(a))
	return buf
}

// DecodeAmount parses the fixed 8-byte encoding.
func DecodeAmount(raw []byte) (Amount, error) {
	if len(raw) != AmountBytes {
		return 0, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAmount, AmountBytes, len(raw))
	}
	v := binary.BigEndian.Uint64(raw)
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: value out of range", ErrInvalidAmount)
	}
	return Amount(v), nil
}

// Format renders the amount as a decimal literal at the given scale,
// trimming trailing fractional zeros.
func (a Amount) Format(decimals int) string {
	if decimals <= 0 {
		return fmt.Sprintf("%d", int64(a))
	}
	scale := pow10(decimals)
	whole := int64(a) / scale
	frac := int64(a) % scale
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	s := fmt.Sprintf("%d.%0*d", whole, decimals, frac)
	return strings.TrimRight(s, "0")
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
