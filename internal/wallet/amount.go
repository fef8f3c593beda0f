package wallet

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// NativeDecimals is the precision of the native coin on every EVM network.
	NativeDecimals = 18
	// MaxIntegerDigits bounds the whole part of an amount.
	MaxIntegerDigits = 30
)

var (
	ErrInvalidAmount   = errors.New("amount must be a positive decimal")
	ErrAmountPrecision = errors.New("amount has more than 18 decimal places")
	ErrAmountTooLarge  = errors.New("amount is too large")
)

// ParseAmount parses a decimal string in chain-native units. Zero, negative
// and non-numeric values are rejected, as are amounts that do not map to a
// whole number of wei.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if int64(d.NumDigits())+int64(d.Exponent()) > MaxIntegerDigits {
		return decimal.Zero, ErrAmountTooLarge
	}
	// trailing zeros past the precision are fine, anything else is dust
	if d.Exponent() < -NativeDecimals-MaxIntegerDigits {
		return decimal.Zero, ErrAmountPrecision
	}
	if !FromWei(ToWei(d, NativeDecimals), NativeDecimals).Equal(d) {
		return decimal.Zero, ErrAmountPrecision
	}
	return d.Truncate(NativeDecimals), nil
}

// ToWei converts a native amount to the smallest unit. Digits beyond the
// network precision are truncated.
func ToWei(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

func FromWei(wei *big.Int, decimals int32) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -decimals)
}
