// Package amount converts between display units and on-chain integer units.
//
// On-chain amounts are always non-negative integers: satoshis for coin
// values, base units for tokens. Display conversions happen only at the
// boundary; everything past it works in integers. Coin conversions are
// documented lossy beyond 8 fractional digits.
package amount

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// SatsPerCoin is the number of satoshis in one whole coin.
const SatsPerCoin = 100_000_000

// Conversion errors.
var (
	ErrInvalid  = errors.New("invalid amount")
	ErrTooLarge = errors.New("amount too large")
)

var (
	satsScale = big.NewInt(SatsPerCoin)
	maxUint64 = new(big.Int).SetUint64(math.MaxUint64)
)

// CoinToSats parses a decimal coin amount ("1.5", "0.00000001") and returns
// the satoshi value, rounded half-up. Negative inputs floor at zero.
func CoinToSats(display string) (uint64, error) {
	return parseScaled(display, satsScale)
}

// TokenToBase parses a decimal token display amount and returns the integer
// base-unit value, truncating any fractional part (tokens have no fractional
// base units). Negative inputs floor at zero.
func TokenToBase(display string) (uint64, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, display)
	}
	if r.Sign() < 0 {
		return 0, nil
	}

	num := new(big.Int).Quo(r.Num(), r.Denom())
	if num.Cmp(maxUint64) > 0 {
		return 0, fmt.Errorf("%w: %q", ErrTooLarge, display)
	}
	return num.Uint64(), nil
}

// parseScaled parses display as a rational, multiplies by scale, and rounds
// half-up into a uint64.
func parseScaled(display string, scale *big.Int) (uint64, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, display)
	}
	if r.Sign() < 0 {
		return 0, nil
	}

	// half-up: floor((num*scale*2 + den) / (den*2))
	num := new(big.Int).Mul(r.Num(), scale)
	num.Mul(num, big.NewInt(2)).Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), big.NewInt(2))
	num.Quo(num, den)

	if num.Cmp(maxUint64) > 0 {
		return 0, fmt.Errorf("%w: %q", ErrTooLarge, display)
	}
	return num.Uint64(), nil
}

// SatsToCoin formats a satoshi value as a decimal coin string with trailing
// zeros trimmed ("1.5", "0.00000001", "3").
func SatsToCoin(sats uint64) string {
	whole := sats / SatsPerCoin
	frac := sats % SatsPerCoin
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	s := fmt.Sprintf("%d.%08d", whole, frac)
	return strings.TrimRight(s, "0")
}

// BaseToToken formats a token base-unit value for display. Token display
// units are the base units themselves.
func BaseToToken(base uint64) string {
	return fmt.Sprintf("%d", base)
}
