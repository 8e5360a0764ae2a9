// Package units converts between decimal ether strings and base-unit amounts.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// Decimals is the number of fractional digits of one ether.
const Decimals = 18

var (
	ErrEmpty     = errors.New("amount is empty")
	ErrNegative  = errors.New("amount must not be negative")
	ErrPrecision = errors.New("amount has more than 18 decimal places")
	ErrOverflow  = errors.New("amount does not fit in 256 bits")
	ErrSyntax    = errors.New("amount is not a decimal number")
)

var ether = new(big.Int).SetUint64(params.Ether)

// ParseEther parses a human decimal such as "1.5" or "0.000001" into base units.
func ParseEther(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}
	if strings.HasPrefix(s, "-") {
		return nil, ErrNegative
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, ErrSyntax
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > Decimals {
		return nil, fmt.Errorf("%w: %q", ErrPrecision, s)
	}

	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", Decimals-len(frac)), "0")
	if digits == "" {
		return new(uint256.Int), nil
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	amount, overflow := uint256.FromBig(n)
	if overflow {
		return nil, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return amount, nil
}

// MustParseEther is ParseEther for constants and tests.
func MustParseEther(s string) *uint256.Int {
	v, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatEther renders base units as a decimal ether string without trailing
// zeros, e.g. 1500000000000000000 -> "1.5".
func FormatEther(amount *uint256.Int) string {
	if amount == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(amount.ToBig(), ether, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := r.String()
	frac = strings.Repeat("0", Decimals-len(frac)) + frac
	return q.String() + "." + strings.TrimRight(frac, "0")
}

// Float renders base units as an approximate float64 ether value for gauges.
func Float(amount *uint256.Int) float64 {
	if amount == nil {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(amount.ToBig(), ether).Float64()
	return f
}

// ParseBaseUnits parses a decimal base-unit integer string, the wire format
// used by the RPC API.
func ParseBaseUnits(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}
	if strings.HasPrefix(s, "-") {
		return nil, ErrNegative
	}
	if !digitsOnly(s) {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return v, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
