// Package wad provides 18-decimal fixed-point arithmetic for exchange rates.
package wad

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the number of implied decimal digits in a WAD value.
const Decimals = 18

// Wad is the fixed-point representation of 1.0 (10^18).
var Wad = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

var halfWad = new(big.Int).Rsh(Wad, 1)

// Mul multiplies two WAD values with round-to-nearest:
// (a*b + WAD/2) / WAD.
func Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	r.Add(r, halfWad)
	return r.Quo(r, Wad)
}

// Div divides two WAD values with round-to-nearest:
// (a*WAD + b/2) / b. The divisor must be non-zero.
func Div(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, Wad)
	r.Add(r, new(big.Int).Rsh(b, 1))
	return r.Quo(r, b)
}

// Reciprocal converts a stored "X per Y" rate into the "Y per X" rate,
// i.e. WAD^2 / rate rounded via the fixed-point divide.
func Reciprocal(rate *big.Int) *big.Int {
	return Div(Wad, rate)
}

// Rescale converts a raw integer quantity carrying `from` decimal digits
// into one carrying `to` decimal digits. Scaling down truncates.
func Rescale(x *big.Int, from, to uint8) *big.Int {
	if from == to {
		return new(big.Int).Set(x)
	}
	if to > from {
		factor := pow10(int64(to - from))
		return new(big.Int).Mul(x, factor)
	}
	factor := pow10(int64(from - to))
	return new(big.Int).Quo(x, factor)
}

// FromDecimal converts a human-readable decimal fraction (e.g. "0.35")
// into its WAD representation, truncating digits beyond 18.
func FromDecimal(d decimal.Decimal) *big.Int {
	return d.Shift(Decimals).BigInt()
}

// ToDecimal converts a WAD value into its human-readable decimal form.
func ToDecimal(x *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(x, -Decimals)
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}
