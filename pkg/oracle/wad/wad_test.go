package wad

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wadFromInt(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Wad)
}

func TestMul(t *testing.T) {
	// 1.2 * 1.1 = 1.32
	a, _ := new(big.Int).SetString("1200000000000000000", 10)
	b, _ := new(big.Int).SetString("1100000000000000000", 10)
	expected, _ := new(big.Int).SetString("1320000000000000000", 10)
	assert.Zero(t, Mul(a, b).Cmp(expected))

	// Identity
	assert.Zero(t, Mul(wadFromInt(42), Wad).Cmp(wadFromInt(42)))
}

func TestMulRoundsToNearest(t *testing.T) {
	// 1 * 0.5e-18 rounds up to 1e-18
	half := new(big.Int).Rsh(Wad, 1)
	assert.Equal(t, int64(1), Mul(big.NewInt(1), half).Int64())

	// 1 * 0.4...e-18 rounds down to 0
	below := new(big.Int).Sub(half, big.NewInt(1))
	assert.Equal(t, int64(0), Mul(big.NewInt(1), below).Int64())
}

func TestDivAndReciprocal(t *testing.T) {
	// 1 / 200 = 0.005
	rate := wadFromInt(200)
	expected, _ := new(big.Int).SetString("5000000000000000", 10)
	assert.Zero(t, Reciprocal(rate).Cmp(expected))

	// Div is Mul's inverse
	assert.Zero(t, Div(wadFromInt(84), wadFromInt(2)).Cmp(wadFromInt(42)))
}

func TestRoundTripWithinOneUnit(t *testing.T) {
	rates := []*big.Int{
		wadFromInt(200),
		big.NewInt(123456789),
		new(big.Int).Mul(big.NewInt(7), Wad),
	}
	one := big.NewInt(1)
	for _, rate := range rates {
		product := Mul(rate, Reciprocal(rate))
		diff := new(big.Int).Sub(product, Wad)
		require.LessOrEqual(t, diff.CmpAbs(one), 0, "rate %s", rate)
	}
}

func TestRescale(t *testing.T) {
	// 200 with 0 decimals -> 200e18
	assert.Zero(t, Rescale(big.NewInt(200), 0, Decimals).Cmp(wadFromInt(200)))

	// 2500e6 with 6 decimals -> 2500e18
	raw := new(big.Int).Mul(big.NewInt(2500), big.NewInt(1_000_000))
	assert.Zero(t, Rescale(raw, 6, Decimals).Cmp(wadFromInt(2500)))

	// Scaling down truncates
	assert.Equal(t, int64(1), Rescale(big.NewInt(19), 1, 0).Int64())

	// No-op
	assert.Zero(t, Rescale(wadFromInt(5), Decimals, Decimals).Cmp(wadFromInt(5)))
}

func TestDecimalBridges(t *testing.T) {
	frac := decimal.RequireFromString("0.35")
	expected, _ := new(big.Int).SetString("350000000000000000", 10)
	assert.Zero(t, FromDecimal(frac).Cmp(expected))

	assert.Equal(t, "0.35", ToDecimal(expected).String())
	assert.Equal(t, "1", ToDecimal(Wad).String())
}
