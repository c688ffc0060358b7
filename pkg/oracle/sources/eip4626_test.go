package sources

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
)

func TestEIP4626Direct(t *testing.T) {
	snap := newSnapshot()
	// One share (1e6) converts to 1.05 underlying units (6 decimals).
	snap.Vaults[tokenA] = registry.Vault{
		Underlying:         tokenB,
		ShareDecimals:      6,
		UnderlyingDecimals: 6,
		Reader:             stubVaultReader{assets: big.NewInt(1_050_000)},
	}
	nested := stubResolver{prices: map[common.Address]*big.Int{tokenB: wadInt(2)}}

	rate, err := Resolve(SourceEIP4626, snap, Query{
		AssetFrom: tokenA, AssetTo: registry.USD,
		Payload: []byte{0x01}, Now: testNow, Nested: nested,
	})
	require.NoError(t, err)

	// 1.05 * 2 = 2.1
	expected, _ := new(big.Int).SetString("2100000000000000000", 10)
	assert.Zero(t, rate.Cmp(expected))
}

func TestEIP4626Inverse(t *testing.T) {
	snap := newSnapshot()
	snap.Vaults[tokenA] = registry.Vault{
		Underlying:         tokenB,
		ShareDecimals:      18,
		UnderlyingDecimals: 18,
		Reader:             stubVaultReader{assets: wadInt(1)},
	}
	nested := stubResolver{prices: map[common.Address]*big.Int{tokenB: wadInt(4)}}

	rate, err := Resolve(SourceEIP4626, snap, Query{
		AssetFrom: registry.USD, AssetTo: tokenA,
		Payload: []byte{0x01}, Now: testNow, Nested: nested,
	})
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("250000000000000000", 10)
	assert.Zero(t, rate.Cmp(expected))
}

func TestEIP4626UnknownVault(t *testing.T) {
	snap := newSnapshot()
	_, err := Resolve(SourceEIP4626, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Now: testNow})
	assert.ErrorIs(t, err, ErrNoUnderlyingTokenFound)
}

func TestEIP4626ZeroConversion(t *testing.T) {
	snap := newSnapshot()
	snap.Vaults[tokenA] = registry.Vault{
		Underlying:         tokenB,
		ShareDecimals:      18,
		UnderlyingDecimals: 18,
		Reader:             stubVaultReader{assets: big.NewInt(0)},
	}
	nested := stubResolver{prices: map[common.Address]*big.Int{tokenB: wadInt(4)}}

	_, err := Resolve(SourceEIP4626, snap, Query{
		AssetFrom: tokenA, AssetTo: registry.USD,
		Payload: []byte{0x01}, Now: testNow, Nested: nested,
	})
	assert.ErrorIs(t, err, ErrZeroExchangeRate)
}

func TestEIP4626RouteShape(t *testing.T) {
	snap := newSnapshot()
	_, err := Resolve(SourceEIP4626, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	assert.ErrorIs(t, err, ErrIncorrectEIP4626Route)
}
