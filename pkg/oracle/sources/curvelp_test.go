package sources

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
)

func curveSnapshot(virtualPrice *big.Int) *registry.Snapshot {
	snap := newSnapshot()
	snap.CurveLPUnderlyings[lpToken] = []common.Address{tokenB, tokenC}
	snap.CurveFeeds[0] = stubCurveFeed{virtualPrice: virtualPrice}
	return snap
}

func curveNested() stubResolver {
	big15, _ := new(big.Int).SetString("1500000000000000000", 10)
	big12, _ := new(big.Int).SetString("1200000000000000000", 10)
	return stubResolver{prices: map[common.Address]*big.Int{tokenB: big15, tokenC: big12}}
}

func TestCurveLPUsesMinUnderlyingPrice(t *testing.T) {
	big11, _ := new(big.Int).SetString("1100000000000000000", 10)
	snap := curveSnapshot(big11)

	payload, err := EncodeCurvePayload(0, [][]byte{{0x01}, {0x02}})
	require.NoError(t, err)

	rate, err := Resolve(SourceCurveLP, snap, Query{
		AssetFrom: lpToken, AssetTo: registry.USD,
		Payload: payload, Now: testNow, Nested: curveNested(),
	})
	require.NoError(t, err)

	// min(1.5, 1.2) * 1.1 = 1.32
	expected, _ := new(big.Int).SetString("1320000000000000000", 10)
	assert.Zero(t, rate.Cmp(expected))
}

func TestCurveLPInverse(t *testing.T) {
	snap := curveSnapshot(wadInt(1))

	payload, err := EncodeCurvePayload(0, [][]byte{{0x01}, {0x02}})
	require.NoError(t, err)

	nested := stubResolver{prices: map[common.Address]*big.Int{tokenB: wadInt(2), tokenC: wadInt(4)}}
	rate, err := Resolve(SourceCurveLP, snap, Query{
		AssetFrom: registry.USD, AssetTo: lpToken,
		Payload: payload, Now: testNow, Nested: nested,
	})
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("500000000000000000", 10) // 1/min(2,4)
	assert.Zero(t, rate.Cmp(expected))
}

func TestCurveLPRouteCountMismatch(t *testing.T) {
	snap := curveSnapshot(wadInt(1))

	payload, err := EncodeCurvePayload(0, [][]byte{{0x01}})
	require.NoError(t, err)

	_, err = Resolve(SourceCurveLP, snap, Query{
		AssetFrom: lpToken, AssetTo: registry.USD,
		Payload: payload, Now: testNow, Nested: curveNested(),
	})
	assert.ErrorIs(t, err, ErrOracleDataAndTokensLengthMismatch)
}

func TestCurveLPEmptyRoutes(t *testing.T) {
	snap := curveSnapshot(wadInt(1))

	payload, err := EncodeCurvePayload(0, [][]byte{})
	require.NoError(t, err)

	_, err = Resolve(SourceCurveLP, snap, Query{
		AssetFrom: lpToken, AssetTo: registry.USD,
		Payload: payload, Now: testNow, Nested: curveNested(),
	})
	assert.ErrorIs(t, err, ErrIncorrectOracleData)
}

func TestCurveLPNoUnderlyings(t *testing.T) {
	snap := newSnapshot()
	payload, err := EncodeCurvePayload(0, [][]byte{{0x01}})
	require.NoError(t, err)

	_, err = Resolve(SourceCurveLP, snap, Query{
		AssetFrom: lpToken, AssetTo: registry.USD,
		Payload: payload, Now: testNow, Nested: curveNested(),
	})
	assert.ErrorIs(t, err, ErrNoUnderlyingTokenFound)
}

func TestCurveLPUnderlyingFailurePropagates(t *testing.T) {
	snap := curveSnapshot(wadInt(1))

	payload, err := EncodeCurvePayload(0, [][]byte{{0x01}, {0x02}})
	require.NoError(t, err)

	nested := stubResolver{err: ErrZeroExchangeRate}
	_, err = Resolve(SourceCurveLP, snap, Query{
		AssetFrom: lpToken, AssetTo: registry.USD,
		Payload: payload, Now: testNow, Nested: nested,
	})
	assert.ErrorIs(t, err, ErrZeroExchangeRate)
}

func TestCurveLPZeroVirtualPrice(t *testing.T) {
	snap := curveSnapshot(big.NewInt(0))

	payload, err := EncodeCurvePayload(0, [][]byte{{0x01}, {0x02}})
	require.NoError(t, err)

	_, err = Resolve(SourceCurveLP, snap, Query{
		AssetFrom: lpToken, AssetTo: registry.USD,
		Payload: payload, Now: testNow, Nested: curveNested(),
	})
	assert.ErrorIs(t, err, ErrZeroExchangeRate)
}

func TestCurveLPRouteShape(t *testing.T) {
	snap := curveSnapshot(wadInt(1))
	_, err := Resolve(SourceCurveLP, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	assert.ErrorIs(t, err, ErrIncorrectCurveLPRoute)
}
