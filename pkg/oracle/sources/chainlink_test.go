package sources

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
)

func TestChainlinkDirect(t *testing.T) {
	snap := newSnapshot()
	snap.ChainlinkFeeds[tokenA] = stubChainlinkFeed{price: big.NewInt(200), decimals: 0, updatedAt: testNow}

	rate, err := Resolve(SourceChainlink, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Now: testNow})
	require.NoError(t, err)
	assert.Zero(t, rate.Cmp(wadInt(200)))
}

func TestChainlinkInverse(t *testing.T) {
	snap := newSnapshot()
	snap.ChainlinkFeeds[tokenA] = stubChainlinkFeed{price: big.NewInt(200), decimals: 0, updatedAt: testNow}

	rate, err := Resolve(SourceChainlink, snap, Query{AssetFrom: registry.USD, AssetTo: tokenA, Now: testNow})
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("5000000000000000", 10) // 0.005
	assert.Zero(t, rate.Cmp(expected))
}

func TestChainlinkFeedDecimals(t *testing.T) {
	snap := newSnapshot()
	// 2500.00000000 with 8 feed decimals.
	snap.ChainlinkFeeds[tokenA] = stubChainlinkFeed{price: big.NewInt(250_000_000_000), decimals: 8, updatedAt: testNow}

	rate, err := Resolve(SourceChainlink, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Now: testNow})
	require.NoError(t, err)
	assert.Zero(t, rate.Cmp(wadInt(2500)))
}

func TestChainlinkNeitherSideUSD(t *testing.T) {
	snap := newSnapshot()
	_, err := Resolve(SourceChainlink, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	assert.ErrorIs(t, err, ErrIncorrectChainlinkRoute)
}

func TestChainlinkNoFeed(t *testing.T) {
	snap := newSnapshot()
	_, err := Resolve(SourceChainlink, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Now: testNow})
	assert.ErrorIs(t, err, ErrNoPriceFeedFound)
}

func TestChainlinkNonPositivePrice(t *testing.T) {
	for _, price := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		snap := newSnapshot()
		snap.ChainlinkFeeds[tokenA] = stubChainlinkFeed{price: price, decimals: 0, updatedAt: testNow}
		_, err := Resolve(SourceChainlink, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Now: testNow})
		assert.ErrorIs(t, err, ErrZeroExchangeRate)
	}
}
