package sources

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
)

func TestSupraDirect(t *testing.T) {
	snap := newSnapshot()
	snap.SupraFeedIDs[registry.NewPair(tokenA, tokenB)] = 42
	snap.SupraStorage = stubSupraFeed{round: 1, decimals: 8, updatedAt: testNow, price: big.NewInt(250_000_000_000)}

	rate, err := Resolve(SourceSupra, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	require.NoError(t, err)
	assert.Zero(t, rate.Cmp(wadInt(2500)))
}

func TestSupraReverseRegistration(t *testing.T) {
	snap := newSnapshot()
	snap.SupraFeedIDs[registry.NewPair(tokenB, tokenA)] = 42
	snap.SupraStorage = stubSupraFeed{round: 1, decimals: 0, updatedAt: testNow, price: big.NewInt(8)}

	rate, err := Resolve(SourceSupra, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("125000000000000000", 10) // 1/8
	assert.Zero(t, rate.Cmp(expected))
}

func TestSupraNoRegistration(t *testing.T) {
	snap := newSnapshot()
	snap.SupraStorage = stubSupraFeed{price: big.NewInt(1), updatedAt: testNow}
	_, err := Resolve(SourceSupra, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	assert.ErrorIs(t, err, ErrNoPriceFeedFound)
}

func TestSupraNoStorage(t *testing.T) {
	snap := newSnapshot()
	snap.SupraFeedIDs[registry.NewPair(tokenA, tokenB)] = 42
	_, err := Resolve(SourceSupra, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	assert.ErrorIs(t, err, ErrNoPriceFeedFound)
}

func TestSupraStale(t *testing.T) {
	snap := newSnapshot()
	snap.SupraFeedIDs[registry.NewPair(tokenA, tokenB)] = 42
	snap.SupraStorage = stubSupraFeed{decimals: 0, updatedAt: testNow.Add(-70 * time.Second), price: big.NewInt(5)}

	_, err := Resolve(SourceSupra, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	assert.ErrorIs(t, err, ErrPublishTimeExceedsThresholdTime)
}

func TestSupraZeroPrice(t *testing.T) {
	snap := newSnapshot()
	snap.SupraFeedIDs[registry.NewPair(tokenA, tokenB)] = 42
	snap.SupraStorage = stubSupraFeed{updatedAt: testNow, price: big.NewInt(0)}

	_, err := Resolve(SourceSupra, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	assert.ErrorIs(t, err, ErrZeroExchangeRate)
}
