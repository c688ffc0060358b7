package sources

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
)

func pythSnapshot() *registry.Snapshot {
	snap := newSnapshot()
	snap.PythPriceIDs[tokenA] = common.HexToHash("0x01")
	return snap
}

func pythPayload(t *testing.T, r PythReading) []byte {
	t.Helper()
	data, err := EncodePythPayload(r)
	require.NoError(t, err)
	return data
}

func TestPythDirect(t *testing.T) {
	snap := pythSnapshot()
	payload := pythPayload(t, PythReading{
		Price:       250_000_000_000, // 2500 with expo -8
		Expo:        -8,
		PublishTime: uint64(testNow.Unix()),
	})

	rate, err := Resolve(SourcePyth, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Payload: payload, Now: testNow})
	require.NoError(t, err)
	assert.Zero(t, rate.Cmp(wadInt(2500)))
}

func TestPythInverse(t *testing.T) {
	snap := pythSnapshot()
	payload := pythPayload(t, PythReading{Price: 2, Expo: 0, PublishTime: uint64(testNow.Unix())})

	rate, err := Resolve(SourcePyth, snap, Query{AssetFrom: registry.USD, AssetTo: tokenA, Payload: payload, Now: testNow})
	require.NoError(t, err)
	half, _ := new(big.Int).SetString("500000000000000000", 10)
	assert.Zero(t, rate.Cmp(half))
}

func TestPythRejectsBadExpo(t *testing.T) {
	snap := pythSnapshot()
	for _, expo := range []int32{1, 8, -256} {
		payload := pythPayload(t, PythReading{Price: 100, Expo: expo, PublishTime: uint64(testNow.Unix())})
		_, err := Resolve(SourcePyth, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Payload: payload, Now: testNow})
		assert.ErrorIs(t, err, ErrIncorrectPythPrice, "expo %d", expo)
	}
}

func TestPythRejectsNonPositivePrice(t *testing.T) {
	snap := pythSnapshot()
	for _, price := range []int64{0, -1} {
		payload := pythPayload(t, PythReading{Price: price, Expo: -8, PublishTime: uint64(testNow.Unix())})
		_, err := Resolve(SourcePyth, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Payload: payload, Now: testNow})
		assert.ErrorIs(t, err, ErrIncorrectPythPrice)
	}
}

func TestPythStaleness(t *testing.T) {
	snap := pythSnapshot()

	// Exactly at the tolerance is still fresh.
	payload := pythPayload(t, PythReading{Price: 100, Expo: 0, PublishTime: uint64(testNow.Add(-60 * time.Second).Unix())})
	_, err := Resolve(SourcePyth, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Payload: payload, Now: testNow})
	assert.NoError(t, err)

	// One second past the tolerance is stale.
	payload = pythPayload(t, PythReading{Price: 100, Expo: 0, PublishTime: uint64(testNow.Add(-61 * time.Second).Unix())})
	_, err = Resolve(SourcePyth, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Payload: payload, Now: testNow})
	assert.ErrorIs(t, err, ErrPublishTimeExceedsThresholdTime)
}

func TestPythNoRegistration(t *testing.T) {
	snap := newSnapshot()
	payload := pythPayload(t, PythReading{Price: 100, Expo: 0, PublishTime: uint64(testNow.Unix())})
	_, err := Resolve(SourcePyth, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Payload: payload, Now: testNow})
	assert.ErrorIs(t, err, ErrNoPriceFeedFound)
}

func TestPythRouteShape(t *testing.T) {
	snap := pythSnapshot()
	_, err := Resolve(SourcePyth, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Now: testNow})
	assert.ErrorIs(t, err, ErrIncorrectPythRoute)
}

func TestPythMalformedPayload(t *testing.T) {
	snap := pythSnapshot()
	_, err := Resolve(SourcePyth, snap, Query{AssetFrom: tokenA, AssetTo: registry.USD, Payload: []byte{0x01}, Now: testNow})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
