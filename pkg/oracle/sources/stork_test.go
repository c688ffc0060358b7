package sources

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
)

func signedStorkReading(t *testing.T, pairString string, price *big.Int, timestamp uint64) (StorkReading, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	hash := storkMessageHash(pairString, timestamp, price)
	sig, err := crypto.Sign(hash, key)
	require.NoError(t, err)

	reading := StorkReading{Timestamp: timestamp, Price: price}
	copy(reading.R[:], sig[:32])
	copy(reading.S[:], sig[32:64])
	reading.V = sig[64] + 27 // publishers emit Ethereum-style recovery ids
	return reading, crypto.PubkeyToAddress(key.PublicKey)
}

func TestStorkDirect(t *testing.T) {
	snap := newSnapshot()
	snap.StorkPairs[registry.NewPair(tokenA, tokenB)] = "AAABBB"

	reading, publisher := signedStorkReading(t, "AAABBB", wadInt(7), uint64(testNow.Unix()))
	snap.StorkPublisher = publisher

	payload, err := EncodeStorkPayload(reading)
	require.NoError(t, err)

	rate, err := Resolve(SourceStork, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Payload: payload, Now: testNow})
	require.NoError(t, err)
	assert.Zero(t, rate.Cmp(wadInt(7)))
}

func TestStorkInverse(t *testing.T) {
	snap := newSnapshot()
	snap.StorkPairs[registry.NewPair(tokenB, tokenA)] = "BBBAAA"

	reading, publisher := signedStorkReading(t, "BBBAAA", wadInt(4), uint64(testNow.Unix()))
	snap.StorkPublisher = publisher

	payload, err := EncodeStorkPayload(reading)
	require.NoError(t, err)

	rate, err := Resolve(SourceStork, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Payload: payload, Now: testNow})
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("250000000000000000", 10)
	assert.Zero(t, rate.Cmp(expected))
}

func TestStorkWrongPublisher(t *testing.T) {
	snap := newSnapshot()
	snap.StorkPairs[registry.NewPair(tokenA, tokenB)] = "AAABBB"

	reading, _ := signedStorkReading(t, "AAABBB", wadInt(7), uint64(testNow.Unix()))
	snap.StorkPublisher = tokenC // not the signer

	payload, err := EncodeStorkPayload(reading)
	require.NoError(t, err)

	_, err = Resolve(SourceStork, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Payload: payload, Now: testNow})
	assert.ErrorIs(t, err, ErrInvalidStorkSignature)
}

func TestStorkTamperedPrice(t *testing.T) {
	snap := newSnapshot()
	snap.StorkPairs[registry.NewPair(tokenA, tokenB)] = "AAABBB"

	reading, publisher := signedStorkReading(t, "AAABBB", wadInt(7), uint64(testNow.Unix()))
	snap.StorkPublisher = publisher
	reading.Price = wadInt(700) // signature covers the original price

	payload, err := EncodeStorkPayload(reading)
	require.NoError(t, err)

	_, err = Resolve(SourceStork, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Payload: payload, Now: testNow})
	assert.ErrorIs(t, err, ErrInvalidStorkSignature)
}

func TestStorkVerificationDisabledWithoutPublisher(t *testing.T) {
	snap := newSnapshot()
	snap.StorkPairs[registry.NewPair(tokenA, tokenB)] = "AAABBB"

	reading := StorkReading{Timestamp: uint64(testNow.Unix()), Price: wadInt(7)}
	payload, err := EncodeStorkPayload(reading)
	require.NoError(t, err)

	rate, err := Resolve(SourceStork, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Payload: payload, Now: testNow})
	require.NoError(t, err)
	assert.Zero(t, rate.Cmp(wadInt(7)))
}

func TestStorkStale(t *testing.T) {
	snap := newSnapshot()
	snap.StorkPairs[registry.NewPair(tokenA, tokenB)] = "AAABBB"

	reading := StorkReading{Timestamp: uint64(testNow.Add(-70 * time.Second).Unix()), Price: wadInt(7)}
	payload, err := EncodeStorkPayload(reading)
	require.NoError(t, err)

	_, err = Resolve(SourceStork, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Payload: payload, Now: testNow})
	assert.ErrorIs(t, err, ErrPublishTimeExceedsThresholdTime)
}

func TestStorkNoPair(t *testing.T) {
	snap := newSnapshot()
	reading := StorkReading{Timestamp: uint64(testNow.Unix()), Price: wadInt(1)}
	payload, err := EncodeStorkPayload(reading)
	require.NoError(t, err)

	_, err = Resolve(SourceStork, snap, Query{AssetFrom: tokenA, AssetTo: tokenB, Payload: payload, Now: testNow})
	assert.ErrorIs(t, err, ErrNoTokenPairFound)
}
