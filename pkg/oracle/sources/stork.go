package sources

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// resolveStork prices a pair from a caller-supplied signed pair-string
// reading. The price is already WAD-scaled. When a publisher key is
// configured, the reading's signature must recover to it.
func resolveStork(snap *registry.Snapshot, q Query) (*big.Int, error) {
	pairString, ok := snap.StorkPairs[registry.NewPair(q.AssetFrom, q.AssetTo)]
	inverse := false
	if !ok {
		pairString, ok = snap.StorkPairs[registry.NewPair(q.AssetTo, q.AssetFrom)]
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrNoTokenPairFound, q.AssetFrom.Hex(), q.AssetTo.Hex())
		}
		inverse = true
	}

	reading, err := decodeStorkPayload(q.Payload)
	if err != nil {
		return nil, err
	}
	if reading.Price == nil || reading.Price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: stork %s", ErrZeroExchangeRate, pairString)
	}
	observed := time.Unix(int64(reading.Timestamp), 0)
	if err := checkFresh(q.Now, observed, snap.TimeTolerance); err != nil {
		return nil, err
	}

	if snap.StorkPublisher != (common.Address{}) {
		if err := verifyStorkSignature(snap.StorkPublisher, pairString, reading); err != nil {
			return nil, err
		}
	}

	rate := new(big.Int).Set(reading.Price)
	if inverse {
		rate = wad.Reciprocal(rate)
	}
	return rate, nil
}

// verifyStorkSignature recovers the signer of
// keccak(pairString ‖ timestamp ‖ price) and compares it to the configured
// publisher.
func verifyStorkSignature(publisher common.Address, pairString string, r StorkReading) error {
	hash := storkMessageHash(pairString, r.Timestamp, r.Price)

	sig := make([]byte, 65)
	copy(sig[:32], r.R[:])
	copy(sig[32:64], r.S[:])
	v := r.V
	if v >= 27 {
		v -= 27
	}
	sig[64] = v

	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStorkSignature, err)
	}
	if crypto.PubkeyToAddress(*pub) != publisher {
		return fmt.Errorf("%w: %s", ErrInvalidStorkSignature, pairString)
	}
	return nil
}

// storkMessageHash is the digest a Stork publisher signs for a reading.
func storkMessageHash(pairString string, timestamp uint64, price *big.Int) []byte {
	return crypto.Keccak256(
		[]byte(pairString),
		common.LeftPadBytes(new(big.Int).SetUint64(timestamp).Bytes(), 32),
		common.LeftPadBytes(price.Bytes(), 32),
	)
}
