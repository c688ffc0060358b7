package sources

import (
	"fmt"
	"math/big"
	"time"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// resolveOrally prices a pair from a caller-supplied symbol-keyed reading.
// The pair must have a registered symbol in either direction; a reverse
// registration serves the request through fixed-point reciprocal.
func resolveOrally(snap *registry.Snapshot, q Query) (*big.Int, error) {
	inverse := false
	if _, ok := snap.OrallySymbols[registry.NewPair(q.AssetFrom, q.AssetTo)]; !ok {
		if _, ok := snap.OrallySymbols[registry.NewPair(q.AssetTo, q.AssetFrom)]; !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrNoTokenSymbolFound, q.AssetFrom.Hex(), q.AssetTo.Hex())
		}
		inverse = true
	}

	reading, err := decodeOrallyPayload(q.Payload)
	if err != nil {
		return nil, err
	}
	if reading.Price == nil || reading.Price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectOrallyPrice, reading.Price)
	}
	observed := time.Unix(int64(reading.Timestamp), 0)
	if err := checkFresh(q.Now, observed, snap.OrallyTimeTolerance); err != nil {
		return nil, err
	}

	rate := wad.Rescale(reading.Price, reading.Decimals, wad.Decimals)
	if inverse {
		rate = wad.Reciprocal(rate)
	}
	return rate, nil
}
