package sources

import (
	"fmt"
	"math/big"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// resolveSupra prices a pair from Supra-style storage, keyed by the feed id
// registered for the pair. A reverse registration serves the request
// through fixed-point reciprocal.
func resolveSupra(snap *registry.Snapshot, q Query) (*big.Int, error) {
	feedID, ok := snap.SupraFeedIDs[registry.NewPair(q.AssetFrom, q.AssetTo)]
	inverse := false
	if !ok {
		feedID, ok = snap.SupraFeedIDs[registry.NewPair(q.AssetTo, q.AssetFrom)]
		if !ok {
			return nil, fmt.Errorf("%w: supra feed for %s -> %s", ErrNoPriceFeedFound, q.AssetFrom.Hex(), q.AssetTo.Hex())
		}
		inverse = true
	}
	if snap.SupraStorage == nil {
		return nil, fmt.Errorf("%w: supra storage", ErrNoPriceFeedFound)
	}

	_, decimals, updatedAt, price, err := snap.SupraStorage.GetSvalue(feedID)
	if err != nil {
		return nil, fmt.Errorf("supra feed %d: %w", feedID, err)
	}
	if price == nil || price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: supra feed %d", ErrZeroExchangeRate, feedID)
	}
	if err := checkFresh(q.Now, updatedAt, snap.TimeTolerance); err != nil {
		return nil, err
	}

	rate := wad.Rescale(price, decimals, wad.Decimals)
	if inverse {
		rate = wad.Reciprocal(rate)
	}
	return rate, nil
}
