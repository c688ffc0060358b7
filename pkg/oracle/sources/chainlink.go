package sources

import (
	"fmt"
	"math/big"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// resolveChainlink prices an asset against the reference currency from a
// Chainlink-style push feed. The feed's canonical direction is asset->USD;
// the opposite request direction is served by fixed-point reciprocal.
func resolveChainlink(snap *registry.Snapshot, q Query) (*big.Int, error) {
	subject, inverse, ok := orientUSD(q.AssetFrom, q.AssetTo)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIncorrectChainlinkRoute, q.AssetFrom.Hex(), q.AssetTo.Hex())
	}

	feed, ok := snap.ChainlinkFeeds[subject]
	if !ok {
		return nil, fmt.Errorf("%w: chainlink feed for %s", ErrNoPriceFeedFound, subject.Hex())
	}

	price, decimals, _, err := feed.LatestRoundData()
	if err != nil {
		return nil, fmt.Errorf("chainlink feed %s: %w", subject.Hex(), err)
	}
	if price == nil || price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: chainlink feed for %s", ErrZeroExchangeRate, subject.Hex())
	}

	rate := wad.Rescale(price, decimals, wad.Decimals)
	if inverse {
		rate = wad.Reciprocal(rate)
	}
	return rate, nil
}
