package sources

import (
	"fmt"
	"math/big"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// resolveUniswapV2LP prices a constant-product LP token against the
// reference currency via the delegated LP-rate oracle. Only registered LP
// tokens are accepted.
func resolveUniswapV2LP(snap *registry.Snapshot, q Query) (*big.Int, error) {
	lpToken, inverse, ok := orientUSD(q.AssetFrom, q.AssetTo)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIncorrectUniswapV2LPRoute, q.AssetFrom.Hex(), q.AssetTo.Hex())
	}

	if !snap.UniswapV2LPs[lpToken] {
		return nil, fmt.Errorf("%w: %s", ErrAddressIsNotUniswapV2LPToken, lpToken.Hex())
	}
	if snap.LPRateFeed == nil {
		return nil, fmt.Errorf("%w: lp rate feed", ErrNoPriceFeedFound)
	}

	rate, err := snap.LPRateFeed.GetLPExchangeRate(lpToken, q.Payload)
	if err != nil {
		return nil, fmt.Errorf("lp rate feed %s: %w", lpToken.Hex(), err)
	}
	if rate == nil || rate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: lp %s", ErrZeroExchangeRate, lpToken.Hex())
	}

	if inverse {
		rate = wad.Reciprocal(rate)
	}
	return rate, nil
}
