package sources

import (
	"fmt"
	"math/big"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// resolveCurveLP prices a stable-pool LP share. The share's USD price is
// min(underlying USD prices) * pool virtual price; taking the minimum
// rather than an average keeps a manipulated underlying from inflating the
// share price. Each underlying price is resolved through its own nested
// route carried in the payload.
func resolveCurveLP(snap *registry.Snapshot, q Query) (*big.Int, error) {
	lpToken, inverse, ok := orientUSD(q.AssetFrom, q.AssetTo)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIncorrectCurveLPRoute, q.AssetFrom.Hex(), q.AssetTo.Hex())
	}

	underlyings := snap.CurveLPUnderlyings[lpToken]
	if len(underlyings) == 0 {
		return nil, fmt.Errorf("%w: curve lp %s", ErrNoUnderlyingTokenFound, lpToken.Hex())
	}

	kind, routes, err := decodeCurvePayload(q.Payload)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("%w: empty sub-routes", ErrIncorrectOracleData)
	}
	if len(routes) != len(underlyings) {
		return nil, fmt.Errorf("%w: %d routes, %d underlyings", ErrOracleDataAndTokensLengthMismatch, len(routes), len(underlyings))
	}

	feed, ok := snap.CurveFeeds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: curve feed kind %d", ErrNoPriceFeedFound, kind)
	}

	var minPrice *big.Int
	for i, underlying := range underlyings {
		price, err := q.Nested.ResolveRoute(underlying, registry.USD, routes[i], q.Depth+1)
		if err != nil {
			return nil, fmt.Errorf("underlying %s: %w", underlying.Hex(), err)
		}
		if minPrice == nil || price.Cmp(minPrice) < 0 {
			minPrice = price
		}
	}

	virtualPrice, err := feed.GetVirtualPrice(lpToken)
	if err != nil {
		return nil, fmt.Errorf("curve feed kind %d: %w", kind, err)
	}
	if virtualPrice == nil || virtualPrice.Sign() <= 0 {
		return nil, fmt.Errorf("%w: virtual price for %s", ErrZeroExchangeRate, lpToken.Hex())
	}

	rate := wad.Mul(minPrice, virtualPrice)
	if inverse {
		rate = wad.Reciprocal(rate)
	}
	return rate, nil
}
