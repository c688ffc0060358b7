package sources

import (
	"fmt"
	"math/big"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// resolveEIP4626 prices a vault share as
// convertToAssets(one share) * underlying USD price, with the underlying
// amount rescaled to 18 decimals before multiplying. The underlying price
// is resolved through the nested route carried in the payload.
func resolveEIP4626(snap *registry.Snapshot, q Query) (*big.Int, error) {
	share, inverse, ok := orientUSD(q.AssetFrom, q.AssetTo)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIncorrectEIP4626Route, q.AssetFrom.Hex(), q.AssetTo.Hex())
	}

	vault, ok := snap.Vaults[share]
	if !ok {
		return nil, fmt.Errorf("%w: vault %s", ErrNoUnderlyingTokenFound, share.Hex())
	}

	underlyingPrice, err := q.Nested.ResolveRoute(vault.Underlying, registry.USD, q.Payload, q.Depth+1)
	if err != nil {
		return nil, fmt.Errorf("underlying %s: %w", vault.Underlying.Hex(), err)
	}

	oneShare := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(vault.ShareDecimals)), nil)
	assets, err := vault.Reader.ConvertToAssets(oneShare)
	if err != nil {
		return nil, fmt.Errorf("vault %s: %w", share.Hex(), err)
	}
	if assets == nil || assets.Sign() <= 0 {
		return nil, fmt.Errorf("%w: vault %s", ErrZeroExchangeRate, share.Hex())
	}

	shareToUnderlying := wad.Rescale(assets, vault.UnderlyingDecimals, wad.Decimals)
	rate := wad.Mul(shareToUnderlying, underlyingPrice)
	if inverse {
		rate = wad.Reciprocal(rate)
	}
	return rate, nil
}
