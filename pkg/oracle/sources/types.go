// Package sources implements the per-family price source adapters.
package sources

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
)

// SourceType identifies a price source family. The set is closed; the
// composer dispatches over it exhaustively.
type SourceType uint8

const (
	// SourceChainlink is a push feed read from Chainlink-style storage.
	SourceChainlink SourceType = iota
	// SourceUniswapV3 is a pool-derived TWAP-family feed selected by kind.
	SourceUniswapV3
	// SourcePyth is a pull feed with a signed (price, expo, publishTime) reading.
	SourcePyth
	// SourceOrally is a pull feed keyed by a registered pair symbol.
	SourceOrally
	// SourceStork is a pull feed with a signed pair-string reading.
	SourceStork
	// SourceSupra is a push feed read from Supra-style storage by feed id.
	SourceSupra
	// SourceCurveLP prices a stable-pool LP share from its underlyings.
	SourceCurveLP
	// SourceEIP4626 prices a vault share through its underlying asset.
	SourceEIP4626
	// SourceUniswapV2LP prices a constant-product LP token via a delegated oracle.
	SourceUniswapV2LP

	sourceTypeCount
)

// Count returns the number of known source families.
func Count() uint8 { return uint8(sourceTypeCount) }

// Valid reports whether t names a known source family.
func (t SourceType) Valid() bool { return t < sourceTypeCount }

// String returns the family name for logging and metrics labels.
func (t SourceType) String() string {
	switch t {
	case SourceChainlink:
		return "chainlink"
	case SourceUniswapV3:
		return "uniswapv3"
	case SourcePyth:
		return "pyth"
	case SourceOrally:
		return "orally"
	case SourceStork:
		return "stork"
	case SourceSupra:
		return "supra"
	case SourceCurveLP:
		return "curvelp"
	case SourceEIP4626:
		return "eip4626"
	case SourceUniswapV2LP:
		return "uniswapv2lp"
	default:
		return "unknown"
	}
}

// PoolDerived reports whether the family derives its rate from pool state.
// Route validation forbids stacking such hops back to back.
func (t SourceType) PoolDerived() bool {
	return t == SourceUniswapV3
}

// RouteResolver resolves a nested route for adapters that price composite
// tokens (pool shares, vault shares) through their underlying assets.
type RouteResolver interface {
	ResolveRoute(assetFrom, assetTo common.Address, routeData []byte, depth int) (*big.Int, error)
}

// Query carries one hop's resolution request into an adapter.
type Query struct {
	AssetFrom common.Address
	AssetTo   common.Address
	Payload   []byte
	Now       time.Time
	Depth     int
	Nested    RouteResolver
}

// Resolve dispatches a query to the adapter for the given source family.
// The returned rate is WAD-scaled "units of AssetTo per one AssetFrom" and
// strictly positive; every failure is a typed, fail-closed error.
func Resolve(t SourceType, snap *registry.Snapshot, q Query) (*big.Int, error) {
	switch t {
	case SourceChainlink:
		return resolveChainlink(snap, q)
	case SourceUniswapV3:
		return resolveUniswapV3(snap, q)
	case SourcePyth:
		return resolvePyth(snap, q)
	case SourceOrally:
		return resolveOrally(snap, q)
	case SourceStork:
		return resolveStork(snap, q)
	case SourceSupra:
		return resolveSupra(snap, q)
	case SourceCurveLP:
		return resolveCurveLP(snap, q)
	case SourceEIP4626:
		return resolveEIP4626(snap, q)
	case SourceUniswapV2LP:
		return resolveUniswapV2LP(snap, q)
	default:
		return nil, ErrUnknownSourceType
	}
}

// orientUSD resolves which side of the hop is the USD reference. It returns
// the non-USD subject asset and whether the requested direction is the
// inverse of the canonical subject->USD direction. ok is false when neither
// side is USD.
func orientUSD(assetFrom, assetTo common.Address) (subject common.Address, inverse, ok bool) {
	switch {
	case assetTo == registry.USD:
		return assetFrom, false, true
	case assetFrom == registry.USD:
		return assetTo, true, true
	default:
		return common.Address{}, false, false
	}
}
