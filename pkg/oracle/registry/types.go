// Package registry holds the feed registrations consumed by the rate engine.
// Registrations are written by administrative actions only; rate queries
// read an immutable snapshot published via an atomic pointer swap.
package registry

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// USD is the reference-currency asset identifier, following the Chainlink
// denominations convention (ISO 4217 code 840).
var USD = common.HexToAddress("0x0000000000000000000000000000000000000348")

// Pair is a directed asset pair used as a registration key.
type Pair struct {
	Base  common.Address
	Quote common.Address
}

// NewPair builds a directed pair key.
func NewPair(base, quote common.Address) Pair {
	return Pair{Base: base, Quote: quote}
}

// Reverse returns the pair with base and quote swapped.
func (p Pair) Reverse() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

// ChainlinkFeed reads the latest stored round of a push feed.
type ChainlinkFeed interface {
	// LatestRoundData returns the latest stored price, its decimal count
	// and the time it was written.
	LatestRoundData() (price *big.Int, decimals uint8, updatedAt time.Time, err error)
}

// SupraFeed reads the latest stored value of a Supra-style storage feed.
type SupraFeed interface {
	// GetSvalue returns the latest stored reading for a feed id.
	GetSvalue(feedID uint32) (round uint64, decimals uint8, updatedAt time.Time, price *big.Int, err error)
}

// PoolFeed computes a pool-derived rate (e.g. a TWAP) for a trusted pair.
// The payload is opaque to the engine and interpreted by the feed.
type PoolFeed interface {
	GetExchangeRate(assetFrom, assetTo common.Address, payload []byte) (*big.Int, error)
}

// CurveFeed reads a stable pool's virtual price for an LP token, WAD-scaled.
type CurveFeed interface {
	GetVirtualPrice(lpToken common.Address) (*big.Int, error)
}

// VaultReader converts vault shares into underlying asset units.
type VaultReader interface {
	ConvertToAssets(shares *big.Int) (*big.Int, error)
}

// Vault describes an EIP-4626-style share token registration.
type Vault struct {
	Underlying         common.Address
	ShareDecimals      uint8
	UnderlyingDecimals uint8
	Reader             VaultReader
}

// LPRateFeed computes the rate of a constant-product LP token against USD.
// The payload is opaque to the engine and interpreted by the feed.
type LPRateFeed interface {
	GetLPExchangeRate(lpToken common.Address, payload []byte) (*big.Int, error)
}

// PriceDropFeed reports a feed-derived maximum instantaneous price drop for
// a pair, as a WAD fraction.
type PriceDropFeed interface {
	PriceDrop(base, quote common.Address) (*big.Int, error)
}

// Snapshot is an immutable view of all registrations. Rate queries hold one
// snapshot for their whole lifetime and never observe partial updates.
type Snapshot struct {
	ChainlinkFeeds     map[common.Address]ChainlinkFeed
	PythPriceIDs       map[common.Address]common.Hash
	OrallySymbols      map[Pair]string
	StorkPairs         map[Pair]string
	StorkPublisher     common.Address
	SupraFeedIDs       map[Pair]uint32
	SupraStorage       SupraFeed
	PoolFeeds          map[uint8]PoolFeed
	TrustedPairs       map[Pair]bool
	CurveFeeds         map[uint8]CurveFeed
	CurveLPUnderlyings map[common.Address][]common.Address
	Vaults             map[common.Address]Vault
	UniswapV2LPs       map[common.Address]bool
	LPRateFeed         LPRateFeed
	PairPriceDrops     map[Pair]*big.Int
	PriceDropFeeds     map[Pair]PriceDropFeed

	TimeTolerance       time.Duration
	OrallyTimeTolerance time.Duration
}

// TrustedPair reports whether the pair is on the allow-list, checked
// symmetrically.
func (s *Snapshot) TrustedPair(a, b common.Address) bool {
	return s.TrustedPairs[NewPair(a, b)] || s.TrustedPairs[NewPair(b, a)]
}
