package registry

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primex-finance/price-oracle-go/pkg/logging"
	"github.com/primex-finance/price-oracle-go/pkg/metrics"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// DefaultTimeTolerance is the staleness tolerance applied until an
// administrator configures one.
const DefaultTimeTolerance = 60 * time.Second

// Registry owns the active registration snapshot. Reads are lock-free;
// administrative writes are linearized behind a mutex and publish a fresh
// snapshot with a single atomic swap.
type Registry struct {
	mu     sync.Mutex
	active atomic.Pointer[Snapshot]
	logger *logging.Logger
}

// New creates a registry with an empty snapshot and default tolerances.
func New(logger *logging.Logger) *Registry {
	r := &Registry{logger: logger}
	snap := emptySnapshot()
	r.active.Store(snap)
	return r
}

// Snapshot returns the active registration snapshot. The returned value is
// immutable and safe to read for the duration of a query.
func (r *Registry) Snapshot() *Snapshot {
	return r.active.Load()
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		ChainlinkFeeds:      make(map[common.Address]ChainlinkFeed),
		PythPriceIDs:        make(map[common.Address]common.Hash),
		OrallySymbols:       make(map[Pair]string),
		StorkPairs:          make(map[Pair]string),
		SupraFeedIDs:        make(map[Pair]uint32),
		PoolFeeds:           make(map[uint8]PoolFeed),
		TrustedPairs:        make(map[Pair]bool),
		CurveFeeds:          make(map[uint8]CurveFeed),
		CurveLPUnderlyings:  make(map[common.Address][]common.Address),
		Vaults:              make(map[common.Address]Vault),
		UniswapV2LPs:        make(map[common.Address]bool),
		PairPriceDrops:      make(map[Pair]*big.Int),
		PriceDropFeeds:      make(map[Pair]PriceDropFeed),
		TimeTolerance:       DefaultTimeTolerance,
		OrallyTimeTolerance: DefaultTimeTolerance,
	}
}

// clone deep-copies the active snapshot so a writer can mutate it privately.
func (r *Registry) clone() *Snapshot {
	cur := r.active.Load()
	next := &Snapshot{
		ChainlinkFeeds:      make(map[common.Address]ChainlinkFeed, len(cur.ChainlinkFeeds)),
		PythPriceIDs:        make(map[common.Address]common.Hash, len(cur.PythPriceIDs)),
		OrallySymbols:       make(map[Pair]string, len(cur.OrallySymbols)),
		StorkPairs:          make(map[Pair]string, len(cur.StorkPairs)),
		StorkPublisher:      cur.StorkPublisher,
		SupraFeedIDs:        make(map[Pair]uint32, len(cur.SupraFeedIDs)),
		SupraStorage:        cur.SupraStorage,
		PoolFeeds:           make(map[uint8]PoolFeed, len(cur.PoolFeeds)),
		TrustedPairs:        make(map[Pair]bool, len(cur.TrustedPairs)),
		CurveFeeds:          make(map[uint8]CurveFeed, len(cur.CurveFeeds)),
		CurveLPUnderlyings:  make(map[common.Address][]common.Address, len(cur.CurveLPUnderlyings)),
		Vaults:              make(map[common.Address]Vault, len(cur.Vaults)),
		UniswapV2LPs:        make(map[common.Address]bool, len(cur.UniswapV2LPs)),
		LPRateFeed:          cur.LPRateFeed,
		PairPriceDrops:      make(map[Pair]*big.Int, len(cur.PairPriceDrops)),
		PriceDropFeeds:      make(map[Pair]PriceDropFeed, len(cur.PriceDropFeeds)),
		TimeTolerance:       cur.TimeTolerance,
		OrallyTimeTolerance: cur.OrallyTimeTolerance,
	}
	for k, v := range cur.ChainlinkFeeds {
		next.ChainlinkFeeds[k] = v
	}
	for k, v := range cur.PythPriceIDs {
		next.PythPriceIDs[k] = v
	}
	for k, v := range cur.OrallySymbols {
		next.OrallySymbols[k] = v
	}
	for k, v := range cur.StorkPairs {
		next.StorkPairs[k] = v
	}
	for k, v := range cur.SupraFeedIDs {
		next.SupraFeedIDs[k] = v
	}
	for k, v := range cur.PoolFeeds {
		next.PoolFeeds[k] = v
	}
	for k, v := range cur.TrustedPairs {
		next.TrustedPairs[k] = v
	}
	for k, v := range cur.CurveFeeds {
		next.CurveFeeds[k] = v
	}
	for k, v := range cur.CurveLPUnderlyings {
		next.CurveLPUnderlyings[k] = append([]common.Address(nil), v...)
	}
	for k, v := range cur.Vaults {
		next.Vaults[k] = v
	}
	for k, v := range cur.UniswapV2LPs {
		next.UniswapV2LPs[k] = v
	}
	for k, v := range cur.PairPriceDrops {
		next.PairPriceDrops[k] = new(big.Int).Set(v)
	}
	for k, v := range cur.PriceDropFeeds {
		next.PriceDropFeeds[k] = v
	}
	return next
}

// mutate applies fn to a private copy of the snapshot and publishes it.
func (r *Registry) mutate(what string, fn func(*Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.clone()
	fn(next)
	r.active.Store(next)
	metrics.RecordRegistryUpdate(what)
	r.logger.Debug("Registry updated", "what", what)
}

func validateAsset(a common.Address) error {
	if a == (common.Address{}) {
		return fmt.Errorf("%w: %s", ErrAssetAddressNotSupported, a.Hex())
	}
	return nil
}

func validatePair(base, quote common.Address) error {
	if err := validateAsset(base); err != nil {
		return err
	}
	if err := validateAsset(quote); err != nil {
		return err
	}
	if base == quote {
		return fmt.Errorf("%w: %s", ErrIdenticalAssetAddresses, base.Hex())
	}
	return nil
}

// SetChainlinkFeeds registers Chainlink-style feeds for assets priced
// against the reference currency.
func (r *Registry) SetChainlinkFeeds(assets []common.Address, feeds []ChainlinkFeed) error {
	if len(assets) != len(feeds) {
		return fmt.Errorf("%w: %d assets, %d feeds", ErrParamsLengthMismatch, len(assets), len(feeds))
	}
	for i, a := range assets {
		if err := validateAsset(a); err != nil {
			return err
		}
		if feeds[i] == nil {
			return fmt.Errorf("%w: asset %s", ErrNilFeed, a.Hex())
		}
	}
	r.mutate("chainlink_feeds", func(s *Snapshot) {
		for i, a := range assets {
			s.ChainlinkFeeds[a] = feeds[i]
		}
	})
	return nil
}

// SetPythPriceIDs registers Pyth pair ids for assets priced against the
// reference currency.
func (r *Registry) SetPythPriceIDs(assets []common.Address, ids []common.Hash) error {
	if len(assets) != len(ids) {
		return fmt.Errorf("%w: %d assets, %d ids", ErrParamsLengthMismatch, len(assets), len(ids))
	}
	for _, a := range assets {
		if err := validateAsset(a); err != nil {
			return err
		}
	}
	r.mutate("pyth_price_ids", func(s *Snapshot) {
		for i, a := range assets {
			s.PythPriceIDs[a] = ids[i]
		}
	})
	return nil
}

// SetOrallySymbol registers the Orally symbol for a directed pair.
func (r *Registry) SetOrallySymbol(base, quote common.Address, symbol string) error {
	if err := validatePair(base, quote); err != nil {
		return err
	}
	r.mutate("orally_symbol", func(s *Snapshot) {
		s.OrallySymbols[NewPair(base, quote)] = symbol
	})
	return nil
}

// SetStorkPair registers the Stork pair string for a directed pair.
func (r *Registry) SetStorkPair(base, quote common.Address, pairString string) error {
	if err := validatePair(base, quote); err != nil {
		return err
	}
	r.mutate("stork_pair", func(s *Snapshot) {
		s.StorkPairs[NewPair(base, quote)] = pairString
	})
	return nil
}

// SetStorkPublisher configures the publisher key Stork readings must be
// signed by. The zero address disables verification.
func (r *Registry) SetStorkPublisher(publisher common.Address) {
	r.mutate("stork_publisher", func(s *Snapshot) {
		s.StorkPublisher = publisher
	})
}

// SetSupraStorage configures the Supra storage handle readings come from.
func (r *Registry) SetSupraStorage(storage SupraFeed) {
	r.mutate("supra_storage", func(s *Snapshot) {
		s.SupraStorage = storage
	})
}

// SetSupraFeedID registers the Supra feed id for a directed pair.
func (r *Registry) SetSupraFeedID(base, quote common.Address, feedID uint32) error {
	if err := validatePair(base, quote); err != nil {
		return err
	}
	r.mutate("supra_feed_id", func(s *Snapshot) {
		s.SupraFeedIDs[NewPair(base, quote)] = feedID
	})
	return nil
}

// SetPoolFeed registers the pool-derived feed for a numeric oracle kind.
func (r *Registry) SetPoolFeed(kind uint8, feed PoolFeed) error {
	if feed == nil {
		return fmt.Errorf("%w: pool kind %d", ErrNilFeed, kind)
	}
	r.mutate("pool_feed", func(s *Snapshot) {
		s.PoolFeeds[kind] = feed
	})
	return nil
}

// SetTrustedPair adds or removes a pair from the pool-derived allow-list.
func (r *Registry) SetTrustedPair(a, b common.Address, trusted bool) error {
	if err := validatePair(a, b); err != nil {
		return err
	}
	r.mutate("trusted_pair", func(s *Snapshot) {
		if trusted {
			s.TrustedPairs[NewPair(a, b)] = true
		} else {
			delete(s.TrustedPairs, NewPair(a, b))
			delete(s.TrustedPairs, NewPair(b, a))
		}
	})
	return nil
}

// SetCurveFeed registers the Curve virtual-price feed for an oracle kind.
func (r *Registry) SetCurveFeed(kind uint8, feed CurveFeed) error {
	if feed == nil {
		return fmt.Errorf("%w: curve kind %d", ErrNilFeed, kind)
	}
	r.mutate("curve_feed", func(s *Snapshot) {
		s.CurveFeeds[kind] = feed
	})
	return nil
}

// SetCurveLPUnderlyings registers the underlying asset list of a Curve LP
// token.
func (r *Registry) SetCurveLPUnderlyings(lpToken common.Address, underlyings []common.Address) error {
	if err := validateAsset(lpToken); err != nil {
		return err
	}
	for _, u := range underlyings {
		if err := validateAsset(u); err != nil {
			return err
		}
	}
	r.mutate("curve_lp_underlyings", func(s *Snapshot) {
		s.CurveLPUnderlyings[lpToken] = append([]common.Address(nil), underlyings...)
	})
	return nil
}

// SetVault registers an EIP-4626-style share token.
func (r *Registry) SetVault(share common.Address, vault Vault) error {
	if err := validatePair(share, vault.Underlying); err != nil {
		return err
	}
	if vault.Reader == nil {
		return fmt.Errorf("%w: vault %s", ErrNilFeed, share.Hex())
	}
	r.mutate("vault", func(s *Snapshot) {
		s.Vaults[share] = vault
	})
	return nil
}

// SetUniswapV2LP adds or removes a token from the LP membership set.
func (r *Registry) SetUniswapV2LP(token common.Address, member bool) error {
	if err := validateAsset(token); err != nil {
		return err
	}
	r.mutate("uniswapv2_lp", func(s *Snapshot) {
		if member {
			s.UniswapV2LPs[token] = true
		} else {
			delete(s.UniswapV2LPs, token)
		}
	})
	return nil
}

// SetLPRateFeed configures the delegated LP-rate oracle.
func (r *Registry) SetLPRateFeed(feed LPRateFeed) {
	r.mutate("lp_rate_feed", func(s *Snapshot) {
		s.LPRateFeed = feed
	})
}

// SetPairPriceDrop configures the administrator floor for the maximum
// tolerated instantaneous price drop of a pair. The value is a WAD fraction
// strictly between 0 and 1.
func (r *Registry) SetPairPriceDrop(base, quote common.Address, drop *big.Int) error {
	if err := validatePair(base, quote); err != nil {
		return err
	}
	if drop == nil || drop.Sign() <= 0 || drop.Cmp(wad.Wad) >= 0 {
		return fmt.Errorf("%w: %v", ErrPairPriceDropIsNotCorrect, drop)
	}
	r.mutate("pair_price_drop", func(s *Snapshot) {
		s.PairPriceDrops[NewPair(base, quote)] = new(big.Int).Set(drop)
	})
	return nil
}

// UpdatePriceDropFeeds registers feed-derived price-drop sources for pairs.
func (r *Registry) UpdatePriceDropFeeds(bases, quotes []common.Address, feeds []PriceDropFeed) error {
	if len(bases) != len(quotes) || len(bases) != len(feeds) {
		return fmt.Errorf("%w: %d/%d/%d", ErrParamsLengthMismatch, len(bases), len(quotes), len(feeds))
	}
	for i := range bases {
		if err := validatePair(bases[i], quotes[i]); err != nil {
			return err
		}
		if feeds[i] == nil {
			return fmt.Errorf("%w: pair %d", ErrNilFeed, i)
		}
	}
	r.mutate("price_drop_feeds", func(s *Snapshot) {
		for i := range bases {
			s.PriceDropFeeds[NewPair(bases[i], quotes[i])] = feeds[i]
		}
	})
	return nil
}

// SetTimeTolerance configures the staleness tolerance for pull and
// storage-keyed feeds.
func (r *Registry) SetTimeTolerance(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTolerance, d)
	}
	r.mutate("time_tolerance", func(s *Snapshot) {
		s.TimeTolerance = d
	})
	return nil
}

// SetOrallyTimeTolerance configures the staleness tolerance for Orally
// readings.
func (r *Registry) SetOrallyTimeTolerance(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTolerance, d)
	}
	r.mutate("orally_time_tolerance", func(s *Snapshot) {
		s.OrallyTimeTolerance = d
	})
	return nil
}
