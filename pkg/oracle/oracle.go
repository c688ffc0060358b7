// Package oracle composes per-hop source rates into one exchange rate.
package oracle

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primex-finance/price-oracle-go/pkg/logging"
	"github.com/primex-finance/price-oracle-go/pkg/metrics"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/route"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/sources"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// PriceOracle is the engine's public entry point. A query is a pure,
// synchronous computation over one registration snapshot; it performs no
// retries and never substitutes a fallback price.
type PriceOracle struct {
	registry *registry.Registry
	logger   *logging.Logger
	now      func() time.Time
}

// New creates a price oracle over the given registry.
func New(reg *registry.Registry, logger *logging.Logger) *PriceOracle {
	return &PriceOracle{
		registry: reg,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for staleness checks.
func (o *PriceOracle) SetClock(now func() time.Time) {
	o.now = now
}

// GetExchangeRate computes the WAD-scaled rate "units of assetTo per one
// assetFrom" along the caller-supplied route. The whole query reads a
// single registration snapshot, so a concurrent administrative update never
// produces a mixed view.
func (o *PriceOracle) GetExchangeRate(assetFrom, assetTo common.Address, routeData []byte) (*big.Int, error) {
	start := time.Now()
	snap := o.registry.Snapshot()

	rate, err := o.resolve(snap, o.now(), assetFrom, assetTo, routeData, 0)
	metrics.RecordRateQuery(err == nil, time.Since(start))
	if err != nil {
		o.logger.Debug("Exchange rate query failed",
			"from", assetFrom.Hex(), "to", assetTo.Hex(), "error", err.Error())
		return nil, err
	}
	return rate, nil
}

// nestedResolver lets composite-token adapters resolve underlying-asset
// routes against the same snapshot and clock as the outer query.
type nestedResolver struct {
	oracle *PriceOracle
	snap   *registry.Snapshot
	now    time.Time
}

func (n nestedResolver) ResolveRoute(assetFrom, assetTo common.Address, routeData []byte, depth int) (*big.Int, error) {
	return n.oracle.resolve(n.snap, n.now, assetFrom, assetTo, routeData, depth)
}

func (o *PriceOracle) resolve(snap *registry.Snapshot, now time.Time, assetFrom, assetTo common.Address, routeData []byte, depth int) (*big.Int, error) {
	if depth > route.MaxHops {
		return nil, fmt.Errorf("%w: depth %d", ErrMaxRouteDepthExceeded, depth)
	}
	if assetFrom == (common.Address{}) || assetTo == (common.Address{}) {
		return nil, fmt.Errorf("%w: zero asset", registry.ErrAssetAddressNotSupported)
	}
	if assetFrom == assetTo {
		return nil, fmt.Errorf("%w: %s", ErrIdenticalTokenAddresses, assetFrom.Hex())
	}

	hops, err := route.Decode(routeData)
	if err != nil {
		return nil, err
	}
	if err := route.Validate(hops); err != nil {
		return nil, err
	}
	if hops[len(hops)-1].NextAsset != assetTo {
		return nil, fmt.Errorf("%w: route ends at %s, requested %s",
			ErrIncorrectTokenTo, hops[len(hops)-1].NextAsset.Hex(), assetTo.Hex())
	}

	nested := nestedResolver{oracle: o, snap: snap, now: now}
	current := assetFrom
	var composed *big.Int
	for i, hop := range hops {
		rate, err := sources.Resolve(hop.SourceType, snap, sources.Query{
			AssetFrom: current,
			AssetTo:   hop.NextAsset,
			Payload:   hop.Payload,
			Now:       now,
			Depth:     depth,
			Nested:    nested,
		})
		if err != nil {
			metrics.RecordSourceError(hop.SourceType.String())
			return nil, fmt.Errorf("hop %d (%s): %w", i, hop.SourceType, err)
		}
		if composed == nil {
			composed = rate
		} else {
			composed = wad.Mul(composed, rate)
		}
		current = hop.NextAsset
	}
	return composed, nil
}
