// Package server wires the engine, registry and feed store into a running
// service.
package server

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/primex-finance/price-oracle-go/pkg/config"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
	"github.com/primex-finance/price-oracle-go/pkg/server/feedstore"
)

// Bootstrap loads the configured registrations into the registry, binding
// push-family feed handles to the feed store.
func Bootstrap(cfg *config.Config, reg *registry.Registry, store *feedstore.Store) error {
	if d := cfg.Oracle.TimeTolerance.ToDuration(); d > 0 {
		if err := reg.SetTimeTolerance(d); err != nil {
			return err
		}
	}
	if d := cfg.Oracle.OrallyTimeTolerance.ToDuration(); d > 0 {
		if err := reg.SetOrallyTimeTolerance(d); err != nil {
			return err
		}
	}
	if cfg.Oracle.StorkPublisher != "" {
		reg.SetStorkPublisher(common.HexToAddress(cfg.Oracle.StorkPublisher))
	}

	if len(cfg.Registrations.Chainlink) > 0 {
		assets := make([]common.Address, 0, len(cfg.Registrations.Chainlink))
		feeds := make([]registry.ChainlinkFeed, 0, len(cfg.Registrations.Chainlink))
		for _, r := range cfg.Registrations.Chainlink {
			assets = append(assets, common.HexToAddress(r.Asset))
			feeds = append(feeds, store.ChainlinkFeed(r.Feed))
		}
		if err := reg.SetChainlinkFeeds(assets, feeds); err != nil {
			return fmt.Errorf("chainlink registrations: %w", err)
		}
	}

	if len(cfg.Registrations.Pyth) > 0 {
		assets := make([]common.Address, 0, len(cfg.Registrations.Pyth))
		ids := make([]common.Hash, 0, len(cfg.Registrations.Pyth))
		for _, r := range cfg.Registrations.Pyth {
			assets = append(assets, common.HexToAddress(r.Asset))
			ids = append(ids, common.HexToHash(r.PriceID))
		}
		if err := reg.SetPythPriceIDs(assets, ids); err != nil {
			return fmt.Errorf("pyth registrations: %w", err)
		}
	}

	for _, r := range cfg.Registrations.Orally {
		if err := reg.SetOrallySymbol(common.HexToAddress(r.Base), common.HexToAddress(r.Quote), r.Symbol); err != nil {
			return fmt.Errorf("orally registration %s: %w", r.Symbol, err)
		}
	}
	for _, r := range cfg.Registrations.Stork {
		if err := reg.SetStorkPair(common.HexToAddress(r.Base), common.HexToAddress(r.Quote), r.Symbol); err != nil {
			return fmt.Errorf("stork registration %s: %w", r.Symbol, err)
		}
	}

	reg.SetSupraStorage(store.SupraStorage())
	for _, r := range cfg.Registrations.Supra {
		if err := reg.SetSupraFeedID(common.HexToAddress(r.Base), common.HexToAddress(r.Quote), r.FeedID); err != nil {
			return fmt.Errorf("supra registration %d: %w", r.FeedID, err)
		}
	}

	for _, kind := range cfg.Registrations.PoolKinds {
		if err := reg.SetPoolFeed(kind, store.PoolFeed()); err != nil {
			return fmt.Errorf("pool kind %d: %w", kind, err)
		}
	}
	for _, p := range cfg.Registrations.TrustedPairs {
		if err := reg.SetTrustedPair(common.HexToAddress(p.A), common.HexToAddress(p.B), true); err != nil {
			return fmt.Errorf("trusted pair %s/%s: %w", p.A, p.B, err)
		}
	}

	for _, kind := range cfg.Registrations.CurveKinds {
		if err := reg.SetCurveFeed(kind, store.CurveFeed()); err != nil {
			return fmt.Errorf("curve kind %d: %w", kind, err)
		}
	}
	for _, r := range cfg.Registrations.CurveLPs {
		underlyings := make([]common.Address, 0, len(r.Underlyings))
		for _, u := range r.Underlyings {
			underlyings = append(underlyings, common.HexToAddress(u))
		}
		if err := reg.SetCurveLPUnderlyings(common.HexToAddress(r.LP), underlyings); err != nil {
			return fmt.Errorf("curve lp %s: %w", r.LP, err)
		}
	}

	for _, r := range cfg.Registrations.Vaults {
		share := common.HexToAddress(r.Share)
		vault := registry.Vault{
			Underlying:         common.HexToAddress(r.Underlying),
			ShareDecimals:      r.ShareDecimals,
			UnderlyingDecimals: r.UnderlyingDecimals,
			Reader:             store.VaultReader(share),
		}
		if err := reg.SetVault(share, vault); err != nil {
			return fmt.Errorf("vault %s: %w", r.Share, err)
		}
	}

	reg.SetLPRateFeed(store.LPRateFeed())
	for _, a := range cfg.Registrations.UniswapV2LPs {
		if err := reg.SetUniswapV2LP(common.HexToAddress(a), true); err != nil {
			return fmt.Errorf("uniswap v2 lp %s: %w", a, err)
		}
	}

	for _, r := range cfg.Registrations.PriceDrops {
		frac, err := decimal.NewFromString(r.Drop)
		if err != nil {
			return fmt.Errorf("price drop %s/%s: %w", r.Base, r.Quote, err)
		}
		base := common.HexToAddress(r.Base)
		quote := common.HexToAddress(r.Quote)
		if err := reg.SetPairPriceDrop(base, quote, wad.FromDecimal(frac)); err != nil {
			return fmt.Errorf("price drop %s/%s: %w", r.Base, r.Quote, err)
		}
	}

	return nil
}
