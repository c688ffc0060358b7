package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Validate checks the structural validity of the configuration: every
// address must be hex, every price-drop fraction must parse as a decimal.
// Semantic validation (pair identity, drop bounds) happens in the registry
// setters when the snapshot is bootstrapped.
func (c *Config) Validate() error {
	for i, r := range c.Registrations.Chainlink {
		if err := validateAddress(r.Asset); err != nil {
			return fmt.Errorf("chainlink[%d]: %w", i, err)
		}
		if r.Feed == "" {
			return fmt.Errorf("chainlink[%d]: %w", i, ErrMissingFeedName)
		}
	}
	for i, r := range c.Registrations.Pyth {
		if err := validateAddress(r.Asset); err != nil {
			return fmt.Errorf("pyth[%d]: %w", i, err)
		}
	}
	for i, r := range c.Registrations.Orally {
		if err := validatePairStrings(r.Base, r.Quote); err != nil {
			return fmt.Errorf("orally[%d]: %w", i, err)
		}
		if r.Symbol == "" {
			return fmt.Errorf("orally[%d]: %w", i, ErrMissingSymbol)
		}
	}
	for i, r := range c.Registrations.Stork {
		if err := validatePairStrings(r.Base, r.Quote); err != nil {
			return fmt.Errorf("stork[%d]: %w", i, err)
		}
		if r.Symbol == "" {
			return fmt.Errorf("stork[%d]: %w", i, ErrMissingSymbol)
		}
	}
	for i, r := range c.Registrations.Supra {
		if err := validatePairStrings(r.Base, r.Quote); err != nil {
			return fmt.Errorf("supra[%d]: %w", i, err)
		}
	}
	for i, r := range c.Registrations.TrustedPairs {
		if err := validatePairStrings(r.A, r.B); err != nil {
			return fmt.Errorf("trusted_pairs[%d]: %w", i, err)
		}
	}
	for i, r := range c.Registrations.CurveLPs {
		if err := validateAddress(r.LP); err != nil {
			return fmt.Errorf("curve_lps[%d]: %w", i, err)
		}
		for j, u := range r.Underlyings {
			if err := validateAddress(u); err != nil {
				return fmt.Errorf("curve_lps[%d].underlyings[%d]: %w", i, j, err)
			}
		}
	}
	for i, r := range c.Registrations.Vaults {
		if err := validatePairStrings(r.Share, r.Underlying); err != nil {
			return fmt.Errorf("vaults[%d]: %w", i, err)
		}
	}
	for i, a := range c.Registrations.UniswapV2LPs {
		if err := validateAddress(a); err != nil {
			return fmt.Errorf("uniswap_v2_lps[%d]: %w", i, err)
		}
	}
	for i, r := range c.Registrations.PriceDrops {
		if err := validatePairStrings(r.Base, r.Quote); err != nil {
			return fmt.Errorf("price_drops[%d]: %w", i, err)
		}
		if _, err := decimal.NewFromString(r.Drop); err != nil {
			return fmt.Errorf("price_drops[%d]: %w: %v", i, ErrInvalidFraction, err)
		}
	}
	if c.Oracle.StorkPublisher != "" {
		if err := validateAddress(c.Oracle.StorkPublisher); err != nil {
			return fmt.Errorf("oracle.stork_publisher: %w", err)
		}
	}
	return nil
}

func validateAddress(s string) error {
	if !common.IsHexAddress(s) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return nil
}

func validatePairStrings(a, b string) error {
	if err := validateAddress(a); err != nil {
		return err
	}
	return validateAddress(b)
}
