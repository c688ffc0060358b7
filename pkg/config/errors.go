package config

import "errors"

var (
	// ErrInvalidAddress indicates a value that is not a hex asset address.
	ErrInvalidAddress = errors.New("invalid asset address")
	// ErrMissingFeedName indicates a chainlink registration without a feed name.
	ErrMissingFeedName = errors.New("missing feed name")
	// ErrMissingSymbol indicates a pair registration without a symbol.
	ErrMissingSymbol = errors.New("missing pair symbol")
	// ErrInvalidFraction indicates a price-drop value that does not parse as a decimal.
	ErrInvalidFraction = errors.New("invalid decimal fraction")
)
