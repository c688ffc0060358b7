package registry

import "errors"

var (
	// ErrParamsLengthMismatch indicates batch setter slices of differing lengths.
	ErrParamsLengthMismatch = errors.New("params length mismatch")
	// ErrIdenticalAssetAddresses indicates a pair built from the same asset twice.
	ErrIdenticalAssetAddresses = errors.New("identical asset addresses")
	// ErrAssetAddressNotSupported indicates a zero asset identifier.
	ErrAssetAddressNotSupported = errors.New("asset address not supported")
	// ErrPairPriceDropIsNotCorrect indicates a configured drop of 0 or >= WAD.
	ErrPairPriceDropIsNotCorrect = errors.New("pair price drop is not correct")
	// ErrNilFeed indicates a registration carrying no feed handle.
	ErrNilFeed = errors.New("nil feed handle")
	// ErrInvalidTolerance indicates a non-positive staleness tolerance.
	ErrInvalidTolerance = errors.New("invalid time tolerance")
)
