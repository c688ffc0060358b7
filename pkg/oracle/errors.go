package oracle

import "errors"

var (
	// ErrIdenticalTokenAddresses indicates a query for an asset against itself.
	ErrIdenticalTokenAddresses = errors.New("identical token addresses")
	// ErrIncorrectTokenTo indicates a route whose final hop does not end at the requested asset.
	ErrIncorrectTokenTo = errors.New("incorrect token to")
	// ErrMaxRouteDepthExceeded indicates nested routes recursing past the hop cap.
	ErrMaxRouteDepthExceeded = errors.New("max route depth exceeded")
)
