package route

import "errors"

var (
	// ErrInvalidRouteData indicates route bytes that do not decode.
	ErrInvalidRouteData = errors.New("invalid route data")
	// ErrWrongOracleRoutesLength indicates a hop count outside 1..MaxHops.
	ErrWrongOracleRoutesLength = errors.New("wrong oracle routes length")
	// ErrIncorrectRouteSequence indicates a violated hop-ordering rule.
	ErrIncorrectRouteSequence = errors.New("incorrect route sequence")
)
