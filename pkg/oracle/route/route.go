// Package route decodes and validates caller-supplied oracle routes.
//
// A route is an ABI-encoded list of hops, (address nextAsset, uint8
// sourceType, bytes payload)[]. Hops are immutable once decoded and live
// for a single query.
package route

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/sources"
)

// MaxHops is the maximum number of hops in a route. Nested routes are
// bounded by the same limit per level.
const MaxHops = 4

// Hop is one step of a route: resolve the current asset against NextAsset
// through the tagged source family, using the family-specific payload.
type Hop struct {
	NextAsset  common.Address
	SourceType sources.SourceType
	Payload    []byte
}

// rawHop mirrors the ABI tuple layout. Field names must match the
// component names below, capitalized.
type rawHop struct {
	NextAsset  common.Address
	SourceType uint8
	Payload    []byte
}

var routeArgs = func() abi.Arguments {
	t, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "nextAsset", Type: "address"},
		{Name: "sourceType", Type: "uint8"},
		{Name: "payload", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Name: "routes", Type: t}}
}()

// Decode unpacks route bytes into an ordered hop list. Malformed input is a
// fatal input error; no partial routes are returned.
func Decode(data []byte) ([]Hop, error) {
	vals, err := routeArgs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRouteData, err)
	}
	raw := abi.ConvertType(vals[0], new([]rawHop)).(*[]rawHop)
	hops := make([]Hop, 0, len(*raw))
	for _, h := range *raw {
		hops = append(hops, Hop{
			NextAsset:  h.NextAsset,
			SourceType: sources.SourceType(h.SourceType),
			Payload:    h.Payload,
		})
	}
	return hops, nil
}

// Encode packs a hop list into route bytes. It is the inverse of Decode and
// is what callers use to build routeData.
func Encode(hops []Hop) ([]byte, error) {
	raw := make([]rawHop, 0, len(hops))
	for _, h := range hops {
		raw = append(raw, rawHop{
			NextAsset:  h.NextAsset,
			SourceType: uint8(h.SourceType),
			Payload:    h.Payload,
		})
	}
	data, err := routeArgs.Pack(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRouteData, err)
	}
	return data, nil
}

// Validate enforces the demonstrated route-shape rules: 1..MaxHops hops,
// a known source family per hop, and no two consecutive pool-derived hops.
// Final-target equality against the requested asset is the composer's
// responsibility.
func Validate(hops []Hop) error {
	if len(hops) == 0 || len(hops) > MaxHops {
		return fmt.Errorf("%w: %d hops", ErrWrongOracleRoutesLength, len(hops))
	}
	for i, h := range hops {
		if !h.SourceType.Valid() {
			return fmt.Errorf("%w: hop %d tag %d", ErrIncorrectRouteSequence, i, h.SourceType)
		}
		if i > 0 && h.SourceType.PoolDerived() && hops[i-1].SourceType.PoolDerived() {
			return fmt.Errorf("%w: consecutive pool-derived hops at %d", ErrIncorrectRouteSequence, i)
		}
	}
	return nil
}
