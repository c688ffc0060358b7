package sources

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Payload codecs. Pull-feed readings arrive as ABI-encoded bytes inside the
// hop; the Encode* functions are the caller-side counterparts and are used
// by tests and API clients to build payloads.

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(err)
	}
	return typ
}

var (
	pythPayloadArgs = abi.Arguments{
		{Name: "price", Type: mustType("int64", nil)},
		{Name: "expo", Type: mustType("int32", nil)},
		{Name: "publishTime", Type: mustType("uint64", nil)},
	}
	orallyPayloadArgs = abi.Arguments{
		{Name: "price", Type: mustType("uint256", nil)},
		{Name: "decimals", Type: mustType("uint8", nil)},
		{Name: "timestamp", Type: mustType("uint64", nil)},
	}
	storkPayloadArgs = abi.Arguments{
		{Name: "timestamp", Type: mustType("uint64", nil)},
		{Name: "price", Type: mustType("uint256", nil)},
		{Name: "r", Type: mustType("bytes32", nil)},
		{Name: "s", Type: mustType("bytes32", nil)},
		{Name: "v", Type: mustType("uint8", nil)},
	}
	poolPayloadArgs = abi.Arguments{
		{Name: "kind", Type: mustType("uint8", nil)},
		{Name: "data", Type: mustType("bytes", nil)},
	}
	curvePayloadArgs = abi.Arguments{
		{Name: "kind", Type: mustType("uint8", nil)},
		{Name: "routes", Type: mustType("bytes[]", nil)},
	}
)

// PythReading is a caller-supplied signed Pyth price.
type PythReading struct {
	Price       int64
	Expo        int32
	PublishTime uint64
}

// EncodePythPayload packs a Pyth reading into hop payload bytes.
func EncodePythPayload(r PythReading) ([]byte, error) {
	return pythPayloadArgs.Pack(r.Price, r.Expo, r.PublishTime)
}

func decodePythPayload(data []byte) (PythReading, error) {
	vals, err := pythPayloadArgs.Unpack(data)
	if err != nil {
		return PythReading{}, fmt.Errorf("%w: pyth: %v", ErrInvalidPayload, err)
	}
	return PythReading{
		Price:       vals[0].(int64),
		Expo:        vals[1].(int32),
		PublishTime: vals[2].(uint64),
	}, nil
}

// OrallyReading is a caller-supplied symbol-keyed price.
type OrallyReading struct {
	Price     *big.Int
	Decimals  uint8
	Timestamp uint64
}

// EncodeOrallyPayload packs an Orally reading into hop payload bytes.
func EncodeOrallyPayload(r OrallyReading) ([]byte, error) {
	return orallyPayloadArgs.Pack(r.Price, r.Decimals, r.Timestamp)
}

func decodeOrallyPayload(data []byte) (OrallyReading, error) {
	vals, err := orallyPayloadArgs.Unpack(data)
	if err != nil {
		return OrallyReading{}, fmt.Errorf("%w: orally: %v", ErrInvalidPayload, err)
	}
	return OrallyReading{
		Price:     vals[0].(*big.Int),
		Decimals:  vals[1].(uint8),
		Timestamp: vals[2].(uint64),
	}, nil
}

// StorkReading is a caller-supplied signed pair-string price. Price is
// already WAD-scaled.
type StorkReading struct {
	Timestamp uint64
	Price     *big.Int
	R         [32]byte
	S         [32]byte
	V         uint8
}

// EncodeStorkPayload packs a Stork reading into hop payload bytes.
func EncodeStorkPayload(r StorkReading) ([]byte, error) {
	return storkPayloadArgs.Pack(r.Timestamp, r.Price, r.R, r.S, r.V)
}

func decodeStorkPayload(data []byte) (StorkReading, error) {
	vals, err := storkPayloadArgs.Unpack(data)
	if err != nil {
		return StorkReading{}, fmt.Errorf("%w: stork: %v", ErrInvalidPayload, err)
	}
	return StorkReading{
		Timestamp: vals[0].(uint64),
		Price:     vals[1].(*big.Int),
		R:         vals[2].([32]byte),
		S:         vals[3].([32]byte),
		V:         vals[4].(uint8),
	}, nil
}

// EncodePoolPayload packs a pool-derived hop payload: the oracle kind plus
// feed-specific opaque data.
func EncodePoolPayload(kind uint8, data []byte) ([]byte, error) {
	return poolPayloadArgs.Pack(kind, data)
}

func decodePoolPayload(payload []byte) (uint8, []byte, error) {
	vals, err := poolPayloadArgs.Unpack(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: pool: %v", ErrInvalidPayload, err)
	}
	return vals[0].(uint8), vals[1].([]byte), nil
}

// EncodeCurvePayload packs a Curve LP hop payload: the oracle kind plus one
// nested route per underlying asset.
func EncodeCurvePayload(kind uint8, routes [][]byte) ([]byte, error) {
	return curvePayloadArgs.Pack(kind, routes)
}

func decodeCurvePayload(payload []byte) (uint8, [][]byte, error) {
	vals, err := curvePayloadArgs.Unpack(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: curve: %v", ErrIncorrectOracleData, err)
	}
	return vals[0].(uint8), vals[1].([][]byte), nil
}

// checkFresh rejects a reading older than the tolerance. The boundary is
// inclusive: age equal to the tolerance is still fresh.
func checkFresh(now, observed time.Time, tolerance time.Duration) error {
	if age := now.Sub(observed); age > tolerance {
		return fmt.Errorf("%w: age %s, tolerance %s", ErrPublishTimeExceedsThresholdTime, age, tolerance)
	}
	return nil
}
