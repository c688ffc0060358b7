package sources

import (
	"fmt"
	"math/big"
	"time"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// maxPythExpoMagnitude bounds the accepted Pyth exponent: readings with
// expo outside [-255, 0] cannot be normalized into 18 decimals.
const maxPythExpoMagnitude = 255

// resolvePyth prices an asset against the reference currency from a
// caller-supplied Pyth reading. The registered pair id gates which assets
// may be priced this way; the reading itself travels in the hop payload.
func resolvePyth(snap *registry.Snapshot, q Query) (*big.Int, error) {
	subject, inverse, ok := orientUSD(q.AssetFrom, q.AssetTo)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIncorrectPythRoute, q.AssetFrom.Hex(), q.AssetTo.Hex())
	}

	if _, ok := snap.PythPriceIDs[subject]; !ok {
		return nil, fmt.Errorf("%w: pyth price id for %s", ErrNoPriceFeedFound, subject.Hex())
	}

	reading, err := decodePythPayload(q.Payload)
	if err != nil {
		return nil, err
	}
	if reading.Expo > 0 || reading.Expo < -maxPythExpoMagnitude {
		return nil, fmt.Errorf("%w: expo %d", ErrIncorrectPythPrice, reading.Expo)
	}
	if reading.Price <= 0 {
		return nil, fmt.Errorf("%w: price %d", ErrIncorrectPythPrice, reading.Price)
	}
	published := time.Unix(int64(reading.PublishTime), 0)
	if err := checkFresh(q.Now, published, snap.TimeTolerance); err != nil {
		return nil, err
	}

	rate := wad.Rescale(big.NewInt(reading.Price), uint8(-reading.Expo), wad.Decimals)
	if inverse {
		rate = wad.Reciprocal(rate)
	}
	return rate, nil
}
