package sources

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

var (
	tokenA  = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	tokenB  = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	tokenC  = common.HexToAddress("0x00000000000000000000000000000000000000c3")
	lpToken = common.HexToAddress("0x00000000000000000000000000000000000000d4")

	// A fixed clock keeps freshness checks deterministic.
	testNow = time.Unix(1_700_000_000, 0)
)

func wadInt(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), wad.Wad)
}

func newSnapshot() *registry.Snapshot {
	return &registry.Snapshot{
		ChainlinkFeeds:      make(map[common.Address]registry.ChainlinkFeed),
		PythPriceIDs:        make(map[common.Address]common.Hash),
		OrallySymbols:       make(map[registry.Pair]string),
		StorkPairs:          make(map[registry.Pair]string),
		SupraFeedIDs:        make(map[registry.Pair]uint32),
		PoolFeeds:           make(map[uint8]registry.PoolFeed),
		TrustedPairs:        make(map[registry.Pair]bool),
		CurveFeeds:          make(map[uint8]registry.CurveFeed),
		CurveLPUnderlyings:  make(map[common.Address][]common.Address),
		Vaults:              make(map[common.Address]registry.Vault),
		UniswapV2LPs:        make(map[common.Address]bool),
		PairPriceDrops:      make(map[registry.Pair]*big.Int),
		PriceDropFeeds:      make(map[registry.Pair]registry.PriceDropFeed),
		TimeTolerance:       60 * time.Second,
		OrallyTimeTolerance: 60 * time.Second,
	}
}

type stubChainlinkFeed struct {
	price     *big.Int
	decimals  uint8
	updatedAt time.Time
	err       error
}

func (f stubChainlinkFeed) LatestRoundData() (*big.Int, uint8, time.Time, error) {
	return f.price, f.decimals, f.updatedAt, f.err
}

type stubSupraFeed struct {
	round     uint64
	decimals  uint8
	updatedAt time.Time
	price     *big.Int
	err       error
}

func (f stubSupraFeed) GetSvalue(uint32) (uint64, uint8, time.Time, *big.Int, error) {
	return f.round, f.decimals, f.updatedAt, f.price, f.err
}

type stubPoolFeed struct {
	rate *big.Int
	err  error
}

func (f stubPoolFeed) GetExchangeRate(common.Address, common.Address, []byte) (*big.Int, error) {
	return f.rate, f.err
}

type stubCurveFeed struct {
	virtualPrice *big.Int
	err          error
}

func (f stubCurveFeed) GetVirtualPrice(common.Address) (*big.Int, error) {
	return f.virtualPrice, f.err
}

type stubVaultReader struct {
	assets *big.Int
	err    error
}

func (f stubVaultReader) ConvertToAssets(*big.Int) (*big.Int, error) {
	return f.assets, f.err
}

type stubLPRateFeed struct {
	rate *big.Int
	err  error
}

func (f stubLPRateFeed) GetLPExchangeRate(common.Address, []byte) (*big.Int, error) {
	return f.rate, f.err
}

// stubResolver serves nested routes from a fixed USD price table.
type stubResolver struct {
	prices map[common.Address]*big.Int
	err    error
}

func (r stubResolver) ResolveRoute(assetFrom, _ common.Address, _ []byte, _ int) (*big.Int, error) {
	if r.err != nil {
		return nil, r.err
	}
	price, ok := r.prices[assetFrom]
	if !ok {
		return nil, ErrNoPriceFeedFound
	}
	return price, nil
}
