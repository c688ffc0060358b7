package api

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/primex-finance/price-oracle-go/pkg/metrics"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// Admin surface: feed value pushes for the push families and the
// administrative setters enumerated by the engine contract. Authorization
// is enforced by withAdminAuth; this layer only validates structure.

type chainlinkPush struct {
	Feed     string `json:"feed"`
	Price    string `json:"price"`
	Decimals uint8  `json:"decimals"`
}

type supraPush struct {
	FeedID   uint32 `json:"feed_id"`
	Round    uint64 `json:"round"`
	Price    string `json:"price"`
	Decimals uint8  `json:"decimals"`
}

type poolPush struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rate string `json:"rate_wad"`
}

type tokenValuePush struct {
	Token string `json:"token"`
	Value string `json:"value_wad"`
}

type pairValuePush struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
	Value string `json:"value"`
}

type vaultPush struct {
	Share  string `json:"share"`
	Assets string `json:"assets"`
	Shares string `json:"shares"`
}

type tolerancePush struct {
	Tolerance string `json:"tolerance"`
}

// handleAdmin routes /v1/admin/* requests.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		metrics.RecordHTTPRequest(r.URL.Path, status, time.Since(start))
	}()

	if r.Method != http.MethodPost {
		status = s.sendError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	var err error
	switch r.URL.Path {
	case "/v1/admin/feeds/chainlink":
		err = s.adminChainlink(r)
	case "/v1/admin/feeds/supra":
		err = s.adminSupra(r)
	case "/v1/admin/feeds/pool":
		err = s.adminPool(r)
	case "/v1/admin/feeds/virtual-price":
		err = s.adminVirtualPrice(r)
	case "/v1/admin/feeds/lp-rate":
		err = s.adminLPRate(r)
	case "/v1/admin/feeds/vault":
		err = s.adminVault(r)
	case "/v1/admin/feeds/price-drop":
		err = s.adminPriceDropValue(r)
	case "/v1/admin/pricedrop":
		err = s.adminPairPriceDrop(r)
	case "/v1/admin/pricedrop-feeds":
		err = s.adminPriceDropFeeds(r)
	case "/v1/admin/tolerance":
		err = s.adminTolerance(r, s.registry.SetTimeTolerance)
	case "/v1/admin/orally-tolerance":
		err = s.adminTolerance(r, s.registry.SetOrallyTimeTolerance)
	default:
		status = s.sendError(w, http.StatusNotFound, fmt.Errorf("unknown admin endpoint %s", r.URL.Path))
		return
	}

	if err != nil {
		status = s.sendError(w, statusForError(err), err)
		return
	}
	s.sendJSON(w, map[string]string{"status": "ok"})
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func (s *Server) adminChainlink(r *http.Request) error {
	var req chainlinkPush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	price, err := parseBig(req.Price)
	if err != nil {
		return err
	}
	s.store.SetChainlinkValue(req.Feed, price, req.Decimals, time.Now())
	return nil
}

func (s *Server) adminSupra(r *http.Request) error {
	var req supraPush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	price, err := parseBig(req.Price)
	if err != nil {
		return err
	}
	s.store.SetSupraValue(req.FeedID, req.Round, price, req.Decimals, time.Now())
	return nil
}

func (s *Server) adminPool(r *http.Request) error {
	var req poolPush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	from, err := parseAddress(req.From)
	if err != nil {
		return err
	}
	to, err := parseAddress(req.To)
	if err != nil {
		return err
	}
	rate, err := parseBig(req.Rate)
	if err != nil {
		return err
	}
	s.store.SetPoolRate(from, to, rate)
	return nil
}

func (s *Server) adminVirtualPrice(r *http.Request) error {
	var req tokenValuePush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	token, err := parseAddress(req.Token)
	if err != nil {
		return err
	}
	value, err := parseBig(req.Value)
	if err != nil {
		return err
	}
	s.store.SetVirtualPrice(token, value)
	return nil
}

func (s *Server) adminLPRate(r *http.Request) error {
	var req tokenValuePush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	token, err := parseAddress(req.Token)
	if err != nil {
		return err
	}
	value, err := parseBig(req.Value)
	if err != nil {
		return err
	}
	s.store.SetLPRate(token, value)
	return nil
}

func (s *Server) adminVault(r *http.Request) error {
	var req vaultPush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	share, err := parseAddress(req.Share)
	if err != nil {
		return err
	}
	assets, err := parseBig(req.Assets)
	if err != nil {
		return err
	}
	shares, err := parseBig(req.Shares)
	if err != nil {
		return err
	}
	s.store.SetVaultConversion(share, assets, shares)
	return nil
}

// adminPriceDropValue pushes a feed-derived price-drop observation.
func (s *Server) adminPriceDropValue(r *http.Request) error {
	var req pairValuePush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	base, quote, value, err := parsePairFraction(req)
	if err != nil {
		return err
	}
	s.store.SetPriceDrop(base, quote, value)
	return nil
}

// adminPairPriceDrop sets the administrator floor for a pair.
func (s *Server) adminPairPriceDrop(r *http.Request) error {
	var req pairValuePush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	base, quote, value, err := parsePairFraction(req)
	if err != nil {
		return err
	}
	return s.registry.SetPairPriceDrop(base, quote, value)
}

// adminPriceDropFeeds binds the store's price-drop feed to pairs.
func (s *Server) adminPriceDropFeeds(r *http.Request) error {
	var req struct {
		Bases  []string `json:"bases"`
		Quotes []string `json:"quotes"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if len(req.Bases) != len(req.Quotes) {
		return fmt.Errorf("%w: %d bases, %d quotes", registry.ErrParamsLengthMismatch, len(req.Bases), len(req.Quotes))
	}
	baseAddrs := make([]common.Address, 0, len(req.Bases))
	quoteAddrs := make([]common.Address, 0, len(req.Quotes))
	feeds := make([]registry.PriceDropFeed, 0, len(req.Bases))
	for i := range req.Bases {
		b, err := parseAddress(req.Bases[i])
		if err != nil {
			return err
		}
		q, err := parseAddress(req.Quotes[i])
		if err != nil {
			return err
		}
		baseAddrs = append(baseAddrs, b)
		quoteAddrs = append(quoteAddrs, q)
		feeds = append(feeds, s.store.PriceDropFeed())
	}
	return s.registry.UpdatePriceDropFeeds(baseAddrs, quoteAddrs, feeds)
}

func (s *Server) adminTolerance(r *http.Request, set func(time.Duration) error) error {
	var req tolerancePush
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	d, err := time.ParseDuration(req.Tolerance)
	if err != nil {
		return fmt.Errorf("invalid tolerance %q: %w", req.Tolerance, err)
	}
	return set(d)
}

func parsePairFraction(req pairValuePush) (base, quote common.Address, value *big.Int, err error) {
	base, err = parseAddress(req.Base)
	if err != nil {
		return
	}
	quote, err = parseAddress(req.Quote)
	if err != nil {
		return
	}
	frac, derr := decimal.NewFromString(req.Value)
	if derr != nil {
		err = fmt.Errorf("invalid fraction %q: %w", req.Value, derr)
		return
	}
	value = wad.FromDecimal(frac)
	return
}
