// Package api provides the HTTP endpoints of the price oracle service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/primex-finance/price-oracle-go/pkg/logging"
	"github.com/primex-finance/price-oracle-go/pkg/metrics"
	"github.com/primex-finance/price-oracle-go/pkg/oracle"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/pricedrop"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/route"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/sources"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
	"github.com/primex-finance/price-oracle-go/pkg/server/feedstore"
)

// Server represents the HTTP API server.
type Server struct {
	addr       string
	adminToken string
	oracle     *oracle.PriceOracle
	guard      *pricedrop.Guard
	registry   *registry.Registry
	store      *feedstore.Store
	server     *http.Server
	logger     *logging.Logger
}

// NewServer creates a new HTTP API server.
func NewServer(addr, adminToken string, po *oracle.PriceOracle, guard *pricedrop.Guard, reg *registry.Registry, store *feedstore.Store, logger *logging.Logger) *Server {
	return &Server{
		addr:       addr,
		adminToken: adminToken,
		oracle:     po,
		guard:      guard,
		registry:   reg,
		store:      store,
		logger:     logger,
	}
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/rate", s.handleRate)
	mux.HandleFunc("/v1/pricedrop", s.handlePriceDrop)
	mux.HandleFunc("/v1/admin/", s.withAdminAuth(s.handleAdmin))

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.logger.Info("Stopping HTTP server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleHealth handles /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RecordHTTPRequest("/health", "200", time.Since(start))
	}()

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleRate handles /v1/rate?from=&to=&route=0x...
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		metrics.RecordHTTPRequest("/v1/rate", status, time.Since(start))
	}()

	from, err := parseAddress(r.URL.Query().Get("from"))
	if err != nil {
		status = s.sendError(w, http.StatusBadRequest, err)
		return
	}
	to, err := parseAddress(r.URL.Query().Get("to"))
	if err != nil {
		status = s.sendError(w, http.StatusBadRequest, err)
		return
	}
	routeData, err := hexutil.Decode(r.URL.Query().Get("route"))
	if err != nil {
		status = s.sendError(w, http.StatusBadRequest, fmt.Errorf("route: %w", err))
		return
	}

	rate, err := s.oracle.GetExchangeRate(from, to, routeData)
	if err != nil {
		status = s.sendError(w, statusForError(err), err)
		return
	}

	s.sendJSON(w, map[string]string{
		"from":     from.Hex(),
		"to":       to.Hex(),
		"rate":     wad.ToDecimal(rate).String(),
		"rate_wad": rate.String(),
	})
}

// handlePriceDrop handles /v1/pricedrop?a=&b=
func (s *Server) handlePriceDrop(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		metrics.RecordHTTPRequest("/v1/pricedrop", status, time.Since(start))
	}()

	a, err := parseAddress(r.URL.Query().Get("a"))
	if err != nil {
		status = s.sendError(w, http.StatusBadRequest, err)
		return
	}
	b, err := parseAddress(r.URL.Query().Get("b"))
	if err != nil {
		status = s.sendError(w, http.StatusBadRequest, err)
		return
	}

	drop, err := s.guard.GetPairPriceDrop(a, b)
	if err != nil {
		status = s.sendError(w, statusForError(err), err)
		return
	}

	s.sendJSON(w, map[string]string{
		"a":        a.Hex(),
		"b":        b.Hex(),
		"drop":     wad.ToDecimal(drop).String(),
		"drop_wad": drop.String(),
	})
}

// withAdminAuth rejects admin requests without the configured bearer token.
// Token distribution and rotation are the authorization collaborator's
// concern.
func (s *Server) withAdminAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" || r.Header.Get("Authorization") != "Bearer "+s.adminToken {
			_ = s.sendError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next(w, r)
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", registry.ErrAssetAddressNotSupported, s)
	}
	return common.HexToAddress(s), nil
}

// statusForError maps engine failures onto HTTP statuses. No failure ever
// yields a substitute price.
func statusForError(err error) int {
	switch {
	case errors.Is(err, sources.ErrNoPriceFeedFound),
		errors.Is(err, sources.ErrNoTokenSymbolFound),
		errors.Is(err, sources.ErrNoTokenPairFound),
		errors.Is(err, sources.ErrNoUnderlyingTokenFound),
		errors.Is(err, pricedrop.ErrNoPriceDropFeedFound):
		return http.StatusNotFound
	case errors.Is(err, sources.ErrPublishTimeExceedsThresholdTime),
		errors.Is(err, sources.ErrZeroExchangeRate),
		errors.Is(err, sources.ErrIncorrectPythPrice),
		errors.Is(err, sources.ErrIncorrectOrallyPrice),
		errors.Is(err, sources.ErrInvalidStorkSignature):
		return http.StatusUnprocessableEntity
	case errors.Is(err, route.ErrInvalidRouteData),
		errors.Is(err, route.ErrWrongOracleRoutesLength),
		errors.Is(err, route.ErrIncorrectRouteSequence),
		errors.Is(err, oracle.ErrIncorrectTokenTo),
		errors.Is(err, oracle.ErrIdenticalTokenAddresses),
		errors.Is(err, oracle.ErrMaxRouteDepthExceeded),
		errors.Is(err, registry.ErrAssetAddressNotSupported),
		errors.Is(err, registry.ErrIdenticalAssetAddresses),
		errors.Is(err, registry.ErrParamsLengthMismatch),
		errors.Is(err, registry.ErrPairPriceDropIsNotCorrect):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err.Error())
	}
}

func (s *Server) sendError(w http.ResponseWriter, code int, err error) string {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
	return strconv.Itoa(code)
}
