package jsonrpc

import (
	"context"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/minerva-id/SANCTUARY/dilithium"
	"github.com/minerva-id/SANCTUARY/errors"
	"github.com/minerva-id/SANCTUARY/fixture"
	"github.com/minerva-id/SANCTUARY/jsonx"
	"github.com/minerva-id/SANCTUARY/logx"
	"github.com/minerva-id/SANCTUARY/ratelimit"
	"github.com/minerva-id/SANCTUARY/store"
	"github.com/minerva-id/SANCTUARY/types"
	"github.com/minerva-id/SANCTUARY/verifier"
)

// JSON-RPC error codes carried on the wire. The three-tier distinction of
// the core verifier survives here: shape, structure, and system errors
// each get their own code, and a forged-but-well-formed signature is
// never an error at all.
const (
	codeInternal             = -32000
	codeInvalidRequest       = -32001
	codeInvalidHex           = -32002
	codeInvalidPublicKeySize = -32003
	codeInvalidSignatureSize = -32004
	codeKeyDeserialization   = -32005
	codeRateLimited          = -32029
)

func codeFor(code errors.VerifierErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidRequest:
		return codeInvalidRequest
	case errors.ErrCodeInvalidHex:
		return codeInvalidHex
	case errors.ErrCodeInvalidPublicKeySize, errors.ErrCodeInvalidSecretKeySize:
		return codeInvalidPublicKeySize
	case errors.ErrCodeInvalidSignatureSize:
		return codeInvalidSignatureSize
	case errors.ErrCodeKeyDeserialization:
		return codeKeyDeserialization
	case errors.ErrCodeRateLimited:
		return codeRateLimited
	default:
		return codeInternal
	}
}

func toJRPC2Error(e *errors.VerifierError) error {
	if e == nil {
		return nil
	}
	return jrpc2.Errorf(jrpc2.Code(codeFor(e.Code)), "%s", e.Message).WithData(e)
}

// --- Params/Results ---

type verifyParams struct {
	PublicKey string `json:"public_key"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

type verifyTxParams struct {
	PublicKey string            `json:"public_key"`
	Tx        types.Transaction `json:"tx"`
	Signature string            `json:"signature"`
}

type encodeTxParams struct {
	Tx types.Transaction `json:"tx"`
}

type encodeTxResponse struct {
	Encoded string `json:"encoded"`
	TxHash  string `json:"tx_hash"`
}

type getFixtureParams struct {
	Name string `json:"name"`
}

type listFixturesResponse struct {
	TotalCount int                `json:"total_count"`
	Fixtures   []*fixture.Fixture `json:"fixtures"`
}

type healthCheckResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	PublicKeySize int    `json:"public_key_size"`
	SignatureSize int    `json:"signature_size"`
	Uptime        int64  `json:"uptime"`
}

// --- Server ---

// Server mirrors the on-chain verifier over JSON-RPC so external
// implementations can cross-check byte-level agreement before deploying.
type Server struct {
	addr       string
	fixtures   store.FixtureStore
	limiter    *ratelimit.RateLimiter
	corsConfig CORSConfig
	startedAt  time.Time
	httpServer *http.Server
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// NewServer creates a verification server. fixtures may be nil, in which
// case the fixture.* methods report not found.
func NewServer(addr string, fixtures store.FixtureStore, limiter *ratelimit.RateLimiter) *Server {
	if limiter == nil {
		limiter = ratelimit.NewRateLimiter(nil)
	}
	return &Server{
		addr:     addr,
		fixtures: fixtures,
		limiter:  limiter,
	}
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(config CORSConfig) {
	s.corsConfig = config
}

// Start serves the method map over HTTP in a background goroutine.
func (s *Server) Start() {
	s.startedAt = time.Now()
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if !s.limiter.Allow(extractClientIPFromRequest(r)) {
			writeRateLimited(w)
			return
		}
		jh.ServeHTTP(w, r)
	})

	mux := http.NewServeMux()
	mux.Handle("/", h)
	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		logx.Info("JSONRPC", "Verification service listening on ", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("JSONRPC", "Server stopped:", err)
		}
	}()
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.limiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodVerify: handler.New(func(ctx context.Context, p verifyParams) (*verifyResponse, error) {
			res, err := s.rpcVerify(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodVerifyTx: handler.New(func(ctx context.Context, p verifyTxParams) (*verifyResponse, error) {
			res, err := s.rpcVerifyTx(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodEncodeTx: handler.New(func(ctx context.Context, p encodeTxParams) (*encodeTxResponse, error) {
			res, err := s.rpcEncodeTx(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodFixtureGet: handler.New(func(ctx context.Context, p getFixtureParams) (*fixture.Fixture, error) {
			res, err := s.rpcGetFixture(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodFixtureList: handler.New(func(ctx context.Context) (*listFixturesResponse, error) {
			res, err := s.rpcListFixtures()
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodHealthCheck: handler.New(func(ctx context.Context) (*healthCheckResponse, error) {
			return &healthCheckResponse{
				Status:        "serving",
				Version:       Version,
				PublicKeySize: dilithium.PublicKeySize,
				SignatureSize: dilithium.SignatureSize,
				Uptime:        int64(time.Since(s.startedAt).Seconds()),
			}, nil
		}),
	}
}

func (s *Server) rpcVerify(p verifyParams) (*verifyResponse, *errors.VerifierError) {
	pk, sig, vErr := decodeVerifyFields(p.PublicKey, p.Signature)
	if vErr != nil {
		return nil, vErr
	}
	message, err := hex.DecodeString(p.Message)
	if err != nil {
		return nil, errors.NewVerifierError(errors.ErrCodeInvalidHex, "message: "+errors.ErrMsgInvalidHex)
	}

	valid, err := verifier.VerifyTransaction(pk, message, sig)
	if err != nil {
		return nil, errors.FromCore(err)
	}
	return &verifyResponse{Valid: valid}, nil
}

func (s *Server) rpcVerifyTx(p verifyTxParams) (*verifyResponse, *errors.VerifierError) {
	pk, sig, vErr := decodeVerifyFields(p.PublicKey, p.Signature)
	if vErr != nil {
		return nil, vErr
	}

	valid, err := verifier.VerifySignedTransaction(pk, &p.Tx, sig)
	if err != nil {
		return nil, errors.FromCore(err)
	}
	return &verifyResponse{Valid: valid}, nil
}

func (s *Server) rpcEncodeTx(p encodeTxParams) (*encodeTxResponse, *errors.VerifierError) {
	encoded, err := p.Tx.Encode()
	if err != nil {
		return nil, errors.NewVerifierError(errors.ErrCodeInvalidRequest, err.Error())
	}
	txHash, err := p.Tx.Hash()
	if err != nil {
		return nil, errors.NewVerifierError(errors.ErrCodeInternal, err.Error())
	}
	return &encodeTxResponse{
		Encoded: hex.EncodeToString(encoded),
		TxHash:  txHash,
	}, nil
}

func (s *Server) rpcGetFixture(p getFixtureParams) (*fixture.Fixture, *errors.VerifierError) {
	if s.fixtures == nil {
		return nil, errors.NewVerifierError(errors.ErrCodeInvalidRequest, "fixture store not configured")
	}
	f, err := s.fixtures.GetByName(p.Name)
	if err != nil {
		return nil, errors.NewVerifierError(errors.ErrCodeInternal, err.Error())
	}
	if f == nil {
		return nil, errors.NewVerifierError(errors.ErrCodeInvalidRequest, "fixture not found: "+p.Name)
	}
	return f, nil
}

func (s *Server) rpcListFixtures() (*listFixturesResponse, *errors.VerifierError) {
	if s.fixtures == nil {
		return &listFixturesResponse{}, nil
	}
	fs, err := s.fixtures.List()
	if err != nil {
		return nil, errors.NewVerifierError(errors.ErrCodeInternal, err.Error())
	}
	return &listFixturesResponse{TotalCount: len(fs), Fixtures: fs}, nil
}

// decodeVerifyFields hex-decodes the public key and signature and applies
// the size checks before anything cryptographic happens. Wrong-size
// inputs are rejected here, mirroring the contract's calldata guards.
func decodeVerifyFields(pkHex, sigHex string) ([]byte, []byte, *errors.VerifierError) {
	pk, err := hex.DecodeString(pkHex)
	if err != nil {
		return nil, nil, errors.NewVerifierError(errors.ErrCodeInvalidHex, "public_key: "+errors.ErrMsgInvalidHex)
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return nil, nil, errors.NewVerifierError(errors.ErrCodeInvalidHex, "signature: "+errors.ErrMsgInvalidHex)
	}
	if len(pk) != dilithium.PublicKeySize {
		return nil, nil, errors.NewVerifierError(errors.ErrCodeInvalidPublicKeySize, errors.ErrMsgInvalidPublicKeySize)
	}
	if len(sig) != dilithium.SignatureSize {
		return nil, nil, errors.NewVerifierError(errors.ErrCodeInvalidSignatureSize, errors.ErrMsgInvalidSignatureSize)
	}
	return pk, sig, nil
}

func writeRateLimited(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	body, _ := jsonx.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      nil,
		"error": map[string]interface{}{
			"code":    codeRateLimited,
			"message": errors.ErrMsgRateLimited,
		},
	})
	_, _ = w.Write(body)
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsConfig.AllowedOrigins) == 0 {
		return
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.corsConfig.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			break
		}
	}
	if len(s.corsConfig.AllowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", joinHeader(s.corsConfig.AllowedMethods))
	}
	if len(s.corsConfig.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", joinHeader(s.corsConfig.AllowedHeaders))
	}
}
