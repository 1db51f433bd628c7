package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/logging"
)

const maxRequestBytes = 1 << 20

// Server serves the JSON-RPC tool surface over HTTP.
type Server struct {
	address    string
	dispatcher *Dispatcher
	logger     logging.Logger
}

func NewServer(address string, dispatcher *Dispatcher, logger logging.Logger) *Server {
	return &Server{
		address:    address,
		dispatcher: dispatcher,
		logger:     logger.With("module", "http_server"),
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleRPC)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req rpcRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeResponse(w, errorResponse(nil, codeParseError, "parse error"))
		return
	}

	hdr := Headers{
		Payer:   r.Header.Get(common.PayerHeaderName),
		Payment: r.Header.Get(common.PaymentHeaderName),
	}

	resp := s.dispatcher.Handle(r.Context(), &req, hdr)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp *rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
