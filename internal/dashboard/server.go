package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"TradeConsole/internal/console"
	"TradeConsole/internal/model"
)

//go:embed static
var staticFiles embed.FS

// Server exposes the console service over HTTP.
type Server struct {
	Service *console.Service
	Hub     *Hub

	logger *zap.Logger
}

// NewServer wires the API routes to svc and the websocket route to hub.
func NewServer(svc *console.Service, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Service: svc, Hub: hub, logger: logger.Named("dashboard")}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /", http.FileServer(http.FS(static)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ws", s.Hub.ServeWS)

	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/workflow/start", s.handleWorkflowStart)
	mux.HandleFunc("POST /api/workflow/stop", s.handleWorkflowStop)
	mux.HandleFunc("POST /api/market/load", s.handleMarketLoad)
	mux.HandleFunc("POST /api/exchange", s.handleSelectExchange)
	mux.HandleFunc("POST /api/config/api", s.handleAPIConfig)
	mux.HandleFunc("POST /api/config/funding", s.handleFundingConfig)
	mux.HandleFunc("POST /api/deposit", s.handleDeposit)
	mux.HandleFunc("POST /api/logs/filter", s.handleLogFilter)
	mux.HandleFunc("POST /api/logs/clear", s.handleLogClear)
	mux.HandleFunc("POST /api/coins/{symbol}/analyze", s.handleAnalyze)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Service.Snapshot())
}

func (s *Server) handleWorkflowStart(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.StartWorkflow(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"running": true})
}

func (s *Server) handleWorkflowStop(w http.ResponseWriter, r *http.Request) {
	s.Service.StopWorkflow()
	writeJSON(w, http.StatusOK, map[string]bool{"running": false})
}

func (s *Server) handleMarketLoad(w http.ResponseWriter, r *http.Request) {
	ok := s.Service.LoadMarketData(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}

func (s *Server) handleSelectExchange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Exchange string `json:"exchange"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Service.SelectExchange(r.Context(), req.Exchange); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"exchange": req.Exchange})
}

func (s *Server) handleAPIConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey     string `json:"apiKey"`
		APISecret  string `json:"apiSecret"`
		Passphrase string `json:"passphrase"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Service.SaveAPIConfig(r.Context(), req.APIKey, req.APISecret, req.Passphrase); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": true})
}

func (s *Server) handleFundingConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AvailableFunds float64 `json:"availableFunds"`
		MaxPerTrade    float64 `json:"maxPerTrade"`
		RiskLevel      string  `json:"riskLevel"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Service.SaveFundingConfig(r.Context(), req.AvailableFunds, req.MaxPerTrade, req.RiskLevel); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Service.State.Funds.GetState())
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Service.ProcessDeposit(r.Context(), req.Amount, req.Method); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Service.State.Funds.GetState())
}

func (s *Server) handleLogFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter string `json:"filter"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Service.SetLogFilter(req.Filter); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"filter": req.Filter})
}

func (s *Server) handleLogClear(w http.ResponseWriter, r *http.Request) {
	s.Service.ClearLogs()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if !s.Service.AnalyzeCoin(symbol) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": symbol + " is not in the current coin list"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"symbol": symbol})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": cfgErr.Reason, "field": cfgErr.Field})
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
