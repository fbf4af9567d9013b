package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vinbridge/order-intake/internal/config"
	"github.com/vinbridge/order-intake/internal/core/domain"
	"github.com/vinbridge/order-intake/internal/core/ports"
	"github.com/vinbridge/order-intake/internal/core/usecase"
	"github.com/vinbridge/order-intake/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	interpreter ports.OrderInterpreter
	metrics     *metrics.HTTPServerMetrics
	cfg         config.Config
}

func NewRouter(interpreter ports.OrderInterpreter, m *metrics.HTTPServerMetrics, cfg config.Config) *Router {
	return &Router{
		interpreter: interpreter,
		metrics:     m,
		cfg:         cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/orders/interpret", rt.interpretOrder)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, time.Duration(rt.cfg.APIBackpressureWaitMS)*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type interpretResponse struct {
	Success bool `json:"success"`
	*domain.InterpretResult
}

func (rt *Router) interpretOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req domain.InterpretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	start := time.Now()
	result, err := rt.interpreter.Interpret(r.Context(), req)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordInterpretation(result, time.Since(start))

	writeJSON(w, http.StatusOK, interpretResponse{
		Success:         true,
		InterpretResult: result,
	})
}

func (rt *Router) recordInterpretation(result *domain.InterpretResult, duration time.Duration) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordInterpretation(
		serviceName,
		string(result.Status),
		string(result.Client.Method),
		len(result.ParsedItems),
		duration,
	)
	if dropped, ok := result.Debug["dropped_segments"].([]usecase.DroppedSegment); ok {
		for _, segment := range dropped {
			rt.metrics.RecordDroppedLine(serviceName, segment.Reason)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
