// cmd/worker-manager/health.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readiness is satisfied once a catalog snapshot is published.
type readiness interface {
	Ready() bool
}

type healthCheck func(ctx context.Context) error

func newHealthServer(port int, svc readiness, broker healthCheck) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newHealthMux(svc, broker),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func newHealthMux(svc readiness, broker healthCheck) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{
			"status":  "ready",
			"catalog": "loaded",
			"broker":  "ok",
			"time":    time.Now().Format(time.RFC3339),
		}
		code := http.StatusOK

		if !svc.Ready() {
			body["status"], body["catalog"] = "not_ready", "not_loaded"
			code = http.StatusServiceUnavailable
		}
		if broker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := broker(ctx); err != nil {
				body["status"], body["broker"] = "not_ready", err.Error()
				code = http.StatusServiceUnavailable
			}
		}

		writeStatus(w, code, body)
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
