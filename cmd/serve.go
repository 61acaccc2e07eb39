package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/config"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the run-trigger HTTP server",
	Long:  "Exposes a health endpoint and a trigger endpoint the scheduler calls to build a batch without shell access.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mux := newServeMux(ctx)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServeMux builds the trigger routes. One batch runs at a time:
// concurrent runs would race on the output files.
func newServeMux(ctx context.Context) *http.ServeMux {
	var running atomic.Bool

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /runs", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Group     string `json:"group"`
			Prefix    string `json:"prefix"`
			Overwrite bool   `json:"overwrite"`
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
		}

		if !running.CompareAndSwap(false, true) {
			http.Error(w, `{"error":"a run is already in progress"}`, http.StatusConflict)
			return
		}

		runCfg := *cfg
		if req.Group != "" {
			runCfg.Run.Group = req.Group
		}
		if req.Prefix != "" {
			runCfg.Run.Prefix = req.Prefix
		}
		if req.Overwrite {
			runCfg.Run.OnExisting = config.OnExistingOverwrite
		}

		go func() {
			defer running.Store(false)
			if err := executeRun(ctx, &runCfg); err != nil {
				zap.L().Error("serve: triggered run failed", zap.Error(err))
				return
			}
			zap.L().Info("serve: triggered run complete")
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
