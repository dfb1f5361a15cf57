package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/api"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/config"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/db"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/engine"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/format"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/logger"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/milp"
)

var version = "dev"

func main() {
	cfg := config.FromEnv()

	serve := flag.Bool("serve", false, "run the HTTP API server instead of the stdin/stdout pipe")
	port := flag.Int("port", cfg.Port, "HTTP server port")
	host := flag.String("host", cfg.Host, "Host to bind to (use 0.0.0.0 to allow LAN/remote access)")
	flag.Parse()
	cfg.Port = *port
	cfg.Host = *host

	optimizer := engine.NewOptimizer(milp.NewEngine(cfg.NodeLimit), cfg.MaxIterations)

	if *serve {
		runServer(cfg, optimizer)
		return
	}
	runPipe(optimizer)
}

// runPipe reads one JSON problem instance from stdin, solves it, and writes
// one JSON document to stdout. Exit code 0 covers every algorithmic outcome
// (including iteration_cap and stalled); only validation and backend
// failures exit non-zero.
func runPipe(optimizer *engine.Optimizer) {
	// stdout must stay a pure JSON stream; route any logging to stderr
	logger.SetWriter(os.Stderr)

	var req engine.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		exitError(fmt.Errorf("invalid request: %w", err))
	}

	res, err := optimizer.Solve(req)
	if err != nil {
		exitError(err)
	}

	json.NewEncoder(os.Stdout).Encode(format.BuildResponse(req, res))
}

func exitError(err error) {
	json.NewEncoder(os.Stdout).Encode(format.ErrorResponse{Error: err.Error()})
	os.Exit(1)
}

func runServer(cfg *config.Config, optimizer *engine.Optimizer) {
	logger.Banner(version)
	logger.Section("Startup")
	logger.Stats("max iterations", cfg.MaxIterations)
	logger.Stats("node limit", cfg.NodeLimit)

	// Open SQLite database; solving works without it, history doesn't.
	database, err := db.Open()
	if err != nil {
		logger.Warn("DB", fmt.Sprintf("History disabled: %v", err))
		database = nil
	} else {
		defer database.Close()
	}

	srv := api.NewServer(cfg, optimizer, database)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Server(addr)

	httpServer := &http.Server{Addr: addr, Handler: srv.Handler()}

	// Graceful shutdown on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("Server", "Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server", fmt.Sprintf("Shutdown error: %v", err))
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
	logger.Info("Server", "Stopped")
}
