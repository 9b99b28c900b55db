// Command ptyhostd runs the multiplexed PTY session manager behind a
// websocket upgrade endpoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mordilloSan/go_logger/logger"
	"github.com/spf13/pflag"

	"github.com/kestrelhq/ptyhost/internal/buildinfo"
	"github.com/kestrelhq/ptyhost/internal/ptysession"
	"github.com/kestrelhq/ptyhost/internal/transport"
)

func main() {
	var (
		addr        = pflag.String("addr", ":8642", "listen address")
		env         = pflag.String("env", "production", "environment: development|production")
		verbose     = pflag.Bool("verbose", false, "enable debug logging")
		idleTimeout = pflag.Duration("idle-timeout", 30*time.Minute, "destroy a session after this much inactivity (0 disables)")
		batchWindow = pflag.Duration("batch-window", 4*time.Millisecond, "output coalescing window (test override only)")
		showVersion = pflag.Bool("version", false, "print version information and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Printf("ptyhostd %s (commit %s, built %s, sha256 %s)\n",
			buildinfo.Version, buildinfo.CommitSHA, buildinfo.BuildTime, buildinfo.SelfSHA256())
		return
	}

	logger.Init(*env, *verbose)
	if !(*env == "development" && *verbose) {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.InfoKV("ptyhostd starting", "env", *env, "addr", *addr, "idle_timeout", *idleTimeout)

	ptysession.WithBatchWindow(*batchWindow)

	router := transport.NewRouter(transport.Config{IdleTimeout: *idleTimeout})
	srv := &http.Server{
		Addr:    *addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.InfoKV("shutdown initiated", "reason", "signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WarnKV("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
