package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"BeesDashboard/internal/scheduler"
	"BeesDashboard/internal/web"
)

type serveCmd struct {
	addr   string
	warmup bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the weekly dashboard over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-addr :8501] [-warmup]

  Serves the dashboard page, the JSON API and the refresh action.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address (overrides server.addr)")
	f.BoolVar(&c.warmup, "warmup", false, "fetch the default history before accepting requests")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		log.Printf("[FATAL] %v", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	addr := a.cfg.Server.Addr
	if c.addr != "" {
		addr = c.addr
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.dashboard)
	if err := sched.RegisterCleanup(scheduler.DefaultCleanupSpec); err != nil {
		log.Printf("[FATAL] %v", err)
		return subcommands.ExitFailure
	}
	if a.cfg.Schedule.RefreshCron != "" {
		if err := sched.RegisterRefresh(a.cfg.Schedule.RefreshCron); err != nil {
			log.Printf("[FATAL] %v", err)
			return subcommands.ExitFailure
		}
	}
	sched.Start()
	defer sched.Stop()
	if c.warmup || os.Getenv("RUN_ON_START") == "true" {
		if err := sched.RunRefreshNow(); err != nil {
			log.Printf("[WARN] warm-up failed: %v", err)
		}
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      web.NewRouter(web.NewHandler(a.dashboard)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * a.cfg.DataSource.Timeout * time.Duration(len(a.cfg.Tickers)+1),
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] dashboard listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		log.Printf("[ERROR] server: %v", err)
		return subcommands.ExitFailure
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	log.Println("[INFO] dashboard stopped")
	return subcommands.ExitSuccess
}
