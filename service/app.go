package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techblog/app/markdown"
	"techblog/app/routes"
	"techblog/app/services"
	"techblog/config"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// RunAppServer opens the database, seeds it when configured and serves the
// blog until ctx is cancelled or the process receives SIGINT or SIGTERM.
func RunAppServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	blog := services.NewBlog(store)
	if cfg.Seed {
		if err := blog.Seed(); err != nil {
			return fmt.Errorf("seed blog: %w", err)
		}
	}

	router := routes.SetupRoutes(blog, markdown.New(markdown.Options{SafeLinks: cfg.SafeLinks}), cfg.StaticDir)
	logrus.WithFields(logrus.Fields{
		"addr": cfg.Addr,
		"db":   cfg.DBPath,
	}).Info("starting blog service")
	return serveHTTP(ctx, cfg.Addr, router)
}

// serveHTTP runs an HTTP server and shuts it down gracefully once ctx is
// done. In-flight requests get shutdownTimeout to finish.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("shutting down blog service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
