package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/cartridgeicon/internal/api"
	"github.com/youruser/cartridgeicon/internal/compose"
	"github.com/youruser/cartridgeicon/internal/config"
	"github.com/youruser/cartridgeicon/internal/export"
	imagepkg "github.com/youruser/cartridgeicon/internal/image"
	"github.com/youruser/cartridgeicon/internal/logging"
	"github.com/youruser/cartridgeicon/internal/presets"
	"github.com/youruser/cartridgeicon/internal/scheduler"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	log, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	loader := imagepkg.NewLoader(
		imagepkg.WithRoot(cfg.AssetRoot),
		imagepkg.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		imagepkg.WithMaxBytes(cfg.MaxFetchBytes),
		imagepkg.WithMaxPixels(cfg.MaxPixels),
		imagepkg.WithLogger(log.Named("loader")),
	)
	opts := []compose.Option{compose.WithLogger(log.Named("compose"))}
	for _, path := range cfg.FontFiles {
		f, err := compose.LoadFontFile(path)
		if err != nil {
			return err
		}
		log.Info("badge font loaded", zap.String("path", path))
		opts = append(opts, compose.WithFonts(f))
	}
	comp := compose.New(loader, opts...)
	exp := export.New(comp, export.WithLogger(log.Named("export")))
	sched := scheduler.New(comp.Compose,
		scheduler.WithDelay(cfg.Debounce),
		scheduler.WithLogger(log.Named("scheduler")))
	go sched.Run(ctx)

	// Presets are best-effort: the Custom preset is always available.
	ps := presets.Load(cfg.PresetsFile, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(api.NewServer(comp, exp, sched, ps, log), log.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.Int("presets", len(ps)))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
