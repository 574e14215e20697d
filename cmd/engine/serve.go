package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and poll sources on the configured interval",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:<app.port>)")
	if err := viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// reload through loadCfg so the sources.yml overlay is applied again
	if err := config.Watch(ctx, a.cfgPath, a.log.Named("config"), func(config.Config) {
		cfg, err := a.loadCfg()
		if err != nil {
			a.log.Warn("config reload failed", zap.Error(err))
			return
		}
		a.cfgVal.Store(cfg)
		a.hub.Emit("", events.TypeConfigReloaded, nil)
	}); err != nil {
		a.log.Warn("config watch disabled", zap.Error(err))
	}

	go a.poller.Start(ctx)

	router := httpapi.NewRouter(httpapi.Deps{
		DB:           a.db,
		Ingestor:     a.ingestor,
		Scoring:      a.scoring,
		Analytics:    a.analytics,
		Poller:       a.poller,
		Hub:          a.hub,
		Log:          a.log.Named("http"),
		CfgVal:       a.cfgVal,
		ScrapeStatus: a.status,
		UserCfgPath:  a.cfgPath,
		LoadCfg:      a.loadCfg,
	})

	addr := viper.GetString("addr")
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", a.config().App.Port)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux := chi.NewRouter()
	if token := viper.GetString("shutdown-token"); token != "" {
		mux.Post("/shutdown", shutdownHandler(token, srv))
	}
	mux.Mount("/", router)
	srv.Handler = mux

	a.log.Info("engine listening", zap.String("addr", "http://"+ln.Addr().String()))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.log.Info("engine stopped")
	return nil
}
