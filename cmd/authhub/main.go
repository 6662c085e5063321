package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/authhub/internal/app"
	"github.com/dropDatabas3/authhub/internal/config"
	httpx "github.com/dropDatabas3/authhub/internal/http"
	"github.com/dropDatabas3/authhub/internal/http/handlers"
	"github.com/dropDatabas3/authhub/internal/observability/logger"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "authhub",
		Short: "Auth Hub: gateway de autenticación delante del proxy de identidad",
	}

	var cfgPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el gateway HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "ruta al YAML de config (opcional; env pisa archivo)")

	root.AddCommand(serve)
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	// sin subcomando, serve
	root.RunE = serve.RunE
	root.Flags().StringVarP(&cfgPath, "config", "c", "", "ruta al YAML de config (opcional; env pisa archivo)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cfgPath string) error {
	// .env si existe; en App Service las vars vienen del ambiente directo
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("cargando config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "authhub",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("serve")

	container, err := app.New(cfg)
	if err != nil {
		return err
	}
	if container.Exchanger == nil {
		log.Warn("config OBO incompleta: /api/obotoken responderá 503 config_missing")
	}

	metricsHandler := httpx.RegisterMetrics(prometheus.DefaultRegisterer)
	router := httpx.NewRouter(httpx.Handlers{
		Health:      handlers.NewHealthHandler(),
		Login:       handlers.NewLoginHandler(container),
		Logout:      handlers.NewLogoutHandler(container),
		LocalLogout: handlers.NewLocalLogoutHandler(container),
		Me:          handlers.NewMeHandler(),
		Token:       handlers.NewTokenHandler(),
		IDToken:     handlers.NewIDTokenHandler(),
		Session:     handlers.NewSessionHandler(),
		OboToken:    handlers.NewOboTokenHandler(container),
		Metrics:     metricsHandler,
	}, container.Validator)

	readT, _ := time.ParseDuration(cfg.Server.ReadTimeout)
	writeT, _ := time.ParseDuration(cfg.Server.WriteTimeout)
	srv := httpx.NewServer(cfg.Server.Addr, router, readT, writeT)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Auth Hub escuchando", logger.Any("addr", cfg.Server.Addr))
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("señal recibida, drenando conexiones")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server terminó con error", logger.Err(err))
		return err
	}
	return nil
}
