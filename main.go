package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dpapathanasiou/go-recaptcha"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"combatlog_check/analysispool"
	"combatlog_check/cache"
	"combatlog_check/config"
	"combatlog_check/fflogs"
	"combatlog_check/frontend"
	"combatlog_check/logger"
	"combatlog_check/metrics"
	"combatlog_check/parser"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	logger.SetGlobalLogger(logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty}))

	err = logger.InitSentry(cfg.SentryDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sentry")
	}
	defer logger.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := cache.NewStorage(cfg.CacheDir, cfg.CacheExpire(), fflogs.CacheSalt()...)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.CacheDir).Msg("cache")
	}

	m := metrics.New()

	client := fflogs.New(fflogs.Options{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		APIBase:      cfg.APIBase,
		MaxRequests:  cfg.MaxRequests,
		MaxRetries:   cfg.MaxRetries,
		Cache:        storage,
		Observer:     m,
	})

	parserOpt := parser.Options{Workers: cfg.Workers}

	poolOpt := analysispool.Options{
		Fetcher:      client,
		Observer:     m,
		Parser:       parserOpt,
		ResultExpire: cfg.ResultExpire(),
	}
	if cfg.RecaptchaSecret != "" {
		recaptcha.Init(cfg.RecaptchaSecret)
		poolOpt.Verify = recaptcha.Confirm
	}

	pool := analysispool.New(poolOpt)
	go pool.Run(ctx)

	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	g := gin.New()

	frontend.Route(g, &frontend.Server{
		Pool:    pool,
		Metrics: m,
		Parser:  parserOpt,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		logger.Flush()
		os.Exit(0)
	}()

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	err = g.Run(cfg.Addr)
	if err != nil {
		logger.CaptureError(err, "server")
	}
}
