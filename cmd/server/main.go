package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"agentrix/config"
	"agentrix/database"
	"agentrix/pkg/logging"
	"agentrix/router"

	// Form
	"agentrix/pkg/advice/client"
	"agentrix/pkg/form"
	formCtrlImp "agentrix/pkg/form/controllerImp"

	// Advisory
	advCtrlImp "agentrix/pkg/advisory/controllerImp"
	advRepoImp "agentrix/pkg/advisory/repositoryImp"
	advSvcImp "agentrix/pkg/advisory/serviceImp"

	// Agents
	"agentrix/pkg/agronomy"
	"agentrix/pkg/disease"
	"agentrix/pkg/market"
	"agentrix/pkg/weather"

	// Health
	healthCtrlImp "agentrix/pkg/health/controllerImp"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// 1) Config + logger
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 2) DB (sqlite) + automigrate
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}

	// 3) Agronomy rules
	rules, err := agronomy.LoadFromFiles(cfg.GuidelinesCSV, cfg.PricesXLSX)
	if err != nil {
		logger.Warn("rules files ignored, using built-in rules", zap.Error(err))
		rules = agronomy.Default()
	}

	// 4) Agents
	board := market.NewBoard(rules.BasePrices(), agronomy.DefaultPrice, cfg.PriceBoardURL, nil, logger.Named("market"))
	wx := weather.New(cfg.WeatherEndpoint, cfg.WeatherAPIKey, nil)
	dd := disease.New(cfg.DiseaseServiceURL, nil)

	// 5) Advisory API
	advSvc := advSvcImp.New(advRepoImp.New(db), rules, wx, dd, board, logger.Named("advisory"))
	advCtrl := advCtrlImp.New(advSvc, cfg.MaxPhotoBytes, logger.Named("advisory"))

	// 6) Form sessions
	adviceClient := client.NewHTTP(client.Options{
		Endpoint:  cfg.AdviceEndpoint,
		Timeout:   cfg.AdviceTimeout,
		SendPhoto: cfg.AdviceSendPhoto,
		Logger:    logger.Named("advice-client"),
	})
	formLog := logger.Named("form")
	sessions := form.NewSessions(func() *form.Form { return form.New(adviceClient, formLog) }, cfg.SessionTTL)
	fCtrl := formCtrlImp.New(sessions, cfg.MaxPhotoBytes, formLog)

	hCtrl := healthCtrlImp.NewHealthCtrl(db, version)

	// 7) Background jobs
	jobs := cron.New()
	if cfg.PriceBoardURL != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := board.Refresh(ctx); err != nil {
				logger.Warn("initial price refresh failed", zap.Error(err))
			}
		}()
		if _, err := board.Schedule(jobs, cfg.PriceRefreshCron); err != nil {
			logger.Fatal("schedule price refresh", zap.String("spec", cfg.PriceRefreshCron), zap.Error(err))
		}
	}
	if _, err := jobs.AddFunc("@every 1m", func() {
		if n := sessions.Sweep(); n > 0 {
			formLog.Debug("evicted idle sessions", zap.Int("count", n))
		}
	}); err != nil {
		logger.Fatal("schedule session sweep", zap.Error(err))
	}
	jobs.Start()

	// 8) Echo
	renderer, err := form.NewRenderer()
	if err != nil {
		logger.Fatal("parse templates", zap.Error(err))
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Use(echoMiddleware.Recover())
	e.Use(logging.Middleware(logger.Named("http")))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	r := router.New(e, fCtrl, advCtrl, hCtrl)

	// 9) Start + graceful shutdown
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("version", version))
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-jobs.Stop().Done()
	if err := r.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("bye")
}
