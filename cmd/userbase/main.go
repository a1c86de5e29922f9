package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SL-MGx03/userbase/internal/auth"
	"github.com/SL-MGx03/userbase/internal/bot"
	"github.com/SL-MGx03/userbase/internal/config"
	"github.com/SL-MGx03/userbase/internal/service"
	"github.com/SL-MGx03/userbase/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := store.Open(openCtx, cfg.DatabaseURL, logger)
	cancel()
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	admins := auth.NewAdminSet(cfg.AdminIDs)
	logger.Info("admin set loaded", zap.Int("admins", admins.Len()))

	telegramBot, err := bot.New(cfg.BotToken, st, admins, &cfg, logger)
	if err != nil {
		logger.Fatal("create bot", zap.Error(err))
	}

	if cfg.MonitorInterval > 0 {
		monitor := service.NewMonitor(st, logger)
		if err := monitor.Schedule(cfg.MonitorInterval); err != nil {
			logger.Fatal("schedule storage monitor", zap.Error(err))
		}
		monitor.Start()
		defer monitor.Stop()
	}

	logger.Info("userbase bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(level string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	return config.Build()
}
