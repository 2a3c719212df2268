package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/s/onlineLearning/internal/auth"
	"github.com/s/onlineLearning/internal/config"
	"github.com/s/onlineLearning/internal/ctxutil"
	"github.com/s/onlineLearning/internal/database"
	"github.com/s/onlineLearning/internal/handlers"
	"github.com/s/onlineLearning/internal/learning"
	"github.com/s/onlineLearning/internal/logging"
	"github.com/s/onlineLearning/internal/observability"
	"github.com/s/onlineLearning/internal/server"
)

var version = "dev"

func main() {
	// ---------------------------
	// 0. Загрузка переменных окружения
	// ---------------------------
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: Не удалось загрузить файл .env. Используются системные переменные.")
	}

	cfg, warnings, err := config.Load()
	if err != nil {
		log.Fatal("Ошибка конфигурации: ", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatal("Ошибка инициализации логгера: ", err)
	}
	defer lg.Closer()
	logger := lg.Base

	for _, w := range warnings {
		logger.Warn(w)
	}

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctxutil.DefaultDBTimeout = cfg.DBTimeout

	// ---------------------------
	// 1. База данных, миграции, сиды
	// ---------------------------
	db, err := database.Connect(database.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseURL,
		PGDriverName: cfg.PGDriverName,
	}, logger)
	if err != nil {
		logger.Fatal("Ошибка подключения к БД", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Ошибка миграции", zap.Error(err))
	}
	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			logger.Warn("Ошибка сидов", zap.Error(err))
		}
	}

	// ---------------------------
	// 2. Google OAuth (необязателен)
	// ---------------------------
	var oauthConfig *oauth2.Config
	if cfg.GoogleEnabled() {
		oauthConfig = auth.InitGoogleOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	} else {
		logger.Info("GOOGLE_... не заданы, вход через Google отключен")
	}

	// ---------------------------
	// 3. Сессии, токены, сервис, хендлеры
	// ---------------------------
	authn := &auth.Authenticator{
		Store:  auth.NewCookieStore(cfg.SessionKey, cfg.IsProd()),
		Tokens: auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
	}
	svc := learning.NewService(db, logger)
	h := handlers.NewHandler(db, svc, authn, oauthConfig, logger)

	// ---------------------------
	// 4. Запуск сервера
	// ---------------------------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.HTTPAddr, server.NewRouter(h, cfg.CORSOrigins), logger); err != nil {
		logger.Error("сервер завершился с ошибкой", zap.Error(err))
	}
}
