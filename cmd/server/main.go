// @title           clubhouse API
// @version         1.0
// @description     Social club web application backend.
// @description     Signup/login, profiles, club membership, messages and notifications.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа сервера clubhouse.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера:
//   - загрузку .env (если есть) и ./configs/server.yaml;
//   - подключение к базе данных и миграции;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск сервера (HTTPS, если включён tls) с таймаутами из конфига;
//   - graceful shutdown по SIGINT, SIGTERM, SIGQUIT.
//
// Бизнес-логики здесь нет.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/api"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/middleware"
	h "github.com/IvanChernomyrdin/clubhouse/internal/server/net/http"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/repository"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/service"
	"github.com/IvanChernomyrdin/clubhouse/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/clubhouse/swagger/docs"
)

func main() {
	bootLog := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		bootLog.Warnf("no .env file loaded, error: %v", err)
	}

	cfg, err := config.Load("./configs/server.yaml")
	if err != nil {
		bootLog.Fatal(err)
	}

	httpLogger := logger.New(logger.Options{
		File:   cfg.Log.File,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	defer httpLogger.Sync()
	sugar := httpLogger.Logger.Sugar()

	if !cfg.TLS.Enabled {
		sugar.Warn("tls disabled: session cookies are sent without Secure flag")
	}

	// подключаем базу данных и применяем миграции
	if err := config.Init(cfg.DB, cfg.Migrations); err != nil {
		sugar.Fatal(err)
	}
	db := config.GetDB()
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	repos := service.Repositories{
		Users:         repository.NewUsersRepository(db),
		Sessions:      repository.NewSessionsRepository(db),
		Clubs:         repository.NewClubsRepository(db),
		Memberships:   repository.NewMembershipsRepository(db),
		Messages:      repository.NewMessagesRepository(db),
		Notifications: repository.NewNotificationsRepository(db),
	}
	svc := service.NewServices(repos, cfg)

	verifier := middleware.NewJWTVerifier(crypto.JWTConfig{
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		SigningKey: cfg.Auth.JWT.SigningKey,
		AccessTTL:  cfg.Auth.AccessTTL,
	}, cfg.Auth.Cookie.AccessName)

	var limiter *middleware.RateLimiter
	if cfg.Security.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, cfg.Server.TrustProxy)
	}

	handler := api.NewHandler(svc, httpLogger, verifier, cfg)
	router := h.NewRouter(handler, limiter)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infof("server started on %s (tls=%t)", addr, cfg.TLS.Enabled)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
