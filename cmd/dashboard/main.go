// Command dashboard serves the admin API: login, coupon management and
// the activity log.
//
// @title AgriHub Dashboard API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nambininasafidison/AgriHub-sub001/internal/activity"
	"github.com/nambininasafidison/AgriHub-sub001/internal/admin"
	"github.com/nambininasafidison/AgriHub-sub001/internal/config"
	"github.com/nambininasafidison/AgriHub-sub001/internal/coupon"
	"github.com/nambininasafidison/AgriHub-sub001/internal/httpx"

	apidocs "github.com/nambininasafidison/AgriHub-sub001/docs/dashboard"
)

func main() {
	boot := config.NewLogger("info", "text")
	cfg, err := config.Load(boot)
	if err != nil {
		boot.Fatalf("[config] %v", err)
	}
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	tokens, err := admin.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("[auth] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[postgres] %v", err)
	}
	defer db.Close()

	var rdb redis.Cmdable
	if cfg.RedisURL != "" {
		client, err := config.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[redis] %v", err)
		}
		defer client.Close()
		rdb = client
	}

	admins := admin.NewPGRepo(db)
	if err := seedAdmin(ctx, admins, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Fatalf("[auth] seed admin: %v", err)
	}

	r := newRouter(deps{
		admins:     admins,
		coupons:    coupon.NewPGRepo(db),
		activity:   activity.NewPGRepo(db),
		tokens:     tokens,
		rdb:        rdb,
		log:        log,
		origins:    cfg.AllowedOrigins,
		rateLimit:  cfg.RateLimit,
		rateWindow: cfg.RateWindow,
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(apidocs.InstanceName)))

	if err := httpx.Serve(ctx, cfg.DashboardAddr, r, log); err != nil {
		log.Fatalf("[http] %v", err)
	}
}

// seedAdmin creates the configured admin unless it already exists.
func seedAdmin(ctx context.Context, admins admin.Repository, email, password string, log *logrus.Logger) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	hash, err := admin.HashPassword(password)
	if err != nil {
		return err
	}
	a := &admin.Admin{ID: uuid.NewString(), Email: email, Name: "Administrator", PasswordHash: hash}
	err = admins.Create(ctx, a)
	if errors.Is(err, admin.ErrAlreadyExist) {
		return nil
	}
	if err != nil {
		return err
	}
	log.WithField("email", email).Info("[auth] seeded admin")
	return nil
}
