// Command storefront serves the public product search, product detail,
// filter metadata and coupon preview APIs.
//
// @title AgriHub Storefront API
// @version 1.0
// @BasePath /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nambininasafidison/AgriHub-sub001/internal/catalog"
	"github.com/nambininasafidison/AgriHub-sub001/internal/config"
	"github.com/nambininasafidison/AgriHub-sub001/internal/coupon"
	"github.com/nambininasafidison/AgriHub-sub001/internal/httpx"

	apidocs "github.com/nambininasafidison/AgriHub-sub001/docs/storefront"
)

func main() {
	boot := config.NewLogger("info", "text")
	cfg, err := config.Load(boot)
	if err != nil {
		boot.Fatalf("[config] %v", err)
	}
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatalf("[catalog] %v", err)
	}
	defer closeStore()

	var rdb redis.Cmdable
	if cfg.RedisURL != "" {
		client, err := config.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[redis] %v", err)
		}
		defer client.Close()
		rdb = client
	}

	db, err := config.OpenPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[postgres] %v", err)
	}
	defer db.Close()

	r := newRouter(catalog.NewCachedStore(store, rdb, log), coupon.NewPGRepo(db), cfg.AllowedOrigins, log)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(apidocs.InstanceName)))

	if err := httpx.Serve(ctx, cfg.StorefrontAddr, r, log); err != nil {
		log.Fatalf("[http] %v", err)
	}
}

// openCatalog picks the product store named by CATALOG_DRIVER.
func openCatalog(ctx context.Context, cfg config.Config, log *logrus.Logger) (catalog.Store, func(), error) {
	if cfg.CatalogDriver == "memory" {
		if cfg.CatalogSeed == "" {
			log.Warn("[catalog] memory driver without CATALOG_SEED, catalog is empty")
			return catalog.NewMemoryStore(), func() {}, nil
		}
		s, err := catalog.LoadMemoryStore(cfg.CatalogSeed)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}

	client, err := catalog.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("[catalog] mongo connected, database=%s", cfg.MongoDatabase)
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("[catalog] mongo disconnect")
		}
	}
	return catalog.NewMongoStore(client.Database(cfg.MongoDatabase)), closeFn, nil
}
