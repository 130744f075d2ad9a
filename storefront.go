//go:build !cli

package main

import (
	"log/slog"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"storefront.GO/api"
	_ "storefront.GO/api/catalog"
	graphqlApi "storefront.GO/api/graphql"
	"storefront.GO/config"
	"storefront.GO/core/auth"
	"storefront.GO/core/logger"
	"storefront.GO/core/metrics"
	"storefront.GO/core/validate"
	_ "storefront.GO/custom"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	cfg := config.AppConfig
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	config.InitRedis()

	db, err := config.NewDB()
	if err != nil {
		log.Error("failed to connect to DB", "err", err)
		os.Exit(1)
	}
	sqldb, err := db.DB()
	if err != nil {
		log.Error("failed to get DB instance", "err", err)
		os.Exit(1)
	}
	if err := sqldb.Ping(); err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	log.Info("database connection successful")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTP(reg)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.NewValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())
	e.Use(httpMetrics.Middleware())

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	api.ApplyModules(apiGroup, db)
	api.ApplyRoutes(e, db)

	if err := graphqlApi.RegisterGraphQLRoutes(e, db); err != nil {
		log.Error("failed to build GraphQL schema", "err", err)
		os.Exit(1)
	}
	e.GET("/metrics", echo.WrapHandler(httpMetrics.Handler()))

	fonts := []string{"banner", "big", "slant", "standard", "small", "doom", "larry3d", "puffy"}
	figure.NewFigure(cfg.AppName, fonts[rand.Intn(len(fonts))], true).Print()

	addr := ":" + cfg.Port
	log.Info("server running", "addr", addr, "graphql", "/graphql", "playground", "/playground", "metrics", "/metrics")
	if err := e.Start(addr); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
