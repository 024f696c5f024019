package di

import (
	"context"
	"fmt"

	"backwater-server/api/imagery"
	"backwater-server/cache"
	"backwater-server/config"
	"backwater-server/dao/redis"
	"backwater-server/db"
	"backwater-server/log"
	"backwater-server/metrics"
	"backwater-server/models"
	"backwater-server/server"
	"backwater-server/server/handlers"
	services "backwater-server/service"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

// Container holds all application dependencies.
type Container struct {
	Config              *config.Config
	Profiles            *config.ProfileRegistry
	RedisClient         db.RedisClient
	RedisReportDao      *redis.RedisReportDAO
	ResultCache         *cache.ResultCache
	ImageryAPI          imagery.ImageryAPI
	Resolver            *services.Resolver
	Assembler           *services.Assembler
	WaterQualityService *services.WaterQualityService
	CompositeService    *services.CompositeService
	RefreshService      *services.RefreshService
	TrendHandler        *handlers.TrendHandler
	CompositeHandler    *handlers.CompositeHandler
	RefreshHandler      *handlers.RefreshHandler
	MuxRouter           *mux.Router
	Router              *server.Router
	HttpServer          *server.BackwaterHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Infof("[Container] initializing container - env: %s", cfg.Env)
	ctx := context.Background()

	metrics.Init()

	profiles, err := config.LoadProfiles(cfg.Profiles.Path, cfg.Profiles.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to load proxy profiles: %w", err)
	}
	log.Infof("[Container] proxy profiles %v, active %s", profiles.Versions(), profiles.Active().Version)

	redisClient, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	redisReportDao := redis.NewRedisReportDAO(redisClient)
	resultCache := cache.NewResultCache(redisReportDao)

	imageryAPI, err := newImageryAPI(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resolver := services.NewResolver(models.NewBoundingBox(config.VALID_MIN_LON, config.VALID_MIN_LAT, config.VALID_MAX_LON, config.VALID_MAX_LAT))
	assembler := services.NewAssembler(cfg.Fetch.Concurrency, cfg.Fetch.Timeout)

	waterQualityService := services.NewWaterQualityService(imageryAPI, profiles, resolver, assembler, resultCache, cfg.Cache.TTL)
	compositeService := services.NewCompositeService(imageryAPI, profiles, resolver, resultCache, cfg.Cache.TTL)
	refreshService := services.NewRefreshService(resultCache)

	trendHandler := handlers.NewTrendHandler(waterQualityService)
	compositeHandler := handlers.NewCompositeHandler(compositeService)
	refreshHandler := handlers.NewRefreshHandler(refreshService)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(trendHandler, compositeHandler, refreshHandler, muxRouter)
	httpServer := server.NewBackwaterHttpServer(router, muxRouter, cfg.HTTPAddr)

	return &Container{
		Config:              cfg,
		Profiles:            profiles,
		RedisClient:         redisClient,
		RedisReportDao:      redisReportDao,
		ResultCache:         resultCache,
		ImageryAPI:          imageryAPI,
		Resolver:            resolver,
		Assembler:           assembler,
		WaterQualityService: waterQualityService,
		CompositeService:    compositeService,
		RefreshService:      refreshService,
		TrendHandler:        trendHandler,
		CompositeHandler:    compositeHandler,
		RefreshHandler:      refreshHandler,
		MuxRouter:           muxRouter,
		Router:              router,
		HttpServer:          httpServer,
	}, nil
}

// newRedisClient connects to Redis unless running tests, which use the
// in-memory client.
func newRedisClient(ctx context.Context, cfg *config.Config) (db.RedisClient, error) {
	if cfg.Env == "test" {
		log.Infof("[Container] Using in-memory redis client")
		return db.NewMockRedisClient(ctx), nil
	}
	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisClient, err := db.NewGoRedisClient(ctx, redisInternalClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Address, err)
	}
	return redisClient, nil
}

// newImageryAPI returns the REST client in prod and the fixture mock otherwise.
func newImageryAPI(ctx context.Context, cfg *config.Config) (imagery.ImageryAPI, error) {
	if cfg.Env != "prod" {
		log.Infof("[Container] Using mock imagery api")
		return imagery.NewImageryApiClientMock(
			config.GetResourcePath(config.MONTHLY_RESULTS_RESOURCE),
			config.GetResourcePath(config.COMPOSITE_RESULT_RESOURCE),
		)
	}
	log.Infof("[Container] Using imagery api at %s", cfg.Imagery.BaseURL)
	return imagery.NewImageryApiClient(imagery.NewOAuthHTTPClient(ctx, cfg.Imagery)), nil
}
