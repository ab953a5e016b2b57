package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/BerniceZTT/sales_end/config"
	"github.com/BerniceZTT/sales_end/controllers"
	"github.com/BerniceZTT/sales_end/middleware"
	"github.com/BerniceZTT/sales_end/repository"
	"github.com/BerniceZTT/sales_end/routes"
	"github.com/BerniceZTT/sales_end/service"
	"github.com/BerniceZTT/sales_end/utils"
)

// App 服务运行所需的全部依赖
type App struct {
	Config  *config.Config
	Store   *repository.DealStore
	Loader  *service.DatasetLoader
	Router  *gin.Engine
	Watcher *repository.DatasetWatcher

	sink  repository.OperationLogSink
	redis *redis.Client
}

// NewApp 按配置组装依赖
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	utils.InitJWT(cfg.JWTKey)

	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Store: repository.NewDealStore()}
	notifications := service.NewNotificationCenter()
	targets := service.NewTargetService(repository.NewTargetBook(seed.Targets), app.Store, notifications)
	dashboard := service.NewDashboardService(app.Store, app.metricsCache(ctx))
	deals := service.NewDealService(app.Store, notifications, targets)

	var source repository.DatasetSource
	if cfg.DatasetURI != "" {
		source, err = repository.NewDatasetSource(ctx, cfg.DatasetURI, repository.SourceOptions{AWSRegion: cfg.AWSRegion})
		if err != nil {
			return nil, err
		}
	}
	app.Loader = service.NewDatasetLoader(app.Store, source, notifications, targets)

	app.sink = repository.LogOperationLogSink{}
	if cfg.MongoURI != "" {
		sink, err := repository.NewMongoOperationLogSink(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			utils.Logger.Error().Err(err).Msg("连接MongoDB失败，操作日志仅输出到日志")
		} else {
			app.sink = sink
		}
	}

	if cfg.DatasetWatch {
		if fs, ok := source.(*repository.FileSource); ok {
			app.Watcher, err = repository.NewDatasetWatcher(fs.Path, func(ctx context.Context) {
				if _, err := app.Loader.Load(ctx); err != nil {
					utils.Logger.Error().Err(err).Msg("数据文件变化后重新加载失败")
				}
			})
			if err != nil {
				return nil, err
			}
		} else {
			utils.Logger.Warn().Str("uri", cfg.DatasetURI).Msg("DATASET_WATCH 仅支持本地文件，已忽略")
		}
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware(app.sink, app.Store.Version))

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:          controllers.NewAuthController(seed),
		Users:         controllers.NewUserController(seed.Users),
		Deals:         controllers.NewDealController(dashboard, deals, app.Store),
		Dataset:       controllers.NewDatasetController(app.Loader, app.Store),
		Dashboard:     controllers.NewDashboardController(dashboard),
		Targets:       controllers.NewTargetController(targets),
		Notifications: controllers.NewNotificationController(notifications),
	})
	app.Router = router
	return app, nil
}

// metricsCache 配置了 Redis 且可连通时使用 Redis，否则使用内存缓存
func (a *App) metricsCache(ctx context.Context) repository.MetricsCache {
	if a.Config.RedisAddr == "" {
		return repository.NewMemoryMetricsCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
		DB:       a.Config.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		utils.Logger.Warn().Err(err).Str("addr", a.Config.RedisAddr).Msg("Redis不可用，统计缓存改用内存")
		_ = client.Close()
		return repository.NewMemoryMetricsCache()
	}
	utils.Logger.Info().Str("addr", a.Config.RedisAddr).Msg("统计缓存使用Redis")
	a.redis = client
	return repository.NewRedisMetricsCache(client, a.Config.MetricsCacheTTL)
}

// Close 释放外部连接
func (a *App) Close(ctx context.Context) error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	var firstErr error
	if a.sink != nil {
		if err := a.sink.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("关闭Redis连接失败: %w", err)
		}
	}
	return firstErr
}
