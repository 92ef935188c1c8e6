package core

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/askdb-ai/askdb/app/store/sqlstore"
	"github.com/askdb-ai/askdb/pkg/aigateway"
)

type Core struct {
	cfg CoreConfig

	stores     func() *sqlstore.Provider
	gateway    *aigateway.Client
	redis      redis.UniversalClient
	storage    FileStorage
	httpEngine *gin.Engine

	metrics *Metrics
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		metrics:    NewMetrics("askdb", "core"),
		httpEngine: gin.New(),
		gateway: aigateway.New(cfg.Gateway.Endpoint,
			aigateway.WithHTTPClient(&http.Client{Timeout: cfg.Gateway.GetTimeout()}),
			aigateway.WithMaxRetries(cfg.Gateway.MaxRetries)),
		storage: SetupObjectStorage(cfg.ObjectStorage),
	}

	setupSqlStore(core)

	if cfg.Redis.Addr != "" {
		core.redis = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return core
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Gateway() *aigateway.Client {
	return s.gateway
}

func (s *Core) Redis() redis.UniversalClient {
	return s.redis
}

func (s *Core) FileStorage() FileStorage {
	return s.storage
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}
