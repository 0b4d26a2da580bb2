package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/classbridge-backend/internal/data/db"
	httpserver "github.com/yungbote/classbridge-backend/internal/http"
	httpH "github.com/yungbote/classbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/classbridge-backend/internal/http/middleware"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/realtime"
)

const redisCollectInterval = 15 * time.Second

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Metrics  *observability.Metrics
	Repos    Repos
	Clients  Clients
	Services Services
	Hub      *realtime.SSEHub
	Server   *httpserver.Server

	otelShutdown func(context.Context) error
}

// New loads configuration, connects the database and wires every layer. It does not
// start serving; see cmd/main.go.
func New(ctx context.Context) (*App, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	v := newViper()
	log, err := logger.New(v.GetString("LOG_MODE"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	cfg, err := loadConfig(v, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	dbs, err := OpenDB(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	a, err := build(ctx, log, cfg, dbs)
	if err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}
	return a, nil
}

// OpenDB connects and migrates the configured database.
func OpenDB(log *logger.Logger, cfg Config) (*db.Service, error) {
	dbs, err := db.NewService(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		_ = dbs.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	return dbs, nil
}

func build(ctx context.Context, log *logger.Logger, cfg Config, dbs *db.Service) (*App, error) {
	theDB := dbs.DB()
	metrics := observability.NewMetrics()
	metrics.RegisterDBStats(log, theDB)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	clients, err := wireClients(log, cfg)
	if err != nil {
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, metrics)
	if err != nil {
		_ = clients.Bus.Close()
		return nil, err
	}

	hub := realtime.NewSSEHub(log)
	server := httpserver.NewServer(routerConfig(log, cfg, theDB, metrics, serviceset, hub))
	server.OnShutdown(hub.CloseAll)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           dbs,
		Metrics:      metrics,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Hub:          hub,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

func routerConfig(log *logger.Logger, cfg Config, theDB *gorm.DB, metrics *observability.Metrics, s Services, hub *realtime.SSEHub) httpserver.RouterConfig {
	log.Info("wiring handlers")
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpserver.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, s.Auth),
		AuthHandler:     httpH.NewAuthHandler(log, s.Google, s.Users, cfg.SecureCookies),
		RealtimeHandler: httpH.NewRealtimeHandler(log, hub),
		CourseHandler:   httpH.NewCourseHandler(s.Courses),
		SubjectHandler:  httpH.NewSubjectHandler(s.Subjects),
		LessonHandler:   httpH.NewLessonHandler(s.Lessons),
		TeacherHandler:  httpH.NewTeacherHandler(s.Teachers),
		ScheduleHandler: httpH.NewScheduleHandler(s.Importer, s.Lessons, cfg.DisplayLocation),
		ProgressHandler: httpH.NewProgressHandler(s.Progress),
		CheckoutHandler: httpH.NewCheckoutHandler(s.Checkout, s.Analytics),
		HealthHandler:   httpH.NewHealthHandler(theDB),
	}
}

// Forward relays bus messages into the local hub until ctx ends.
func (a *App) Forward(ctx context.Context) error {
	if rdb := a.Clients.RedisClient(); rdb != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, rdb, redisCollectInterval)
	}
	return a.Clients.Bus.StartForwarder(ctx, a.Hub.Broadcast)
}

func (a *App) Address() string { return ":" + a.Cfg.Port }

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.Bus != nil {
		if err := a.Clients.Bus.Close(); err != nil {
			a.Log.Warn("bus close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	a.Log.Sync()
}
