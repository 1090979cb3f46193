package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/cache"
	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/apiserver/handler"
	"github.com/amoylab/tourdesk/internal/apiserver/middleware"
	"github.com/amoylab/tourdesk/internal/apiserver/scheduler"
	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/auth/jwt"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/amoylab/tourdesk/internal/common/rdb"
	"github.com/amoylab/tourdesk/internal/i18n"
	"github.com/amoylab/tourdesk/internal/mailer"
	"github.com/amoylab/tourdesk/internal/notifier"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/internal/template"
	"github.com/amoylab/tourdesk/pkg/logger"
	"github.com/amoylab/tourdesk/pkg/metrics"
	"github.com/amoylab/tourdesk/pkg/trace"
	"github.com/amoylab/tourdesk/pkg/version"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "apiserver version %s\n", version.Get())
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg := mustLoad()
			defer lg.Sync()
			db := initDatabase(lg, &cfg.Database)
			defer db.Close()
			lg.Info("database schema is up to date", zap.String("type", cfg.Database.Type))
			return nil
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the default organization and the super admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg := mustLoad()
			defer lg.Sync()
			db := initDatabase(lg, &cfg.Database)
			defer db.Close()
			return seed(cmd.Context(), lg, db, cfg)
		},
	}

	eventsCmd = &cobra.Command{
		Use:   "events",
		Short: "Print booking events from the configured notifier as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg := mustLoad()
			defer lg.Sync()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			client := initRedis(ctx, lg, cfg)
			if client != nil {
				defer client.Close()
			}
			return watchEvents(ctx, initNotifier(ctx, lg, &cfg.Notifier, client), cmd.OutOrStdout())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "Tourdesk API Server",
		Long:  `Tourdesk API Server serves quotes, bookings, inventory, payments and vouchers for travel agencies`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", cnst.ApiServerYaml, "path to configuration file")
	rootCmd.AddCommand(versionCmd, migrateCmd, seedCmd, eventsCmd)
}

func mustLoad() (*config.APIServerConfig, *zap.Logger) {
	cfg, cfgPath, err := config.LoadConfig[config.APIServerConfig](configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}
	if err := config.ValidateAPIServerConfig(cfg, cfgPath); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	lg := initLogger(cfg)
	lg.Info("Loaded configuration", zap.String("path", cfgPath))
	return cfg, lg
}

func initLogger(cfg *config.APIServerConfig) *zap.Logger {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return lg
}

func initDatabase(lg *zap.Logger, cfg *config.DatabaseConfig) database.Database {
	db, err := database.NewDatabase(lg, cfg)
	if err != nil {
		lg.Fatal("Failed to initialize database", zap.String("type", cfg.Type), zap.Error(err))
	}
	return db
}

// initRedis connects to Redis when an address is configured. It returns nil
// otherwise.
func initRedis(ctx context.Context, lg *zap.Logger, cfg *config.APIServerConfig) redis.UniversalClient {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client, err := rdb.NewClient(ctx, cfg.Redis)
	if err != nil {
		lg.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	return client
}

func initNotifier(ctx context.Context, lg *zap.Logger, cfg *config.NotifierConfig, client redis.UniversalClient) notifier.Notifier {
	ntf, err := notifier.NewNotifier(ctx, lg, cfg, client)
	if err != nil {
		lg.Fatal("Failed to initialize notifier", zap.String("type", cfg.Type), zap.Error(err))
	}
	return ntf
}

func initI18n(cfg *config.I18nConfig) {
	if err := i18n.InitTranslator(cfg.Path); err != nil {
		log.Printf("Failed to initialize i18n from %s: %v", cfg.Path, err)
	}
}

func initSessions(lg *zap.Logger, cfg *config.APIServerConfig, db database.Database, client redis.UniversalClient) (*session.Manager, *cache.ProfileCache) {
	store, err := session.NewStore(lg, &cfg.Session, client, cfg.Redis.Prefix)
	if err != nil {
		lg.Fatal("Failed to initialize session store", zap.Error(err))
	}

	var loader session.Loader = service.NewLoader(db)
	var profiles *cache.ProfileCache
	if cfg.Cache.Enabled {
		pcfg := cache.ProfileCacheConfig{
			Prefix: cfg.Redis.Prefix,
			Cache:  cfg.Cache,
			Loader: loader,
			Logger: lg,
		}
		if client != nil {
			pcfg.RedisClient = client
		}
		profiles = cache.NewProfileCache(pcfg)
		loader = profiles
	}
	return session.NewManager(loader, store, cfg.Session.TTL, lg), profiles
}

func initRouter(ctx context.Context, db database.Database, client redis.UniversalClient, ntf notifier.Notifier, cfg *config.APIServerConfig, lg *zap.Logger) (*gin.Engine, *service.Service) {
	jwtService, err := jwt.NewService(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Duration:  cfg.JWT.Duration,
	})
	if err != nil {
		lg.Fatal("Failed to initialize JWT service", zap.Error(err))
	}

	renderer, err := template.NewRenderer()
	if err != nil {
		lg.Fatal("Failed to load document templates", zap.Error(err))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}

	sessions, profiles := initSessions(lg, cfg, db, client)
	deps := service.Deps{
		DB:       db,
		Notifier: ntf,
		Metrics:  m,
		Renderer: renderer,
		Mailer:   mailer.New(lg, cfg.Mailer),
		Booking:  cfg.Booking,
		Mail:     cfg.Mailer,
		Logger:   lg,
	}
	if profiles != nil {
		deps.Cache = profiles
		go func() {
			<-ctx.Done()
			profiles.Close()
		}()
	}
	svc := service.New(deps)

	r := gin.New()
	r.Use(middleware.Recovery(lg))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cnst.AppName))
	}
	if m != nil {
		r.Use(m.Middleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	r.Use(middleware.Logger(lg), middleware.Language())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})

	handler.NewHandler(svc, jwtService, sessions, lg).RegisterRoutes(r)
	return r, svc
}

func initScheduler(ctx context.Context, cfg *config.SchedulerConfig, svc *service.Service, lg *zap.Logger) *scheduler.CompletionScheduler {
	if !cfg.Enabled {
		return nil
	}
	cs := scheduler.NewCompletionScheduler(*cfg, svc, lg)
	if err := cs.Start(ctx); err != nil {
		lg.Fatal("Failed to start completion scheduler", zap.Error(err))
	}
	return cs
}

func seed(ctx context.Context, lg *zap.Logger, db database.Database, cfg *config.APIServerConfig) error {
	res, err := service.Seed(ctx, db, cfg.SuperAdmin)
	if err != nil {
		return err
	}
	lg.Info("Default organization ready",
		zap.Uint("org_id", res.Organization.ID),
		zap.String("name", res.Organization.Name))
	if res.Admin == nil {
		lg.Warn("Super admin credentials are not configured, skipping admin account")
		return nil
	}
	lg.Info("Super admin ready",
		zap.String("username", res.Admin.Username),
		zap.Bool("created", res.AdminCreated))
	return nil
}

// watchEvents writes every received event to out as a JSON line until ctx is done
func watchEvents(ctx context.Context, ntf notifier.Notifier, out io.Writer) error {
	if !ntf.CanReceive() {
		return errors.New("configured notifier cannot receive events")
	}
	ch, err := ntf.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch events: %w", err)
	}
	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if err := enc.Encode(ev); err != nil {
				return err
			}
		}
	}
}

func run() {
	cfg, lg := mustLoad()
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("Starting apiserver", zap.String("version", version.Get()))

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
	if err != nil {
		lg.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			lg.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	initI18n(&cfg.I18n)

	db := initDatabase(lg, &cfg.Database)
	defer db.Close()
	if err := seed(ctx, lg, db, cfg); err != nil {
		lg.Fatal("Failed to seed database", zap.Error(err))
	}

	client := initRedis(ctx, lg, cfg)
	if client != nil {
		defer client.Close()
	}
	ntf := initNotifier(ctx, lg, &cfg.Notifier, client)

	router, svc := initRouter(ctx, db, client, ntf, cfg, lg)
	if cs := initScheduler(ctx, &cfg.Scheduler, svc, lg); cs != nil {
		defer cs.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("Shutting down apiserver")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		lg.Error("Failed to shut down server", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
