package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/api"
	"github.com/wfunc/hangman-game/internal/cache"
	"github.com/wfunc/hangman-game/internal/config"
	"github.com/wfunc/hangman-game/internal/database"
	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/logger"
	"github.com/wfunc/hangman-game/internal/metrics"
	"github.com/wfunc/hangman-game/internal/service"
	ws "github.com/wfunc/hangman-game/internal/websocket"
	"github.com/wfunc/hangman-game/internal/wordlist"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title Hangman Game API
// @version 1.0
// @description Hangman game sessions, scoring, stats and leaderboard.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// Server 服务器实例
type Server struct {
	loader  *config.Loader
	cfg     *config.Config
	logger  *zap.Logger
	modules map[string]*zap.Logger

	db       *gorm.DB
	cache    cache.Cache
	closers  []func() error
	metrics  *metrics.Metrics
	services *service.Services
	hub      *ws.Hub
	http     *http.Server

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
	)
	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	// 加载配置
	loader, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := loader.Get()

	// 初始化日志系统
	log, modules, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	server := NewServer(loader, log, modules)
	if err := server.Start(); err != nil {
		log.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		log.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}
	log.Info("服务器已安全关闭")
	_ = log.Sync()
}

// NewServer 创建服务器实例
func NewServer(loader *config.Loader, log *zap.Logger, modules map[string]*zap.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		loader:  loader,
		cfg:     loader.Get(),
		logger:  log,
		modules: modules,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// moduleLogger prefers a logger configured under log.modules.
func (s *Server) moduleLogger(name string) *zap.Logger {
	if l, ok := s.modules[name]; ok {
		return l
	}
	return s.logger.Named(name)
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("Starting hangman server",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
		zap.String("config", s.loader.ConfigFile()),
	)

	if err := s.initComponents(); err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "init components")
	}
	s.startServices()

	// 监听配置变化
	if s.loader.ConfigFile() != "" {
		s.loader.Watch(func(newCfg *config.Config) {
			s.logger.Info("Config changed, reloading")
			s.reloadConfig(newCfg)
		})
	}

	s.logger.Info("Server started", zap.String("http", s.cfg.Server.Addr()))
	return nil
}

// initComponents 初始化组件
func (s *Server) initComponents() error {
	if err := s.initDatabase(); err != nil {
		return err
	}
	s.initCache()

	s.metrics = metrics.New()
	s.services = service.NewServices(s.db, s.cfg,
		service.Deps{Cache: s.cache, Metrics: s.metrics}, s.logger)

	if err := s.seedWords(); err != nil {
		return err
	}

	if s.cfg.WebSocket.Enabled {
		s.hub = ws.NewHub(ws.Options{
			PingInterval: s.cfg.WebSocket.PingInterval,
			PongTimeout:  s.cfg.WebSocket.PongTimeout,
			WriteTimeout: s.cfg.WebSocket.WriteTimeout,
		}, s.moduleLogger("websocket"))
		s.services.Game.OnFinish(s.hub.NotifyGameFinished)
	}

	if s.cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Config:   s.cfg,
		DB:       s.db,
		Services: s.services,
		Cache:    s.cache,
		Metrics:  s.metrics,
		Hub:      s.hub,
		Log:      s.moduleLogger("http"),
	})
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	return nil
}

// initDatabase 初始化数据库
func (s *Server) initDatabase() error {
	log := s.moduleLogger("database")
	db, err := database.Open(&s.cfg.Database, log)
	if err != nil {
		return errors.Wrap(err, errors.ErrDependency, "open database")
	}
	s.db = db
	s.closers = append(s.closers, func() error { return database.Close(db) })

	if s.cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseWrite, "migrate database")
		}
	}
	return nil
}

// initCache falls back to no caching when redis is disabled or unreachable.
func (s *Server) initCache() {
	s.cache = cache.NopCache{}
	if !s.cfg.Redis.Enabled {
		return
	}

	rc := cache.NewRedisCache(cache.NewRedisClient(cache.Options{
		Addr:     s.cfg.Redis.Addr,
		Password: s.cfg.Redis.Password,
		DB:       s.cfg.Redis.DB,
	}), s.cfg.Redis.Prefix)

	ctx, cancel := context.WithTimeout(s.ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		// still used; every lookup falls through to the database until redis is back
		s.logger.Warn("Redis unreachable at startup", zap.String("addr", s.cfg.Redis.Addr), zap.Error(err))
	}
	s.cache = rc
	s.closers = append(s.closers, rc.Close)
}

// seedWords 初始化词库
func (s *Server) seedWords() error {
	if !s.cfg.Words.SeedOnStart {
		return nil
	}
	words, err := wordlist.Load(s.cfg.Words.SeedFile)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "load word list")
	}
	added, err := s.services.Word.Seed(s.ctx, words)
	if err != nil {
		return err
	}
	s.logger.Info("Word list seeded", zap.Int("entries", len(words)), zap.Int64("added", added))
	return nil
}

// startServices 启动服务
func (s *Server) startServices() {
	if s.hub != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.hub.Run(s.ctx)
		}()
	}

	if s.cfg.Game.SessionExpiry > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runExpirySweeper()
		}()
	}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
}

// runExpirySweeper marks abandoned games as lost.
func (s *Server) runExpirySweeper() {
	interval := s.cfg.Game.ExpirySweepInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			// expiry may be switched off by a config reload
			expiry := s.currentConfig().Game.SessionExpiry
			if expiry <= 0 {
				continue
			}
			n, err := s.services.Game.ExpireStale(s.ctx, expiry)
			if err != nil {
				s.logger.Error("Expiry sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("Expired stale games", zap.Int("count", n))
			}
		}
	}
}

// WaitForShutdown 等待关闭信号
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigCh
	s.logger.Info("Received signal", zap.String("signal", sig.String()))
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// 停止接收新请求
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP shutdown", zap.Error(err))
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		return errors.New(errors.ErrUnknown, "shutdown timed out")
	}

	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Error("Close component failed", zap.Error(err))
		}
	}
	return nil
}

func (s *Server) currentConfig() *config.Config {
	return s.loader.Get()
}

// reloadConfig 重新加载配置
// Only game rules and leaderboard options are hot; everything else needs a restart.
func (s *Server) reloadConfig(newCfg *config.Config) {
	s.services.Reconfigure(newCfg)
	s.logger.Info("Config reloaded",
		zap.Int("max_wrong_guesses", newCfg.Game.MaxWrongGuesses),
		zap.Int("max_hints", newCfg.Game.MaxHints),
		zap.Int("leaderboard_min_games", newCfg.Leaderboard.MinGames),
	)
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("hangman-server %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
