package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Security    SecurityConfig    `mapstructure:"security"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Game        GameConfig        `mapstructure:"game"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Words       WordsConfig       `mapstructure:"words"`
	WebSocket   WebSocketConfig   `mapstructure:"websocket"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig configures the optional stats/leaderboard cache.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  string            `mapstructure:"output"`
	File    LogFileConfig     `mapstructure:"file"`
	Modules map[string]string `mapstructure:"modules"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWT    JWTConfig    `mapstructure:"jwt"`
	Cookie CookieConfig `mapstructure:"cookie"`
}

// JWTConfig token signing and lifetimes.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// CookieConfig controls the accessToken/refreshToken cookies.
type CookieConfig struct {
	Secure bool   `mapstructure:"secure"`
	Domain string `mapstructure:"domain"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins     []string      `mapstructure:"allow_origins"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// GameConfig holds the rules applied to every new session.
type GameConfig struct {
	MaxWrongGuesses     int           `mapstructure:"max_wrong_guesses"`
	MaxHints            int           `mapstructure:"max_hints"`
	SessionExpiry       time.Duration `mapstructure:"session_expiry"`
	ExpirySweepInterval time.Duration `mapstructure:"expiry_sweep_interval"`
}

// LeaderboardConfig 排行榜配置
type LeaderboardConfig struct {
	MinGames int           `mapstructure:"min_games"`
	Size     int           `mapstructure:"size"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// WordsConfig controls the word corpus seed.
type WordsConfig struct {
	SeedOnStart bool   `mapstructure:"seed_on_start"`
	SeedFile    string `mapstructure:"seed_file"`
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Path            string        `mapstructure:"path"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// Loader owns the viper instance backing a Config.
type Loader struct {
	mu  sync.RWMutex
	v   *viper.Viper
	cfg *Config
}

// Load reads .env, the config file and HANGMAN_* environment variables.
func Load(configPath string) (*Loader, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("HANGMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Loader{v: v, cfg: cfg}, nil
}

// Default returns the built-in defaults without reading files or env.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/hangman.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "hangman")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "hangman.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("security.jwt.secret", "change-me-in-production")
	v.SetDefault("security.jwt.issuer", "hangman-game")
	v.SetDefault("security.jwt.access_ttl", "15m")
	v.SetDefault("security.jwt.refresh_ttl", "168h")
	v.SetDefault("security.cookie.secure", false)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", "12h")

	v.SetDefault("game.max_wrong_guesses", 6)
	v.SetDefault("game.max_hints", 2)
	v.SetDefault("game.session_expiry", "0s")
	v.SetDefault("game.expiry_sweep_interval", "5m")

	v.SetDefault("leaderboard.min_games", 3)
	v.SetDefault("leaderboard.size", 5)
	v.SetDefault("leaderboard.cache_ttl", "30s")

	v.SetDefault("words.seed_on_start", true)

	v.SetDefault("websocket.enabled", true)
	v.SetDefault("websocket.path", "/ws")
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.ping_interval", "54s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.write_timeout", "10s")
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Game.MaxWrongGuesses < 1 {
		return fmt.Errorf("game.max_wrong_guesses must be >= 1, got %d", c.Game.MaxWrongGuesses)
	}
	if c.Game.MaxHints < 0 || c.Game.MaxHints > 2 {
		return fmt.Errorf("game.max_hints must be between 0 and 2, got %d", c.Game.MaxHints)
	}
	if c.Leaderboard.MinGames < 1 {
		return fmt.Errorf("leaderboard.min_games must be >= 1, got %d", c.Leaderboard.MinGames)
	}
	if c.Leaderboard.Size < 1 {
		return fmt.Errorf("leaderboard.size must be >= 1, got %d", c.Leaderboard.Size)
	}
	if c.Security.JWT.Secret == "" {
		return errors.New("security.jwt.secret is required")
	}
	if c.Server.Mode == "production" && c.Security.JWT.Secret == "change-me-in-production" {
		return errors.New("security.jwt.secret must be set in production")
	}
	return nil
}

// Get 获取当前配置
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// ConfigFile returns the file viper read, if any.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch 监听配置文件变化
func (l *Loader) Watch(callback func(*Config)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		newCfg := &Config{}
		if err := l.v.Unmarshal(newCfg); err != nil {
			fmt.Printf("config reload failed: %v\n", err)
			return
		}
		if err := newCfg.Validate(); err != nil {
			fmt.Printf("config reload rejected: %v\n", err)
			return
		}

		l.mu.Lock()
		l.cfg = newCfg
		l.mu.Unlock()

		if callback != nil {
			callback(newCfg)
		}
	})
	l.v.WatchConfig()
}
