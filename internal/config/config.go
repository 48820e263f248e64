package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverLocal    = "local"

	PhotosDriverS3   = "s3"
	PhotosDriverDisk = "disk"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Http     HttpConfig     `mapstructure:"http"`
	Store    StoreConfig    `mapstructure:"store"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Photos   PhotosConfig   `mapstructure:"photos"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type HttpConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	LocalPath string `mapstructure:"local_path"`
	Seed      bool   `mapstructure:"seed"`
}

type PostgresConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Database    string `mapstructure:"database"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	SSLMode     string `mapstructure:"ssl_mode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`

	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	AccessTTL   time.Duration `mapstructure:"access_ttl"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	AdminEmails []string      `mapstructure:"admin_emails"`
}

type PhotosConfig struct {
	Driver        string `mapstructure:"driver"`
	Dir           string `mapstructure:"dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
}

type GeocoderConfig struct {
	URL       string        `mapstructure:"url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RPS       float64       `mapstructure:"rps"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

type CacheConfig struct {
	TrackTTL     time.Duration `mapstructure:"track_ttl"`
	SelectionTTL time.Duration `mapstructure:"selection_ttl"`
}

func (c *Config) LocalStore() bool { return c.Store.Driver == StoreDriverLocal }

var envBindings = map[string]string{
	"env":                    "ENV",
	"http.port":              "HTTP_PORT",
	"http.read_timeout":      "HTTP_READ_TIMEOUT",
	"http.write_timeout":     "HTTP_WRITE_TIMEOUT",
	"http.shutdown_timeout":  "HTTP_SHUTDOWN_TIMEOUT",
	"http.cors_origins":      "CORS_ALLOWED_ORIGINS",
	"http.max_upload_bytes":  "HTTP_MAX_UPLOAD_BYTES",
	"store.driver":           "STORE_DRIVER",
	"store.local_path":       "LOCAL_STORE_PATH",
	"store.seed":             "LOCAL_STORE_SEED",
	"postgres.host":          "POSTGRES_HOST",
	"postgres.port":          "POSTGRES_PORT",
	"postgres.database":      "POSTGRES_DB",
	"postgres.user":          "POSTGRES_USER",
	"postgres.password":      "POSTGRES_PASSWORD",
	"postgres.ssl_mode":      "POSTGRES_SSL_MODE",
	"postgres.auto_migrate":  "POSTGRES_AUTO_MIGRATE",
	"redis.addr":             "REDIS_ADDR",
	"redis.password":         "REDIS_PASSWORD",
	"redis.db":               "REDIS_DB",
	"auth.jwt_secret":        "AUTH_JWT_SECRET",
	"auth.access_ttl":        "AUTH_ACCESS_TTL",
	"auth.session_ttl":       "AUTH_SESSION_TTL",
	"auth.admin_emails":      "AUTH_ADMIN_EMAILS",
	"photos.driver":          "PHOTOS_DRIVER",
	"photos.dir":             "PHOTOS_DIR",
	"photos.public_base_url": "PHOTOS_PUBLIC_BASE_URL",
	"photos.endpoint":        "S3_ENDPOINT",
	"photos.access_key":      "S3_ACCESS_KEY",
	"photos.secret_key":      "S3_SECRET_KEY",
	"photos.bucket":          "S3_BUCKET",
	"photos.use_ssl":         "S3_USE_SSL",
	"geocoder.url":           "GEOCODER_URL",
	"geocoder.user_agent":    "GEOCODER_USER_AGENT",
	"geocoder.timeout":       "GEOCODER_TIMEOUT",
	"geocoder.rps":           "GEOCODER_RPS",
	"geocoder.cache_ttl":     "GEOCODER_CACHE_TTL",
	"cache.track_ttl":        "TRACK_CACHE_TTL",
	"cache.selection_ttl":    "SELECTION_TTL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http.port", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("http.max_upload_bytes", 10<<20)
	v.SetDefault("store.driver", StoreDriverPostgres)
	v.SetDefault("store.local_path", "data/complaints.json")
	v.SetDefault("store.seed", true)
	v.SetDefault("postgres.host", "pg-local")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "village_voice")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.auto_migrate", true)
	v.SetDefault("postgres.max_conns", 20)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", "1h")
	v.SetDefault("redis.addr", "redis-local:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.access_ttl", "15m")
	v.SetDefault("auth.session_ttl", "168h")
	v.SetDefault("photos.driver", PhotosDriverDisk)
	v.SetDefault("photos.dir", "data/photos")
	v.SetDefault("photos.public_base_url", "http://localhost:8080/photos")
	v.SetDefault("photos.bucket", "complaint-photos")
	v.SetDefault("photos.use_ssl", false)
	v.SetDefault("geocoder.url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "village-voice/1.0")
	v.SetDefault("geocoder.timeout", "5s")
	v.SetDefault("geocoder.rps", 1.0)
	v.SetDefault("geocoder.cache_ttl", "24h")
	v.SetDefault("cache.track_ttl", "30s")
	v.SetDefault("cache.selection_ttl", "30m")
}

// Load reads .env, an optional config.yaml and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Http.CORSOrigins = splitList(cfg.Http.CORSOrigins)
	cfg.Auth.AdminEmails = splitList(cfg.Auth.AdminEmails)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("photos_driver", cfg.Photos.Driver),
		slog.String("geocoder_url", cfg.Geocoder.URL))

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Postgres.Host == "" {
			return errors.New("POSTGRES_HOST required")
		}
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR required")
		}
		if len(c.Auth.JWTSecret) < 16 {
			return errors.New("AUTH_JWT_SECRET must be at least 16 characters")
		}
	case StoreDriverLocal:
		if c.Store.LocalPath == "" {
			return errors.New("LOCAL_STORE_PATH required")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverLocal, c.Store.Driver)
	}

	switch c.Photos.Driver {
	case PhotosDriverDisk:
		if c.Photos.Dir == "" {
			return errors.New("PHOTOS_DIR required")
		}
	case PhotosDriverS3:
		if c.Photos.Endpoint == "" || c.Photos.Bucket == "" {
			return errors.New("S3_ENDPOINT and S3_BUCKET required")
		}
	default:
		return fmt.Errorf("PHOTOS_DRIVER must be %q or %q, got %q", PhotosDriverDisk, PhotosDriverS3, c.Photos.Driver)
	}

	if c.Geocoder.RPS <= 0 {
		return errors.New("GEOCODER_RPS must be positive")
	}

	return nil
}

// env lists arrive as one comma separated element
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
