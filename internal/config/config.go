package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds application level configuration.
//
// Values are layered: an optional TOML file named by CONFIG_FILE supplies the base,
// a .env file in the working directory is loaded into the process environment, and
// environment variables override both.
type Config struct {
	ServerPort string `toml:"port"`
	Env        string `toml:"env"`

	DBDriver        string `toml:"db_driver"`
	DatabaseURL     string `toml:"database_url"`
	DBMaxOpenConns  int    `toml:"db_max_open_conns"`
	DBMaxIdleConns  int    `toml:"db_max_idle_conns"`
	DBConnLifetime  string `toml:"db_conn_max_lifetime"`
	ResetDB         bool   `toml:"reset_db"`
	SeedOnStart     bool   `toml:"seed_on_start"`
	AdminEmail      string `toml:"admin_email"`
	AdminPassword   string `toml:"admin_password"`
	StrictBookingSM bool   `toml:"booking_strict_status"`

	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	RedisPass string `toml:"redis_password"`

	JWTSecret          string `toml:"jwt_secret"`
	JWTExpire          string `toml:"jwt_expire"`
	RefreshTokenSecret string `toml:"refresh_token_secret"`
	RefreshTokenExpire string `toml:"refresh_token_expire"`

	FrontendURL    string   `toml:"frontend_url"`
	AllowedOrigins []string `toml:"allowed_origins"`

	LogLevel       string `toml:"log_level"`
	SwaggerHost    string `toml:"swagger_host"`
	MetricsEnabled bool   `toml:"metrics_enabled"`
	MetricsPath    string `toml:"metrics_path"`

	S3Bucket      string `toml:"s3_bucket"`
	S3Region      string `toml:"s3_region"`
	S3Endpoint    string `toml:"s3_endpoint"`
	S3AccessKey   string `toml:"s3_access_key"`
	S3SecretKey   string `toml:"s3_secret_key"`
	S3PublicURL   string `toml:"s3_public_url"`
	ImageMaxWidth int    `toml:"image_max_width"`
}

// defaultOrigins mirrors the origins the SPA is deployed from.
var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:3000",
}

// Placeholder secrets shipped in Default; only development may run with them.
const (
	placeholderJWTSecret     = "your_jwt_secret_key_here"
	placeholderRefreshSecret = "your_refresh_token_secret"
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServerPort:         "5000",
		Env:                "development",
		DBDriver:           "mysql",
		DatabaseURL:        "user:password@tcp(localhost:3306)/carwash?charset=utf8mb4&parseTime=True&loc=UTC",
		DBMaxOpenConns:     10,
		DBMaxIdleConns:     5,
		DBConnLifetime:     "30m",
		SeedOnStart:        true,
		AdminEmail:         "admin@programming-hero.com",
		AdminPassword:      "ph-password",
		RedisAddr:          "localhost:6379",
		JWTSecret:          placeholderJWTSecret,
		JWTExpire:          "7d",
		RefreshTokenSecret: placeholderRefreshSecret,
		RefreshTokenExpire: "30d",
		FrontendURL:        "http://localhost:5174",
		AllowedOrigins:     append([]string(nil), defaultOrigins...),
		LogLevel:           "info",
		MetricsEnabled:     true,
		MetricsPath:        "/metrics",
		S3Region:           "us-east-1",
		ImageMaxWidth:      1024,
	}
}

// Load builds Config from the optional TOML file, .env and the environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	// A missing .env is fine; only the environment is consulted then.
	_ = godotenv.Load()

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("PORT", getEnv("SERVER_PORT", c.ServerPort))
	c.Env = getEnv("APP_ENV", getEnv("NODE_ENV", c.Env))

	c.DBDriver = strings.ToLower(getEnv("DB_DRIVER", c.DBDriver))
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.DBMaxOpenConns)
	c.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.DBMaxIdleConns)
	c.DBConnLifetime = getEnv("DB_CONN_MAX_LIFETIME", c.DBConnLifetime)
	c.ResetDB = getEnvBool("RESET_DB", c.ResetDB)
	c.SeedOnStart = getEnvBool("SEED_ON_START", c.SeedOnStart)
	c.AdminEmail = getEnv("ADMIN_EMAIL", c.AdminEmail)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)
	c.StrictBookingSM = getEnvBool("BOOKING_STRICT_STATUS", c.StrictBookingSM)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPass = getEnv("REDIS_PASSWORD", c.RedisPass)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTExpire = getEnv("JWT_EXPIRE", c.JWTExpire)
	c.RefreshTokenSecret = getEnv("REFRESH_TOKEN_SECRET", c.RefreshTokenSecret)
	c.RefreshTokenExpire = getEnv("REFRESH_TOKEN_EXPIRE", c.RefreshTokenExpire)

	c.FrontendURL = getEnv("FRONTEND_URL", c.FrontendURL)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.SwaggerHost = getEnv("SWAGGER_HOST", c.SwaggerHost)
	c.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.MetricsEnabled)
	c.MetricsPath = getEnv("METRICS_PATH", c.MetricsPath)

	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3AccessKey = getEnv("S3_ACCESS_KEY", c.S3AccessKey)
	c.S3SecretKey = getEnv("S3_SECRET_KEY", c.S3SecretKey)
	c.S3PublicURL = getEnv("S3_PUBLIC_URL", c.S3PublicURL)
	c.ImageMaxWidth = getEnvInt("IMAGE_MAX_WIDTH", c.ImageMaxWidth)
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	for name, v := range map[string]string{
		"JWT_EXPIRE":           c.JWTExpire,
		"REFRESH_TOKEN_EXPIRE": c.RefreshTokenExpire,
		"DB_CONN_MAX_LIFETIME": c.DBConnLifetime,
	} {
		if _, err := ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.JWTSecret == c.RefreshTokenSecret {
		return fmt.Errorf("JWT_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if !c.IsDevelopment() {
		if c.JWTSecret == "" || c.JWTSecret == placeholderJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set when APP_ENV is %q", c.Env)
		}
		if c.RefreshTokenSecret == "" || c.RefreshTokenSecret == placeholderRefreshSecret {
			return fmt.Errorf("REFRESH_TOKEN_SECRET must be set when APP_ENV is %q", c.Env)
		}
	}
	return nil
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

// AccessTokenTTL returns the parsed JWT_EXPIRE.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := ParseDuration(c.JWTExpire)
	return d
}

// RefreshTokenTTL returns the parsed REFRESH_TOKEN_EXPIRE.
func (c *Config) RefreshTokenTTL() time.Duration {
	d, _ := ParseDuration(c.RefreshTokenExpire)
	return d
}

// ConnMaxLifetime returns the parsed DB_CONN_MAX_LIFETIME.
func (c *Config) ConnMaxLifetime() time.Duration {
	d, _ := ParseDuration(c.DBConnLifetime)
	return d
}

// Origins returns the CORS allow-list: the frontend URL followed by the extra origins, deduplicated.
func (c *Config) Origins() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range append([]string{c.FrontendURL}, c.AllowedOrigins...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

// ParseDuration accepts Go durations plus a day suffix, e.g. "7d" or "1d12h".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	var days time.Duration
	if i := strings.IndexByte(s, 'd'); i >= 0 {
		n, err := strconv.Atoi(s[:i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		days = time.Duration(n) * 24 * time.Hour
		s = s[i+1:]
		if s == "" {
			return days, nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return days + d, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
