package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"bringlist/pkg/logger"
	"github.com/spf13/viper"
)

const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	defaultAdminPassword = "admin123"
)

type Config struct {
	HTTPPort           string
	Env                string
	PublicBaseURL      string
	CORSAllowedOrigins []string
	TrustedProxies     []netip.Prefix
	Auth               AuthConfig
	Store              StoreConfig
	DB                 DBConfig
}

type AuthConfig struct {
	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration
	CookieSecure      bool
	RatePerMinute     int
}

type StoreConfig struct {
	Backend      string
	DataDir      string
	LockTimeout  time.Duration
	DocumentName string
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDefaultPassword reports whether the admin password was left at its
// built-in fallback.
func (c AuthConfig) UsesDefaultPassword() bool {
	return c.AdminPasswordHash == "" && c.AdminPassword == defaultAdminPassword
}

func Load(log logger.Logger) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if err := loadDotEnv(v, log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return FromViper(v)
}

func loadDotEnv(v *viper.Viper, log logger.Logger) error {
	path, err := findDotEnv(dotenvFilename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	log.Info("dotenv: loaded variables", "count", len(v.AllKeys()), "path", path)
	return nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)

	env := strings.ToLower(strings.TrimSpace(v.GetString("ENV")))
	port := v.GetString("HTTP_PORT")

	dataDir := v.GetString("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
		if env == "production" {
			dataDir = "/app/data"
		}
	}

	cookieSecure := env == "production"
	if v.IsSet("COOKIE_SECURE") {
		cookieSecure = v.GetBool("COOKIE_SECURE")
	}

	publicBaseURL := strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:" + port
	}

	trustedProxies, err := parseProxies(splitList(v.GetString("TRUSTED_PROXIES")))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:           port,
		Env:                env,
		PublicBaseURL:      publicBaseURL,
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		TrustedProxies:     trustedProxies,
		Auth: AuthConfig{
			AdminPassword:     v.GetString("ADMIN_PASSWORD"),
			AdminPasswordHash: strings.TrimSpace(v.GetString("ADMIN_PASSWORD_HASH")),
			SessionSecret:     v.GetString("SESSION_SECRET"),
			SessionTTL:        v.GetDuration("SESSION_TTL"),
			CookieSecure:      cookieSecure,
			RatePerMinute:     v.GetInt("AUTH_RATE_PER_MINUTE"),
		},
		Store: StoreConfig{
			Backend:      strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
			DataDir:      dataDir,
			LockTimeout:  v.GetDuration("STORE_LOCK_TIMEOUT"),
			DocumentName: v.GetString("STORE_DOCUMENT_NAME"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			TimeZone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
	}

	switch cfg.Store.Backend {
	case StoreBackendFile, StoreBackendPostgres, StoreBackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
	if cfg.Auth.AdminPassword == "" && cfg.Auth.AdminPasswordHash == "" {
		return Config{}, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("ADMIN_PASSWORD", defaultAdminPassword)
	v.SetDefault("SESSION_TTL", 7*24*time.Hour)
	v.SetDefault("AUTH_RATE_PER_MINUTE", 10)
	v.SetDefault("STORE_BACKEND", StoreBackendFile)
	v.SetDefault("STORE_LOCK_TIMEOUT", 3*time.Second)
	v.SetDefault("STORE_DOCUMENT_NAME", "default")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "bringlist")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// parseProxies accepts CIDR prefixes and bare addresses.
func parseProxies(values []string) ([]netip.Prefix, error) {
	result := make([]netip.Prefix, 0, len(values))
	for _, value := range values {
		if prefix, err := netip.ParsePrefix(value); err == nil {
			result = append(result, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", value)
		}
		addr = addr.Unmap()
		result = append(result, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return result, nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
