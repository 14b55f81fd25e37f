package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Required fields
	SecretKey string `mapstructure:"secret_key"`

	// Database settings
	DBDriver string `mapstructure:"db_driver"` // "sqlite", "postgres" or "mysql"
	DBDSN    string `mapstructure:"db_dsn"`

	// HTTP settings
	HTTPHost string `mapstructure:"http_host"`
	HTTPPort int    `mapstructure:"http_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Session settings
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	RememberTTL  time.Duration `mapstructure:"remember_ttl"`
	CookieSecure bool          `mapstructure:"cookie_secure"`

	// Avatar settings
	MaxUploadMB    int64  `mapstructure:"max_upload_mb"`
	AvatarStorage  string `mapstructure:"avatar_storage"` // "local" or "minio"
	AvatarDir      string `mapstructure:"avatar_dir"`
	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`

	// Optional Redis settings, enables session revocation
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// Optional logging settings
	LogFile   string `mapstructure:"log_file"`
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`

	ConfigPath string
}

const (
	DefaultConfigPath    = "/etc/inkwell/config.yml"
	DefaultDBDriver      = "sqlite"
	DefaultDBDSN         = "inkwell.sqlite3"
	DefaultHTTPHost      = "0.0.0.0"
	DefaultHTTPPort      = 5000
	DefaultSessionTTL    = 24 * time.Hour
	DefaultRememberTTL   = 365 * 24 * time.Hour
	DefaultMaxUploadMB   = 4
	DefaultAvatarStorage = "local"
	DefaultAvatarDir     = "static/images"
	DefaultMinioBucket   = "inkwell-avatars"
	DefaultLogLevel      = "info"

	envPrefix = "INKWELL"
)

var defaults = map[string]interface{}{
	"secret_key":       "",
	"db_driver":        DefaultDBDriver,
	"db_dsn":           DefaultDBDSN,
	"http_host":        DefaultHTTPHost,
	"http_port":        DefaultHTTPPort,
	"ssl_cert":         "",
	"ssl_key":          "",
	"session_ttl":      DefaultSessionTTL,
	"remember_ttl":     DefaultRememberTTL,
	"cookie_secure":    false,
	"max_upload_mb":    DefaultMaxUploadMB,
	"avatar_storage":   DefaultAvatarStorage,
	"avatar_dir":       DefaultAvatarDir,
	"minio_endpoint":   "",
	"minio_access_key": "",
	"minio_secret_key": "",
	"minio_bucket":     DefaultMinioBucket,
	"minio_use_ssl":    false,
	"redis_addr":       "",
	"redis_password":   "",
	"redis_db":         0,
	"log_file":         "",
	"log_level":        DefaultLogLevel,
	"log_pretty":       false,
}

// Load reads the YAML config file and applies INKWELL_* environment
// overrides. An explicitly given file must exist; the default one may be
// absent when everything comes from the environment.
func Load(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Allow environment variable overrides
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigPath = configPath

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key is required")
	}

	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("db_driver must be 'sqlite', 'postgres' or 'mysql'")
	}

	if c.DBDSN == "" {
		return fmt.Errorf("db_dsn is required")
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 1 and 65535")
	}

	if c.SessionTTL <= 0 || c.RememberTTL <= 0 {
		return fmt.Errorf("session_ttl and remember_ttl must be positive")
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}

	switch c.AvatarStorage {
	case "local":
		if c.AvatarDir == "" {
			return fmt.Errorf("avatar_dir is required for local avatar storage")
		}
	case "minio":
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "" {
			return fmt.Errorf("minio_endpoint, minio_access_key, minio_secret_key and minio_bucket are required for minio avatar storage")
		}
	default:
		return fmt.Errorf("avatar_storage must be 'local' or 'minio'")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

// MaxUploadBytes is the request body limit for form submissions.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("INKWELL_DEV_MODE") == "1"
}
