package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Staging    StagingConfig
	Supervisor SupervisorConfig
	Engine     EngineConfig
	Fetch      FetchConfig
	S3         S3Config
	DB         DBConfig
	Auth       AuthConfig
	CORS       CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port             string        `mapstructure:"port"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
	Environment      string        `mapstructure:"environment"`
	MaxContentLength int64         `mapstructure:"max_content_length"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StagingConfig holds temp-file staging settings. An empty Dir means os.TempDir().
type StagingConfig struct {
	Dir string `mapstructure:"dir"`
}

// SupervisorConfig holds settings for the supervised parser server process.
type SupervisorConfig struct {
	// Managed controls whether this process launches the parser server itself.
	// When false the server is expected to be running already and is only health-checked.
	Managed       bool          `mapstructure:"managed"`
	Command       []string      `mapstructure:"command"`
	JarPath       string        `mapstructure:"jar_path"`
	HealthURL     string        `mapstructure:"health_url"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	HealthTimeout time.Duration `mapstructure:"health_timeout"`
}

// LaunchArgs returns the full command line used to start the parser server.
func (s *SupervisorConfig) LaunchArgs() []string {
	args := make([]string, 0, len(s.Command)+1)
	args = append(args, s.Command...)
	if s.JarPath != "" {
		args = append(args, s.JarPath)
	}
	return args
}

// EngineConfig holds settings for the parse engine endpoint.
type EngineConfig struct {
	URL         string `mapstructure:"url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// FetchConfig holds settings for downloading documents referenced by URL.
type FetchConfig struct {
	TimeoutSecs int   `mapstructure:"timeout_secs"`
	MaxBytes    int64 `mapstructure:"max_bytes"`
}

// S3Config holds AWS S3 settings used to fetch s3:// documents.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// DBConfig holds PostgreSQL settings for the parse audit trail.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds bearer-token settings. An empty secret disables authentication.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// Enabled reports whether API routes require a bearer token.
func (a *AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the DOCPARSE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5001")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "360s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_content_length", 100*1024*1024)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Staging defaults
	v.SetDefault("staging.dir", "")

	// Supervisor defaults
	v.SetDefault("supervisor.managed", true)
	v.SetDefault("supervisor.command", "/usr/bin/java -jar")
	v.SetDefault("supervisor.jar_path", "jars/tika-server-standard-nlm-modified-2.4.1_v6.jar")
	v.SetDefault("supervisor.health_url", "http://localhost:9998/tika")
	v.SetDefault("supervisor.poll_interval", "3s")
	v.SetDefault("supervisor.max_attempts", 40)
	v.SetDefault("supervisor.health_timeout", "5s")

	// Engine defaults
	v.SetDefault("engine.url", "http://localhost:9998")
	v.SetDefault("engine.timeout_secs", 300)

	// Fetch defaults
	v.SetDefault("fetch.timeout_secs", 300)
	v.SetDefault("fetch.max_bytes", 100*1024*1024)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docparse")
	v.SetDefault("db.password", "docparse_secret")
	v.SetDefault("db.name", "docparse_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "docparse")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "DOCPARSE_SERVER_PORT",
		"server.read_timeout":       "DOCPARSE_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "DOCPARSE_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":   "DOCPARSE_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":        "DOCPARSE_SERVER_ENVIRONMENT",
		"server.max_content_length": "DOCPARSE_SERVER_MAX_CONTENT_LENGTH",
		"log.level":                 "DOCPARSE_LOG_LEVEL",
		"log.format":                "DOCPARSE_LOG_FORMAT",
		"staging.dir":               "DOCPARSE_STAGING_DIR",
		"supervisor.managed":        "DOCPARSE_SUPERVISOR_MANAGED",
		"supervisor.command":        "DOCPARSE_SUPERVISOR_COMMAND",
		"supervisor.jar_path":       "DOCPARSE_SUPERVISOR_JAR_PATH",
		"supervisor.health_url":     "DOCPARSE_SUPERVISOR_HEALTH_URL",
		"supervisor.poll_interval":  "DOCPARSE_SUPERVISOR_POLL_INTERVAL",
		"supervisor.max_attempts":   "DOCPARSE_SUPERVISOR_MAX_ATTEMPTS",
		"supervisor.health_timeout": "DOCPARSE_SUPERVISOR_HEALTH_TIMEOUT",
		"engine.url":                "DOCPARSE_ENGINE_URL",
		"engine.timeout_secs":       "DOCPARSE_ENGINE_TIMEOUT_SECS",
		"fetch.timeout_secs":        "DOCPARSE_FETCH_TIMEOUT_SECS",
		"fetch.max_bytes":           "DOCPARSE_FETCH_MAX_BYTES",
		"s3.region":                 "DOCPARSE_S3_REGION",
		"s3.endpoint":               "DOCPARSE_S3_ENDPOINT",
		"s3.access_key":             "DOCPARSE_S3_ACCESS_KEY",
		"s3.secret_key":             "DOCPARSE_S3_SECRET_KEY",
		"db.enabled":                "DOCPARSE_DB_ENABLED",
		"db.host":                   "DOCPARSE_DB_HOST",
		"db.port":                   "DOCPARSE_DB_PORT",
		"db.user":                   "DOCPARSE_DB_USER",
		"db.password":               "DOCPARSE_DB_PASSWORD",
		"db.name":                   "DOCPARSE_DB_NAME",
		"db.sslmode":                "DOCPARSE_DB_SSLMODE",
		"db.max_open":               "DOCPARSE_DB_MAX_OPEN",
		"db.max_idle":               "DOCPARSE_DB_MAX_IDLE",
		"auth.jwt_secret":           "DOCPARSE_AUTH_JWT_SECRET",
		"auth.issuer":               "DOCPARSE_AUTH_ISSUER",
		"cors.allowed_origins":      "DOCPARSE_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if DOCPARSE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCPARSE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:             serverPort,
		ReadTimeout:      v.GetDuration("server.read_timeout"),
		WriteTimeout:     v.GetDuration("server.write_timeout"),
		ShutdownTimeout:  v.GetDuration("server.shutdown_timeout"),
		Environment:      v.GetString("server.environment"),
		MaxContentLength: v.GetInt64("server.max_content_length"),
	}
	if cfg.Server.MaxContentLength <= 0 {
		return nil, fmt.Errorf("server.max_content_length must be positive, got %d", cfg.Server.MaxContentLength)
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Staging = StagingConfig{
		Dir: v.GetString("staging.dir"),
	}

	cfg.Supervisor = SupervisorConfig{
		Managed:       v.GetBool("supervisor.managed"),
		Command:       strings.Fields(v.GetString("supervisor.command")),
		JarPath:       v.GetString("supervisor.jar_path"),
		HealthURL:     v.GetString("supervisor.health_url"),
		PollInterval:  v.GetDuration("supervisor.poll_interval"),
		MaxAttempts:   v.GetInt("supervisor.max_attempts"),
		HealthTimeout: v.GetDuration("supervisor.health_timeout"),
	}
	if cfg.Supervisor.Managed && len(cfg.Supervisor.Command) == 0 {
		return nil, fmt.Errorf("supervisor.command is required when supervisor.managed is set")
	}

	cfg.Engine = EngineConfig{
		URL:         strings.TrimRight(v.GetString("engine.url"), "/"),
		TimeoutSecs: v.GetInt("engine.timeout_secs"),
	}
	cfg.Fetch = FetchConfig{
		TimeoutSecs: v.GetInt("fetch.timeout_secs"),
		MaxBytes:    v.GetInt64("fetch.max_bytes"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
