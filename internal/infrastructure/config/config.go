package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Log          LogConfig
	HTTP         HTTPConfig
	JWT          JWTConfig
	Collaborator CollaboratorConfig
	Export       ExportConfig
	Chrome       ChromeConfig
	Seller       SellerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Storage      StorageConfig
	Swagger      SwaggerConfig
	Telemetry    TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	// ExportRateLimit caps export requests per user within ExportRateWindow, 0 disables
	ExportRateLimit  int
	ExportRateWindow time.Duration
	// LookupRateLimit caps public lookup requests per client IP within
	// LookupRateWindow. It defaults to 30; an explicit 0 disables it.
	LookupRateLimit  int
	LookupRateWindow time.Duration
}

// JWTConfig holds the settings used to verify bearer tokens
type JWTConfig struct {
	Secret                string
	Issuer                string
	AccessTokenExpiration time.Duration
}

// CollaboratorConfig points at the REST service that owns customers, complaints and invoices
type CollaboratorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ExportConfig controls the PDF export pipeline
type ExportConfig struct {
	ServerEnabled  bool          // try the document service before client rendering
	DocumentURL    string        // document service base; empty uses the collaborator
	Timeout        time.Duration // overall budget for one export
	SettleTimeout  time.Duration // how long to wait for fonts and layout before rasterizing
	Scale          float64       // raster scale factor
	IdempotencyTTL time.Duration
	TemplateDir    string // optional directory overriding the embedded layouts
}

// ChromeConfig configures the headless browser used for rendering
type ChromeConfig struct {
	RemoteURL string // connect to an existing Chrome instead of launching one
	NoSandbox bool
}

// SellerConfig is the shop identity printed on invoices
type SellerConfig struct {
	Name         string
	AddressLines []string
	Phone        string
	GSTIN        string
	StateName    string
	StateCode    string
	Email        string
	City         string
	Jurisdiction string
}

// DatabaseConfig holds the export audit database settings
type DatabaseConfig struct {
	Driver          string // sqlite or postgres
	SQLitePath      string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds the PDF archive settings
type StorageConfig struct {
	Driver            string // none, local or s3
	LocalPath         string
	BaseURL           string
	Bucket            string
	Region            string
	Endpoint          string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled     bool     // Whether to enable Swagger endpoint
	RequireAuth bool     // Require authentication to access Swagger
	AllowedIPs  []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
	MetricsInterval   time.Duration
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	ProfilingEnabled  bool
	ProfilingServer   string // Pyroscope server address
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with INVOICE_ prefix (e.g., INVOICE_COLLABORATOR_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			ExportRateLimit:  v.GetInt("http.export_rate_limit"),
			ExportRateWindow: v.GetDuration("http.export_rate_window"),
			LookupRateLimit:  v.GetInt("http.lookup_rate_limit"),
			LookupRateWindow: v.GetDuration("http.lookup_rate_window"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			Issuer:                v.GetString("jwt.issuer"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
		},
		Collaborator: CollaboratorConfig{
			BaseURL: v.GetString("collaborator.base_url"),
			Timeout: v.GetDuration("collaborator.timeout"),
		},
		Export: ExportConfig{
			ServerEnabled:  v.GetBool("export.server_enabled"),
			DocumentURL:    v.GetString("export.document_url"),
			Timeout:        v.GetDuration("export.timeout"),
			SettleTimeout:  v.GetDuration("export.settle_timeout"),
			Scale:          v.GetFloat64("export.scale"),
			IdempotencyTTL: v.GetDuration("export.idempotency_ttl"),
			TemplateDir:    v.GetString("export.template_dir"),
		},
		Chrome: ChromeConfig{
			RemoteURL: v.GetString("chrome.remote_url"),
			NoSandbox: v.GetBool("chrome.no_sandbox"),
		},
		Seller: SellerConfig{
			Name:         v.GetString("seller.name"),
			AddressLines: v.GetStringSlice("seller.address_lines"),
			Phone:        v.GetString("seller.phone"),
			GSTIN:        v.GetString("seller.gstin"),
			StateName:    v.GetString("seller.state_name"),
			StateCode:    v.GetString("seller.state_code"),
			Email:        v.GetString("seller.email"),
			City:         v.GetString("seller.city"),
			Jurisdiction: v.GetString("seller.jurisdiction"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Storage: StorageConfig{
			Driver:            v.GetString("storage.driver"),
			LocalPath:         v.GetString("storage.local_path"),
			BaseURL:           v.GetString("storage.base_url"),
			Bucket:            v.GetString("storage.bucket"),
			Region:            v.GetString("storage.region"),
			Endpoint:          v.GetString("storage.endpoint"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			ProfilingServer:   v.GetString("telemetry.profiling_server"),
		},
	}

	// server_enabled defaults to true, so only an explicit setting can turn it off
	if !v.IsSet("export.server_enabled") {
		cfg.Export.ServerEnabled = true
	}
	// The lookup is public, so it stays throttled unless turned off explicitly
	if !v.IsSet("http.lookup_rate_limit") {
		cfg.HTTP.LookupRateLimit = 30
	}
	// Documentation is served outside production unless turned off
	if !v.IsSet("swagger.enabled") {
		cfg.Swagger.Enabled = cfg.App.Env != "production"
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "invoice-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	// Exports can take a while when the client fallback runs
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 120 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if cfg.HTTP.ExportRateWindow == 0 {
		cfg.HTTP.ExportRateWindow = time.Minute
	}
	if cfg.HTTP.LookupRateWindow == 0 {
		cfg.HTTP.LookupRateWindow = time.Minute
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "Idempotency-Key"}
	}

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "invoice-backend"
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 12 * time.Hour
	}

	if cfg.Collaborator.BaseURL == "" {
		cfg.Collaborator.BaseURL = "http://localhost:5000/api"
	}
	cfg.Collaborator.BaseURL = strings.TrimRight(cfg.Collaborator.BaseURL, "/")
	if cfg.Collaborator.Timeout == 0 {
		cfg.Collaborator.Timeout = 15 * time.Second
	}

	if cfg.Export.Timeout == 0 {
		cfg.Export.Timeout = 60 * time.Second
	}
	if cfg.Export.SettleTimeout == 0 {
		cfg.Export.SettleTimeout = 10 * time.Second
	}
	if cfg.Export.Scale == 0 {
		cfg.Export.Scale = 2
	}
	if cfg.Export.IdempotencyTTL == 0 {
		cfg.Export.IdempotencyTTL = 2 * time.Minute
	}

	applySellerDefaults(&cfg.Seller)

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "./data/invoice.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "invoice"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./data/exports"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/files"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

func applySellerDefaults(s *SellerConfig) {
	if s.Name == "" {
		s.Name = "Vikalp Electric & Refrigeration"
	}
	if len(s.AddressLines) == 0 {
		s.AddressLines = []string{"Street No.3, Murlidhar Nagar 1, Gokul Nagar,", "Jamnagar - 361004."}
	}
	if s.Phone == "" {
		s.Phone = "9374170929 / 7016223029"
	}
	if s.GSTIN == "" {
		s.GSTIN = "----------------"
	}
	if s.StateName == "" {
		s.StateName = "Gujarat"
	}
	if s.StateCode == "" {
		s.StateCode = "24"
	}
	if s.Email == "" {
		s.Email = "vikalpelectronicofficial@gmail.com"
	}
	if s.City == "" {
		s.City = "Jamnagar"
	}
	if s.Jurisdiction == "" {
		s.Jurisdiction = strings.ToUpper(s.City)
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.Collaborator.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("collaborator.base_url must be an absolute http(s) URL, got %q", c.Collaborator.BaseURL)
	}
	if c.Export.DocumentURL != "" {
		if u, err := url.Parse(c.Export.DocumentURL); err != nil || u.Host == "" {
			return fmt.Errorf("export.document_url must be an absolute URL, got %q", c.Export.DocumentURL)
		}
	}
	if c.HTTP.LookupRateLimit < 0 {
		return fmt.Errorf("http.lookup_rate_limit cannot be negative, got %d", c.HTTP.LookupRateLimit)
	}
	if c.Export.Scale < 2 || c.Export.Scale > 4 {
		return fmt.Errorf("export.scale must be between 2 and 4, got %v", c.Export.Scale)
	}
	if c.Export.SettleTimeout > c.Export.Timeout {
		return fmt.Errorf("export.settle_timeout (%s) cannot exceed export.timeout (%s)",
			c.Export.SettleTimeout, c.Export.Timeout)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.Storage.Driver {
	case "none", "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be none, local or s3, got %q", c.Storage.Driver)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
		// Swagger must be disabled or protected in production
		if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.ProfilingEnabled && c.Telemetry.ProfilingServer == "" {
		return fmt.Errorf("telemetry.profiling_server is required when profiling is enabled")
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the redis host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsProduction reports whether the app runs in production
func (a *AppConfig) IsProduction() bool {
	return a.Env == "production"
}
