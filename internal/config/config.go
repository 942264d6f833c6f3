package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Logger       LoggerConfig       `yaml:"logger"`
	Notification NotificationConfig `yaml:"notification"`
	Jobs         JobsConfig         `yaml:"jobs"`
	Cache        CacheConfig        `yaml:"cache"`
	Workflow     WorkflowConfig     `yaml:"workflow"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN returns the postgres connection string, preferring an explicit URL
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	ExpireTime time.Duration `yaml:"expire_time"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

// NotificationConfig selects the outbound relay for notification records.
// AMQPURL wins over ServiceURL; with neither set the relay is disabled.
type NotificationConfig struct {
	ServiceURL string        `yaml:"service_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	AMQPURL    string        `yaml:"amqp_url"`
	Exchange   string        `yaml:"exchange"`
}

type JobsConfig struct {
	OverdueSchedule string `yaml:"overdue_schedule"`
}

type CacheConfig struct {
	DashboardTTL time.Duration `yaml:"dashboard_ttl"`
}

type WorkflowConfig struct {
	ManagementEmail string `yaml:"management_email"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			DBName:          "workflow",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			DB:   0,
		},
		JWT: JWTConfig{
			ExpireTime: 7 * 24 * time.Hour,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Notification: NotificationConfig{
			Timeout:  5 * time.Second,
			Exchange: "workflow.notifications",
		},
		Jobs: JobsConfig{
			OverdueSchedule: "@every 1h",
		},
		Cache: CacheConfig{
			DashboardTTL: 60 * time.Second,
		},
		Workflow: WorkflowConfig{
			ManagementEmail: "gerencia@ideiabh.com",
		},
	}
}

// Load reads the yaml file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("SERVER_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("BASE_PATH"); v != "" {
		cfg.Server.BasePath = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("NOTIFICATION_SERVICE_URL"); v != "" {
		cfg.Notification.ServiceURL = v
	}
	if v := os.Getenv("INTERNAL_API_KEY"); v != "" {
		cfg.Notification.APIKey = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		cfg.Notification.AMQPURL = v
	}
	if v := os.Getenv("OVERDUE_JOB_SCHEDULE"); v != "" {
		cfg.Jobs.OverdueSchedule = v
	}
	if v := os.Getenv("DASHBOARD_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.DashboardTTL = d
		}
	}
	if v := os.Getenv("MANAGEMENT_EMAIL"); v != "" {
		cfg.Workflow.ManagementEmail = v
	}
}
