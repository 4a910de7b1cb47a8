package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Режимы доставки напоминаний
const (
	ReminderModeQueue  = "queue"
	ReminderModeDirect = "direct"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	WhatsApp  WhatsAppConfig  `toml:"whatsapp"`
	Reminders RemindersConfig `toml:"reminders"`
}

type ServerConfig struct {
	HTTPPort            int `toml:"http_port"`
	ReadTimeoutSeconds  int `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `toml:"write_timeout_seconds"`
	ShutdownTimeout     int `toml:"shutdown_timeout_seconds"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime_seconds"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	QueueKey string `toml:"queue_key"`
}

type WhatsAppConfig struct {
	BaseURL        string `toml:"base_url"`
	APIVersion     string `toml:"api_version"`
	PhoneNumberID  string `toml:"phone_number_id"`
	AccessToken    string `toml:"access_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	CountryCode    string `toml:"country_code"`
}

type RemindersConfig struct {
	Mode                 string  `toml:"mode"`
	SweepIntervalSeconds int     `toml:"sweep_interval_seconds"`
	LookaheadHours       int     `toml:"lookahead_hours"`
	SendRatePerSecond    float64 `toml:"send_rate_per_second"`
	DequeueTimeout       int     `toml:"dequeue_timeout_seconds"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

func (c RemindersConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c RemindersConfig) Lookahead() time.Duration {
	return time.Duration(c.LookaheadHours) * time.Hour
}

func (c RemindersConfig) DequeueTimeoutDuration() time.Duration {
	return time.Duration(c.DequeueTimeout) * time.Second
}

func (c WhatsAppConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переопределения секретов из переменных окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:            8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
			ShutdownTimeout:     10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "agenda-service",
			Path:        "/metrics",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			QueueKey: "agenda:reminders",
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:        "https://graph.facebook.com",
			APIVersion:     "v19.0",
			TimeoutSeconds: 10,
			CountryCode:    "55",
		},
		Reminders: RemindersConfig{
			Mode:                 ReminderModeQueue,
			SweepIntervalSeconds: 600,
			LookaheadHours:       24,
			SendRatePerSecond:    5,
			DequeueTimeout:       5,
		},
	}
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v, ok := os.LookupEnv("DB_HOST"); ok {
		cfg.Database.Host = v
	}
	if v, ok := os.LookupEnv("DB_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		cfg.Redis.Password = v
	}
	if v, ok := os.LookupEnv("WHATSAPP_ACCESS_TOKEN"); ok {
		cfg.WhatsApp.AccessToken = v
	}
	if v, ok := os.LookupEnv("WHATSAPP_PHONE_NUMBER_ID"); ok {
		cfg.WhatsApp.PhoneNumberID = v
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Server.ReadTimeoutSeconds <= 0 || c.Server.WriteTimeoutSeconds <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server timeouts must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Reminders.Mode != ReminderModeQueue && c.Reminders.Mode != ReminderModeDirect {
		return fmt.Errorf("%w: reminders.mode must be %q or %q, got %q",
			ErrInvalidConfig, ReminderModeQueue, ReminderModeDirect, c.Reminders.Mode)
	}
	if c.Reminders.SweepIntervalSeconds <= 0 || c.Reminders.LookaheadHours <= 0 {
		return fmt.Errorf("%w: reminders sweep interval and lookahead must be positive", ErrInvalidConfig)
	}
	if c.Reminders.SendRatePerSecond <= 0 {
		return fmt.Errorf("%w: reminders.send_rate_per_second must be positive", ErrInvalidConfig)
	}
	if c.WhatsApp.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: whatsapp.timeout_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}
