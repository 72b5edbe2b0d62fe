package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ErrInvalidConfig возвращается, когда конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Identity    IdentityConfig    `toml:"identity"`
	UserService UserServiceConfig `toml:"user_service"`
	Booking     BookingConfig     `toml:"booking"`
	Pricing     PricingConfig     `toml:"pricing"`
	Report      ReportConfig      `toml:"report"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int     `toml:"http_port"`
	ReadTimeout     int     `toml:"read_timeout"`
	WriteTimeout    int     `toml:"write_timeout"`
	IdleTimeout     int     `toml:"idle_timeout"`
	ShutdownTimeout int     `toml:"shutdown_timeout"`
	RateLimit       float64 `toml:"rate_limit"` // Запросов в секунду на пользователя, 0 - без ограничения
	RateBurst       int     `toml:"rate_burst"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrationsPath  string `toml:"migrations_path"` // Пусто - миграции при старте не применяются
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL строка подключения в формате URL (для golang-migrate)
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// IdentityConfig настройки проверки сессионных токенов
type IdentityConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// UserServiceConfig настройки клиента UserService
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// BookingConfig политика бронирования
type BookingConfig struct {
	WindowDays int    `toml:"window_days"` // На сколько дней вперёд (начиная с завтра) можно бронировать
	Timezone   string `toml:"timezone"`    // Часовой пояс парковки для определения "сегодня"
}

// Location возвращает часовой пояс парковки
func (c BookingConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// PricingConfig тарифы
type PricingConfig struct {
	SlotRate        string `toml:"slot_rate"`
	GuestPremium    string `toml:"guest_premium"`
	PeriodDays      int    `toml:"period_days"`
	YearDays        int    `toml:"year_days"`
	GuestSlotPrefix string `toml:"guest_slot_prefix"`
}

// ReportConfig настройки отчётов
type ReportConfig struct {
	ExcludedCompanyIDs []int64 `toml:"excluded_company_ids"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			RateLimit:       20,
			RateBurst:       40,
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
			ServiceName: "parking-service",
			Path:        "/metrics",
		},
		UserService: UserServiceConfig{
			Timeout: 5,
		},
		Booking: BookingConfig{
			WindowDays: domain.DefaultWindowDays,
		},
		Pricing: PricingConfig{
			SlotRate:        strconv.Itoa(domain.DefaultSlotRate),
			GuestPremium:    strconv.Itoa(domain.DefaultGuestPremium),
			PeriodDays:      domain.DefaultPeriodDays,
			YearDays:        domain.DefaultYearDays,
			GuestSlotPrefix: domain.DefaultGuestSlotPrefix,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию,
// затем применяет переменные окружения (в том числе из .env, если он есть)
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен: в production переменные задаются окружением
	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

// applyEnv переопределяет значения из окружения
func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	str("DB_HOST", &c.Database.Host)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.DBName)
	str("DB_SSLMODE", &c.Database.SSLMode)
	str("MIGRATIONS_PATH", &c.Database.MigrationsPath)
	str("LOG_LEVEL", &c.Logs.Level)
	str("JWT_SECRET", &c.Identity.JWTSecret)
	str("USER_SERVICE_URL", &c.UserService.URL)
	str("BOOKING_TIMEZONE", &c.Booking.Timezone)

	if err := num("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := num("HTTP_PORT", &c.Server.HTTPPort); err != nil {
		return err
	}
	if err := num("BOOKING_WINDOW_DAYS", &c.Booking.WindowDays); err != nil {
		return err
	}

	if v, ok := lookup("REPORT_EXCLUDED_COMPANY_IDS"); ok && v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return err
		}
		c.Report.ExcludedCompanyIDs = ids
	}

	return nil
}

func parseIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: company id %q is not a number", ErrInvalidConfig, p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Identity.JWTSecret == "" {
		return fmt.Errorf("%w: identity.jwt_secret is required", ErrInvalidConfig)
	}
	if c.UserService.URL == "" {
		return fmt.Errorf("%w: user_service.url is required", ErrInvalidConfig)
	}
	if c.Booking.WindowDays < domain.MinWindowDays || c.Booking.WindowDays > domain.MaxWindowDays {
		return fmt.Errorf("%w: booking.window_days must be in [%d, %d]",
			ErrInvalidConfig, domain.MinWindowDays, domain.MaxWindowDays)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if _, err := c.PricingRules(); err != nil {
		return err
	}
	return nil
}

// PricingRules переводит тарифы в доменную модель
func (c *Config) PricingRules() (domain.Pricing, error) {
	rate, err := decimal.NewFromString(c.Pricing.SlotRate)
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("%w: pricing.slot_rate: %v", ErrInvalidConfig, err)
	}
	premium, err := decimal.NewFromString(c.Pricing.GuestPremium)
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("%w: pricing.guest_premium: %v", ErrInvalidConfig, err)
	}
	if rate.IsNegative() || premium.IsNegative() {
		return domain.Pricing{}, fmt.Errorf("%w: pricing rates must not be negative", ErrInvalidConfig)
	}
	if c.Pricing.PeriodDays <= 0 || c.Pricing.YearDays <= 0 {
		return domain.Pricing{}, fmt.Errorf("%w: pricing.period_days and pricing.year_days must be positive", ErrInvalidConfig)
	}
	if c.Pricing.GuestSlotPrefix == "" {
		return domain.Pricing{}, fmt.Errorf("%w: pricing.guest_slot_prefix is required", ErrInvalidConfig)
	}

	return domain.Pricing{
		SlotRate:        rate,
		GuestPremium:    premium,
		PeriodDays:      c.Pricing.PeriodDays,
		YearDays:        c.Pricing.YearDays,
		GuestSlotPrefix: c.Pricing.GuestSlotPrefix,
	}, nil
}

// Window окно бронирования
func (c *Config) Window() domain.BookingWindow {
	return domain.BookingWindow{Days: c.Booking.WindowDays}
}
