package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/plipplupp/forecast-to-clothing/internal/forecast"
)

const (
	defaultLatitude          = 59.879698
	defaultLongitude         = 17.634381
	defaultNotificationTitle = "Dagens Klädprognos"
	defaultConfigFile        = "config.yaml"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	// LogFile is the append-only diagnostic log. Empty disables it.
	LogFile string

	Latitude  float64
	Longitude float64
	Window    forecast.Window

	ForecastURL       string
	ForecastUserAgent string
	HTTPTimeout       time.Duration

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
	SQLiteLogQueries      bool

	PushoverAppToken  string
	PushoverUserKey   string
	PushoverURL       string
	NotificationTitle string

	// MQTTBroker empty disables the MQTT notifier.
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string

	MetricsTextfile string
	HTTPAddr        string
}

// fileConfig is the optional YAML file. Environment variables win over it.
type fileConfig struct {
	Latitude          *float64 `yaml:"latitude"`
	Longitude         *float64 `yaml:"longitude"`
	StartHour         *int     `yaml:"start_hour"`
	EndHour           *int     `yaml:"end_hour"`
	ForecastURL       string   `yaml:"forecast_url"`
	NotificationTitle string   `yaml:"notification_title"`
}

// LoadFromEnv reads .env (if present), then the YAML file named by
// CONFIG_FILE (if present), then the process environment.
func LoadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	configFile := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if configFile == "" {
		configFile = defaultConfigFile
	}
	fc, err := readFile(configFile)
	if err != nil {
		return Config{}, err
	}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	logFile, ok := os.LookupEnv("LOG_FILE")
	if !ok {
		logFile = "logfile.log"
	}
	logFile = strings.TrimSpace(logFile)

	latitude := defaultLatitude
	if fc.Latitude != nil {
		latitude = *fc.Latitude
	}
	if latitude, err = floatEnv("LATITUDE", latitude); err != nil {
		return Config{}, err
	}
	if latitude < -90 || latitude > 90 {
		return Config{}, fmt.Errorf("invalid LATITUDE %v (must be -90..90)", latitude)
	}

	longitude := defaultLongitude
	if fc.Longitude != nil {
		longitude = *fc.Longitude
	}
	if longitude, err = floatEnv("LONGITUDE", longitude); err != nil {
		return Config{}, err
	}
	if longitude < -180 || longitude > 180 {
		return Config{}, fmt.Errorf("invalid LONGITUDE %v (must be -180..180)", longitude)
	}

	window := forecast.DefaultWindow
	if fc.StartHour != nil {
		window.Start = *fc.StartHour
	}
	if fc.EndHour != nil {
		window.End = *fc.EndHour
	}
	if window.Start, err = intEnv("START_HOUR", window.Start); err != nil {
		return Config{}, err
	}
	if window.End, err = intEnv("END_HOUR", window.End); err != nil {
		return Config{}, err
	}
	if err := window.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid forecast window: %w", err)
	}

	forecastURL := stringEnv("FORECAST_URL", fc.ForecastURL)
	if forecastURL == "" {
		forecastURL = forecast.DefaultBaseURL
	}

	httpTimeout, err := durationEnv("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	driver := stringEnv("DB_DRIVER", "sqlite3")
	path := stringEnv("SQLITE_PATH", "weather_data.db")

	maxOpenConns, err := intEnv("DB_MAX_OPEN_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := intEnv("DB_MAX_IDLE_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := durationEnv("DB_CONN_MAX_LIFETIME", 0)
	if err != nil {
		return Config{}, err
	}
	logQueries, err := boolEnv("DB_LOG_QUERIES", false)
	if err != nil {
		return Config{}, err
	}

	title := stringEnv("NOTIFICATION_TITLE", fc.NotificationTitle)
	if title == "" {
		title = defaultNotificationTitle
	}

	mqttPort, err := intEnv("MQTT_PORT", 1883)
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:   appEnv,
		LogLevel: level,
		LogFile:  logFile,

		Latitude:  latitude,
		Longitude: longitude,
		Window:    window,

		ForecastURL:       forecastURL,
		ForecastUserAgent: stringEnv("FORECAST_USER_AGENT", forecast.DefaultUserAgent),
		HTTPTimeout:       httpTimeout,

		SQLiteDriver:          driver,
		SQLiteDSN:             stringEnv("DB_DSN", ""),
		SQLitePath:            path,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLiteLogQueries:      logQueries,

		PushoverAppToken:  stringEnv("PUSHOVER_APP_TOKEN", ""),
		PushoverUserKey:   stringEnv("PUSHOVER_USER_KEY", ""),
		PushoverURL:       stringEnv("PUSHOVER_URL", ""),
		NotificationTitle: title,

		MQTTBroker:   stringEnv("MQTT_BROKER", ""),
		MQTTPort:     mqttPort,
		MQTTClientID: stringEnv("MQTT_CLIENT_ID", "forecast-to-clothing"),
		MQTTTopic:    stringEnv("MQTT_TOPIC", "clothing/recommendation"),

		MetricsTextfile: stringEnv("METRICS_TEXTFILE", ""),
		HTTPAddr:        stringEnv("HTTP_ADDR", ":8080"),
	}, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func stringEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intEnv(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
