package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Broker   BrokerConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name          string
	Port          string
	Debug         bool
	LogPath       string
	MigrationsDir string
	CORSOrigins   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	// LockTimeoutMS bounds how long a reservation waits on contended
	// seat rows before failing with a retryable error.
	LockTimeoutMS int
}

type SessionConfig struct {
	ExpiryHours int
}

type BrokerConfig struct {
	URL     string
	Queue   string
	Enabled bool
}

type BookingConfig struct {
	CodePrefix string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_LOCK_TIMEOUT_MS", 3000)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("BROKER_QUEUE", "booking.events")
	viper.SetDefault("BROKER_ENABLED", false)
	viper.SetDefault("BOOKING_CODE_PREFIX", "BTX")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:          viper.GetString("APP_NAME"),
			Port:          viper.GetString("PORT"),
			Debug:         viper.GetBool("DEBUG"),
			LogPath:       viper.GetString("LOG_PATH"),
			MigrationsDir: viper.GetString("MIGRATIONS_DIR"),
			CORSOrigins:   viper.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			Name:          viper.GetString("DB_NAME"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASS"),
			MaxConns:      viper.GetInt32("DB_MAX_CONNS"),
			LockTimeoutMS: viper.GetInt("DB_LOCK_TIMEOUT_MS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Broker: BrokerConfig{
			URL:     viper.GetString("BROKER_URL"),
			Queue:   viper.GetString("BROKER_QUEUE"),
			Enabled: viper.GetBool("BROKER_ENABLED"),
		},
		Booking: BookingConfig{
			CodePrefix: viper.GetString("BOOKING_CODE_PREFIX"),
		},
	}

	return config, nil
}
