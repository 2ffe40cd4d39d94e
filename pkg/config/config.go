package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the API and the operator tools.
type Config struct {
	Port string

	DBDriver    string // postgres | sqlite
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	RabbitMQURL string

	Currency          string
	HistoryLimit      int
	LowStockThreshold int

	AdminEmail    string
	AdminUsername string
	AdminPassword string

	IncidentSweepSpec string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "inventory_pos")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "inventory_pos.db")
	v.SetDefault("JWT_SECRET", "your-super-secret-key-change-in-production")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("CURRENCY", "USD")
	v.SetDefault("HISTORY_LIMIT", 200)
	v.SetDefault("LOW_STOCK_THRESHOLD", 10)
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("INCIDENT_SWEEP_SPEC", "@every 5m")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:              v.GetString("PORT"),
		DBDriver:          v.GetString("DB_DRIVER"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		Currency:          v.GetString("CURRENCY"),
		HistoryLimit:      v.GetInt("HISTORY_LIMIT"),
		LowStockThreshold: v.GetInt("LOW_STOCK_THRESHOLD"),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		IncidentSweepSpec: v.GetString("INCIDENT_SWEEP_SPEC"),
	}

	if cfg.DatabaseURL == "" {
		if cfg.DBDriver == "sqlite" {
			cfg.DatabaseURL = v.GetString("SQLITE_PATH")
		} else {
			cfg.DatabaseURL = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				v.GetString("DB_HOST"),
				v.GetString("DB_USER"),
				v.GetString("DB_PASSWORD"),
				v.GetString("DB_NAME"),
				v.GetString("DB_PORT"),
			)
		}
	}

	// The history endpoint never returns more than 200 receipts.
	if cfg.HistoryLimit <= 0 || cfg.HistoryLimit > 200 {
		cfg.HistoryLimit = 200
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 24 * time.Hour
	}
	return cfg
}
