package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_BuildsPostgresDSN(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "postgres")
	v.Set("DB_HOST", "db")
	v.Set("DB_USER", "pos")
	v.Set("DB_PASSWORD", "secret")
	v.Set("DB_NAME", "shop")
	v.Set("DB_PORT", "5433")
	v.Set("HISTORY_LIMIT", 50)

	cfg := fromViper(v)

	assert.Equal(t, "host=db user=pos password=secret dbname=shop port=5433 sslmode=disable TimeZone=UTC", cfg.DatabaseURL)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestFromViper_SqliteAndClamps(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "sqlite")
	v.Set("SQLITE_PATH", "local.db")
	v.Set("HISTORY_LIMIT", 5000)

	cfg := fromViper(v)

	assert.Equal(t, "local.db", cfg.DatabaseURL)
	assert.Equal(t, 200, cfg.HistoryLimit)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestFromViper_ExplicitURLWins(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://u:p@h/db")
	v.Set("JWT_TTL", "2h")

	cfg := fromViper(v)

	assert.Equal(t, "postgres://u:p@h/db", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
}
