package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	DegenAPIBaseURL string        `env:"DEGEN_API_BASE_URL,default=https://api.degenbible.xyz/v1"`
	DegenAPITimeout time.Duration `env:"DEGEN_API_TIMEOUT,default=30s"`
	DegenWSURL      string        `env:"DEGEN_WS_URL,default=wss://api.degenbible.xyz/v1/prices"`

	// SessionWallet is the connected wallet's public key, sent as the
	// bearer session header on every API call.
	SessionWallet string `env:"SESSION_WALLET,required"`

	StalenessCutoff time.Duration `env:"STALENESS_CUTOFF,default=2h"`
	SyncSoftTimeout time.Duration `env:"SYNC_SOFT_TIMEOUT,default=10s"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL,default=30m"`
	WSReadTimeout   time.Duration `env:"WS_READ_TIMEOUT,default=0s"`

	// Postgres snapshot store, disabled when DB_HOST is unset.
	DBHost            string        `env:"DB_HOST"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME,default=nft_tracker"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	// Telegram alert delivery, disabled when the token is unset.
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func (c Config) SnapshotsEnabled() bool {
	return c.DBHost != ""
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
