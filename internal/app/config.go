package app

import (
	"github.com/playfinity/playfinity-backend/internal/pkg/envutil"
)

type Config struct {
	Port        string
	LogMode     string
	Environment string
	Version     string
	ServiceName string
}

func LoadConfig() Config {
	return Config{
		Port:        envutil.Get("PORT", "8080"),
		LogMode:     envutil.Get("LOG_MODE", "development"),
		Environment: envutil.Get("APP_ENV", "development"),
		Version:     envutil.Get("APP_VERSION", "dev"),
		ServiceName: envutil.Get("SERVICE_NAME", "playfinity-backend"),
	}
}
