package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var (
	JWTSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetInt(key string, def int) int {
	if n, err := strconv.Atoi(GetEnv(key)); err == nil {
		return n
	}
	return def
}

func GetBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(GetEnv(key)); err == nil {
		return b
	}
	return def
}

func GetDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(GetEnv(key)); err == nil && d > 0 {
		return d
	}
	return def
}

func GetDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if d, err := decimal.NewFromString(GetEnv(key)); err == nil {
		return d
	}
	return def
}
