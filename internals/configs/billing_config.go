package configs

import (
	"time"

	"github.com/shopspring/decimal"

	"transportku_backend/internals/helpers/dbtime"
)

// BillingConfig = parameter penagihan bulanan + worker.
type BillingConfig struct {
	Location          *time.Location
	DueDay            int
	DeadlineDay       int
	LateFeeRate       decimal.Decimal
	DefaultTuition    decimal.Decimal
	AlertMinDay       int
	Currency          string
	FinanceEmail      string // penerima alert gaji telat
	ReconcileInterval time.Duration
	ReconcileWorkers  int
	IntentMaxAttempts int
	SchedulerEnabled  bool
}

func LoadBillingConfig() BillingConfig {
	return BillingConfig{
		Location:          dbtime.LoadLocation(GetEnv("BILLING_TIMEZONE", dbtime.DefaultZone)),
		DueDay:            GetInt("BILLING_DUE_DAY", 10),
		DeadlineDay:       GetInt("BILLING_DEADLINE_DAY", 10),
		LateFeeRate:       GetDecimal("BILLING_LATE_FEE_RATE", decimal.RequireFromString("0.10")),
		DefaultTuition:    GetDecimal("BILLING_DEFAULT_TUITION", decimal.NewFromInt(2500)),
		AlertMinDay:       GetInt("BILLING_ALERT_MIN_DAY", 10),
		Currency:          GetEnv("BILLING_CURRENCY", "MTN"),
		FinanceEmail:      GetEnv("BILLING_FINANCE_EMAIL"),
		ReconcileInterval: GetDuration("BILLING_RECONCILE_INTERVAL", time.Hour),
		ReconcileWorkers:  GetInt("BILLING_RECONCILE_WORKERS", 8),
		IntentMaxAttempts: GetInt("BILLING_INTENT_MAX_ATTEMPTS", 5),
		SchedulerEnabled:  GetBool("BILLING_SCHEDULER_ENABLED", true),
	}
}

type StorageConfig struct {
	Backend      string
	LocalDir     string
	LocalBaseURL string

	OSSEndpoint      string
	OSSAccessKey     string
	OSSSecretKey     string
	OSSSecurityToken string
	OSSBucket        string
	OSSPublicBase    string
	OSSPrefix        string

	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIORegion     string
	MinIOBucket     string
	MinIOUseSSL     bool
	MinIOPublicBase string
}

func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:      GetEnv("RECEIPT_STORE", "local"),
		LocalDir:     GetEnv("RECEIPT_LOCAL_DIR", "./storage"),
		LocalBaseURL: GetEnv("RECEIPT_LOCAL_BASE_URL"),

		OSSEndpoint:      GetEnv("OSS_ENDPOINT"),
		OSSAccessKey:     GetEnv("OSS_ACCESS_KEY"),
		OSSSecretKey:     GetEnv("OSS_SECRET_KEY"),
		OSSSecurityToken: GetEnv("OSS_SECURITY_TOKEN"),
		OSSBucket:        GetEnv("OSS_BUCKET"),
		OSSPublicBase:    GetEnv("OSS_PUBLIC_BASE"),
		OSSPrefix:        GetEnv("OSS_PREFIX"),

		MinIOEndpoint:   GetEnv("MINIO_ENDPOINT"),
		MinIOAccessKey:  GetEnv("MINIO_ACCESS_KEY"),
		MinIOSecretKey:  GetEnv("MINIO_SECRET_KEY"),
		MinIORegion:     GetEnv("MINIO_REGION"),
		MinIOBucket:     GetEnv("MINIO_BUCKET", "receipts"),
		MinIOUseSSL:     GetBool("MINIO_USE_SSL", false),
		MinIOPublicBase: GetEnv("MINIO_PUBLIC_BASE"),
	}
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func LoadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     GetEnv("SMTP_HOST"),
		Port:     GetInt("SMTP_PORT", 587),
		User:     GetEnv("SMTP_USER"),
		Password: GetEnv("SMTP_PASSWORD"),
		From:     GetEnv("SMTP_FROM", "billing@transportku.local"),
	}
}

type MidtransConfig struct {
	ServerKey     string
	UseProduction bool
}

func LoadMidtransConfig() MidtransConfig {
	return MidtransConfig{
		ServerKey:     GetEnv("MIDTRANS_SERVER_KEY"),
		UseProduction: GetBool("MIDTRANS_USE_PROD", false),
	}
}
