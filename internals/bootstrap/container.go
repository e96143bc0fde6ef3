// Package bootstrap merakit service billing dari config; dipakai server HTTP dan CLI.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"transportku_backend/internals/configs"
	alertService "transportku_backend/internals/features/finance/alerts/service"
	billingService "transportku_backend/internals/features/finance/billing/service"
	chargeDTO "transportku_backend/internals/features/finance/charges/dto"
	"transportku_backend/internals/features/finance/charges/engine"
	chargeService "transportku_backend/internals/features/finance/charges/service"
	gatewayService "transportku_backend/internals/features/finance/gateway/service"
	intentService "transportku_backend/internals/features/finance/intents/service"
	payeeService "transportku_backend/internals/features/finance/payees/service"
	receiptService "transportku_backend/internals/features/finance/receipts/service"
	"transportku_backend/internals/helpers/billperiod"
	"transportku_backend/internals/helpers/storage"
)

type Container struct {
	DB      *gorm.DB
	Log     *zap.Logger
	Billing configs.BillingConfig

	// tujuan artefak receipt
	Store storage.Store

	Directory *payeeService.Directory
	Charges   *chargeService.ChargeService
	Payments  *chargeService.PaymentService
	Receipts  *receiptService.Service
	Notifier  *alertService.Notifier
	Worker    *intentService.Worker

	Schedule   billingService.Schedule
	Generator  *billingService.Generator
	Reconciler *billingService.Reconciler
	Scheduler  *billingService.Scheduler

	// nil kalau MIDTRANS_SERVER_KEY kosong
	Midtrans *gatewayService.Midtrans
}

func New(ctx context.Context, db *gorm.DB, log *zap.Logger) (*Container, error) {
	bc := configs.LoadBillingConfig()
	c := &Container{DB: db, Log: log, Billing: bc}

	c.Directory = payeeService.NewDirectory(db)
	policy := engine.Policy{AlertMinDay: bc.AlertMinDay, Location: bc.Location}
	c.Charges = chargeService.NewChargeService(db, intentService.NewOutbox(), policy, log.Named("charges"))
	c.Payments = chargeService.NewPaymentService(c.Charges)

	sc := configs.LoadStorageConfig()
	store, err := storage.New(ctx, storage.Config{
		Backend: sc.Backend,
		OSS: storage.OSSConfig{
			Endpoint:      sc.OSSEndpoint,
			AccessKey:     sc.OSSAccessKey,
			SecretKey:     sc.OSSSecretKey,
			SecurityToken: sc.OSSSecurityToken,
			Bucket:        sc.OSSBucket,
			PublicBase:    sc.OSSPublicBase,
			Prefix:        sc.OSSPrefix,
		},
		MinIO: storage.MinIOConfig{
			Endpoint:   sc.MinIOEndpoint,
			AccessKey:  sc.MinIOAccessKey,
			SecretKey:  sc.MinIOSecretKey,
			Region:     sc.MinIORegion,
			Bucket:     sc.MinIOBucket,
			UseSSL:     sc.MinIOUseSSL,
			PublicBase: sc.MinIOPublicBase,
		},
		LocalDir:     sc.LocalDir,
		LocalBaseURL: sc.LocalBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("receipt store: %w", err)
	}
	log.Info("receipt store ready", zap.String("backend", store.Name()))
	c.Store = store

	c.Receipts = receiptService.NewService(db, store, c.Directory, log.Named("receipts"))
	c.Receipts.Currency = bc.Currency
	c.Receipts.Location = bc.Location

	c.Notifier = alertService.NewNotifier(db, c.Directory, newMailer(log), log.Named("alerts"))
	c.Notifier.Currency = bc.Currency
	c.Notifier.FinanceEmail = bc.FinanceEmail

	c.Worker = intentService.NewWorker(db, c.Notifier, c.Receipts, bc.IntentMaxAttempts, log.Named("intents"))

	c.Schedule = billingService.Schedule{
		DueDay:         bc.DueDay,
		DeadlineDay:    bc.DeadlineDay,
		LateFeeRate:    bc.LateFeeRate,
		DefaultTuition: bc.DefaultTuition,
		Location:       bc.Location,
	}
	c.Generator = billingService.NewGenerator(db, c.Charges, c.Schedule, log.Named("generator"))
	c.Reconciler = billingService.NewReconciler(db, c.Charges, c.Worker, bc.ReconcileWorkers, log.Named("reconciler"))
	c.Scheduler = billingService.NewScheduler(c.Reconciler, bc.ReconcileInterval, log.Named("scheduler"))

	mc := configs.LoadMidtransConfig()
	if mc.ServerKey != "" {
		snapClient := gatewayService.NewSnapClient(mc.ServerKey, mc.UseProduction)
		c.Midtrans = gatewayService.NewMidtrans(db, snapClient, mc.ServerKey, c.Payments, c.Directory, log.Named("midtrans"))
	} else {
		log.Warn("MIDTRANS_SERVER_KEY kosong, checkout online dimatikan")
	}
	return c, nil
}

// ChargeDefaults: tanggal + rate default untuk charge manual per periode.
func (c *Container) ChargeDefaults(p billperiod.Period) chargeDTO.ChargeDefaults {
	due, deadline := c.Schedule.Dates(p)
	return chargeDTO.ChargeDefaults{DueDate: due, HardDeadline: deadline, LateFeeRate: c.Schedule.LateFeeRate}
}

func newMailer(log *zap.Logger) alertService.Mailer {
	cfg := configs.LoadSMTPConfig()
	if cfg.Host == "" {
		log.Warn("SMTP_HOST kosong, email alert hanya dicatat di log")
		return alertService.LogMailer{Log: log.Named("mail")}
	}
	return alertService.NewSMTPMailer(alertService.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		From:     cfg.From,
	})
}
