// Command billing menjalankan job penagihan tanpa server HTTP.
//
//	billing generate --period 2025-01 [--kind tuition] [--default 2500] [--override "Joana:2000" ...]
//	billing reconcile
//	billing dispatch
//	billing seed
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"transportku_backend/internals/bootstrap"
	"transportku_backend/internals/configs"
	database "transportku_backend/internals/databases"
	billingService "transportku_backend/internals/features/finance/billing/service"
	chargeModel "transportku_backend/internals/features/finance/charges/model"
	"transportku_backend/internals/helpers/billperiod"
	"transportku_backend/internals/seeds"
)

// multiFlag: --override boleh diulang
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func usage() {
	fmt.Fprintln(os.Stderr, "usage: billing <generate|reconcile|dispatch|seed> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	configs.LoadEnv()
	log := configs.NewLogger()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	app, err := bootstrap.New(ctx, db, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}

	var out any
	switch cmd := os.Args[1]; cmd {
	case "generate":
		out, err = runGenerate(ctx, app, os.Args[2:])
	case "reconcile":
		out, err = app.Reconciler.Run(ctx)
	case "dispatch":
		out, err = app.Worker.Drain(ctx)
	case "seed":
		if err = database.AutoMigrate(db); err == nil {
			seeds.RunAllSeeds(db)
			out = map[string]string{"seed": "done"}
		}
	default:
		usage()
	}
	if err != nil {
		log.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func runGenerate(ctx context.Context, app *bootstrap.Container, args []string) (billingService.GenerateResult, error) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	period := fs.String("period", "", "periode YYYY-MM (wajib)")
	kind := fs.String("kind", "", "tuition | salary (kosong = keduanya)")
	def := fs.String("default", "", "tuition default kalau student/route tidak punya tarif")
	var overrides multiFlag
	fs.Var(&overrides, "override", "nama:nilai atau uuid:nilai, boleh diulang")
	_ = fs.Parse(args)

	p, err := billperiod.ParsePeriod(*period)
	if err != nil {
		return billingService.GenerateResult{}, fmt.Errorf("--period: %w", err)
	}
	ov, err := billingService.ParseOverrides(overrides)
	if err != nil {
		return billingService.GenerateResult{}, err
	}
	in := billingService.GenerateInput{Period: p, Overrides: ov}
	if *kind != "" {
		in.Kinds = []chargeModel.ChargeKind{chargeModel.ChargeKind(strings.ToLower(*kind))}
	}
	if *def != "" {
		v, err := decimal.NewFromString(*def)
		if err != nil || v.IsNegative() {
			return billingService.GenerateResult{}, fmt.Errorf("--default: invalid amount %q", *def)
		}
		in.DefaultTuition = &v
	}
	return app.Generator.Run(ctx, in)
}
