package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	chargeModel "transportku_backend/internals/features/finance/charges/model"
	chargeService "transportku_backend/internals/features/finance/charges/service"
	gatewayModel "transportku_backend/internals/features/finance/gateway/model"
	payeeService "transportku_backend/internals/features/finance/payees/service"
	"transportku_backend/internals/helpers/billperiod"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrNotPayable       = errors.New("charge cannot be paid through the gateway")
	ErrNothingToPay     = errors.New("charge is already fully paid")
	ErrGateway          = errors.New("payment gateway error")
)

const orderPrefix = "CHG-"

// SnapCreator = bagian snap.Client yang dipakai; diganti fake di test.
type SnapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient: sandbox kecuali useProduction.
func NewSnapClient(serverKey string, useProduction bool) *snap.Client {
	var c snap.Client
	if useProduction {
		c.New(serverKey, midtrans.Production)
	} else {
		c.New(serverKey, midtrans.Sandbox)
	}
	return &c
}

type ContactResolver interface {
	Resolve(ctx context.Context, ref chargeModel.PayeeRef) (payeeService.Contact, error)
}

type Midtrans struct {
	DB        *gorm.DB
	Snap      SnapCreator
	ServerKey string
	Charges   *chargeService.ChargeService
	Payments  *chargeService.PaymentService
	Contacts  ContactResolver
	Now       func() time.Time
	Log       *zap.Logger
}

func NewMidtrans(db *gorm.DB, snapClient SnapCreator, serverKey string, payments *chargeService.PaymentService, contacts ContactResolver, log *zap.Logger) *Midtrans {
	if log == nil {
		log = zap.NewNop()
	}
	return &Midtrans{
		DB:        db,
		Snap:      snapClient,
		ServerKey: serverKey,
		Charges:   payments.Charges,
		Payments:  payments,
		Contacts:  contacts,
		Now:       time.Now,
		Log:       log,
	}
}

func (m *Midtrans) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

/* ===================== Order id ===================== */

func OrderID(chargeID uuid.UUID, at time.Time) string {
	return orderPrefix + chargeID.String() + "-" + strconv.FormatInt(at.Unix(), 10)
}

// ChargeFromOrderID: CHG-<uuid>-<unix> → uuid
func ChargeFromOrderID(orderID string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(orderID, orderPrefix)
	if !ok || len(rest) < 36 {
		return uuid.Nil, fmt.Errorf("unrecognized order id %q", orderID)
	}
	return uuid.Parse(rest[:36])
}

/* ===================== Checkout ===================== */

type CheckoutResult struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	Amount      int64  `json:"amount"`
}

// Checkout membuat snap token untuk saldo tuition yang tersisa.
func (m *Midtrans) Checkout(ctx context.Context, chargeID uuid.UUID) (*CheckoutResult, error) {
	c, err := m.Charges.Get(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if c.ChargeKind != chargeModel.ChargeKindTuition {
		return nil, ErrNotPayable
	}
	outstanding := c.OutstandingBalance(m.Charges.Today())
	amount := billperiod.WholeUnits(outstanding)
	if amount <= 0 {
		return nil, ErrNothingToPay
	}

	contact, err := m.Contacts.Resolve(ctx, c.PayeeRef())
	if err != nil {
		return nil, err
	}

	orderID := OrderID(c.ChargeID, m.now())
	itemName := fmt.Sprintf("Tuition %s - %s", c.ChargeReferencePeriod, contact.PayeeName)
	if len(itemName) > 50 {
		itemName = itemName[:50]
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: contact.Name,
			Email: contact.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       c.ChargeID.String()[:8],
			Price:    amount,
			Qty:      1,
			Name:     itemName,
			Category: "TUITION",
		}},
	}

	resp, merr := m.Snap.CreateTransaction(req)
	if merr != nil {
		return nil, fmt.Errorf("%w: %s", ErrGateway, merr.Message)
	}
	m.Log.Info("checkout created",
		zap.String("charge_id", c.ChargeID.String()),
		zap.String("order_id", orderID),
		zap.Int64("amount", amount),
	)
	return &CheckoutResult{OrderID: orderID, Token: resp.Token, RedirectURL: resp.RedirectURL, Amount: amount}, nil
}

/* ===================== Notification ===================== */

type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
}

// Signature = hex(SHA512(order_id + status_code + gross_amount + server_key))
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

type NotificationResult struct {
	Status    gatewayModel.GatewayEventStatus `json:"status"`
	Reason    string                          `json:"reason,omitempty"`
	PaymentID *uuid.UUID                      `json:"payment_id,omitempty"`
	Charge    *chargeModel.ChargeStatus       `json:"charge_status,omitempty"`
	Duplicate bool                            `json:"duplicate,omitempty"`
}

// settled: capture (fraud accept / kosong) atau settlement.
func settled(n Notification) bool {
	switch strings.ToLower(n.TransactionStatus) {
	case "settlement":
		return true
	case "capture":
		f := strings.ToLower(n.FraudStatus)
		return f == "" || f == "accept"
	}
	return false
}

// HandleNotification memverifikasi signature lalu mencatat CARD payment untuk notifikasi lunas.
// Error yang dikembalikan (selain ErrInvalidSignature) membuat Midtrans mengulang notifikasi.
func (m *Midtrans) HandleNotification(ctx context.Context, n Notification) (NotificationResult, error) {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" || want != Signature(n.OrderID, n.StatusCode, n.GrossAmount, m.ServerKey) {
		return NotificationResult{}, ErrInvalidSignature
	}

	ev := m.logEvent(ctx, n)
	res, err := m.apply(ctx, n, ev)
	m.finishEvent(ctx, ev, res, err)
	return res, err
}

func (m *Midtrans) apply(ctx context.Context, n Notification, ev *gatewayModel.GatewayEvent) (NotificationResult, error) {
	if !settled(n) {
		return NotificationResult{Status: gatewayModel.GatewayEventIgnored, Reason: "status " + n.TransactionStatus}, nil
	}
	chargeID, err := ChargeFromOrderID(n.OrderID)
	if err != nil {
		return NotificationResult{Status: gatewayModel.GatewayEventIgnored, Reason: err.Error()}, nil
	}
	if ev != nil {
		ev.GatewayEventChargeID = &chargeID
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(n.GrossAmount))
	if err != nil {
		return NotificationResult{Status: gatewayModel.GatewayEventIgnored, Reason: "invalid gross_amount"}, nil
	}

	// checkout membulatkan saldo ke atas; sisa < 1 satuan tidak dihitung kelebihan
	orderID := n.OrderID
	note := "midtrans " + n.PaymentType
	rec, err := m.Payments.Record(ctx, chargeService.RecordPaymentInput{
		ChargeID:    chargeID,
		Amount:      amount,
		Method:      chargeModel.PaymentMethodCard,
		Note:        &note,
		ExternalRef: &orderID,
		Tolerance:   decimal.NewFromInt(1),
	})
	switch {
	case err == nil:
	case errors.Is(err, chargeService.ErrChargeNotFound),
		errors.Is(err, chargeService.ErrOverpayment),
		errors.Is(err, chargeService.ErrInvalidPayment):
		// bukan kondisi sementara; jangan minta Midtrans mengulang
		m.Log.Warn("gateway payment rejected", zap.String("order_id", n.OrderID), zap.Error(err))
		return NotificationResult{Status: gatewayModel.GatewayEventFailed, Reason: err.Error()}, nil
	default:
		return NotificationResult{Status: gatewayModel.GatewayEventFailed, Reason: err.Error()}, err
	}

	st := rec.Charge.ChargeStatus
	return NotificationResult{
		Status:    gatewayModel.GatewayEventProcessed,
		PaymentID: &rec.Payment.PaymentID,
		Charge:    &st,
		Duplicate: rec.Duplicate,
	}, nil
}

func (m *Midtrans) logEvent(ctx context.Context, n Notification) *gatewayModel.GatewayEvent {
	payload, _ := json.Marshal(n)
	ev := &gatewayModel.GatewayEvent{
		GatewayEventProvider:          gatewayModel.ProviderMidtrans,
		GatewayEventOrderID:           n.OrderID,
		GatewayEventTransactionStatus: n.TransactionStatus,
		GatewayEventGrossAmount:       n.GrossAmount,
		GatewayEventPayload:           datatypes.JSON(payload),
		GatewayEventStatus:            gatewayModel.GatewayEventReceived,
	}
	if n.TransactionID != "" {
		v := n.TransactionID
		ev.GatewayEventTransactionID = &v
	}
	if n.FraudStatus != "" {
		v := n.FraudStatus
		ev.GatewayEventFraudStatus = &v
	}
	if err := m.DB.WithContext(ctx).Create(ev).Error; err != nil {
		m.Log.Error("gateway event insert failed", zap.String("order_id", n.OrderID), zap.Error(err))
		return nil
	}
	return ev
}

func (m *Midtrans) finishEvent(ctx context.Context, ev *gatewayModel.GatewayEvent, res NotificationResult, err error) {
	if ev == nil {
		return
	}
	now := m.now()
	updates := map[string]any{
		"gateway_event_status":       res.Status,
		"gateway_event_processed_at": now,
		"gateway_event_charge_id":    ev.GatewayEventChargeID,
		"gateway_event_payment_id":   res.PaymentID,
	}
	if res.Reason != "" {
		updates["gateway_event_error"] = res.Reason
	} else if err != nil {
		updates["gateway_event_error"] = err.Error()
	}
	if uerr := m.DB.WithContext(ctx).Model(&gatewayModel.GatewayEvent{}).
		Where("gateway_event_id = ?", ev.GatewayEventID).
		Updates(updates).Error; uerr != nil {
		m.Log.Error("gateway event update failed", zap.String("order_id", ev.GatewayEventOrderID), zap.Error(uerr))
	}
}
