package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	alertModel "transportku_backend/internals/features/finance/alerts/model"
	"transportku_backend/internals/features/finance/charges/engine"
	chargeModel "transportku_backend/internals/features/finance/charges/model"
	payeeService "transportku_backend/internals/features/finance/payees/service"
)

const (
	DefaultCurrency = "MTN"

	financeRecipientKey = "finance"
)

var ErrNoEmail = errors.New("recipient has no email")

type ContactResolver interface {
	Resolve(ctx context.Context, ref chargeModel.PayeeRef) (payeeService.Contact, error)
}

// Notifier menggabungkan alert overdue per penerima, mengirim satu email per
// penerima, dan mencatat AlertLog.
//
// Tuition telat → guardian (tagihan). Gaji telat → FinanceEmail (sekolah yang
// berutang ke employee); employee sendiri tidak pernah dikirimi tagihan.
type Notifier struct {
	DB           *gorm.DB
	Contacts     ContactResolver
	Mailer       Mailer
	Currency     string
	FinanceEmail string
	Now          func() time.Time
	Log          *zap.Logger
}

func NewNotifier(db *gorm.DB, contacts ContactResolver, mailer Mailer, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{DB: db, Contacts: contacts, Mailer: mailer, Currency: DefaultCurrency, Now: time.Now, Log: log}
}

type recipientBatch struct {
	contact payeeService.Contact
	salary  bool
	items   []batchItem
	// charge id → index di items; alert berulang untuk charge yang sama cukup satu baris
	byCharge map[string]int
	keys     []string
}

type batchItem struct {
	payeeName string
	summary   engine.ChargeSummary
}

// NotifyOverdue memenuhi kontrak intents.Notifier.
func (n *Notifier) NotifyOverdue(ctx context.Context, alerts []engine.SendOverdueAlert) map[string]error {
	out := make(map[string]error, len(alerts))
	contacts := make(map[string]payeeService.Contact)
	batches := make(map[string]*recipientBatch)
	var order []string

	for _, a := range alerts {
		key := a.DedupeKey()
		ref := a.PayeeRef
		c, ok := contacts[ref.String()]
		if !ok {
			var err error
			c, err = n.Contacts.Resolve(ctx, ref)
			if err != nil {
				out[key] = err
				continue
			}
			contacts[ref.String()] = c
		}
		salary := a.Summary.Kind == chargeModel.ChargeKindSalary
		rcpt := c
		if salary {
			rcpt = n.financeContact()
		}
		if rcpt.Email == "" {
			out[key] = fmt.Errorf("%w: %s", ErrNoEmail, rcpt.RecipientKey)
			continue
		}

		b, ok := batches[rcpt.RecipientKey]
		if !ok {
			b = &recipientBatch{contact: rcpt, salary: salary, byCharge: map[string]int{}}
			batches[rcpt.RecipientKey] = b
			order = append(order, rcpt.RecipientKey)
		}
		b.keys = append(b.keys, key)
		cid := a.Summary.ChargeID.String()
		if i, seen := b.byCharge[cid]; seen {
			if a.Summary.DaysLate >= b.items[i].summary.DaysLate {
				b.items[i].summary = a.Summary
			}
			continue
		}
		b.byCharge[cid] = len(b.items)
		b.items = append(b.items, batchItem{payeeName: c.PayeeName, summary: a.Summary})
	}

	for _, rk := range order {
		b := batches[rk]
		err := n.sendBatch(ctx, b)
		for _, k := range b.keys {
			out[k] = err
		}
	}
	return out
}

func (n *Notifier) financeContact() payeeService.Contact {
	return payeeService.Contact{
		Name:         "Finance",
		Email:        strings.TrimSpace(n.FinanceEmail),
		RecipientKey: financeRecipientKey,
	}
}

func (n *Notifier) sendBatch(ctx context.Context, b *recipientBatch) error {
	ids := make([]string, 0, len(b.items))
	for _, it := range b.items {
		ids = append(ids, it.summary.ChargeID.String())
	}
	rawIDs, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode charge ids: %w", err)
	}

	msg := n.compose(b)
	sendErr := n.Mailer.Send(ctx, msg)

	row := alertModel.AlertLog{
		AlertLogRecipientKey:  b.contact.RecipientKey,
		AlertLogRecipientName: b.contact.Name,
		AlertLogEmail:         b.contact.Email,
		AlertLogKind:          alertModel.AlertKindOverdue,
		AlertLogSubject:       msg.Subject,
		AlertLogMessage:       msg.Body,
		AlertLogChargeIDs:     datatypes.JSON(rawIDs),
	}
	if sendErr != nil {
		e := sendErr.Error()
		row.AlertLogStatus = alertModel.AlertStatusFailed
		row.AlertLogError = &e
	} else {
		now := n.now()
		row.AlertLogStatus = alertModel.AlertStatusSent
		row.AlertLogSentAt = &now
	}
	if err := n.DB.WithContext(ctx).Create(&row).Error; err != nil {
		n.Log.Error("alert log insert failed", zap.String("recipient", b.contact.RecipientKey), zap.Error(err))
	}

	if sendErr != nil {
		n.Log.Warn("overdue alert not delivered",
			zap.String("recipient", b.contact.RecipientKey),
			zap.Int("charges", len(b.items)),
			zap.Error(sendErr),
		)
		return sendErr
	}
	n.Log.Info("overdue alert sent",
		zap.String("recipient", b.contact.RecipientKey),
		zap.Int("charges", len(b.items)),
	)
	return nil
}

func (n *Notifier) compose(b *recipientBatch) Message {
	cur := n.Currency
	if cur == "" {
		cur = DefaultCurrency
	}
	items := append([]batchItem(nil), b.items...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].payeeName != items[j].payeeName {
			return items[i].payeeName < items[j].payeeName
		}
		return items[i].summary.Period.Before(items[j].summary.Period)
	})

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", b.contact.Name)
	if b.salary {
		body.WriteString("The following salary payment(s) to employees are overdue:\n\n")
	} else {
		body.WriteString("The following payment(s) are overdue:\n\n")
	}
	for _, it := range items {
		s := it.summary
		fmt.Fprintf(&body, "- %s: %s %s (period %s, %d day(s) late",
			it.payeeName, s.Outstanding.StringFixed(2), cur, s.Period, s.DaysLate)
		if s.PastHardDeadline {
			body.WriteString(", past final deadline")
		}
		body.WriteString(")\n")
	}
	if b.salary {
		body.WriteString("\nPlease pay the employees listed above as soon as possible.\n")
		return Message{
			To:      b.contact.Email,
			Subject: fmt.Sprintf("Overdue salary payments (%d)", len(items)),
			Body:    body.String(),
		}
	}
	body.WriteString("\nPlease settle the outstanding amount as soon as possible.\n")

	return Message{
		To:      b.contact.Email,
		Subject: "Overdue payment - " + b.contact.Name,
		Body:    body.String(),
	}
}

func (n *Notifier) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}
