package service

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	alertModel "transportku_backend/internals/features/finance/alerts/model"
	"transportku_backend/internals/features/finance/charges/engine"
	chargeModel "transportku_backend/internals/features/finance/charges/model"
	payeeService "transportku_backend/internals/features/finance/payees/service"
	"transportku_backend/internals/helpers/billperiod"
	"transportku_backend/internals/helpers/testdb"
)

type stubContacts map[uuid.UUID]payeeService.Contact

func (s stubContacts) Resolve(_ context.Context, ref chargeModel.PayeeRef) (payeeService.Contact, error) {
	c, ok := s[ref.ID]
	if !ok {
		return payeeService.Contact{}, payeeService.ErrPayeeNotFound
	}
	return c, nil
}

type captureMailer struct {
	sent []Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func overdue(payee uuid.UUID, month time.Month, outstanding string) engine.SendOverdueAlert {
	return engine.SendOverdueAlert{
		PayeeRef: chargeModel.PayeeRef{Type: chargeModel.PayeeStudent, ID: payee},
		Summary: engine.ChargeSummary{
			ChargeID:    uuid.New(),
			Kind:        chargeModel.ChargeKindTuition,
			Period:      billperiod.NewPeriod(2025, month),
			DaysLate:    12,
			Outstanding: decimal.RequireFromString(outstanding),
			Status:      chargeModel.ChargeStatusLate,
		},
		EvaluatedOn: time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC),
	}
}

func TestNotifyOverdue_BatchesPerGuardian(t *testing.T) {
	db := testdb.Open(t, &alertModel.AlertLog{})
	ana, beto, solo := uuid.New(), uuid.New(), uuid.New()
	contacts := stubContacts{
		ana:  {PayeeName: "Ana", Name: "Carla", Email: "carla@example.com", RecipientKey: "guardian:1"},
		beto: {PayeeName: "Beto", Name: "Carla", Email: "carla@example.com", RecipientKey: "guardian:1"},
		solo: {PayeeName: "Dino", Name: "Eva", Email: "", RecipientKey: "guardian:2"},
	}
	mailer := &captureMailer{}
	n := NewNotifier(db, contacts, mailer, nil)

	a1 := overdue(ana, time.February, "1100.00")
	a2 := overdue(beto, time.March, "1200.00")
	a3 := overdue(solo, time.March, "900.00")
	res := n.NotifyOverdue(context.Background(), []engine.SendOverdueAlert{a1, a2, a3})

	if len(mailer.sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mailer.sent))
	}
	body := mailer.sent[0].Body
	for _, want := range []string{"Ana: 1100.00 MTN", "Beto: 1200.00 MTN", "period 2025-02"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	if res[a1.DedupeKey()] != nil || res[a2.DedupeKey()] != nil {
		t.Fatalf("unexpected errors: %v", res)
	}
	if !errors.Is(res[a3.DedupeKey()], ErrNoEmail) {
		t.Fatalf("a3 error = %v, want ErrNoEmail", res[a3.DedupeKey()])
	}

	var logs []alertModel.AlertLog
	db.Find(&logs)
	if len(logs) != 1 || logs[0].AlertLogStatus != alertModel.AlertStatusSent || logs[0].AlertLogSentAt == nil {
		t.Fatalf("alert logs = %+v", logs)
	}
}

func TestNotifyOverdue_MailFailureLogged(t *testing.T) {
	db := testdb.Open(t, &alertModel.AlertLog{})
	p := uuid.New()
	contacts := stubContacts{p: {PayeeName: "Ana", Name: "Carla", Email: "carla@example.com", RecipientKey: "guardian:1"}}
	mailer := &captureMailer{err: errors.New("smtp 451")}
	n := NewNotifier(db, contacts, mailer, nil)

	a := overdue(p, time.March, "1000.00")
	res := n.NotifyOverdue(context.Background(), []engine.SendOverdueAlert{a})
	if res[a.DedupeKey()] == nil {
		t.Fatal("expected delivery error")
	}
	rows, total, err := ListLogs(context.Background(), db, LogFilter{Status: alertModel.AlertStatusFailed})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || rows[0].AlertLogError == nil {
		t.Fatalf("failed logs = %+v", rows)
	}
}

func TestNotifyOverdue_UnknownPayee(t *testing.T) {
	db := testdb.Open(t, &alertModel.AlertLog{})
	n := NewNotifier(db, stubContacts{}, &captureMailer{}, nil)
	a := overdue(uuid.New(), time.March, "10.00")
	res := n.NotifyOverdue(context.Background(), []engine.SendOverdueAlert{a})
	if !errors.Is(res[a.DedupeKey()], payeeService.ErrPayeeNotFound) {
		t.Fatalf("got %v", res[a.DedupeKey()])
	}
}

func TestSMTPMailer_BuildsMessage(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.test", User: "u", Password: "p", From: "billing@test"})
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	m.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}
	err := m.Send(context.Background(), Message{To: "carla@example.com", Subject: "Overdue", Body: "line1\nline2"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAddr != "smtp.test:587" || len(gotTo) != 1 || gotTo[0] != "carla@example.com" {
		t.Fatalf("addr=%s to=%v", gotAddr, gotTo)
	}
	if !strings.Contains(gotMsg, "Subject: Overdue\r\n") || !strings.Contains(gotMsg, "line1\r\nline2") {
		t.Fatalf("mime = %q", gotMsg)
	}
	if err := m.Send(context.Background(), Message{To: " "}); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}

func salaryOverdue(employee uuid.UUID, outstanding string) engine.SendOverdueAlert {
	a := overdue(employee, time.January, outstanding)
	a.PayeeRef.Type = chargeModel.PayeeEmployee
	a.Summary.Kind = chargeModel.ChargeKindSalary
	return a
}

func TestNotifyOverdue_SalaryGoesToFinance(t *testing.T) {
	db := testdb.Open(t, &alertModel.AlertLog{})
	joao, rita, ana := uuid.New(), uuid.New(), uuid.New()
	contacts := stubContacts{
		joao: {PayeeName: "Joao", Name: "Joao", Email: "joao@example.com", RecipientKey: "employee:1"},
		rita: {PayeeName: "Rita", Name: "Rita", Email: "rita@example.com", RecipientKey: "employee:2"},
		ana:  {PayeeName: "Ana", Name: "Carla", Email: "carla@example.com", RecipientKey: "guardian:1"},
	}
	mailer := &captureMailer{}
	n := NewNotifier(db, contacts, mailer, nil)
	n.FinanceEmail = "finance@transportku.test"

	s1 := salaryOverdue(joao, "8000.00")
	s2 := salaryOverdue(rita, "7500.00")
	tu := overdue(ana, time.January, "1100.00")
	res := n.NotifyOverdue(context.Background(), []engine.SendOverdueAlert{s1, s2, tu})

	for _, k := range []string{s1.DedupeKey(), s2.DedupeKey(), tu.DedupeKey()} {
		if res[k] != nil {
			t.Fatalf("%s: %v", k, res[k])
		}
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("mails sent = %d, want 2", len(mailer.sent))
	}
	var finance *Message
	for i := range mailer.sent {
		switch mailer.sent[i].To {
		case "joao@example.com", "rita@example.com":
			t.Fatalf("employee received a dunning mail: %+v", mailer.sent[i])
		case "finance@transportku.test":
			finance = &mailer.sent[i]
		}
	}
	if finance == nil {
		t.Fatalf("no finance mail in %+v", mailer.sent)
	}
	for _, want := range []string{"salary payment(s) to employees", "Joao: 8000.00 MTN", "Rita: 7500.00 MTN", "pay the employees"} {
		if !strings.Contains(finance.Body, want) {
			t.Fatalf("finance body missing %q:\n%s", want, finance.Body)
		}
	}
	if strings.Contains(finance.Body, "settle the outstanding") {
		t.Fatalf("finance body uses dunning text:\n%s", finance.Body)
	}

	var logs []alertModel.AlertLog
	db.Where("alert_log_recipient_key = ?", "finance").Find(&logs)
	if len(logs) != 1 {
		t.Fatalf("finance alert logs = %d, want 1", len(logs))
	}
}

func TestNotifyOverdue_SalaryWithoutFinanceEmail(t *testing.T) {
	db := testdb.Open(t, &alertModel.AlertLog{})
	joao := uuid.New()
	contacts := stubContacts{joao: {PayeeName: "Joao", Name: "Joao", Email: "joao@example.com", RecipientKey: "employee:1"}}
	mailer := &captureMailer{}
	n := NewNotifier(db, contacts, mailer, nil)

	a := salaryOverdue(joao, "8000.00")
	res := n.NotifyOverdue(context.Background(), []engine.SendOverdueAlert{a})
	if !errors.Is(res[a.DedupeKey()], ErrNoEmail) {
		t.Fatalf("got %v, want ErrNoEmail", res[a.DedupeKey()])
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("mails sent = %+v, want none", mailer.sent)
	}
}

func TestSMTPMailer_StripsHeaderInjection(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.test", From: "billing@test"})
	var gotMsg string
	m.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}
	msg := Message{To: "carla@example.com", Subject: "Overdue payment - Carla\r\nBcc: evil@example.com", Body: "hi"}
	if err := m.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if strings.Contains(gotMsg, "\r\nBcc:") {
		t.Fatalf("header injected: %q", gotMsg)
	}
	if !strings.Contains(gotMsg, "Subject: Overdue payment - Carla Bcc: evil@example.com\r\n") {
		t.Fatalf("mime = %q", gotMsg)
	}

	if err := m.Send(context.Background(), Message{To: "carla@example.com\r\nBcc: evil@example.com"}); err == nil {
		t.Fatal("expected error for recipient with CR/LF")
	}
}
