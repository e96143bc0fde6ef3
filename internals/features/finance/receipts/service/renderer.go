package service

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	chargeModel "transportku_backend/internals/features/finance/charges/model"
)

// ReceiptView = data yang dicetak di dokumen.
type ReceiptView struct {
	Number    string
	PayeeName string
	Recipient string
	Kind      string
	Period    string
	Amount    string
	Currency  string
	PaidDate  string
	Status    string
	Payments  []PaymentLine
	IssuedAt  string
}

type PaymentLine struct {
	Date   string
	Method string
	Amount string
}

func kindLabel(k chargeModel.ChargeKind) string {
	if k == chargeModel.ChargeKindSalary {
		return "Salary"
	}
	return "Tuition"
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func dateLabel(t time.Time) string { return t.Format("02/01/2006") }

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Receipt {{.Number}}</title>
<style>
body{font-family:Helvetica,Arial,sans-serif;margin:40px;color:#222}
h1{font-size:22px;margin-bottom:4px}
table{border-collapse:collapse;margin-top:16px}
td,th{padding:6px 12px;text-align:left;border-bottom:1px solid #ddd}
.sign{margin-top:60px;border-top:1px solid #000;width:260px;padding-top:4px}
.thanks{margin-top:30px;font-style:italic}
</style>
</head>
<body>
<h1>Payment Receipt</h1>
<div>No. {{.Number}} &middot; issued {{.IssuedAt}}</div>
<table>
<tr><th>Name</th><td>{{.PayeeName}}</td></tr>
{{- if and .Recipient (ne .Recipient .PayeeName)}}
<tr><th>Paid by / to</th><td>{{.Recipient}}</td></tr>
{{- end}}
<tr><th>Type</th><td>{{.Kind}}</td></tr>
<tr><th>Period</th><td>{{.Period}}</td></tr>
<tr><th>Amount</th><td>{{.Amount}} {{.Currency}}</td></tr>
<tr><th>Date</th><td>{{.PaidDate}}</td></tr>
<tr><th>Status</th><td>{{.Status}}</td></tr>
</table>
{{- if .Payments}}
<table>
<tr><th>Date</th><th>Method</th><th>Amount</th></tr>
{{- range .Payments}}
<tr><td>{{.Date}}</td><td>{{.Method}}</td><td>{{.Amount}}</td></tr>
{{- end}}
</table>
{{- end}}
<div class="sign">Signature</div>
<div class="thanks">Thank you for your payment.</div>
</body>
</html>
`))

func RenderHTML(v ReceiptView) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
