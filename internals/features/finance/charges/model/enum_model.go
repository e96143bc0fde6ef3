package model

type ChargeStatus string
type ChargeKind string
type PayeeType string
type PaymentMethod string

const (
	ChargeStatusPending       ChargeStatus = "PENDING"
	ChargeStatusPartiallyPaid ChargeStatus = "PARTIALLY_PAID"
	ChargeStatusPaid          ChargeStatus = "PAID"
	ChargeStatusLate          ChargeStatus = "LATE"
)

const (
	ChargeKindTuition ChargeKind = "tuition"
	ChargeKindSalary  ChargeKind = "salary"
)

const (
	PayeeStudent  PayeeType = "student"
	PayeeEmployee PayeeType = "employee"
)

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
)

func (s ChargeStatus) Valid() bool {
	switch s {
	case ChargeStatusPending, ChargeStatusPartiallyPaid, ChargeStatusPaid, ChargeStatusLate:
		return true
	}
	return false
}

// Open = belum lunas.
func (s ChargeStatus) Open() bool { return s != ChargeStatusPaid }

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard:
		return true
	}
	return false
}

// PayeeTypeFor: tuition ditagih ke student, salary dibayar ke employee.
func PayeeTypeFor(k ChargeKind) PayeeType {
	if k == ChargeKindSalary {
		return PayeeEmployee
	}
	return PayeeStudent
}
