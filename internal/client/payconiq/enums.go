package payconiq

type PaymentStatus string

const (
	PaymentStatusPending             PaymentStatus = "PENDING"
	PaymentStatusIdentified          PaymentStatus = "IDENTIFIED"
	PaymentStatusAuthorized          PaymentStatus = "AUTHORIZED"
	PaymentStatusAuthorizationFailed PaymentStatus = "AUTHORIZATION_FAILED"
	PaymentStatusSucceeded           PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed              PaymentStatus = "FAILED"
	PaymentStatusCancelled           PaymentStatus = "CANCELLED"
	PaymentStatusExpired             PaymentStatus = "EXPIRED"
)

// IsFinal reports whether no further status transitions can happen.
func (s PaymentStatus) IsFinal() bool {
	switch s {
	case PaymentStatusSucceeded,
		PaymentStatusFailed,
		PaymentStatusCancelled,
		PaymentStatusExpired,
		PaymentStatusAuthorizationFailed:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending,
		PaymentStatusIdentified,
		PaymentStatusAuthorized,
		PaymentStatusAuthorizationFailed,
		PaymentStatusSucceeded,
		PaymentStatusFailed,
		PaymentStatusCancelled,
		PaymentStatusExpired:
		return true
	default:
		return false
	}
}

const DefaultCurrency = "EUR"
