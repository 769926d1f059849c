package payconiq

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/payconiq/internal/validator"
)

// RequestPayment is the body of a payment creation request. Empty optional
// fields are left out of the encoded JSON.
type RequestPayment struct {
	Amount      int64  `json:"amount" validate:"gt=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
	CallbackURL string `json:"callbackUrl,omitempty" validate:"omitempty,url"`
	Reference   string `json:"reference,omitempty" validate:"omitempty,max=35"`
	Description string `json:"description,omitempty" validate:"omitempty,max=140"`
	BulkID      string `json:"bulkId,omitempty"`
	PosID       string `json:"posId,omitempty"`
	ShopID      string `json:"shopId,omitempty"`
	ShopName    string `json:"shopName,omitempty"`
	ReturnURL   string `json:"returnUrl,omitempty" validate:"omitempty,url"`
}

func NewRequestPayment(amount int64) *RequestPayment {
	return &RequestPayment{Amount: amount, Currency: DefaultCurrency}
}

// NewStaticQRPayment creates a request bound to the point of sale of a static sticker.
func NewStaticQRPayment(amount int64, posID string) *RequestPayment {
	r := NewRequestPayment(amount)
	r.PosID = posID
	return r
}

var ErrInvalidRequest = errors.New("invalid request")

// ValidationError lists request fields that failed validation, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRequest }

func validate(v any) error {
	if fields := validator.Fields(v); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// SearchDateLayout is the millisecond UTC layout the search endpoint expects.
const SearchDateLayout = "2006-01-02T15:04:05.000Z"

type SearchPayments struct {
	From            time.Time
	To              *time.Time
	PaymentStatuses []PaymentStatus
	Reference       string
}

func NewSearchPayments(from time.Time) *SearchPayments {
	return &SearchPayments{From: from}
}

func (s *SearchPayments) validate() error {
	if s.From.IsZero() {
		return &ValidationError{Fields: map[string]string{"From": "required"}}
	}
	if s.To != nil && s.To.Before(s.From) {
		return &ValidationError{Fields: map[string]string{"To": "gtefield=From"}}
	}
	for _, st := range s.PaymentStatuses {
		if !st.Valid() {
			return &ValidationError{Fields: map[string]string{"PaymentStatuses": fmt.Sprintf("oneof (got %q)", st)}}
		}
	}
	return nil
}

func (s SearchPayments) MarshalJSON() ([]byte, error) {
	type body struct {
		From            string          `json:"from"`
		To              string          `json:"to,omitempty"`
		PaymentStatuses []PaymentStatus `json:"paymentStatuses,omitempty"`
		Reference       string          `json:"reference,omitempty"`
	}
	b := body{
		From:            s.From.UTC().Format(SearchDateLayout),
		PaymentStatuses: s.PaymentStatuses,
		Reference:       s.Reference,
	}
	if s.To != nil {
		b.To = s.To.UTC().Format(SearchDateLayout)
	}
	return go_json.Marshal(b)
}
