package payconiq

import (
	"time"

	go_json "github.com/goccy/go-json"
)

type Payment struct {
	PaymentID   string        `json:"paymentId"`
	CreatedAt   time.Time     `json:"createdAt"`
	ExpiresAt   *time.Time    `json:"expiresAt,omitempty"`
	Status      PaymentStatus `json:"status"`
	Amount      int64         `json:"amount"`
	Currency    string        `json:"currency"`
	Creditor    *Creditor     `json:"creditor,omitempty"`
	Debtor      *Debtor       `json:"debtor,omitempty"`
	Description string        `json:"description,omitempty"`
	BulkID      string        `json:"bulkId,omitempty"`
	Reference   string        `json:"reference,omitempty"`
	Links       Links         `json:"_links"`

	// Only set on callbacks.
	TransferAmount int64 `json:"transferAmount,omitempty"`
	TippingAmount  int64 `json:"tippingAmount,omitempty"`
	TotalAmount    int64 `json:"totalAmount,omitempty"`
}

// UnmarshalJSON defaults Currency to EUR when the API omits it.
func (p *Payment) UnmarshalJSON(data []byte) error {
	type payment Payment
	var raw payment
	if err := go_json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Currency == "" {
		raw.Currency = DefaultCurrency
	}
	*p = Payment(raw)
	return nil
}

type Links struct {
	Self     *Link `json:"self,omitempty"`
	Deeplink *Link `json:"deeplink,omitempty"`
	QRCode   *Link `json:"qrcode,omitempty"`
	Refund   *Link `json:"refund,omitempty"`
	Checkout *Link `json:"checkout,omitempty"`
}

type Link struct {
	Href string `json:"href"`
}

func (l *Link) String() string {
	if l == nil {
		return ""
	}
	return l.Href
}

type Creditor struct {
	ProfileID   string `json:"profileId"`
	MerchantID  string `json:"merchantId"`
	Name        string `json:"name"`
	IBAN        string `json:"iban"`
	CallbackURL string `json:"callbackUrl,omitempty"`
}

type Debtor struct {
	Name string `json:"name"`
	IBAN string `json:"iban,omitempty"`
}

type SearchResult struct {
	Size          int       `json:"size"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int       `json:"totalElements"`
	Number        int       `json:"number"`
	Details       []Payment `json:"details"`
}

// HasMore reports whether pages follow the current one.
func (r *SearchResult) HasMore() bool {
	return r.Number+1 < r.TotalPages
}

type RefundIBAN struct {
	IBAN string `json:"iban"`
	Name string `json:"name,omitempty"`
}
