package payconiq

import "context"

type PaymentService interface {
	Request(ctx context.Context, req *RequestPayment) (*Payment, error)
	Get(ctx context.Context, id string) (*Payment, error)
	Cancel(ctx context.Context, id string) error
	Search(ctx context.Context, search *SearchPayments, page int, size int) (*SearchResult, error)
	RefundIBAN(ctx context.Context, id string) (*RefundIBAN, error)
}
