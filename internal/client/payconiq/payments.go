package payconiq

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const DefaultSearchPageSize = 50

type paymentService struct {
	client *Client
}

var _ PaymentService = (*paymentService)(nil)

func (s *paymentService) Request(ctx context.Context, req *RequestPayment) (*Payment, error) {
	const route = "/payments"

	if req == nil {
		return nil, fmt.Errorf("%w: nil payment request", ErrInvalidRequest)
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	path := route
	if req.PosID != "" {
		path += "/pos"
	}

	var payment Payment
	if err := s.client.do(ctx, http.MethodPost, path, nil, req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *paymentService) Get(ctx context.Context, id string) (*Payment, error) {
	const route = "/payments"

	path, err := paymentPath(route, id)
	if err != nil {
		return nil, err
	}

	var payment Payment
	if err := s.client.do(ctx, http.MethodGet, path, nil, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *paymentService) Cancel(ctx context.Context, id string) error {
	const route = "/payments"

	path, err := paymentPath(route, id)
	if err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (s *paymentService) Search(ctx context.Context, search *SearchPayments, page int, size int) (*SearchResult, error) {
	const route = "/payments/search"

	if search == nil {
		return nil, fmt.Errorf("%w: nil search", ErrInvalidRequest)
	}
	if err := search.validate(); err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultSearchPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result SearchResult
	if err := s.client.do(ctx, http.MethodPost, route, query, search, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *paymentService) RefundIBAN(ctx context.Context, id string) (*RefundIBAN, error) {
	const route = "/payments"

	path, err := paymentPath(route, id)
	if err != nil {
		return nil, err
	}

	var refund RefundIBAN
	if err := s.client.do(ctx, http.MethodGet, path+"/debtor/refundIban", nil, nil, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func paymentPath(route string, id string) (string, error) {
	if id == "" {
		return "", &ValidationError{Fields: map[string]string{"PaymentID": "required"}}
	}
	return route + "/" + url.PathEscape(id), nil
}
