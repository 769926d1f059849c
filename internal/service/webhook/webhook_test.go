package webhook

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garrettladley/payconiq/internal/callback"
	"github.com/garrettladley/payconiq/internal/client/payconiq"
	"github.com/garrettladley/payconiq/internal/storage"
)

type fakeVerifier struct {
	jti string
	err error
}

func (v fakeVerifier) Verify(_ context.Context, _ string, payload []byte) (*callback.VerifiedToken, error) {
	if v.err != nil {
		return nil, &callback.VerificationError{Production: true, Err: v.err}
	}
	return &callback.VerifiedToken{
		Header:  map[string]any{callback.HeaderJTI: v.jti},
		Payload: payload,
	}, nil
}

const body = `{"paymentId":"5bdb1685b93d1c000bde96f2","amount":1,"status":"SUCCEEDED","totalAmount":1}`

func TestProcessor_ProcessCallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		verifier fakeVerifier
		req      ProcessRequest
		wantErr  error
	}{
		{
			name:     "valid",
			verifier: fakeVerifier{jti: "jti-1"},
			req:      ProcessRequest{Body: []byte(body), Signature: "sig"},
		},
		{
			name:     "missing signature",
			verifier: fakeVerifier{jti: "jti-1"},
			req:      ProcessRequest{Body: []byte(body)},
			wantErr:  ErrMissingSignature,
		},
		{
			name:     "bad signature",
			verifier: fakeVerifier{err: callback.ErrSignatureInvalid},
			req:      ProcessRequest{Body: []byte(body), Signature: "sig"},
			wantErr:  ErrInvalidSignature,
		},
		{
			name:     "claim violation",
			verifier: fakeVerifier{err: fmt.Errorf("wrapped: %w", callback.ErrClaimViolation)},
			req:      ProcessRequest{Body: []byte(body), Signature: "sig"},
			wantErr:  ErrInvalidSignature,
		},
		{
			name:     "keys unavailable",
			verifier: fakeVerifier{err: callback.ErrKeySetFetch},
			req:      ProcessRequest{Body: []byte(body), Signature: "sig"},
			wantErr:  ErrKeysUnavailable,
		},
		{
			name:     "not json",
			verifier: fakeVerifier{jti: "jti-1"},
			req:      ProcessRequest{Body: []byte("nope"), Signature: "sig"},
			wantErr:  ErrInvalidPayload,
		},
		{
			name:     "no payment id",
			verifier: fakeVerifier{jti: "jti-1"},
			req:      ProcessRequest{Body: []byte(`{"status":"SUCCEEDED"}`), Signature: "sig"},
			wantErr:  ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []*Callback
			sink := SinkFunc(func(_ context.Context, cb *Callback) error {
				got = append(got, cb)
				return nil
			})
			p := NewProcessor(tt.verifier, storage.NewMemoryCache(0), sink)

			cb, err := p.ProcessCallback(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ProcessCallback() error = %v, want %v", err, tt.wantErr)
				}
				if len(got) != 0 {
					t.Errorf("sink called on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("ProcessCallback() error = %v", err)
			}
			if cb.Payment.Status != payconiq.PaymentStatusSucceeded || cb.Payment.TotalAmount != 1 {
				t.Errorf("unexpected payment %+v", cb.Payment)
			}
			if len(got) != 1 {
				t.Errorf("sink calls = %d, want 1", len(got))
			}
		})
	}
}

func TestProcessor_Replay(t *testing.T) {
	t.Parallel()

	calls := 0
	sink := SinkFunc(func(context.Context, *Callback) error {
		calls++
		return nil
	})
	p := NewProcessor(fakeVerifier{jti: "jti-replayed"}, storage.NewMemoryCache(0), sink)
	req := ProcessRequest{Body: []byte(body), Signature: "sig"}

	if _, err := p.ProcessCallback(context.Background(), req); err != nil {
		t.Fatalf("first ProcessCallback() error = %v", err)
	}
	cb, err := p.ProcessCallback(context.Background(), req)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second ProcessCallback() error = %v, want ErrDuplicate", err)
	}
	if cb == nil || cb.Payment.PaymentID != "5bdb1685b93d1c000bde96f2" {
		t.Errorf("duplicate should still return the decoded callback")
	}
	if calls != 1 {
		t.Errorf("sink calls = %d, want 1", calls)
	}
}

func TestProcessor_SinkFailureAllowsRetry(t *testing.T) {
	t.Parallel()

	fail := true
	sink := SinkFunc(func(context.Context, *Callback) error {
		if fail {
			return errors.New("database down")
		}
		return nil
	})
	p := NewProcessor(fakeVerifier{jti: "jti-retry"}, storage.NewMemoryCache(0), sink)
	req := ProcessRequest{Body: []byte(body), Signature: "sig"}

	if _, err := p.ProcessCallback(context.Background(), req); err == nil {
		t.Fatal("ProcessCallback() error = nil, want sink error")
	}
	fail = false
	if _, err := p.ProcessCallback(context.Background(), req); err != nil {
		t.Errorf("retry ProcessCallback() error = %v", err)
	}
}

func TestProcessor_ConcurrentDeliveriesHandledOnce(t *testing.T) {
	t.Parallel()

	const deliveries = 8
	var calls atomic.Int32
	release := make(chan struct{})
	sink := SinkFunc(func(context.Context, *Callback) error {
		calls.Add(1)
		<-release
		return nil
	})
	p := NewProcessor(fakeVerifier{jti: "jti-concurrent"}, storage.NewMemoryCache(0), sink)
	req := ProcessRequest{Body: []byte(body), Signature: "sig"}

	results := make(chan error, deliveries)
	for range deliveries {
		go func() {
			_, err := p.ProcessCallback(context.Background(), req)
			results <- err
		}()
	}

	// One delivery is held in the sink; every other one must return first.
	for i := range deliveries - 1 {
		select {
		case err := <-results:
			if !errors.Is(err, ErrDuplicate) {
				t.Fatalf("delivery %d error = %v, want ErrDuplicate", i, err)
			}
		case <-time.After(5 * time.Second):
			close(release)
			t.Fatalf("only %d of %d duplicate deliveries returned", i, deliveries-1)
		}
	}
	close(release)
	if err := <-results; err != nil {
		t.Errorf("handled delivery error = %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("sink calls = %d, want 1", got)
	}
}

func TestProcessor_SinkFailureReleasesReservation(t *testing.T) {
	t.Parallel()

	seen := storage.NewMemoryCache(0)
	sink := SinkFunc(func(context.Context, *Callback) error { return errors.New("database down") })
	p := NewProcessor(fakeVerifier{jti: "jti-released"}, seen, sink)

	if _, err := p.ProcessCallback(context.Background(), ProcessRequest{Body: []byte(body), Signature: "sig"}); err == nil {
		t.Fatal("ProcessCallback() error = nil, want sink error")
	}
	if _, err := seen.Load(context.Background(), replayKeyPrefix+"jti-released"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load() after sink failure error = %v, want ErrNotFound", err)
	}
}
