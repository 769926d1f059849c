package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNew(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	client, err := New(context.Background(), Config{URL: "redis://" + mr.Addr() + "/0"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := mr.Exists("k"); !got {
		t.Error("key not written to the server")
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "bad url", cfg: Config{URL: "http://localhost"}, wantErr: "failed to parse redis URL"},
		{name: "unreachable", cfg: Config{URL: "redis://" + addr, PingTimeout: 200 * time.Millisecond}, wantErr: "failed to ping redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(context.Background(), tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("New() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
