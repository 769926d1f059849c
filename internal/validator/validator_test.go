package validator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVar_MaxBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "empty", value: ""},
		{name: "ascii at limit", value: strings.Repeat("a", 35)},
		{name: "ascii over limit", value: strings.Repeat("a", 36), wantErr: true},
		{name: "multibyte under rune limit", value: strings.Repeat("é", 20), wantErr: true},
		{name: "multibyte at limit", value: strings.Repeat("é", 17) + "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Var(tt.value, "maxbytes=35")
			if (err != nil) != tt.wantErr {
				t.Errorf("Var(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	type input struct {
		Name   string `validate:"maxbytes=4"`
		Amount int64  `validate:"omitempty,min=1"`
	}

	if got := Fields(input{Name: "ok", Amount: 1}); got != nil {
		t.Errorf("Fields() = %v, want nil", got)
	}

	want := map[string]string{"Name": "maxbytes=4", "Amount": "min=1"}
	if diff := cmp.Diff(want, Fields(input{Name: "ééé", Amount: -1})); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
}
